// Package dupefind provides duplicate-file detection and interactive
// resolution for a directory tree.
//
// # Core API
//
// The pipeline runs in three phases: a deterministic directory walk feeds
// an Inventory that buckets files by size, a Grouper fingerprints every
// size-shared candidate and groups byte-identical files into duplicate
// sets, and a Resolver presents each set to the operator for selective
// deletion:
//
//	inv := dupefind.NewInventory()
//	walker := dupefind.NewWalker("/path/to/dir", nil, 0)
//	err := walker.Walk(func(e dupefind.WalkEntry) {
//		inv.Add(dupefind.FileRecord{Path: e.RelPath, AbsPath: e.AbsPath, Inode: e.Inode, Size: e.Size})
//	})
//
//	algo, _ := dupefind.GetFingerprintAlgorithm("md5")
//	grouper := dupefind.NewGrouper(algo, true, 4)
//	sets := grouper.Group(inv)
//
//	resolver := dupefind.NewResolver(dupefind.NewConsole(os.Stdin, os.Stdout), inv)
//	err = resolver.Resolve(sets)
//
// Or use Run, which wires the phases together from a Config.
//
// # Configuration
//
// Enable debug output:
//
//	dupefind.SetDebugFlags("walk,group")
//	dupefind.SetVerboseLevel(2)
//
// # Note on Internal API
//
// External consumers should primarily use Run, Inventory, Grouper,
// Resolver, and the configuration functions. Lower-level helpers such as
// OpenMapped and FastRejectKey are building blocks and may change.
package dupefind
