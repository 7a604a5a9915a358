package dupefind

// FileRecord is the immutable metadata captured for one scanned file.
// Records are created at walk time, stored once in the Inventory, and
// referenced everywhere else by index.
type FileRecord struct {
	Path    string // root-relative path
	AbsPath string
	Inode   uint64
	Size    uint64
}

// SizeBucket is a group of records sharing an identical byte length,
// identified by handles into the Inventory's record storage.
type SizeBucket struct {
	Size    uint64
	Members []int
}

// Inventory owns every FileRecord and buckets record handles by size.
// Bucket membership preserves insertion order, and bucket iteration
// follows first-seen size order, so a deterministic walk produces a
// deterministic inventory.
type Inventory struct {
	records   []FileRecord
	buckets   map[uint64][]int
	sizeOrder []uint64
}

// NewInventory creates an empty inventory
func NewInventory() *Inventory {
	return &Inventory{
		buckets: make(map[uint64][]int),
	}
}

// Add stores a record and buckets its handle by size, returning the handle.
func (inv *Inventory) Add(rec FileRecord) int {
	idx := len(inv.records)
	inv.records = append(inv.records, rec)

	if _, exists := inv.buckets[rec.Size]; !exists {
		inv.sizeOrder = append(inv.sizeOrder, rec.Size)
	}
	inv.buckets[rec.Size] = append(inv.buckets[rec.Size], idx)

	return idx
}

// Record returns the record for a handle.
func (inv *Inventory) Record(idx int) FileRecord {
	return inv.records[idx]
}

// Len returns the number of records held.
func (inv *Inventory) Len() int {
	return len(inv.records)
}

// SizeBuckets returns, in first-seen size order, every bucket holding at
// least two records. A single file of a given size cannot duplicate
// anything, so singleton buckets are never promoted to fingerprinting.
func (inv *Inventory) SizeBuckets() []SizeBucket {
	var promoted []SizeBucket
	for _, size := range inv.sizeOrder {
		members := inv.buckets[size]
		if len(members) < 2 {
			continue
		}
		promoted = append(promoted, SizeBucket{Size: size, Members: members})
	}
	return promoted
}

// BuildInventory walks the tree and collects every reported file into a
// fresh inventory. Per-entry walk failures are already handled inside the
// walker; only a root failure surfaces here.
func BuildInventory(walker *Walker) (*Inventory, error) {
	inv := NewInventory()
	err := walker.Walk(func(e WalkEntry) {
		inv.Add(FileRecord{
			Path:    e.RelPath,
			AbsPath: e.AbsPath,
			Inode:   e.Inode,
			Size:    e.Size,
		})
	})
	if err != nil {
		return nil, err
	}

	VerboseLog(1, "inventory: %d files in %d size buckets", inv.Len(), len(inv.buckets))
	return inv, nil
}
