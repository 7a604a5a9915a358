package dupefind

import (
	"fmt"
)

// Options configures one end-to-end duplicate scan.
type Options struct {
	Root    string   // directory tree to search
	Config  *Config  // loaded configuration; nil uses built-in defaults
	Console *Console // terminal collaborator for the resolution loop
}

// Run executes the whole pipeline: walk the root into an inventory,
// fingerprint the size-shared candidates into duplicate sets, then hand
// the sets to the interactive resolution loop. The returned error is
// fatal: an unreadable root or a deletion that failed. Everything
// recoverable has already been logged as a warning by the time Run
// returns nil.
func Run(opts Options) error {
	defer VerboseEnter()()

	fingerprintCfg := &FingerprintConfig{Algorithm: "md5", FastReject: true}
	scanCfg := &ScanConfig{}
	performanceCfg := &PerformanceConfig{HashWorkers: 4}
	if opts.Config != nil {
		fingerprintCfg = opts.Config.GetFingerprintConfig()
		scanCfg = opts.Config.GetScanConfig()
		performanceCfg = opts.Config.GetPerformanceConfig()
	}

	algorithm, err := GetFingerprintAlgorithm(fingerprintCfg.Algorithm)
	if err != nil {
		return err
	}

	excludes, err := NewExcludeManager(scanCfg.Exclude)
	if err != nil {
		return err
	}

	walker := NewWalker(opts.Root, excludes, scanCfg.MinSize)
	inv, err := BuildInventory(walker)
	if err != nil {
		return fmt.Errorf("scan failed: %w", err)
	}

	grouper := NewGrouper(algorithm, fingerprintCfg.FastReject, performanceCfg.HashWorkers)
	sets := grouper.Group(inv)

	resolver := NewResolver(opts.Console, inv)
	return resolver.Resolve(sets)
}

// InitDebugFlags initialises debug flags - for CLI compatibility
func InitDebugFlags(flagsStr string) {
	if flagsStr != "" {
		SetDebugFlags(flagsStr)
	}
}

// GetDebugEnabled returns whether a debug flag is enabled - public alternative to IsDebugEnabled
func GetDebugEnabled(flag string) bool {
	return IsDebugEnabled(flag)
}
