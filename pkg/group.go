package dupefind

import (
	"sync"
)

// DuplicateSet groups records that share both size and full-content
// fingerprint. Members are handles into the Inventory's record storage,
// listed in record order; a set always has at least two members.
type DuplicateSet struct {
	Fingerprint string
	Size        uint64
	Members     []int
}

// Stats counts the work performed by the fingerprint pass. The counters
// let callers assert that size bucketing really is a strict pre-filter:
// FilesFingerprinted never exceeds the number of size-shared files.
type Stats struct {
	FilesFingerprinted int
	BytesFingerprinted uint64
	FilesRejected      int // dropped by the first-block reject pass
	FilesSkipped       int // vanished or unreadable between stat and hash
}

// Grouper computes content fingerprints for promoted size buckets and
// groups byte-identical files into duplicate sets.
type Grouper struct {
	algorithm  *FingerprintAlgorithm
	fastReject bool
	workers    int
	stats      Stats
}

// NewGrouper creates a grouper. workers bounds the fingerprint fan-out;
// values below 1 are treated as 1. fastReject enables the first-block
// reject pass, which can only split buckets, never merge them, so the full
// fingerprint stays the ground truth for set membership.
func NewGrouper(algorithm *FingerprintAlgorithm, fastReject bool, workers int) *Grouper {
	if workers < 1 {
		workers = 1
	}
	return &Grouper{
		algorithm:  algorithm,
		fastReject: fastReject,
		workers:    workers,
	}
}

// Stats returns the counters accumulated across Group calls.
func (g *Grouper) Stats() Stats {
	return g.stats
}

// Group fingerprints every promoted size bucket of the inventory and
// returns the duplicate sets in deterministic order: buckets in first-seen
// size order, sets within a bucket in first-member order, members in
// record order. Files that disappear or become unreadable between the
// inventory stat and the fingerprint pass are skipped with a warning;
// the rest of their bucket still groups.
func (g *Grouper) Group(inv *Inventory) []DuplicateSet {
	defer VerboseEnter()()

	var sets []DuplicateSet
	for _, bucket := range inv.SizeBuckets() {
		sets = append(sets, g.groupBucket(inv, bucket)...)
	}

	VerboseLog(1, "grouper: %d files fingerprinted (%s), %d rejected by first block, %d duplicate sets",
		g.stats.FilesFingerprinted, FingerprintTypeName(g.algorithm.TypeID), g.stats.FilesRejected, len(sets))
	return sets
}

// groupBucket narrows one size bucket to its duplicate sets.
func (g *Grouper) groupBucket(inv *Inventory, bucket SizeBucket) []DuplicateSet {
	candidates := bucket.Members
	if g.fastReject && bucket.Size > 0 {
		candidates = g.rejectByFirstBlock(inv, candidates)
	}
	if len(candidates) < 2 {
		return nil
	}

	fingerprints := g.fingerprintAll(inv, candidates)

	// Regroup in record order so membership is deterministic regardless of
	// worker completion order.
	byFingerprint := make(map[string][]int)
	var order []string
	for _, member := range candidates {
		sum, ok := fingerprints[member]
		if !ok {
			continue
		}
		if _, seen := byFingerprint[sum]; !seen {
			order = append(order, sum)
		}
		byFingerprint[sum] = append(byFingerprint[sum], member)
	}

	var sets []DuplicateSet
	for _, sum := range order {
		members := byFingerprint[sum]
		if len(members) < 2 {
			continue
		}
		sets = append(sets, DuplicateSet{
			Fingerprint: sum,
			Size:        bucket.Size,
			Members:     members,
		})
	}
	return sets
}

// rejectByFirstBlock splits the bucket by a cheap hash of each file's
// leading block and keeps only members whose block is shared. Read
// failures here count as hash errors: the file is dropped, the bucket
// survives.
func (g *Grouper) rejectByFirstBlock(inv *Inventory, members []int) []int {
	keys := make(map[int]uint64, len(members))
	counts := make(map[uint64]int, len(members))
	for _, member := range members {
		rec := inv.Record(member)
		key, err := FastRejectKey(rec.AbsPath)
		if err != nil {
			Warnf("%s: %v", rec.Path, err)
			g.stats.FilesSkipped++
			continue
		}
		keys[member] = key
		counts[key]++
	}

	var survivors []int
	for _, member := range members {
		key, ok := keys[member]
		if !ok {
			continue
		}
		if counts[key] < 2 {
			g.stats.FilesRejected++
			if IsDebugEnabled("group") {
				VerboseLog(3, "groupBucket: first block unique, rejecting %s", inv.Record(member).Path)
			}
			continue
		}
		survivors = append(survivors, member)
	}
	return survivors
}

// fingerprintAll computes the full-content fingerprint of every candidate
// over a bounded worker pool. Each worker holds at most one mapping at a
// time, so peak mapped memory is one file per worker. Accumulation is
// serialized in this goroutine.
func (g *Grouper) fingerprintAll(inv *Inventory, candidates []int) map[int]string {
	type result struct {
		member int
		sum    string
		err    error
	}

	jobs := make(chan int, len(candidates))
	results := make(chan result, len(candidates))

	workers := g.workers
	if workers > len(candidates) {
		workers = len(candidates)
	}

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for member := range jobs {
				rec := inv.Record(member)
				sum, err := FingerprintFile(rec.AbsPath, rec.Size, g.algorithm)
				results <- result{member: member, sum: sum, err: err}
			}
		}()
	}

	for _, member := range candidates {
		jobs <- member
	}
	close(jobs)

	go func() {
		wg.Wait()
		close(results)
	}()

	fingerprints := make(map[int]string, len(candidates))
	for res := range results {
		if res.err != nil {
			Warnf("%s: %v", inv.Record(res.member).Path, res.err)
			g.stats.FilesSkipped++
			continue
		}
		fingerprints[res.member] = res.sum
		g.stats.FilesFingerprinted++
		g.stats.BytesFingerprinted += inv.Record(res.member).Size
	}
	return fingerprints
}
