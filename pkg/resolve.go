package dupefind

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// clearSequence clears the terminal and homes the cursor.
const clearSequence = "\x1b[2J\x1b[H"

// Console is the terminal collaborator for the resolution loop: a blocking
// line reader, an output stream, and an optional clear-screen control
// issued once before the first duplicate set is shown.
type Console struct {
	in          *bufio.Reader
	out         io.Writer
	ClearScreen bool
}

// NewConsole wraps the given streams. ClearScreen defaults to false so
// tests and piped output stay clean; the CLI turns it on for terminals.
func NewConsole(in io.Reader, out io.Writer) *Console {
	return &Console{
		in:  bufio.NewReader(in),
		out: out,
	}
}

// ReadLine blocks for one newline-delimited line. A final unterminated
// line is returned as-is; once input is exhausted every call yields an
// empty line, which the resolution loop treats as keep-everything.
func (c *Console) ReadLine() string {
	line, err := c.in.ReadString('\n')
	if err != nil && err != io.EOF {
		Warnf("failed to read selection: %v", err)
		return ""
	}
	return strings.TrimSuffix(line, "\n")
}

// Printf writes a formatted line to the output stream.
func (c *Console) Printf(format string, args ...interface{}) {
	fmt.Fprintf(c.out, format, args...)
}

// Resolver walks the operator through every duplicate set in discovery
// order and deletes the members they select. The protocol per set is
// strictly render, read one line, validate, act; validation failures
// abandon the whole line for that set and the loop moves on.
type Resolver struct {
	console *Console
	inv     *Inventory

	// removeFile performs the actual deletion; tests substitute it.
	removeFile func(path string) error
}

// NewResolver creates a resolver over the inventory the sets reference.
func NewResolver(console *Console, inv *Inventory) *Resolver {
	return &Resolver{
		console:    console,
		inv:        inv,
		removeFile: os.Remove,
	}
}

// Resolve presents each set and applies the operator's selections. Any
// failure actually deleting a selected file is fatal: the error is
// returned immediately rather than risking a partially-applied, silently
// misreported selection. If no sets were found at all, that is reported
// once and the loop ends.
func (r *Resolver) Resolve(sets []DuplicateSet) error {
	defer VerboseEnter()()

	if len(sets) == 0 {
		r.console.Printf("no duplicate files found\n")
		return nil
	}

	if r.console.ClearScreen {
		r.console.Printf(clearSequence)
	}

	for i, set := range sets {
		r.renderSet(i+1, len(sets), set)

		line := r.console.ReadLine()
		selection, ok := r.validateSelection(line, len(set.Members))
		if !ok {
			continue
		}

		for _, idx := range selection {
			rec := r.inv.Record(set.Members[idx])
			if err := r.removeFile(rec.AbsPath); err != nil {
				return fmt.Errorf("failed to delete %s: %w", rec.Path, err)
			}
			r.console.Printf("deleted %s\n", rec.Path)
		}
	}

	return nil
}

// renderSet prints the numbered member list plus the shared size and the
// aggregate size, so the operator can see how much space the set pins down.
func (r *Resolver) renderSet(num, total int, set DuplicateSet) {
	aggregate := set.Size * uint64(len(set.Members))
	r.console.Printf("\nduplicate set %d of %d: %d files, %d bytes each (%d bytes total)\n",
		num, total, len(set.Members), set.Size, aggregate)
	for i, member := range set.Members {
		r.console.Printf("  [%d] %s\n", i, r.inv.Record(member).Path)
	}
	r.console.Printf("indices to delete (empty line keeps all): ")
}

// validateSelection parses a whitespace-separated list of zero-based
// indices. The whole line is validated before anything is applied: one
// malformed or out-of-range token abandons the entire selection for this
// set rather than silently applying the rest. An empty line is a legal
// no-op and returns an empty selection.
func (r *Resolver) validateSelection(line string, memberCount int) ([]int, bool) {
	tokens := strings.Fields(line)
	if len(tokens) == 0 {
		return nil, true
	}

	selection := make([]int, 0, len(tokens))
	for _, token := range tokens {
		idx, err := strconv.Atoi(token)
		if err != nil {
			Warnf("invalid selection %q: not an integer, skipping this set", token)
			return nil, false
		}
		if idx < 0 || idx >= memberCount {
			Warnf("selection %d out of range [0,%d), skipping this set", idx, memberCount)
			return nil, false
		}
		selection = append(selection, idx)
	}

	return selection, true
}
