package mail

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/fyrsmithlabs/threadscan/internal/sanitize"
)

// rosterFileName is reserved for the colleague roster and is never parsed
// as a thread file.
const rosterFileName = "colleagues.txt"

// LoadResult is what a directory load produced.
type LoadResult struct {
	Emails []Email

	// Skipped counts blocks that could not be parsed into a message.
	Skipped int

	// Blocked counts files rejected by path validation.
	Blocked int
}

// LoadDirectory reads every .txt thread file under dir and parses it.
// Files are visited in name order so repeated runs see identical input
// sequences. Each file path is validated against the input root before
// opening; entries that escape the root are counted and skipped, never
// read.
func (p *Parser) LoadDirectory(dir string) (*LoadResult, error) {
	root, err := sanitize.ValidatePath(dir, "")
	if err != nil {
		return nil, fmt.Errorf("invalid input directory: %w", err)
	}

	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("read input directory: %w", err)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !strings.HasSuffix(name, ".txt") || strings.EqualFold(name, rosterFileName) {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)

	result := &LoadResult{}
	for _, name := range names {
		full, err := sanitize.ValidatePath(filepath.Join(root, name), root)
		if err != nil {
			result.Blocked++
			continue
		}

		raw, err := os.ReadFile(full)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", name, err)
		}

		emails, skipped := p.ParseThread(string(raw), name)
		result.Emails = append(result.Emails, emails...)
		result.Skipped += skipped
	}

	return result, nil
}
