package mail

import (
	"bufio"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
)

// Colleague is one entry from the optional roster file.
type Colleague struct {
	Name string
	Role string
}

// Roster maps a lowercase email address to the colleague behind it.
// Used only to enrich report display and enrichment prompt context —
// its absence must not alter flag classification.
type Roster map[string]Colleague

// rosterLineRe matches "Role: Name <address>" roster lines.
var rosterLineRe = regexp.MustCompile(`^(.+?)\s*:\s*(.+?)\s*[<(]([\w.À-ž]+@[\w.]+)[>)]`)

// LoadRoster reads the colleagues file from dir if present, matching the
// name case-insensitively. A missing or unreadable file yields an empty
// roster, never an error — the pipeline degrades gracefully without role
// context.
func LoadRoster(dir string) Roster {
	roster := make(Roster)

	f, err := os.Open(filepath.Join(dir, findRosterFile(dir)))
	if err != nil {
		return roster
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		m := rosterLineRe.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		roster[strings.ToLower(m[3])] = Colleague{
			Name: strings.TrimSpace(m[2]),
			Role: strings.TrimSpace(m[1]),
		}
	}
	return roster
}

// findRosterFile returns the directory entry matching the roster name
// regardless of case, or the canonical name when none exists.
func findRosterFile(dir string) string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return rosterFileName
	}
	for _, entry := range entries {
		if !entry.IsDir() && strings.EqualFold(entry.Name(), rosterFileName) {
			return entry.Name()
		}
	}
	return rosterFileName
}

// MatchesSnippet returns the colleagues whose names appear in the given
// text, in stable (sorted address) order.
func (r Roster) MatchesSnippet(text string) []Colleague {
	lower := strings.ToLower(text)

	var addrs []string
	for addr, c := range r {
		if c.Name != "" && strings.Contains(lower, strings.ToLower(c.Name)) {
			addrs = append(addrs, addr)
		}
	}
	sort.Strings(addrs)

	out := make([]Colleague, 0, len(addrs))
	for _, addr := range addrs {
		out = append(out, r[addr])
	}
	return out
}
