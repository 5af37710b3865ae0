package mail

import (
	"regexp"
	"sort"
	"strings"
)

// UnclassifiedProject is the fallback key when no project can be derived
// from a subject line.
const UnclassifiedProject = "Unclassified"

var (
	replyPrefixRe   = regexp.MustCompile(`(?i)^(?:Re|Fwd|FW)\s*:\s*`)
	ticketIDRe      = regexp.MustCompile(`\b[A-Z]+-\d+\b`)
	numericDateRe   = regexp.MustCompile(`\b\d{4}[.\-/]\d{2}[.\-/]\d{2}\b`)
	writtenDateRe   = regexp.MustCompile(`\b\d{1,2}\s+(?:Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Oct|Nov|Dec)\s+\d{4}\b`)
	projectPrefixRe = regexp.MustCompile(`(?i)^(?:Re\s*:\s*|Fwd\s*:\s*)*(.+?)\s*[-–]\s`)
)

// subjectSkipWords are prefix candidates that are never project names.
var subjectSkipWords = map[string]bool{
	"re": true, "fwd": true, "fw": true, "subject": true,
	"urgent": true, "small": true,
}

// ProjectThreads maps a project key to its full chronological email
// sequence across all thread files.
type ProjectThreads map[string][]Email

// ProjectKey derives the project grouping key for a subject line.
// Priority: an explicit "Project – topic" prefix, then the normalized
// subject, then UnclassifiedProject.
func ProjectKey(subject string) string {
	if name := explicitProjectName(subject); name != "" {
		return name
	}
	if norm := normalizeSubject(subject); norm != "" {
		return norm
	}
	return UnclassifiedProject
}

// explicitProjectName extracts a project name from a "Name – topic" subject.
func explicitProjectName(subject string) string {
	m := projectPrefixRe.FindStringSubmatch(strings.TrimSpace(subject))
	if m == nil {
		return ""
	}
	candidate := strings.TrimSpace(m[1])
	if len(candidate) <= 2 || subjectSkipWords[strings.ToLower(candidate)] {
		return ""
	}
	return candidate
}

// normalizeSubject builds a stable fallback key from a subject line:
// strips reply prefixes (possibly nested), ticket IDs, and dates, then
// lowercases and collapses whitespace. Keeps replies to the same thread
// from fragmenting into separate projects.
func normalizeSubject(subject string) string {
	text := strings.TrimSpace(subject)
	text = replyPrefixRe.ReplaceAllString(text, "")
	text = replyPrefixRe.ReplaceAllString(text, "")
	text = ticketIDRe.ReplaceAllString(text, "")
	text = numericDateRe.ReplaceAllString(text, "")
	text = writtenDateRe.ReplaceAllString(text, "")
	return strings.Join(strings.Fields(strings.ToLower(text)), " ")
}

// GroupByProject groups emails by project key and establishes the ordering
// invariant: within each project, messages are sorted by date (zero dates
// last) with stable ties, then assigned their project-wide Seq.
func GroupByProject(emails []Email) ProjectThreads {
	projects := make(ProjectThreads)
	for _, e := range emails {
		key := ProjectKey(e.Subject)
		projects[key] = append(projects[key], e)
	}

	for key, list := range projects {
		sortEmails(list)
		for i := range list {
			list[i].Seq = i
		}
		projects[key] = list
	}
	return projects
}

// Keys returns project keys in lexical order for deterministic iteration.
func (p ProjectThreads) Keys() []string {
	keys := make([]string, 0, len(p))
	for k := range p {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
