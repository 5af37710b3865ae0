package mail

import (
	"regexp"
	"sort"
	"strings"
	"time"
	"unicode/utf8"
)

// dateLayouts are the header date formats accepted, tried in order.
var dateLayouts = []string{
	"Mon, 02 Jan 2006 15:04:05 -0700",
	"2006.01.02 15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"02 Jan 2006 15:04:05 -0700",
	"02/01/2006 15:04",
	"01/02/2006 15:04",
	"Jan 02, 2006 15:04:05",
}

var (
	headerRe     = regexp.MustCompile(`(?i)^(From|To|Cc|Date|Subject)\s*[:(]\s*(.*)`)
	senderRe     = regexp.MustCompile(`(.+?)\s*[<(]([^>)]+)[>)]`)
	addressRe    = regexp.MustCompile(`[\w.À-ž]+@[\w.]+`)
	blockSplitRe = regexp.MustCompile(`\n\s*\n(From|Subject|Date)\s*[:(]`)
)

// Parser splits thread files into Email values.
type Parser struct {
	// MaxBodyLength caps message bodies; longer bodies are truncated.
	MaxBodyLength int
}

// NewParser returns a parser with the given body length cap.
func NewParser(maxBodyLength int) *Parser {
	return &Parser{MaxBodyLength: maxBodyLength}
}

// parseDate tries each known layout. Zero time means unparseable.
func parseDate(raw string) time.Time {
	raw = strings.TrimSpace(raw)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t
		}
	}
	return time.Time{}
}

// parseSender extracts (name, address) from a From: header value.
func parseSender(raw string) (name, addr string) {
	if m := senderRe.FindStringSubmatch(raw); m != nil {
		return strings.TrimSpace(m[1]), strings.TrimSpace(m[2])
	}
	addr = addressRe.FindString(raw)
	name = strings.TrimSpace(strings.SplitN(raw, "<", 2)[0])
	return name, addr
}

// splitAddresses splits a To:/Cc: header on commas and semicolons.
func splitAddresses(raw string) []string {
	var out []string
	for _, part := range strings.FieldsFunc(raw, func(r rune) bool {
		return r == ',' || r == ';'
	}) {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// parseBlock parses one email block. Returns nil when the block carries no
// recognizable headers; callers count those as skipped.
func (p *Parser) parseBlock(block, sourceFile string) *Email {
	var (
		headers   = make(map[string]string)
		bodyLines []string
		inBody    bool
	)

	for _, line := range strings.Split(strings.TrimSpace(block), "\n") {
		if inBody {
			bodyLines = append(bodyLines, line)
			continue
		}
		if m := headerRe.FindStringSubmatch(line); m != nil {
			headers[strings.ToLower(m[1])] = strings.TrimSpace(m[2])
			continue
		}
		if len(headers) > 0 && strings.TrimSpace(line) == "" {
			inBody = true
			continue
		}
		bodyLines = append(bodyLines, line)
	}

	if len(headers) == 0 {
		return nil
	}

	name, addr := parseSender(headers["from"])

	body := strings.TrimSpace(strings.Join(bodyLines, "\n"))
	if p.MaxBodyLength > 0 && len(body) > p.MaxBodyLength {
		// Snap the cut to a rune boundary so a multibyte character is
		// never split.
		cut := p.MaxBodyLength
		for cut > 0 && !utf8.RuneStart(body[cut]) {
			cut--
		}
		body = body[:cut]
	}

	rawDate := headers["date"]
	return &Email{
		SenderName:  name,
		SenderEmail: addr,
		To:          splitAddresses(headers["to"]),
		Cc:          splitAddresses(headers["cc"]),
		Date:        parseDate(rawDate),
		Subject:     headers["subject"],
		Body:        body,
		SourceFile:  sourceFile,
		MessageID:   messageID(addr, rawDate, headers["subject"]),
	}
}

// ParseThread splits one raw thread file into emails sorted chronologically.
// Messages without a parseable date sort after dated ones, keeping their
// relative file order. The second return value counts unparseable blocks.
func (p *Parser) ParseThread(raw, sourceFile string) ([]Email, int) {
	blocks := splitBlocks(raw)

	var (
		emails  []Email
		skipped int
	)
	for _, block := range blocks {
		parsed := p.parseBlock(block, sourceFile)
		if parsed == nil {
			skipped++
			continue
		}
		emails = append(emails, *parsed)
	}

	sortEmails(emails)
	for i := range emails {
		emails[i].Seq = i
	}
	return emails, skipped
}

// splitBlocks splits raw thread text on a blank line followed by a header
// keyword. The lookahead header stays with the following block.
func splitBlocks(raw string) []string {
	locs := blockSplitRe.FindAllStringSubmatchIndex(raw, -1)
	if len(locs) == 0 {
		return []string{raw}
	}

	var blocks []string
	prev := 0
	for _, loc := range locs {
		blocks = append(blocks, raw[prev:loc[0]])
		prev = loc[2] // start of the header keyword
	}
	blocks = append(blocks, raw[prev:])
	return blocks
}

// sortEmails orders by date ascending with zero dates last; ties keep the
// original order (stable sort) so within-file position is preserved.
func sortEmails(emails []Email) {
	sort.SliceStable(emails, func(i, j int) bool {
		di, dj := emails[i].Date, emails[j].Date
		switch {
		case di.IsZero() && dj.IsZero():
			return false
		case di.IsZero():
			return false
		case dj.IsZero():
			return true
		default:
			return di.Before(dj)
		}
	})
}
