// Package mail turns raw .txt thread files into normalized, chronologically
// ordered email messages grouped by project.
//
// Everything downstream depends on the ordering invariant established here:
// within a project the email sequence is total and stable (date ascending,
// ties broken by source file then position), because resolution detection
// relies on "later than" comparisons being unambiguous.
package mail

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Email is a single normalized message. Immutable once produced.
type Email struct {
	SenderName  string
	SenderEmail string
	To          []string
	Cc          []string

	// Date is the parsed header timestamp; the zero value means the
	// header was missing or unparseable.
	Date time.Time

	Subject string

	// Body is the message text, capped at the configured maximum length.
	Body string

	// SourceFile is the thread file the message came from.
	SourceFile string

	// MessageID is a content-derived identifier used for deduplication.
	MessageID string

	// Seq is the message's position within its project's chronological
	// sequence, assigned after grouping and sorting.
	Seq int
}

// HasDate reports whether the message carries a usable timestamp.
func (e *Email) HasDate() bool { return !e.Date.IsZero() }

// messageID derives a stable identifier from sender, raw date, and subject.
func messageID(sender, rawDate, subject string) string {
	sum := sha256.Sum256([]byte(sender + "|" + rawDate + "|" + subject))
	return hex.EncodeToString(sum[:])[:16]
}
