// Package sanitize provides input hardening for untrusted email content:
// prompt-injection neutralization for text bound for an LLM, and path
// validation for files read from the input directory.
package sanitize

import "regexp"

// Marker replaces neutralized instruction-like phrases.
const Marker = "[SANITIZED]"

// injectionPatterns match instruction-like phrases embedded in email text.
// Email bodies are untrusted; anything that reads like a directive to the
// model is neutralized before transmission.
var injectionPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)ignore (?:all )?(?:previous |above )?instructions`),
	regexp.MustCompile(`(?i)you are now`),
	regexp.MustCompile(`(?i)new instructions`),
	regexp.MustCompile(`(?i)forget (?:all )?(?:previous )?(?:instructions|rules)`),
	regexp.MustCompile(`(?i)disregard (?:all )?(?:previous )?(?:instructions|rules)`),
	regexp.MustCompile(`(?i)system\s*prompt`),
	regexp.MustCompile(`(?i)jailbreak`),
}

// NeutralizeInstructions replaces instruction-like phrases in text with
// Marker and returns the sanitized text plus the number of replacements.
func NeutralizeInstructions(text string) (string, int) {
	total := 0
	for _, re := range injectionPatterns {
		matches := re.FindAllStringIndex(text, -1)
		if len(matches) == 0 {
			continue
		}
		total += len(matches)
		text = re.ReplaceAllString(text, Marker)
	}
	return text, total
}
