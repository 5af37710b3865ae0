package secrets

// DefaultRules returns the default sensitive-data rules for email snippets:
// API keys, credential assignments, and payment card numbers.
func DefaultRules() []Rule {
	return []Rule{
		{
			ID:          "openai-api-key",
			Description: "OpenAI-style API key",
			Pattern:     `\bsk-[a-zA-Z0-9]{20,}\b`,
			Severity:    "high",
		},
		{
			ID:          "password-assignment",
			Description: "Password assignment",
			Pattern:     `(?i)\bpassword\s*[:=]\s*\S+`,
			Severity:    "high",
		},
		{
			ID:          "secret-assignment",
			Description: "Secret assignment",
			Pattern:     `(?i)\bsecret\s*[:=]\s*\S+`,
			Severity:    "high",
		},
		{
			ID:          "token-assignment",
			Description: "Token assignment",
			Pattern:     `(?i)\btoken\s*[:=]\s*\S+`,
			Severity:    "high",
		},
		{
			ID:          "github-token",
			Description: "GitHub personal access token",
			Pattern:     `gh[pousr]_[A-Za-z0-9]{36}`,
			Severity:    "high",
		},
		{
			ID:          "private-key",
			Description: "Private key block",
			Pattern:     `-----BEGIN (?:RSA |DSA |EC |OPENSSH |PGP )?PRIVATE KEY(?:[- ]BLOCK)?-----`,
			Severity:    "high",
		},
		{
			ID:          "payment-card",
			Description: "Payment card number",
			Pattern:     `\b\d{4}[-\s]?\d{4}[-\s]?\d{4}[-\s]?\d{4}\b`,
			Severity:    "medium",
		},
	}
}
