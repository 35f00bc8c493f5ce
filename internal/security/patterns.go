package security

import "regexp"

// SensitiveFiles hold credentials and must never be committed.
var SensitiveFiles = []string{
	".env",
	"credentials.json",
	"token.json",
	"token.pickle",
	".env.local",
	".env.production",
}

// SourcePatterns select the files scanned for hard-coded secrets: the legacy
// update scripts and the Apps Script files that hold settings.
var SourcePatterns = []string{
	"update-scripts.js",
	"update_scripts.py",
	"**/Config.gs",
	"**/Main.gs",
}

type secretPattern struct {
	name string
	re   *regexp.Regexp
}

// secretPatterns match assignments of secret-looking literals.
var secretPatterns = []secretPattern{
	{"client_id", regexp.MustCompile(`(?i)client_id.*=.*['"][^'"]{20,}['"]`)},
	{"client_secret", regexp.MustCompile(`(?i)client_secret.*=.*['"][^'"]{20,}['"]`)},
	{"api_key", regexp.MustCompile(`(?i)api_key.*=.*['"][^'"]{10,}['"]`)},
	{"password", regexp.MustCompile(`(?i)password.*=.*['"][^'"]{5,}['"]`)},
	{"token", regexp.MustCompile(`(?i)token.*=.*['"][^'"]{20,}['"]`)},
	{"secret", regexp.MustCompile(`(?i)secret.*=.*['"][^'"]{10,}['"]`)},
	{"GOOGLE_CLIENT_ID", regexp.MustCompile(`(?i)GOOGLE_CLIENT_ID.*=.*[^_]{20,}`)},
	{"GOOGLE_CLIENT_SECRET", regexp.MustCompile(`(?i)GOOGLE_CLIENT_SECRET.*=.*[^_]{20,}`)},
}

// findSecrets returns the names of the patterns content matches.
func findSecrets(content []byte) []string {
	var names []string
	for _, p := range secretPatterns {
		if p.re.Match(content) {
			names = append(names, p.name)
		}
	}
	return names
}
