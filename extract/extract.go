// Package extract derives display values for the employer and the role
// from sender, subject and body. All functions are pure and return a
// placeholder instead of an empty string.
package extract

import (
	"regexp"
	"strings"

	"github.com/masa23/jobmaild/mailparser"
)

const (
	UnknownCompany  = "Unknown Company"
	UnknownPosition = "Unknown Position"
)

var (
	noiseTokenRe    = regexp.MustCompile(`(?i)noreply|no-reply|donotreply`)
	companySuffixRe = regexp.MustCompile(`(?i)\s+(inc|corp|ltd|llc|careers|jobs|talent|hr|recruiting)\.?$`)

	// consumer webmail hosts never name the employer
	webmailDomains = []string{"gmail", "yahoo", "outlook", "hotmail", "icloud", "aol", "proton"}
)

// Company extracts the employer name from the From header. The sender
// domain wins over the display name unless it is a consumer webmail host.
func Company(sender, subject string) string {
	name, _, host := mailparser.ParseAddress(sender)

	company := strings.TrimSpace(noiseTokenRe.ReplaceAllString(name, ""))

	if host != "" && !isWebmail(host) {
		if label, _, ok := strings.Cut(host, "."); ok && label != "" {
			company = label
		} else if host != "" {
			company = host
		}
	}

	company = strings.TrimSpace(companySuffixRe.ReplaceAllString(company, ""))
	if company == "" {
		return UnknownCompany
	}
	return company
}

func isWebmail(host string) bool {
	lower := strings.ToLower(host)
	for _, d := range webmailDomains {
		if strings.Contains(lower, d) {
			return true
		}
	}
	return false
}

// Ordered fallbacks, first match wins.
var positionPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)position:\s*(.+?)(?:[.,;]|\s{2,}|$)`),
	regexp.MustCompile(`(?i)role:\s*(.+?)(?:[.,;]|\s{2,}|$)`),
	regexp.MustCompile(`(?i)for\s+(?:the\s+)?(.+?)\s+(?:position|role|job)\b`),
	regexp.MustCompile(`(?i)(\S+(?:\s+\S+)?)\s+(?:position|role|job)\b`),
	regexp.MustCompile(`(?i)\b(software engineer|developer|analyst|manager|coordinator|specialist|associate)\b`),
}

// Position extracts the role from subject and body.
func Position(subject, body string) string {
	combined := subject + " " + body

	for _, re := range positionPatterns {
		m := re.FindStringSubmatch(combined)
		if m == nil {
			continue
		}
		if p := strings.TrimSpace(m[1]); p != "" {
			return p
		}
	}

	return UnknownPosition
}
