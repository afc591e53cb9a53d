package classify

import (
	"regexp"
	"strings"

	"github.com/masa23/jobmaild/mailparser"
)

// Verdict is the outcome of the subject pre-filter.
type Verdict int

const (
	VerdictSkip Verdict = iota
	VerdictAnalyze
)

func (v Verdict) String() string {
	if v == VerdictAnalyze {
		return "analyze"
	}
	return "skip"
}

var employerRe = regexp.MustCompile(`(?i)\b(` + strings.Join(knownEmployers, "|") + `)\b`)

// ClassifySubject decides from subject and sender alone whether a message
// is worth fetching and analyzing. The default is Skip: missing a real
// application is cheaper than running spam through the AI stage.
func ClassifySubject(subject, sender string) Verdict {
	for _, re := range subjectSkipPatterns {
		if re.MatchString(subject) {
			return VerdictSkip
		}
	}

	if distinctEmployers(subject) >= 2 {
		return VerdictSkip
	}

	if matchesDomain(sender, boardDomains) {
		return VerdictSkip
	}

	for _, re := range subjectAnalyzePatterns {
		if re.MatchString(subject) {
			return VerdictAnalyze
		}
	}

	// "application" plus a personalizing token is a weak but usable signal
	lower := strings.ToLower(subject)
	if strings.Contains(lower, "application") {
		for _, tok := range []string{"your", "regarding", "update", "status"} {
			if strings.Contains(lower, tok) {
				return VerdictAnalyze
			}
		}
	}

	return VerdictSkip
}

func distinctEmployers(subject string) int {
	seen := map[string]struct{}{}
	for _, m := range employerRe.FindAllString(subject, -1) {
		seen[strings.ToLower(m)] = struct{}{}
	}
	return len(seen)
}

// matchesDomain checks the sender's address domain only; the display
// name must not trip the list.
func matchesDomain(sender string, domains []string) bool {
	_, _, host := mailparser.ParseAddress(sender)
	target := strings.ToLower(host)
	if target == "" {
		target = strings.ToLower(sender)
	}
	for _, d := range domains {
		if strings.Contains(target, d) {
			return true
		}
	}
	return false
}
