package classify

import (
	"strings"
)

// IsBoardNoise applies the second, denser rule set to a message that
// already passed the subject pre-filter. It catches job-board digests
// and newsletters whose subjects look like genuine application mail.
func IsBoardNoise(subject, sender, body string) bool {
	if matchesDomain(sender, extendedBoardDomains) {
		return true
	}

	combined := subject + " " + sender + " " + body
	lower := strings.ToLower(combined)

	for _, phrase := range marketingPhrases {
		if strings.Contains(lower, phrase) {
			return true
		}
	}

	// A single application email discusses one role at one company.
	// Many titles or many company suffixes means a digest.
	if len(jobTitleRe.FindAllString(combined, -1)) > jobTitleNoiseThreshold {
		return true
	}
	if len(companySuffixRe.FindAllString(combined, -1)) > companySuffixNoiseThreshold {
		return true
	}

	return false
}
