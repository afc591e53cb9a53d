// Package classify implements the rule-based stages of the job mail
// classification funnel: a cheap subject/sender pre-filter and a denser
// job-board detector that runs on the full message.
package classify

import "regexp"

// Subject patterns that mark a message as job-board or marketing noise.
var subjectSkipPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\b\d+\s+new\s+jobs?\b`),
	regexp.MustCompile(`(?i)\bjobs?\s+(for\s+you|you\s+might\s+like|near\s+you|this\s+week)\b`),
	regexp.MustCompile(`(?i)\bjob\s+(alert|digest|recommendations?|matches)\b`),
	regexp.MustCompile(`(?i)\b(newsletter|unsubscribe)\b`),
	regexp.MustCompile(`(?i)\b(now\s+hiring|we'?re\s+hiring|join\s+our\s+team|open\s+positions?)\b`),
	regexp.MustCompile(`(?i)\b(apply\s+now|hot\s+jobs|top\s+jobs|featured\s+jobs)\b`),
	regexp.MustCompile(`(?i)\b(limited\s+time|premium\s+subscription|special\s+offer)\b`),
}

// Subject patterns that mark a message as part of a real application
// lifecycle and worth deeper analysis.
var subjectAnalyzePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\b(thank\s+you\s+for\s+applying|thanks\s+for\s+applying)\b`),
	regexp.MustCompile(`(?i)\bapplication\s+(received|submitted|confirmation|confirmed)\b`),
	regexp.MustCompile(`(?i)\b(your|regarding\s+your)\s+application\b`),
	regexp.MustCompile(`(?i)\b(interview\s+(invitation|scheduled|confirmation|request)|phone\s+screen|technical\s+interview|on-?site\s+interview)\b`),
	regexp.MustCompile(`(?i)\b(coding\s+(challenge|assessment)|online\s+assessment|take-?home)\b`),
	regexp.MustCompile(`(?i)\b(application\s+(status|update)|status\s+of\s+your\s+application|update\s+on\s+your)\b`),
	regexp.MustCompile(`(?i)\b(offer\s+letter|job\s+offer|pleased\s+to\s+offer|congratulations)\b`),
	regexp.MustCompile(`(?i)\b(unfortunately|not\s+(been\s+)?selected|regret\s+to\s+inform|other\s+candidates|not\s+moving\s+forward)\b`),
	regexp.MustCompile(`(?i)\b(next\s+steps|follow[-\s]?up)\b`),
}

// Two or more of these co-occurring in one subject is a strong job-board
// digest signal. A real application email is about one employer.
var knownEmployers = []string{
	"google", "amazon", "microsoft", "meta", "apple", "netflix",
	"tesla", "uber", "airbnb", "stripe", "salesforce", "oracle",
	"ibm", "intel", "nvidia", "spotify",
}

// Sender domains rejected outright by the subject pre-filter.
var boardDomains = []string{
	"indeed", "linkedin", "glassdoor", "ziprecruiter", "monster",
	"dice", "careerbuilder", "simplyhired", "lensa", "jobcase",
}

// Extended domain list for the second stage. Superset of boardDomains
// plus aggregators and mailing-list providers that slip past stage 1.
var extendedBoardDomains = append(boardDomains, []string{
	"talent.com", "jooble", "adzuna", "snagajob", "theladders",
	"jobleads", "jobrapido", "neuvoo", "mailchimp", "sendgrid.net",
	"substack",
}...)

// Marketing and aggregation phrases typical of digests and newsletters.
var marketingPhrases = []string{
	"based on your search",
	"matching your criteria",
	"you may also be interested",
	"recommended for you",
	"jobs you may like",
	"similar jobs",
	"salary estimate",
	"view all jobs",
	"daily job matches",
	"update your preferences",
	"to stop receiving these emails",
	"manage your subscriptions",
	"if you no longer wish to receive",
}

// Vocabulary for the density heuristic. A digest names many titles and
// many companies; a real application email discusses one of each.
var (
	jobTitleRe = regexp.MustCompile(`(?i)\b(engineer|developer|programmer|analyst|manager|designer|consultant|specialist|coordinator|administrator|architect|scientist|technician|intern|director)\b`)

	companySuffixRe = regexp.MustCompile(`(?i)\b(inc|llc|ltd|corp|corporation|technologies|solutions|systems|labs|group)\b`)
)

const (
	jobTitleNoiseThreshold      = 4
	companySuffixNoiseThreshold = 3
)
