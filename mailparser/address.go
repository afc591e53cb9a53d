package mailparser

import (
	"strings"
)

// ParseAddress splits a From header like `Acme Careers <careers@acme.com>`
// into the display name, the mailbox and the host. A bare address without
// angle brackets is accepted too.
func ParseAddress(s string) (name, mbox, host string) {
	var quoted, escape bool
	start, end := -1, -1

	for i, r := range s {
		switch {
		case escape:
			escape = false
		case r == '\\':
			escape = true
		case r == '"':
			quoted = !quoted
		case r == '<' && !quoted:
			start = i
		case r == '>' && !quoted:
			end = i
		}
	}

	address := s
	if start >= 0 && end > start {
		address = s[start+1 : end]
		name = strings.TrimSpace(strings.Trim(strings.TrimSpace(s[:start]), `"`))
	}

	mbox, host = splitHostDomain(strings.TrimSpace(address))
	return name, mbox, host
}

func splitHostDomain(address string) (mbox, host string) {
	at := strings.LastIndex(address, "@")
	if at < 0 {
		// not an address, treat the whole string as the mailbox
		return strings.TrimSpace(address), ""
	}
	mbox = strings.TrimSpace(address[:at])
	host = strings.TrimSpace(address[at+1:])
	return mbox, host
}
