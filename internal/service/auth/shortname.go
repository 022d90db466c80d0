package auth

import "strconv"

const maxShortNameAttempts = 100

// shortNameBase derives the short-name stem from a company name: the first
// six alphanumeric characters, uppercased. Names with no alphanumeric
// characters fall back to a fixed stem rather than an empty one.
func shortNameBase(name string) string {
	base := make([]byte, 0, 6)
	for i := 0; i < len(name) && len(base) < 6; i++ {
		c := name[i]
		switch {
		case c >= 'a' && c <= 'z':
			base = append(base, c-('a'-'A'))
		case (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9'):
			base = append(base, c)
		}
	}
	if len(base) == 0 {
		return "ORG"
	}
	return string(base)
}

// shortNameCandidate returns the nth candidate for a stem: the stem itself,
// then the stem with a numeric suffix starting at 2.
func shortNameCandidate(base string, attempt int) string {
	if attempt == 0 {
		return base
	}
	return base + strconv.Itoa(attempt+1)
}
