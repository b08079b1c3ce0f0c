package scan

import "strings"

// FirstMatch returns the first target, in list order, contained in text.
// Matching is case-sensitive substring containment on the raw text.
func FirstMatch(text string, targets []string) (string, bool) {
	for _, target := range targets {
		if target == "" {
			continue
		}
		if strings.Contains(text, target) {
			return target, true
		}
	}
	return "", false
}
