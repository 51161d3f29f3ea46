package common

import "strings"

// AnyContainsFold reports whether any of fields contains sub, ignoring case.
func AnyContainsFold(sub string, fields ...string) bool {
	sub = strings.ToLower(sub)
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), sub) {
			return true
		}
	}
	return false
}
