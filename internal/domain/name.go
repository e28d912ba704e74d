package domain

import (
	"fmt"
	"strings"
	"unicode"
)

// ValidRepoName reports whether name is a GitHub-legal repository name:
// non-empty and limited to alphanumerics, '.', '_' and '-'.
func ValidRepoName(name string) bool {
	if name == "" {
		return false
	}
	for _, r := range name {
		if r > unicode.MaxASCII {
			return false
		}
		switch {
		case r >= 'a' && r <= 'z':
		case r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9':
		case r == '.' || r == '_' || r == '-':
		default:
			return false
		}
	}
	return true
}

// Slugify lowercases s and collapses every run of non-alphanumeric characters
// into a single hyphen
func Slugify(s string) string {
	var b strings.Builder
	lastHyphen := true // suppress a leading hyphen
	for _, r := range strings.ToLower(s) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
			lastHyphen = false
			continue
		}
		if !lastHyphen {
			b.WriteByte('-')
			lastHyphen = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}

// SubmissionRepoName derives the remote repository name for a submission:
// "{assignment-slug}-{invitee-login}"
func SubmissionRepoName(assignmentSlug, inviteeLogin string) string {
	return fmt.Sprintf("%s-%s", assignmentSlug, inviteeLogin)
}
