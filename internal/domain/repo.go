package domain

import "strings"

// NormalizeRepo canonicalizes a git repo URL for use as a lookup key:
// trailing slashes and a ".git" suffix are removed.
func NormalizeRepo(repoURL string) string {
	cleaned := strings.TrimSpace(repoURL)
	cleaned = strings.TrimSuffix(cleaned, ".git")
	return strings.TrimRight(cleaned, "/")
}

// RepoLabel derives a short display name from a repo URL, the last path
// segment without the ".git" suffix.
func RepoLabel(repoURL string) string {
	cleaned := strings.TrimRight(strings.TrimSpace(repoURL), "/")
	cleaned = strings.TrimSuffix(cleaned, ".git")
	if idx := strings.LastIndex(cleaned, "/"); idx >= 0 {
		return cleaned[idx+1:]
	}
	return cleaned
}
