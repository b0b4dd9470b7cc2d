package util

import (
	"errors"
	"path"
	"strings"
	"unicode/utf8"
)

var ErrInvalidKey = errors.New("invalid storage key")

// CleanStorageKey normalizes a slash-separated object key and rejects
// traversal or absolute keys.
func CleanStorageKey(key string) (string, error) {
	key = strings.TrimSpace(strings.ReplaceAll(key, "\\", "/"))
	if key == "" || strings.HasPrefix(key, "/") {
		return "", ErrInvalidKey
	}
	clean := path.Clean(key)
	if clean == "." || clean == ".." || strings.HasPrefix(clean, "../") {
		return "", ErrInvalidKey
	}
	return clean, nil
}

// Preview returns at most n runes of s, appending "..." when truncated.
func Preview(s string, n int) string {
	if n <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n]) + "..."
}
