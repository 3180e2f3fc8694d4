package util

import (
	"path/filepath"
	"strings"
)

const maxExtLen = 16

// SanitizeStoragePath flattens a storage path into a single file name:
// separators and parent-directory sequences become underscores.
func SanitizeStoragePath(p string) string {
	s := strings.TrimSpace(p)
	s = strings.ReplaceAll(s, "..", "_")
	s = strings.ReplaceAll(s, "/", "_")
	s = strings.ReplaceAll(s, "\\", "_")
	s = strings.ReplaceAll(s, "\x00", "_")
	if s == "" || s == "." {
		return "_"
	}
	return s
}

// SafeExtension returns the lower-cased extension of name, including the
// dot, keeping only ASCII letters and digits. It returns "" when nothing
// usable remains.
func SafeExtension(name string) string {
	ext := filepath.Ext(filepath.Base(strings.ReplaceAll(name, "\\", "/")))
	if ext == "" {
		return ""
	}
	var b strings.Builder
	b.WriteByte('.')
	for _, r := range strings.ToLower(ext[1:]) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
		if b.Len() > maxExtLen {
			break
		}
	}
	if b.Len() == 1 {
		return ""
	}
	return b.String()
}
