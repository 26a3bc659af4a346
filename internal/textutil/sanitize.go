package textutil

import "strings"

// fileNameReplacer maps every character the output layer refuses in a file
// name to a dash. The dot is included so titles never produce hidden files or
// fake extensions.
var fileNameReplacer = strings.NewReplacer(
	".", "-",
	"<", "-",
	">", "-",
	":", "-",
	"\"", "-",
	"/", "-",
	"\\", "-",
	"|", "-",
	"?", "-",
	"*", "-",
	"^", "-",
)

// SanitizeFileName replaces each unsafe character in name with a dash. Every
// other character, whitespace included, is kept so the rune count is preserved.
func SanitizeFileName(name string) string {
	return fileNameReplacer.Replace(name)
}

// FileName joins a sanitized stem with ext. An empty stem falls back to
// fallback, which is expected to already be safe.
func FileName(stem, fallback, ext string) string {
	stem = SanitizeFileName(stem)
	if strings.TrimSpace(stem) == "" {
		stem = fallback
	}
	ext = strings.TrimPrefix(ext, ".")
	if ext == "" {
		return stem
	}
	return stem + "." + ext
}
