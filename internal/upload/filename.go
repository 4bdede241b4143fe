package upload

import (
	"path"
	"regexp"
	"strings"
)

const (
	maxExtLen  = 10
	maxBaseLen = 50
)

var unsafeChars = regexp.MustCompile(`[^A-Za-z0-9._-]`)

// mimeExtensions maps the registry's allowed MIME types to a canonical file
// extension, used when the client-supplied name carries none.
var mimeExtensions = map[string]string{
	"image/jpeg":    "jpg",
	"image/png":     "png",
	"image/webp":    "webp",
	"image/svg+xml": "svg",
}

// SanitizeFileName neutralizes an untrusted, client-supplied file name so it
// can be embedded in a storage object key: directory components are stripped,
// every character outside [A-Za-z0-9._-] becomes "_", the extension is capped
// at 10 characters (falling back to one inferred from the MIME type when the
// original is missing or unusable), and the base name is capped at 50
// characters.
func SanitizeFileName(name, mimeType string) string {
	// Windows-style separators count as directory components too.
	name = strings.ReplaceAll(name, "\\", "/")
	name = path.Base(name)

	ext := strings.TrimPrefix(path.Ext(name), ".")
	base := strings.TrimSuffix(name, path.Ext(name))

	base = unsafeChars.ReplaceAllString(base, "_")
	ext = unsafeChars.ReplaceAllString(ext, "_")

	if ext == "" || strings.Trim(ext, "_") == "" {
		ext = mimeExtensions[strings.ToLower(mimeType)]
	}
	if len(ext) > maxExtLen {
		ext = ext[:maxExtLen]
	}

	base = strings.Trim(base, ".")
	if base == "" || strings.Trim(base, "_") == "" {
		base = "file"
	}
	if len(base) > maxBaseLen {
		base = base[:maxBaseLen]
	}

	if ext == "" {
		return base
	}
	return base + "." + ext
}
