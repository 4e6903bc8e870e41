package response

import (
	"path/filepath"
	"strings"
)

var contentTypes = map[string]string{
	"jpg":  "image/jpeg",
	"jpeg": "image/jpeg",
	"png":  "image/png",
	"ico":  "image/x-icon",
	"html": "text/html",
	"js":   "text/javascript;charset=UTF-8",
}

const defaultContentType = "text/plain"

func ContentTypeFor(file string) string {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(file), "."))
	if ct, ok := contentTypes[ext]; ok {
		return ct
	}
	return defaultContentType
}
