package mime

import (
	"path/filepath"
	"strings"
)

// Default is used for files whose extension isn't listed in Extension.
const Default = Plain

var Extension = map[string]MIME{
	".html": HTML,
	".css":  CSS,
	".js":   JS,
	".map":  JSON,
	".jpg":  JPEG,
	".jpeg": JPEG,
	".png":  PNG,
	".ico":  ICO,
	".svg":  SVG,
}

// ByFilename infers the MIME from the file extension.
func ByFilename(path string) MIME {
	if m, found := Extension[strings.ToLower(filepath.Ext(path))]; found {
		return m
	}

	return Default
}
