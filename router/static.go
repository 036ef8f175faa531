package router

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/corvid-web/corvid/http"
	"github.com/corvid-web/corvid/http/method"
)

const indexFile = "index.html"

// Mount serves every file from the directory (recursively) under the mount point. The
// mount point itself serves dir/index.html. Files are registered once, at mount time,
// but read on every request, so files removed later result in 404.
func (t *Table) Mount(dir, mountPoint string) error {
	if _, err := os.ReadDir(dir); err != nil {
		t.logger.Error("cannot mount static directory", "dir", dir, "error", err)
		return fmt.Errorf("mount %s: %w", dir, err)
	}

	root := MountRoot(mountPoint)
	t.logger.Info(fmt.Sprintf("Mount Static Directory From '%s' To '%s'", dir, root))
	t.Register(method.GET, root, fileHandler(filepath.Join(dir, indexFile)))

	return filepath.WalkDir(dir, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return fmt.Errorf("mount %s: %w", dir, err)
		}

		if entry.IsDir() {
			return nil
		}

		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}

		t.Register(method.GET, root+filepath.ToSlash(rel), fileHandler(path))

		return nil
	})
}

// MountRoot brings the mount point to the /x/ form, so both leading and trailing
// slashes are always present.
func MountRoot(mountPoint string) string {
	if !strings.HasPrefix(mountPoint, "/") {
		mountPoint = "/" + mountPoint
	}

	if !strings.HasSuffix(mountPoint, "/") {
		mountPoint += "/"
	}

	return mountPoint
}

func fileHandler(path string) HandlerFunc {
	return func(*http.Request) *http.Response {
		return http.NewResponse().File(path)
	}
}
