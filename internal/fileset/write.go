package fileset

import (
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/backmassage/htmlcompressor/internal/textenc"
)

// ErrInvalidKey is returned for keys that are empty after normalization or
// that would resolve outside the target directory.
var ErrInvalidKey = errors.New("invalid file key")

// NormalizeKey converts separators to forward slashes, strips leading and
// trailing slashes and cleans the result, so "/a.html", "a.html" and
// "a.html/" all become "a.html".
func NormalizeKey(key string) string {
	k := strings.ReplaceAll(key, `\`, "/")
	k = strings.Trim(k, "/")
	if k == "" {
		return ""
	}
	return path.Clean(k)
}

// TargetPath maps key to its output path under targetDir.
func TargetPath(targetDir, key string) (string, error) {
	k := NormalizeKey(key)
	if k == "" || k == "." || k == ".." || strings.HasPrefix(k, "../") {
		return "", fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	return filepath.Join(targetDir, filepath.FromSlash(k)), nil
}

// Write stores every entry under targetDir, creating parent directories and
// overwriting existing files. The first failure aborts; files written
// before it stay on disk.
func Write(files *FileSet, targetDir string, enc textenc.Charset) error {
	return files.Range(func(key, content string) error {
		dest, err := TargetPath(targetDir, key)
		if err != nil {
			return err
		}
		if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
			return fmt.Errorf("create directory %s: %w", filepath.Dir(dest), err)
		}
		return enc.WriteFile(dest, content)
	})
}
