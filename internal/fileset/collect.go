package fileset

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/backmassage/htmlcompressor/internal/textenc"
)

var (
	ErrNotDir         = errors.New("not a directory")
	ErrNoExtensions   = errors.New("no file extensions given")
	ErrBadExcludeGlob = errors.New("invalid exclude pattern")
)

// CollectOptions controls discovery.
type CollectOptions struct {
	// Extensions are suffixes matched case-sensitively against file names.
	// "html" matches "vanilla.html" as well as "index.xhtml".
	Extensions []string
	// Recursive descends into subdirectories; otherwise only direct
	// children of the root are considered.
	Recursive bool
	// Exclude holds doublestar patterns matched against keys. A matching
	// directory is pruned; a matching file is skipped.
	Exclude []string
	// Encoding decodes file content. The zero value is UTF-8.
	Encoding textenc.Charset
}

// Collect discovers files under root whose names end with one of exts and
// reads them into a FileSet.
func Collect(root string, exts []string, recursive bool, enc textenc.Charset) (*FileSet, error) {
	return CollectWith(root, CollectOptions{Extensions: exts, Recursive: recursive, Encoding: enc})
}

// CollectWith is Collect with the full option set. Keys are derived per
// file by slicing the canonical root prefix off the file's path; files
// reached through a symlinked directory are keyed by the link's path. A
// failure reading any file aborts the whole collection and no FileSet is
// returned.
func CollectWith(root string, opts CollectOptions) (*FileSet, error) {
	if len(opts.Extensions) == 0 {
		return nil, ErrNoExtensions
	}
	for _, p := range opts.Exclude {
		if !doublestar.ValidatePattern(p) {
			return nil, fmt.Errorf("%w: %q", ErrBadExcludeGlob, p)
		}
	}

	canonRoot, err := Canonical(root)
	if err != nil {
		return nil, fmt.Errorf("resolve source folder %s: %w", root, err)
	}
	info, err := os.Stat(canonRoot)
	if err != nil {
		return nil, fmt.Errorf("stat source folder %s: %w", root, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("source folder %s: %w", root, ErrNotDir)
	}

	c := &collector{opts: opts, files: New()}
	if err := c.walk(canonRoot, "", []string{canonRoot}); err != nil {
		return nil, err
	}
	return c.files, nil
}

type collector struct {
	opts  CollectOptions
	files *FileSet
}

// walk collects the tree under dir, a canonical path, filing keys under
// keyPrefix. Symlinked directories are walked under the link's key; one that
// points at a directory already on the descent in active is skipped.
func (c *collector) walk(dir, keyPrefix string, active []string) error {
	prefix := strings.TrimSuffix(filepath.ToSlash(dir), "/") + "/"
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if path == dir {
			return nil
		}
		key := keyPrefix + strings.TrimPrefix(filepath.ToSlash(path), prefix)

		if d.IsDir() {
			if !c.opts.Recursive || excluded(key, c.opts.Exclude) {
				return filepath.SkipDir
			}
			return nil
		}

		if d.Type()&fs.ModeSymlink != 0 {
			st, err := os.Stat(path)
			if err != nil {
				if !hasSuffix(d.Name(), c.opts.Extensions) {
					return nil
				}
				return fmt.Errorf("stat %s: %w", path, err)
			}
			if st.IsDir() {
				return c.follow(path, key, active)
			}
			if !st.Mode().IsRegular() {
				return nil
			}
		} else if !d.Type().IsRegular() {
			return nil
		}
		if !hasSuffix(d.Name(), c.opts.Extensions) || excluded(key, c.opts.Exclude) {
			return nil
		}

		content, err := c.opts.Encoding.ReadFile(path)
		if err != nil {
			return err
		}
		c.files.Put(key, content)
		return nil
	})
}

// follow walks the directory behind the symlink at path under the link's
// key.
func (c *collector) follow(path, key string, active []string) error {
	if !c.opts.Recursive || excluded(key, c.opts.Exclude) {
		return nil
	}
	target, err := filepath.EvalSymlinks(path)
	if err != nil {
		return fmt.Errorf("resolve %s: %w", path, err)
	}
	if onDescent(target, path, active) {
		return nil
	}
	return c.walk(target, key+"/", append(active[:len(active):len(active)], target))
}

// Canonical returns the absolute, symlink-resolved form of path.
func Canonical(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	return filepath.EvalSymlinks(abs)
}

func hasSuffix(name string, exts []string) bool {
	for _, ext := range exts {
		if ext != "" && strings.HasSuffix(name, ext) {
			return true
		}
	}
	return false
}

func excluded(key string, patterns []string) bool {
	for _, p := range patterns {
		if ok, _ := doublestar.Match(p, key); ok {
			return true
		}
	}
	return false
}

// onDescent reports whether target is a directory already being walked or
// an ancestor of the link at path.
func onDescent(target, path string, active []string) bool {
	for _, dir := range active {
		if dir == target {
			return true
		}
	}
	return strings.HasPrefix(path, strings.TrimSuffix(target, string(filepath.Separator))+string(filepath.Separator))
}
