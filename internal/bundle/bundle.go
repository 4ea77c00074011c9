// Package bundle serializes a FileSet into a single JSON object and splices
// it into an integration template, producing one script that carries every
// compressed page.
package bundle

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/backmassage/htmlcompressor/internal/fileset"
	"github.com/backmassage/htmlcompressor/internal/textenc"
)

// Placeholder marks where the JSON object is inserted.
const Placeholder = "%s"

// ErrInvalidText is returned when an entry is not valid UTF-8 and therefore
// cannot be represented as a JSON string without loss.
var ErrInvalidText = errors.New("content is not valid UTF-8")

// Render returns template with its first placeholder replaced by the JSON
// encoding of files. An empty template is the bare placeholder; a template
// without one has it appended.
func Render(files *fileset.FileSet, template string) (string, error) {
	payload, err := Marshal(files)
	if err != nil {
		return "", err
	}
	if !strings.Contains(template, Placeholder) {
		template += Placeholder
	}
	return strings.Replace(template, Placeholder, payload, 1), nil
}

// Marshal encodes files as a JSON object with sorted keys. HTML characters
// are left unescaped so markup stays readable in the bundle.
func Marshal(files *fileset.FileSet) (string, error) {
	m := files.Map()
	for _, k := range files.Keys() {
		if !utf8.ValidString(m[k]) {
			return "", fmt.Errorf("%w: %s", ErrInvalidText, k)
		}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(m); err != nil {
		return "", fmt.Errorf("encode bundle: %w", err)
	}
	return strings.TrimSuffix(buf.String(), "\n"), nil
}

// Bundle renders files into template and writes the result to targetFile,
// creating parent directories.
func Bundle(files *fileset.FileSet, targetFile, template string, enc textenc.Charset) error {
	out, err := Render(files, template)
	if err != nil {
		return err
	}
	dir := filepath.Dir(targetFile)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create directory %s: %w", dir, err)
	}
	return enc.WriteFile(targetFile, out)
}
