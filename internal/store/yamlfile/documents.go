// Package yamlfile persists contexts as YAML documents, one file per context
// named after the context plus a configurable suffix.
package yamlfile

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/hay-kot/inn/internal/core/contexts"
	"github.com/hay-kot/inn/internal/core/outline"
	"github.com/hay-kot/inn/internal/core/validate"
)

// SchemaV1 tags documents written by this package.
const SchemaV1 = "list/v1"

// document is the root YAML structure stored on disk.
type document struct {
	Schema string         `yaml:"schema"`
	Name   string         `yaml:"name"`
	Items  []outline.Item `yaml:"items"`
}

// Documents implements contexts.Backend over a directory.
type Documents struct {
	dir       string
	extension string
}

var _ contexts.Backend = (*Documents)(nil)

// NewDocuments creates a backend storing files in dir with the given suffix.
func NewDocuments(dir, extension string) *Documents {
	return &Documents{dir: dir, extension: extension}
}

// Filename returns the file name for a context. It is a pure function of
// name and the configured extension.
func (d *Documents) Filename(name string) string {
	return name + d.extension
}

// Path returns the full path of the document for name.
func (d *Documents) Path(name string) string {
	return filepath.Join(d.dir, d.Filename(name))
}

// Create writes a new document, failing with contexts.ErrAlreadyExists if
// the file is present. The existence check and the creation are one
// exclusive open, so an existing document is never truncated.
func (d *Documents) Create(name string, c *outline.Context) error {
	data, err := encode(c)
	if err != nil {
		return &contexts.IOError{Op: "encode", Name: name, Err: err}
	}

	if err := os.MkdirAll(d.dir, 0o755); err != nil {
		return &contexts.IOError{Op: "create", Name: name, Err: err}
	}

	f, err := os.OpenFile(d.Path(name), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			return fmt.Errorf("%s: %w", d.Filename(name), contexts.ErrAlreadyExists)
		}
		return &contexts.IOError{Op: "create", Name: name, Err: err}
	}

	_, werr := f.Write(data)
	cerr := f.Close()
	if err := errors.Join(werr, cerr); err != nil {
		_ = os.Remove(d.Path(name))
		return &contexts.IOError{Op: "create", Name: name, Err: err}
	}
	return nil
}

// Read loads and decodes the document for name.
func (d *Documents) Read(name string) (outline.Context, error) {
	data, err := os.ReadFile(d.Path(name))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return outline.Context{}, fmt.Errorf("%s: %w", d.Filename(name), contexts.ErrNotFound)
		}
		return outline.Context{}, &contexts.IOError{Op: "read", Name: name, Err: err}
	}

	c, err := decode(data)
	if err != nil {
		return outline.Context{}, &contexts.DecodeError{Name: name, Err: err}
	}
	if c.Name != name {
		return outline.Context{}, &contexts.DecodeError{
			Name: name,
			Err:  fmt.Errorf("document is named %q", c.Name),
		}
	}
	return c, nil
}

// Write replaces the document for name atomically.
func (d *Documents) Write(name string, c *outline.Context) error {
	data, err := encode(c)
	if err != nil {
		return &contexts.IOError{Op: "encode", Name: name, Err: err}
	}
	if err := writeAtomic(d.Path(name), data); err != nil {
		return &contexts.IOError{Op: "write", Name: name, Err: err}
	}
	return nil
}

// Remove deletes the document for name.
func (d *Documents) Remove(name string) error {
	if err := os.Remove(d.Path(name)); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%s: %w", d.Filename(name), contexts.ErrNotFound)
		}
		return &contexts.IOError{Op: "remove", Name: name, Err: err}
	}
	return nil
}

// Names lists the contexts stored in the directory in ascending order.
// Files whose stem is not a valid context name are ignored. A missing
// directory holds no contexts.
func (d *Documents) Names() ([]string, error) {
	entries, err := os.ReadDir(d.dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, &contexts.IOError{Op: "list", Name: d.dir, Err: err}
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), d.extension) {
			continue
		}
		name := strings.TrimSuffix(e.Name(), d.extension)
		if validate.ContextName(name) != nil {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

func encode(c *outline.Context) ([]byte, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	doc := document{Schema: SchemaV1, Name: c.Name, Items: c.Items}
	if doc.Items == nil {
		doc.Items = []outline.Item{}
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func decode(data []byte) (outline.Context, error) {
	var doc document
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		return outline.Context{}, err
	}

	if doc.Schema != SchemaV1 {
		return outline.Context{}, fmt.Errorf("unsupported schema %q", doc.Schema)
	}

	c := outline.Context{Name: doc.Name, Items: doc.Items}
	if c.Items == nil {
		c.Items = []outline.Item{}
	}
	if err := c.Validate(); err != nil {
		return outline.Context{}, err
	}
	return c, nil
}

// writeAtomic writes data to a temporary file next to path and renames it
// into place.
func writeAtomic(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}
