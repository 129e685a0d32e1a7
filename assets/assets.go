// Package assets finds compiled shader blobs on disk or in a packr box.
package assets

import (
	"bytes"
	"io"
	"io/ioutil"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/gobuffalo/packr"
	"github.com/pierrec/lz4"
)

// CompressedSuffix marks a blob stored as an lz4 frame.
const CompressedSuffix = ".lz4"

var ErrNotFound = errors.New("asset not found")

// Dir serves blobs from a packr box rooted at a directory.
type Dir struct {
	box  packr.Box
	path string
}

// NewDir roots a box at path. Relative paths are taken from the working
// directory, not from this package's source location.
func NewDir(path string) *Dir {
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	return &Dir{box: packr.NewBox(path), path: path}
}

func (d *Dir) Path() string { return d.path }

func (d *Dir) Has(name string) bool { return d.box.Has(name) }

func (d *Dir) Find(name string) ([]byte, error) {
	if !d.box.Has(name) {
		return nil, errors.Wrapf(ErrNotFound, "%s in %s", name, d.path)
	}

	data, err := d.box.Find(name)
	if err != nil {
		return nil, errors.Wrapf(err, "read %s", name)
	}
	return data, nil
}

type Source interface {
	Find(name string) ([]byte, error)
}

// Compressed decodes *.lz4 blobs from its source. A plain name that is missing
// falls back to the same name with the .lz4 suffix.
type Compressed struct {
	Source Source
}

func (c *Compressed) Find(name string) ([]byte, error) {
	if strings.HasSuffix(name, CompressedSuffix) {
		return c.findCompressed(name)
	}

	data, err := c.Source.Find(name)
	if err == nil {
		return data, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, err
	}
	return c.findCompressed(name + CompressedSuffix)
}

func (c *Compressed) findCompressed(name string) ([]byte, error) {
	data, err := c.Source.Find(name)
	if err != nil {
		return nil, err
	}

	decoded, err := Decompress(data)
	if err != nil {
		return nil, errors.Wrapf(err, "decompress %s", name)
	}
	return decoded, nil
}

func Decompress(data []byte) ([]byte, error) {
	reader := lz4.NewReader(bytes.NewReader(data))
	return ioutil.ReadAll(reader)
}

func Compress(data []byte) ([]byte, error) {
	var buffer bytes.Buffer
	writer := lz4.NewWriter(&buffer)
	if _, err := io.Copy(writer, bytes.NewReader(data)); err != nil {
		return nil, err
	}
	if err := writer.Close(); err != nil {
		return nil, err
	}
	return buffer.Bytes(), nil
}
