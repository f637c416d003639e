// Package document is the on-disk form of a flow: nodes, connections and the
// last viewport, encoded as JSON.
package document

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/goccy/go-json"
	"github.com/ingyamilmolinar/flowcanvas/core/geom"
	"github.com/ingyamilmolinar/flowcanvas/core/model"
)

// Version is the document format written by Encode.
const Version = 1

var (
	ErrVersion = errors.New("unsupported document version")
	ErrKind    = errors.New("unknown node kind")
)

type ViewState struct {
	Scale float64    `json:"scale"`
	Pan   geom.Point `json:"pan"`
}

type Document struct {
	Version     int                `json:"version"`
	Nodes       []model.Node       `json:"nodes"`
	Connections []model.Connection `json:"connections"`
	Viewport    ViewState          `json:"viewport"`
}

// Marshal encodes d as indented JSON with a trailing newline. A zero
// Version is written as the current one.
func Marshal(d Document) ([]byte, error) {
	if d.Version == 0 {
		d.Version = Version
	}
	if d.Nodes == nil {
		d.Nodes = []model.Node{}
	}
	if d.Connections == nil {
		d.Connections = []model.Connection{}
	}
	data, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding document: %w", err)
	}
	return append(data, '\n'), nil
}

func Encode(w io.Writer, d Document) error {
	data, err := Marshal(d)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

// Unmarshal decodes and validates a document. Connections are not checked
// here; Graph.Restore drops the dangling ones.
func Unmarshal(data []byte) (Document, error) {
	var d Document
	if err := json.Unmarshal(data, &d); err != nil {
		return Document{}, fmt.Errorf("decoding document: %w", err)
	}
	if d.Version != Version {
		return Document{}, fmt.Errorf("%w: %d", ErrVersion, d.Version)
	}
	for _, n := range d.Nodes {
		if !n.Kind.Valid() {
			return Document{}, fmt.Errorf("node %s: %w %q", n.ID, ErrKind, n.Kind)
		}
	}
	return d, nil
}

func Decode(r io.Reader) (Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Document{}, fmt.Errorf("reading document: %w", err)
	}
	return Unmarshal(data)
}

// FileStore persists one document at Path.
type FileStore struct {
	Path string
}

// Save writes d atomically (temp file in the same directory, then rename)
// and returns the bytes written so callers can recognise their own writes.
func (s FileStore) Save(d Document) ([]byte, error) {
	data, err := Marshal(d)
	if err != nil {
		return nil, err
	}
	dir := filepath.Dir(s.Path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating flow directory: %w", err)
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(s.Path)+".*")
	if err != nil {
		return nil, fmt.Errorf("creating temp file: %w", err)
	}
	defer os.Remove(tmp.Name())
	if _, err := io.Copy(tmp, bytes.NewReader(data)); err != nil {
		tmp.Close()
		return nil, fmt.Errorf("writing flow: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return nil, fmt.Errorf("writing flow: %w", err)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return nil, fmt.Errorf("writing flow: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.Path); err != nil {
		return nil, fmt.Errorf("replacing flow: %w", err)
	}
	return data, nil
}

// Load reads the document at Path. A missing file is reported with an error
// satisfying errors.Is(err, os.ErrNotExist).
func (s FileStore) Load() (Document, []byte, error) {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		return Document{}, nil, fmt.Errorf("reading flow: %w", err)
	}
	d, err := Unmarshal(data)
	if err != nil {
		return Document{}, data, err
	}
	return d, data, nil
}

// Exists reports whether a file is present at Path.
func (s FileStore) Exists() bool {
	_, err := os.Stat(s.Path)
	return err == nil
}
