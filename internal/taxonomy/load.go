package taxonomy

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

const maxFileSize = 1 << 20 // 1MB

type document struct {
	Categories []Category `yaml:"categories"`
}

// Source opens stored taxonomy files by key.
type Source interface {
	Open(ctx context.Context, storageKey string) (io.ReadCloser, error)
}

// Parse decodes a YAML taxonomy of the form:
//
//	categories:
//	  - name: email_management
//	    keywords: [email, inbox]
//	    actions: [archive, respond]
func Parse(data []byte) (Taxonomy, error) {
	var doc document
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		if err == io.EOF {
			return Taxonomy{}, ErrEmpty
		}
		return Taxonomy{}, fmt.Errorf("decode taxonomy: %w", err)
	}
	return New(doc.Categories)
}

// LoadFile reads and parses a taxonomy file from disk.
func LoadFile(path string) (Taxonomy, error) {
	f, err := os.Open(path)
	if err != nil {
		return Taxonomy{}, fmt.Errorf("open taxonomy file: %w", err)
	}
	defer f.Close()
	return read(f)
}

// Load reads and parses a taxonomy file from an object store.
func Load(ctx context.Context, src Source, key string) (Taxonomy, error) {
	rc, err := src.Open(ctx, key)
	if err != nil {
		return Taxonomy{}, fmt.Errorf("open taxonomy object %s: %w", key, err)
	}
	defer rc.Close()
	return read(rc)
}

func read(r io.Reader) (Taxonomy, error) {
	data, err := io.ReadAll(io.LimitReader(r, maxFileSize+1))
	if err != nil {
		return Taxonomy{}, fmt.Errorf("read taxonomy: %w", err)
	}
	if len(data) > maxFileSize {
		return Taxonomy{}, fmt.Errorf("taxonomy exceeds %d bytes", maxFileSize)
	}
	return Parse(data)
}
