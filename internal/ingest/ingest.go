// Package ingest reads labelled documents from disk.
//
// A corpus directory holds one subdirectory per genre; every supported
// file beneath a genre directory becomes one document of that genre.
package ingest

import (
	"bytes"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/zeebo/blake3"

	"genresim/internal/domain"
)

// ErrUnsupported is returned by Extract for an unknown file extension.
var ErrUnsupported = errors.New("ingest: unsupported file type")

// Entry is a document paired with the genre it was filed under.
type Entry struct {
	Genre    string
	Path     string
	Document domain.Document
}

// Supported reports whether name has an extension Extract understands,
// optionally followed by .gz.
func Supported(name string) bool {
	switch innerExt(name) {
	case ".txt", ".text", ".html", ".htm", ".md", ".markdown", ".pdf":
		return true
	}
	return false
}

func innerExt(name string) string {
	name = strings.ToLower(name)
	name = strings.TrimSuffix(name, ".gz")
	return filepath.Ext(name)
}

// Extract turns file contents into plain text according to name's
// extension. A trailing .gz is decompressed first.
func Extract(name string, data []byte) (string, error) {
	if strings.EqualFold(filepath.Ext(name), ".gz") {
		zr, err := gzip.NewReader(bytes.NewReader(data))
		if err != nil {
			return "", fmt.Errorf("ingest: %s: %w", name, err)
		}
		defer zr.Close()
		data, err = io.ReadAll(zr)
		if err != nil {
			return "", fmt.Errorf("ingest: %s: %w", name, err)
		}
	}
	switch innerExt(name) {
	case ".txt", ".text":
		return string(data), nil
	case ".html", ".htm":
		return extractHTML(data)
	case ".md", ".markdown":
		return extractMarkdown(data)
	case ".pdf":
		return extractPDF(data)
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupported, name)
	}
}

// LoadFile reads and extracts a single file.
func LoadFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	text, err := Extract(filepath.Base(path), data)
	if err != nil {
		return "", fmt.Errorf("ingest: %s: %w", path, err)
	}
	return text, nil
}

// LoadDirectory walks root and returns one entry per supported file
// found under root/<genre>/. Files directly in root are ignored. Ids
// are derived from the slash-separated path relative to root, so they
// are stable across runs and machines.
func LoadDirectory(root string) ([]Entry, error) {
	var entries []Entry
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !d.Type().IsRegular() || !Supported(d.Name()) {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		genre, _, nested := strings.Cut(rel, "/")
		if !nested {
			return nil
		}
		text, err := LoadFile(path)
		if err != nil {
			return err
		}
		entries = append(entries, Entry{
			Genre:    genre,
			Path:     path,
			Document: domain.Document{ID: DocumentID(rel), Text: text},
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return entries, nil
}

// DocumentID hashes key into a short hex id.
func DocumentID(key string) string {
	sum := blake3.Sum256([]byte(key))
	return hex.EncodeToString(sum[:8])
}
