package registry

import (
	"archive/tar"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/klauspost/compress/gzip"
	"github.com/kuken-host/engine/internal/blueprint"
)

// maxBundleEntrySize bounds a single blueprint inside a bundle.
const maxBundleEntrySize = 1 << 20

// ExportBundle writes the whole store as a .bpk archive: a gzip-compressed
// tar of canonical YAML blueprints, ordered by module path.
func (s *Store) ExportBundle(w io.Writer) error {
	gz := gzip.NewWriter(w)
	tw := tar.NewWriter(gz)

	for _, doc := range s.List("") {
		data, err := blueprint.Encode(doc)
		if err != nil {
			return fmt.Errorf("encode %s: %w", doc.Module, err)
		}
		hdr := &tar.Header{
			Name:    doc.Module + ".bp.yaml",
			Mode:    0o644,
			Size:    int64(len(data)),
			ModTime: time.Now(),
		}
		if err := tw.WriteHeader(hdr); err != nil {
			return err
		}
		if _, err := tw.Write(data); err != nil {
			return err
		}
	}

	if err := tw.Close(); err != nil {
		return err
	}
	return gz.Close()
}

// ImportBundle reads a .bpk archive and stores every blueprint it contains.
// Returns the number of blueprints imported; the first bad entry aborts the
// import.
func (s *Store) ImportBundle(r io.Reader) (int, error) {
	gz, err := gzip.NewReader(r)
	if err != nil {
		return 0, fmt.Errorf("open bundle: %w", err)
	}
	defer gz.Close()

	tr := tar.NewReader(gz)
	imported := 0

	for {
		hdr, err := tr.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return imported, fmt.Errorf("read bundle: %w", err)
		}
		if hdr.Typeflag != tar.TypeReg {
			continue
		}
		if hdr.Size > maxBundleEntrySize {
			return imported, fmt.Errorf("bundle entry %s exceeds %d bytes", hdr.Name, maxBundleEntrySize)
		}
		if !strings.Contains(hdr.Name, ".bp") {
			continue
		}

		data, err := io.ReadAll(io.LimitReader(tr, maxBundleEntrySize))
		if err != nil {
			return imported, fmt.Errorf("read bundle entry %s: %w", hdr.Name, err)
		}
		doc, err := blueprint.DecodeFile(hdr.Name, data)
		if err != nil {
			return imported, fmt.Errorf("bundle entry %s: %w", hdr.Name, err)
		}
		if err := s.Save(doc); err != nil {
			return imported, err
		}
		imported++
	}

	return imported, nil
}

// ImportBundleFile imports a .bpk archive from disk.
func (s *Store) ImportBundleFile(path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()
	return s.ImportBundle(f)
}
