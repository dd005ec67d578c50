package registry

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync/atomic"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/charlievieth/fastwalk"
	"github.com/kuken-host/engine/internal/blueprint"
	"go.uber.org/zap"
)

// blueprintGlobs matches the file names the seeder accepts. The bare .bp
// extension carries JSON.
var blueprintGlobs = []string{
	"**/*.bp",
	"**/*.bp.yaml",
	"**/*.bp.yml",
	"**/*.bp.json",
	"**/*.bp.toml",
}

// bundleExt marks gzip-compressed blueprint archives.
const bundleExt = ".bpk"

// SeedResult reports the outcome of one seeding pass.
type SeedResult struct {
	Loaded int
	Failed int
}

// Seeder bulk-loads blueprint files from a directory tree into a store.
type Seeder struct {
	store  *Store
	dir    string
	logger *zap.Logger
}

// NewSeeder creates a seeder over the given catalog directory.
func NewSeeder(store *Store, dir string, logger *zap.Logger) *Seeder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Seeder{store: store, dir: dir, logger: logger}
}

// Seed walks the catalog directory and stores every blueprint file it finds.
// Individual bad files are counted and skipped, not fatal; a missing catalog
// directory seeds nothing.
func (s *Seeder) Seed() (SeedResult, error) {
	if _, err := os.Stat(s.dir); os.IsNotExist(err) {
		s.logger.Warn("catalog directory not found", zap.String("dir", s.dir))
		return SeedResult{}, nil
	}

	var loaded, failed atomic.Int64

	conf := fastwalk.Config{Follow: false}
	err := fastwalk.Walk(&conf, s.dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}

		if filepath.Ext(path) == bundleExt {
			n, err := s.store.ImportBundleFile(path)
			loaded.Add(int64(n))
			if err != nil {
				s.logger.Warn("skipping bundle", zap.String("path", path), zap.Error(err))
				failed.Add(1)
			}
			return nil
		}

		if !s.matches(path) {
			return nil
		}

		if err := s.loadFile(path); err != nil {
			s.logger.Warn("skipping blueprint", zap.String("path", path), zap.Error(err))
			failed.Add(1)
			return nil
		}
		loaded.Add(1)
		return nil
	})
	if err != nil {
		return SeedResult{}, fmt.Errorf("walk catalog %s: %w", s.dir, err)
	}

	result := SeedResult{Loaded: int(loaded.Load()), Failed: int(failed.Load())}
	s.logger.Info("seeded catalog",
		zap.String("dir", s.dir),
		zap.Int("loaded", result.Loaded),
		zap.Int("failed", result.Failed))
	return result, nil
}

func (s *Seeder) matches(path string) bool {
	rel, err := filepath.Rel(s.dir, path)
	if err != nil {
		return false
	}
	rel = filepath.ToSlash(rel)
	for _, glob := range blueprintGlobs {
		if ok, _ := doublestar.Match(glob, rel); ok {
			return true
		}
	}
	return false
}

func (s *Seeder) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	doc, err := blueprint.DecodeFile(path, data)
	if err != nil {
		return err
	}
	return s.store.Save(doc)
}
