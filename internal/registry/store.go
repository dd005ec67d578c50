package registry

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/kuken-host/engine/internal/blueprint"
	"github.com/kuken-host/engine/internal/monitoring"
	"github.com/kuken-host/engine/internal/shared/validate"
	"go.uber.org/zap"
)

// Entry is one stored blueprint.
type Entry struct {
	Doc      *blueprint.Document
	StoredAt time.Time
}

// Stats summarizes the registry contents.
type Stats struct {
	Total       int            `json:"total"`
	Categories  map[string]int `json:"categories"`
	LastUpdated *time.Time     `json:"last_updated,omitempty"`
}

// DefaultMaxCached bounds the in-memory cache of a disk-backed store.
const DefaultMaxCached = 1024

// Store handles blueprint registry persistence. Reads hit the in-memory
// cache; writes go through to disk when a root directory is configured.
// Disk-backed stores evict the oldest cached entry past the cache bound;
// memory-only stores never evict since the cache is the only copy.
type Store struct {
	entries   sync.Map // module -> *Entry
	root      string
	maxCached int
	logger    *zap.Logger
	metrics   *monitoring.Metrics
	mu        sync.Mutex // serializes disk writes
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithLogger attaches a logger.
func WithLogger(logger *zap.Logger) StoreOption {
	return func(s *Store) { s.logger = logger }
}

// WithMetrics publishes the registry size gauge.
func WithMetrics(m *monitoring.Metrics) StoreOption {
	return func(s *Store) { s.metrics = m }
}

// WithMaxCached overrides the cache bound for disk-backed stores.
func WithMaxCached(n int) StoreOption {
	return func(s *Store) { s.maxCached = n }
}

// NewStore creates a blueprint store. An empty root means memory-only.
func NewStore(root string, opts ...StoreOption) *Store {
	s := &Store{root: root, maxCached: DefaultMaxCached, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Save stores a blueprint, replacing any previous version of the module.
func (s *Store) Save(doc *blueprint.Document) error {
	if err := validate.Module(doc.Module); err != nil {
		return err
	}

	if s.root != "" {
		data, err := blueprint.Encode(doc)
		if err != nil {
			return fmt.Errorf("encode blueprint %s: %w", doc.Module, err)
		}

		s.mu.Lock()
		err = writeFileAtomic(s.blueprintPath(doc.Module), data)
		s.mu.Unlock()
		if err != nil {
			return fmt.Errorf("persist blueprint %s: %w", doc.Module, err)
		}
	}

	s.entries.Store(doc.Module, &Entry{Doc: doc, StoredAt: time.Now()})
	s.evict()
	s.publishSize()
	return nil
}

// Get returns a stored blueprint, falling back to disk on a cache miss.
func (s *Store) Get(module string) (*blueprint.Document, error) {
	if cached, ok := s.entries.Load(module); ok {
		return cached.(*Entry).Doc, nil
	}

	if s.root == "" {
		return nil, fmt.Errorf("blueprint %s not found", module)
	}

	path := s.blueprintPath(module)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("blueprint %s not found: %w", module, err)
	}

	doc, err := blueprint.DecodeFile(path, data)
	if err != nil {
		return nil, err
	}

	s.entries.Store(module, &Entry{Doc: doc, StoredAt: time.Now()})
	s.evict()
	s.publishSize()
	return doc, nil
}

// evict drops the oldest cached entry while the cache exceeds its bound.
// Only disk-backed stores evict; evicted entries reload on demand.
func (s *Store) evict() {
	if s.root == "" || s.maxCached <= 0 {
		return
	}
	for s.Count() > s.maxCached {
		var oldestKey string
		var oldestAt time.Time
		s.entries.Range(func(key, value any) bool {
			entry := value.(*Entry)
			if oldestKey == "" || entry.StoredAt.Before(oldestAt) {
				oldestKey = key.(string)
				oldestAt = entry.StoredAt
			}
			return true
		})
		if oldestKey == "" {
			return
		}
		s.entries.Delete(oldestKey)
	}
}

// List returns stored blueprints, optionally filtered by module category,
// sorted by module path.
func (s *Store) List(category string) []*blueprint.Document {
	var docs []*blueprint.Document
	s.entries.Range(func(_, value any) bool {
		doc := value.(*Entry).Doc
		if category == "" || validate.ModuleCategory(doc.Module) == category {
			docs = append(docs, doc)
		}
		return true
	})

	sort.Slice(docs, func(i, j int) bool { return docs[i].Module < docs[j].Module })
	return docs
}

// Delete removes a blueprint from cache and disk.
func (s *Store) Delete(module string) error {
	if s.root != "" {
		s.mu.Lock()
		err := os.Remove(s.blueprintPath(module))
		s.mu.Unlock()
		if err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("delete blueprint %s: %w", module, err)
		}
	}

	s.entries.Delete(module)
	s.publishSize()
	return nil
}

// Exists reports whether a module is stored.
func (s *Store) Exists(module string) bool {
	if _, ok := s.entries.Load(module); ok {
		return true
	}
	if s.root == "" {
		return false
	}
	_, err := os.Stat(s.blueprintPath(module))
	return err == nil
}

// Count returns the number of cached blueprints.
func (s *Store) Count() int {
	n := 0
	s.entries.Range(func(_, _ any) bool {
		n++
		return true
	})
	return n
}

// Stats returns registry statistics.
func (s *Store) Stats() Stats {
	stats := Stats{Categories: make(map[string]int)}

	s.entries.Range(func(_, value any) bool {
		entry := value.(*Entry)
		stats.Total++
		stats.Categories[validate.ModuleCategory(entry.Doc.Module)]++
		if stats.LastUpdated == nil || entry.StoredAt.After(*stats.LastUpdated) {
			at := entry.StoredAt
			stats.LastUpdated = &at
		}
		return true
	})

	return stats
}

func (s *Store) publishSize() {
	if s.metrics != nil {
		s.metrics.SetRegistrySize(s.Count())
	}
}

// blueprintPath maps a module to its canonical file under the root.
func (s *Store) blueprintPath(module string) string {
	return filepath.Join(s.root, module+".bp.yaml")
}

// writeFileAtomic writes via a temp file and rename so readers never see a
// partial blueprint.
func writeFileAtomic(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), ".bp-*")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), path)
}
