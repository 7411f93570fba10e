package dataset

import (
	"context"
	"encoding/gob"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"

	"invensmart/internal/models"
)

const cacheVersion = "v1"

// Store holds the dataset loaded once at process start. After Load the
// records are read-only and shared by reference across all requests; no
// component writes back into them. Load is single-shot — concurrent or
// repeated calls do not reparse.
type Store struct {
	mu       sync.RWMutex
	loadOnce sync.Once

	records  []models.InventoryRecord
	loadedAt time.Time
	skipped  int64
	csvPath  string
	cacheDir string
	logger   *slog.Logger
}

func NewStore(cacheDir string, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		cacheDir: cacheDir,
		logger:   logger,
	}
}

// Load parses the CSV file into the store, at most once per process. A
// fresh gob cache of the parsed records short-circuits the parse.
func (s *Store) Load(ctx context.Context, filename string) error {
	var err error
	s.loadOnce.Do(func() {
		err = s.load(ctx, filename)
	})
	return err
}

func (s *Store) load(ctx context.Context, filename string) error {
	s.csvPath = filename

	if cached, err := s.loadFromCache(filename); err == nil {
		fileInfo, err := os.Stat(filename)
		if err == nil && fileInfo.ModTime().Before(cached.LoadedAt) {
			s.mu.Lock()
			s.records = cached.Records
			s.skipped = cached.Skipped
			s.loadedAt = cached.LoadedAt
			s.mu.Unlock()
			s.logger.Info("dataset loaded from cache", "records", len(cached.Records))
			return nil
		}
	}

	start := time.Now()
	s.logger.Info("parsing dataset", "filename", filename)

	records, skipped, err := readCSV(ctx, filename)
	if err != nil {
		return fmt.Errorf("load dataset: %w", err)
	}

	s.mu.Lock()
	s.records = records
	s.skipped = skipped
	s.loadedAt = time.Now()
	s.mu.Unlock()

	if err := s.saveToCache(filename); err != nil {
		s.logger.Warn("failed to save dataset cache", "error", err)
	}

	s.logger.Info("dataset parsed",
		"records", len(records),
		"skipped_rows", skipped,
		"duration", time.Since(start))
	return nil
}

// SetRecords seeds the store directly, for tests.
func (s *Store) SetRecords(records []models.InventoryRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = records
	s.loadedAt = time.Now()
}

// Records returns the shared read-only snapshot. Callers must not mutate
// the returned slice or its elements.
func (s *Store) Records() []models.InventoryRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.records
}

func (s *Store) Stats() map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	categories := make(map[string]bool)
	products := make(map[string]bool)
	for _, rec := range s.records {
		categories[rec.Category] = true
		products[rec.ProductID] = true
	}

	return map[string]any{
		"record_count": len(s.records),
		"skipped_rows": s.skipped,
		"categories":   len(categories),
		"products":     len(products),
		"loaded_at":    s.loadedAt,
	}
}

type cacheEntry struct {
	Records  []models.InventoryRecord
	Skipped  int64
	LoadedAt time.Time
}

func (s *Store) cacheFilename(csvPath string) string {
	return fmt.Sprintf("%s/%s_%s.gob", s.cacheDir, strings.ReplaceAll(csvPath, "/", "_"), cacheVersion)
}

func (s *Store) saveToCache(csvPath string) error {
	if s.cacheDir == "" {
		return nil
	}
	if err := os.MkdirAll(s.cacheDir, 0755); err != nil {
		return err
	}

	file, err := os.Create(s.cacheFilename(csvPath))
	if err != nil {
		return err
	}
	defer file.Close()

	s.mu.RLock()
	defer s.mu.RUnlock()

	return gob.NewEncoder(file).Encode(cacheEntry{
		Records:  s.records,
		Skipped:  s.skipped,
		LoadedAt: s.loadedAt,
	})
}

func (s *Store) loadFromCache(csvPath string) (*cacheEntry, error) {
	if s.cacheDir == "" {
		return nil, fmt.Errorf("cache disabled")
	}

	file, err := os.Open(s.cacheFilename(csvPath))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var entry cacheEntry
	if err := gob.NewDecoder(file).Decode(&entry); err != nil {
		return nil, err
	}
	return &entry, nil
}
