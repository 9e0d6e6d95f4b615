package pipeline

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"

	"go-viz-pipeline/internal/model"
	"go-viz-pipeline/pkg/utils"
)

// ErrNotFound reports an identifier with no stored result and no mirror file.
var ErrNotFound = errors.New("visualization not found")

// ResultStore is the two-tier store for pipeline results: an in-memory map
// backed by one JSON file per identifier. Results are immutable once put;
// the only later mutation is re-hydration from disk into memory.
type ResultStore struct {
	mu      sync.RWMutex
	dir     string
	results map[string]*model.PipelineResult
	log     *zap.Logger
}

func NewResultStore(dir string, log *zap.Logger) *ResultStore {
	return &ResultStore{
		dir:     dir,
		results: make(map[string]*model.PipelineResult),
		log:     log,
	}
}

// Put stores a freshly created result in memory and mirrors it to disk.
// The disk write is atomic and best-effort: a failure is logged, the
// in-memory copy still serves the request.
func (s *ResultStore) Put(result *model.PipelineResult) {
	s.mu.Lock()
	s.results[result.VizID] = result
	s.mu.Unlock()

	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		s.log.Error("failed to encode pipeline result",
			zap.String("viz_id", result.VizID), zap.Error(err))
		return
	}
	if err := utils.AtomicWriteFile(s.filePath(result.VizID), data); err != nil {
		s.log.Error("failed to mirror pipeline result to disk",
			zap.String("viz_id", result.VizID), zap.Error(err))
	}
}

// Get returns the result for an identifier, re-hydrating from the mirror
// file on a memory miss. A total miss returns ErrNotFound.
func (s *ResultStore) Get(vizID string) (*model.PipelineResult, error) {
	s.mu.RLock()
	result, ok := s.results[vizID]
	s.mu.RUnlock()
	if ok {
		return result, nil
	}

	data, err := os.ReadFile(s.filePath(vizID))
	if err != nil {
		return nil, ErrNotFound
	}
	var loaded model.PipelineResult
	if err := json.Unmarshal(data, &loaded); err != nil {
		s.log.Warn("stored result unreadable",
			zap.String("viz_id", vizID), zap.Error(err))
		return nil, ErrNotFound
	}

	s.mu.Lock()
	s.results[vizID] = &loaded
	s.mu.Unlock()
	return &loaded, nil
}

func (s *ResultStore) filePath(vizID string) string {
	// Identifiers are generated UUIDs, but never trust them as path input.
	return filepath.Join(s.dir, fmt.Sprintf("%s.json", filepath.Base(vizID)))
}
