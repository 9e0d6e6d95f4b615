// Package knowledge maintains the confidence-scored dictionary that maps
// technical column names to business-friendly labels. The store is the only
// component with cross-request persistent state; everything it knows
// round-trips through a single JSON file.
package knowledge

import (
	"encoding/json"
	"os"
	"strings"
	"sync"

	"go.uber.org/zap"

	"go-viz-pipeline/pkg/utils"
)

// DefaultConfidence is the belief assigned to fresh interpreter evidence.
const DefaultConfidence = 0.8

// Candidate is one remembered business label for a technical column name.
type Candidate struct {
	BusinessEntity string  `json:"business_entity"`
	Confidence     float64 `json:"confidence"`
	Count          int     `json:"count"`
}

// columnRecord holds all candidates for one technical column name.
// Candidates are unique under case-insensitive label comparison.
type columnRecord struct {
	Mappings []Candidate `json:"mappings"`
}

// Store is the durable schema-mapping knowledge store. All mutations are
// serialized by a single mutex; that trivially satisfies the requirement
// that concurrent writers to the same technical name be mutually exclusive.
type Store struct {
	mu       sync.RWMutex
	path     string
	mappings map[string]*columnRecord
	log      *zap.Logger
}

// NewStore loads the store from path. A missing, corrupt or unreadable file
// degrades to an empty store rather than failing startup.
func NewStore(path string, log *zap.Logger) *Store {
	s := &Store{
		path:     path,
		mappings: make(map[string]*columnRecord),
		log:      log,
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Warn("knowledge store unreadable, starting empty",
				zap.String("path", path), zap.Error(err))
		}
		return s
	}
	if err := json.Unmarshal(data, &s.mappings); err != nil {
		log.Warn("knowledge store corrupt, starting empty",
			zap.String("path", path), zap.Error(err))
		s.mappings = make(map[string]*columnRecord)
	}
	return s
}

// Lookup returns the best-known business label for a technical name.
// Unknown names get a deterministic humanized fallback and no record is
// created. Known names return the candidate with the highest
// (confidence, count) tuple; ties keep the first-inserted candidate.
func (s *Store) Lookup(technical string) string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.mappings[technical]
	if !ok || len(rec.Mappings) == 0 {
		return utils.HumanizeColumn(technical)
	}

	best := rec.Mappings[0]
	for _, c := range rec.Mappings[1:] {
		if c.Confidence > best.Confidence ||
			(c.Confidence == best.Confidence && c.Count > best.Count) {
			best = c
		}
	}
	return best.BusinessEntity
}

// Candidates returns every remembered candidate for a technical name.
// Unknown names yield a single synthetic fallback candidate.
func (s *Store) Candidates(technical string) []Candidate {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.mappings[technical]
	if !ok {
		return []Candidate{{
			BusinessEntity: utils.HumanizeColumn(technical),
			Confidence:     0.5,
			Count:          0,
		}}
	}
	out := make([]Candidate, len(rec.Mappings))
	copy(out, rec.Mappings)
	return out
}

// Merge records new evidence that technical maps to business. A matching
// candidate (case-insensitive) gains count and +0.05 confidence, capped at
// 1.0; otherwise a new candidate is appended at the given confidence.
func (s *Store) Merge(technical, business string, confidence float64) {
	s.mu.Lock()
	s.mergeLocked(technical, business, confidence)
	s.persistLocked()
	s.mu.Unlock()
}

// MergeAll records a batch of interpreter mappings at the default confidence
// and persists once.
func (s *Store) MergeAll(mappings map[string]string) {
	s.mu.Lock()
	for technical, business := range mappings {
		s.mergeLocked(technical, business, DefaultConfidence)
	}
	s.persistLocked()
	s.mu.Unlock()
}

func (s *Store) mergeLocked(technical, business string, confidence float64) {
	rec, ok := s.mappings[technical]
	if !ok {
		s.mappings[technical] = &columnRecord{Mappings: []Candidate{
			{BusinessEntity: business, Confidence: confidence, Count: 1},
		}}
		return
	}

	for i := range rec.Mappings {
		if strings.EqualFold(rec.Mappings[i].BusinessEntity, business) {
			rec.Mappings[i].Count++
			rec.Mappings[i].Confidence = min(1.0, rec.Mappings[i].Confidence+0.05)
			return
		}
	}
	rec.Mappings = append(rec.Mappings, Candidate{
		BusinessEntity: business, Confidence: confidence, Count: 1,
	})
}

// Feedback applies user feedback to a mapping. Positive feedback raises a
// matching candidate's confidence by 0.1 (cap 1.0), negative lowers it by
// 0.1 (floor 0.1). Feedback on an unseen name creates a record at 0.6
// (positive) or 0.4 (negative). Negative feedback for an unknown label is a
// no-op; a candidate is never removed.
func (s *Store) Feedback(technical, business string, positive bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.mappings[technical]
	if !ok {
		confidence := 0.4
		if positive {
			confidence = 0.6
		}
		s.mappings[technical] = &columnRecord{Mappings: []Candidate{
			{BusinessEntity: business, Confidence: confidence, Count: 1},
		}}
		s.persistLocked()
		return
	}

	for i := range rec.Mappings {
		if strings.EqualFold(rec.Mappings[i].BusinessEntity, business) {
			if positive {
				rec.Mappings[i].Confidence = min(1.0, rec.Mappings[i].Confidence+0.1)
			} else {
				rec.Mappings[i].Confidence = max(0.1, rec.Mappings[i].Confidence-0.1)
			}
			rec.Mappings[i].Count++
			s.persistLocked()
			return
		}
	}

	if positive {
		rec.Mappings = append(rec.Mappings, Candidate{
			BusinessEntity: business, Confidence: 0.6, Count: 1,
		})
	}
	s.persistLocked()
}

// persistLocked writes the whole store atomically (temp file + rename) so a
// crash mid-write never corrupts the previous readable state. Write failures
// are logged, not fatal to the in-flight request.
func (s *Store) persistLocked() {
	data, err := json.MarshalIndent(s.mappings, "", "  ")
	if err != nil {
		s.log.Error("failed to encode knowledge store", zap.Error(err))
		return
	}
	if err := utils.AtomicWriteFile(s.path, data); err != nil {
		s.log.Error("failed to persist knowledge store",
			zap.String("path", s.path), zap.Error(err))
	}
}
