package pipeline

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"go-viz-pipeline/internal/model"
)

func TestResultStorePutGet(t *testing.T) {
	s := NewResultStore(t.TempDir(), zap.NewNop())

	result := &model.PipelineResult{VizID: "abc", Explanation: "revenue per region"}
	s.Put(result)

	got, err := s.Get("abc")
	require.NoError(t, err)
	assert.Equal(t, result, got)
}

func TestResultStoreRehydratesFromDisk(t *testing.T) {
	dir := t.TempDir()

	first := NewResultStore(dir, zap.NewNop())
	first.Put(&model.PipelineResult{
		VizID:        "abc",
		Explanation:  "revenue per region",
		QualityScore: 9.5,
		Columns:      []string{"region", "sum_revenue"},
	})

	// A fresh store over the same directory stands in for a restart.
	second := NewResultStore(dir, zap.NewNop())
	got, err := second.Get("abc")
	require.NoError(t, err)
	assert.Equal(t, "revenue per region", got.Explanation)
	assert.Equal(t, 9.5, got.QualityScore)
	assert.Equal(t, []string{"region", "sum_revenue"}, got.Columns)
}

func TestResultStoreUnknownID(t *testing.T) {
	s := NewResultStore(t.TempDir(), zap.NewNop())

	_, err := s.Get("nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestResultStoreSanitizesIdentifier(t *testing.T) {
	dir := t.TempDir()
	s := NewResultStore(dir, zap.NewNop())

	// A path-shaped identifier must never escape the store directory.
	assert.Equal(t, filepath.Join(dir, "passwd.json"), s.filePath("../../etc/passwd"))
}
