package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"topic-allocator/internal/allocate"
	"topic-allocator/internal/diagnostic"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	s, err := New(filepath.Join(t.TempDir(), "sub", "history.db"), zaptest.NewLogger(t))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	return s
}

func sampleResult() *allocate.Result {
	pairs := []allocate.Pair{
		{Row: "Graph Theory", Column: "Ben", Cost: 1},
		{Row: "Compilers", Column: "Anna", Cost: 2.5},
	}

	res := &allocate.Result{
		Source:         "seminar.csv",
		Rows:           2,
		Cols:           3,
		Pairs:          pairs,
		Stats:          allocate.StatsOf(pairs),
		UnassignedCols: []string{"Carla"},
		Fill:           6,
		Filled:         1,
	}
	res.Diagnostics.AddInfo(diagnostic.CodeUnassignedColumn, `"Carla" has no partner`, "seminar.csv", "column 3")

	return res
}

func TestNew_CreatesTables(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	for _, table := range []string{"runs", "pairs"} {
		_, err := s.db.ExecContext(ctx, "SELECT 1 FROM "+table+" LIMIT 1")
		assert.NoError(t, err, table)
	}
}

func TestSaveAndGetRun(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	fixed := time.Date(2026, 3, 1, 12, 0, 0, 123, time.UTC)
	s.now = func() time.Time { return fixed }

	saved, err := s.SaveRun(ctx, sampleResult())
	require.NoError(t, err)
	require.NotEmpty(t, saved.ID)
	assert.Equal(t, fixed, saved.CreatedAt)

	got, err := s.GetRun(ctx, saved.ID)
	require.NoError(t, err)

	assert.Equal(t, saved.ID, got.ID)
	assert.True(t, fixed.Equal(got.CreatedAt))

	// Diagnostics are not persisted.
	want := sampleResult()
	if diff := cmp.Diff(want, got.Result, cmpopts.IgnoreFields(allocate.Result{}, "Diagnostics")); diff != "" {
		t.Errorf("GetRun() mismatch (-want +got):\n%s", diff)
	}
}

func TestGetRun_RecomputesStats(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	res := sampleResult()
	res.Stats = allocate.Stats{Count: 99, Total: -1}

	saved, err := s.SaveRun(ctx, res)
	require.NoError(t, err)

	got, err := s.GetRun(ctx, saved.ID)
	require.NoError(t, err)
	assert.Equal(t, allocate.Stats{Count: 2, Total: 3.5, Mean: 1.75, Min: 1, Max: 2.5}, got.Result.Stats)
}

func TestGetRun_EmptyResult(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	saved, err := s.SaveRun(ctx, &allocate.Result{Source: "empty.csv"})
	require.NoError(t, err)

	got, err := s.GetRun(ctx, saved.ID)
	require.NoError(t, err)
	assert.Empty(t, got.Result.Pairs)
	assert.Nil(t, got.Result.UnassignedRows)
	assert.False(t, got.Result.Stats.HasMean())
}

func TestGetRun_Prefix(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	saved, err := s.SaveRun(ctx, sampleResult())
	require.NoError(t, err)

	got, err := s.GetRun(ctx, saved.ID[:8])
	require.NoError(t, err)
	assert.Equal(t, saved.ID, got.ID)

	_, err = s.GetRun(ctx, saved.ID[:2])
	assert.ErrorIs(t, err, ErrRunNotFound)
}

func TestGetRun_Ambiguous(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	for _, id := range []string{"abcd-0001", "abcd-0002"} {
		_, err := s.db.ExecContext(ctx, `
			INSERT INTO runs (id, created_at, source, row_count, col_count, fill, filled)
			VALUES (?, 0, 'x.csv', 0, 0, 0, 0)`, id)
		require.NoError(t, err)
	}

	_, err := s.GetRun(ctx, "abcd")
	assert.ErrorIs(t, err, ErrAmbiguousID)

	got, err := s.GetRun(ctx, "abcd-0002")
	require.NoError(t, err)
	assert.Equal(t, "abcd-0002", got.ID)
}

func TestGetRun_NotFound(t *testing.T) {
	s := newTestStore(t)

	_, err := s.GetRun(context.Background(), "00000000-0000-0000-0000-000000000000")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrRunNotFound))
}

func TestListRuns(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	var ids []string
	for i := range 3 {
		s.now = func() time.Time { return base.Add(time.Duration(i) * time.Hour) }

		res := sampleResult()
		res.Source = []string{"a.csv", "b.csv", "c.csv"}[i]

		run, err := s.SaveRun(ctx, res)
		require.NoError(t, err)

		ids = append(ids, run.ID)
	}

	all, err := s.ListRuns(ctx, 0)
	require.NoError(t, err)
	require.Len(t, all, 3)

	assert.Equal(t, []string{ids[2], ids[1], ids[0]}, []string{all[0].ID, all[1].ID, all[2].ID})
	assert.Equal(t, "c.csv", all[0].Source)
	assert.Equal(t, 2, all[0].Pairs)
	assert.Equal(t, 3.5, all[0].Total)
	assert.True(t, base.Add(2*time.Hour).Equal(all[0].CreatedAt))

	limited, err := s.ListRuns(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, limited, 2)
}

func TestDeleteRun(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	saved, err := s.SaveRun(ctx, sampleResult())
	require.NoError(t, err)

	require.NoError(t, s.DeleteRun(ctx, saved.ID))

	_, err = s.GetRun(ctx, saved.ID)
	assert.ErrorIs(t, err, ErrRunNotFound)

	var n int
	require.NoError(t, s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM pairs").Scan(&n))
	assert.Zero(t, n)

	assert.ErrorIs(t, s.DeleteRun(ctx, saved.ID), ErrRunNotFound)
}

func TestSaveRun_Nil(t *testing.T) {
	_, err := newTestStore(t).SaveRun(context.Background(), nil)
	assert.Error(t, err)
}
