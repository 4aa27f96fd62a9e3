package allocate

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"

	"topic-allocator/internal/assign"
	"topic-allocator/internal/diagnostic"
	"topic-allocator/internal/matrix"
	"topic-allocator/internal/table"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

const seminarCSV = `;Anna;Ben;Carla
Graph Theory;1;2;
Compilers;;1;3
Databases;2;;1
`

const wideCSV = `;Anna;Ben;Carla
Graph Theory;4;1;3
Compilers;2;0;5
`

func writeCSV(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	return path
}

func TestAllocator_AllocateFile(t *testing.T) {
	path := writeCSV(t, t.TempDir(), "seminar.csv", seminarCSV)

	a := NewAllocator(DefaultConfig(), zap.NewNop())

	res, err := a.AllocateFile(context.Background(), path)
	require.NoError(t, err)

	assert.Equal(t, path, res.Source)
	assert.Equal(t, 3, res.Rows)
	assert.Equal(t, 3, res.Cols)
	assert.Equal(t, []Pair{
		{Row: "Graph Theory", Column: "Anna", Cost: 1},
		{Row: "Compilers", Column: "Ben", Cost: 1},
		{Row: "Databases", Column: "Carla", Cost: 1},
	}, res.Pairs)

	assert.Equal(t, Stats{Count: 3, Total: 3, Mean: 1, Min: 1, Max: 1}, res.Stats)
	assert.Equal(t, 4.0, res.Fill)
	assert.Equal(t, 3, res.Filled)
	assert.Empty(t, res.UnassignedRows)
	assert.Empty(t, res.UnassignedCols)

	require.Len(t, res.Diagnostics.Warnings, 1)
	assert.Equal(t, diagnostic.CodeMissingCells, res.Diagnostics.Warnings[0].Code)
}

func TestAllocator_Rectangular(t *testing.T) {
	path := writeCSV(t, t.TempDir(), "wide.csv", wideCSV)

	res, err := NewAllocator(DefaultConfig(), nil).AllocateFile(context.Background(), path)
	require.NoError(t, err)

	assert.Equal(t, []Pair{
		{Row: "Graph Theory", Column: "Ben", Cost: 1},
		{Row: "Compilers", Column: "Anna", Cost: 2},
	}, res.Pairs)
	assert.Equal(t, 3.0, res.Stats.Total)
	assert.Equal(t, 1.5, res.Stats.Mean)
	assert.Equal(t, []string{"Carla"}, res.UnassignedCols)
	assert.Empty(t, res.UnassignedRows)

	require.Len(t, res.Diagnostics.Infos, 1)
	assert.Equal(t, diagnostic.CodeUnassignedColumn, res.Diagnostics.Infos[0].Code)
	assert.Empty(t, res.Diagnostics.Warnings)
}

func TestAllocator_Transpose(t *testing.T) {
	path := writeCSV(t, t.TempDir(), "wide.csv", wideCSV)

	config := DefaultConfig()
	config.Read.Transpose = true

	res, err := NewAllocator(config, nil).AllocateFile(context.Background(), path)
	require.NoError(t, err)

	// Two optimal allocations cost 3; the solver's tie-break keeps the
	// later rows.
	assert.Equal(t, []Pair{
		{Row: "Ben", Column: "Compilers", Cost: 0},
		{Row: "Carla", Column: "Graph Theory", Cost: 3},
	}, res.Pairs)
	assert.Equal(t, 3.0, res.Stats.Total)
	assert.Equal(t, []string{"Anna"}, res.UnassignedRows)
}

func TestAllocator_Errors(t *testing.T) {
	ctx := context.Background()
	a := NewAllocator(DefaultConfig(), nil)

	t.Run("no numeric data", func(t *testing.T) {
		path := writeCSV(t, t.TempDir(), "blank.csv", ";A;B\nT1;;x\nT2;-;\n")

		res, err := a.AllocateFile(ctx, path)
		require.Error(t, err)
		assert.Nil(t, res)
		assert.True(t, errors.Is(err, matrix.ErrNoNumericData))
	})

	t.Run("duplicate labels", func(t *testing.T) {
		path := writeCSV(t, t.TempDir(), "dup.csv", ";A;A\nT1;1;2\n")

		_, err := a.AllocateFile(ctx, path)
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrInvalidTable))
		assert.Contains(t, err.Error(), diagnostic.CodeDuplicateColumnLabel)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := a.AllocateFile(ctx, filepath.Join(t.TempDir(), "nope.csv"))
		require.Error(t, err)
		assert.True(t, errors.Is(err, os.ErrNotExist))
	})

	t.Run("canceled", func(t *testing.T) {
		cctx, cancel := context.WithCancel(ctx)
		cancel()

		_, err := a.Allocate(cctx, &table.RawTable{
			RowLabels: []string{"T1"},
			ColLabels: []string{"A"},
			Cells:     [][]table.Cell{{table.Number(1)}},
		}, "inline")
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestAllocator_EmptyTable(t *testing.T) {
	path := writeCSV(t, t.TempDir(), "empty.csv", ";A;B\n")

	res, err := NewAllocator(DefaultConfig(), nil).AllocateFile(context.Background(), path)
	require.NoError(t, err)

	assert.Empty(t, res.Pairs)
	assert.False(t, res.Stats.HasMean())
	assert.Equal(t, []string{"A", "B"}, res.UnassignedCols)
	require.Len(t, res.Diagnostics.Warnings, 1)
	assert.Equal(t, diagnostic.CodeEmptyTable, res.Diagnostics.Warnings[0].Code)
}

func TestNewResult(t *testing.T) {
	m, err := matrix.New([]string{"T1", "T2", "T3"}, []string{"A", "B"}, [][]float64{
		{5, 1},
		{2, 9},
		{0, 0},
	})
	require.NoError(t, err)

	asg, err := assign.Solve(m)
	require.NoError(t, err)

	res := NewResult("inline", m, asg)
	assert.Len(t, res.Pairs, 2)
	assert.Equal(t, asg.Total(), res.Stats.Total)

	mean, ok := assign.MeanCost(asg)
	require.True(t, ok)
	assert.Equal(t, mean, res.Stats.Mean)
	assert.Len(t, res.UnassignedRows, 1)
}

func TestStatsOf(t *testing.T) {
	assert.Equal(t, Stats{}, StatsOf(nil))
	assert.False(t, StatsOf(nil).HasMean())

	s := StatsOf([]Pair{{Cost: 3}, {Cost: 1}, {Cost: 5}})
	assert.Equal(t, Stats{Count: 3, Total: 9, Mean: 3, Min: 1, Max: 5}, s)
	assert.True(t, s.HasMean())
}
