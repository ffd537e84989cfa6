package cleaning

import (
	"testing"

	"csvexplorer/domain/dataset"
	"csvexplorer/internal/session"
	"csvexplorer/internal/testkit"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixture(t *testing.T) *dataset.Dataset {
	return testkit.MustDataset(t, []string{"id", "name", "score", "city"},
		[]string{"1", "ana", "", "lisbon"},
		[]string{"2", "", "", "porto"},
		[]string{"3", "carla", "7.5", "faro"},
		[]string{"4", "dora", "", ""},
		[]string{"5", "eva", "9", "braga"},
	)
}

func TestMissingCounts(t *testing.T) {
	counts := MissingCounts(fixture(t))

	assert.Equal(t, []MissingCount{
		{Column: "score", Count: 3},
		{Column: "name", Count: 1},
		{Column: "city", Count: 1},
	}, counts)
}

func TestMissingCounts_CompleteDataset(t *testing.T) {
	ds := testkit.MustDataset(t, []string{"a"}, []string{"1"})
	assert.Empty(t, MissingCounts(ds))
}

func TestRowsWithMissing(t *testing.T) {
	ds := fixture(t)

	rows := RowsWithMissing(ds, 0)
	require.Len(t, rows, 3)
	assert.Equal(t, 0, rows[0].Index)
	assert.Equal(t, []string{"1", "ana", dataset.MissingLabel, "lisbon"}, rows[0].Values)
	assert.Equal(t, 1, rows[1].Index)
	assert.Equal(t, 3, rows[2].Index)

	limited := RowsWithMissing(ds, 2)
	assert.Len(t, limited, 2)
}

func TestInspect(t *testing.T) {
	ds := fixture(t)

	hidden := Inspect(ds, false, 5)
	assert.False(t, hidden.RowsShown)
	assert.Nil(t, hidden.Rows)
	assert.Equal(t, 5, hidden.TotalMissing)

	shown := Inspect(ds, true, 5)
	assert.True(t, shown.RowsShown)
	assert.Len(t, shown.Rows, 3)
	assert.Equal(t, ds.Names(), shown.Columns)
}

func TestResetTransitionClearsState(t *testing.T) {
	state := session.State{Dataset: fixture(t)}
	next := ResetTransition().Apply(state)
	assert.False(t, next.HasDataset())
}
