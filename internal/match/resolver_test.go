package match

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alanfitzg/Benelux-GAA-sub010/internal/entity"
	"github.com/Alanfitzg/Benelux-GAA-sub010/internal/textutil"
)

func sampleClubs() []entity.Entity {
	return []entity.Entity{
		{ID: 1, Name: "Dublin GAA Club", Location: "Dublin, Ireland"},
		{ID: 2, Name: "Shannon Gaels GAA", Location: "New York, USA"},
		{ID: 3, Name: "Brussels GAA", Location: "Brussels, Belgium"},
		{ID: 4, Name: "Dublin Exiles", Location: "London, England"},
	}
}

func TestResolveExactContainment(t *testing.T) {
	result := Resolve("dublin", sampleClubs(), 1, DefaultWeights())
	require.True(t, result.Matched())
	assert.Equal(t, int64(1), result.Entity.ID, "name plus location outranks name only")
	assert.Equal(t, 5, result.Score)
	assert.Equal(t, "dublin", result.Key)
}

func TestResolveBelowThreshold(t *testing.T) {
	result := Resolve("newyork", sampleClubs(), 3, DefaultWeights())
	assert.False(t, result.Matched(), "location-only score of 2 is below 3")
	assert.Equal(t, 2, result.Score)
}

func TestResolveNoSignal(t *testing.T) {
	assert.False(t, Resolve("", sampleClubs(), 0, DefaultWeights()).Matched(), "empty query is never a wildcard")
	assert.False(t, Resolve("kilkenny", sampleClubs(), 0, DefaultWeights()).Matched(), "zero score never matches")
}

func TestResolveFirstSeenWinsTies(t *testing.T) {
	clubs := []entity.Entity{
		{ID: 7, Name: "Eire Og Brussels"},
		{ID: 3, Name: "Eire Og Luxembourg"},
	}
	result := Resolve("eireog", clubs, 1, DefaultWeights())
	require.True(t, result.Matched())
	assert.Equal(t, int64(7), result.Entity.ID)

	sorted := SortCandidates(clubs)
	result = Resolve("eireog", sorted, 1, DefaultWeights())
	require.True(t, result.Matched())
	assert.Equal(t, int64(3), result.Entity.ID)
	assert.Equal(t, int64(7), clubs[0].ID, "SortCandidates must not reorder the input")
}

func TestResolveDeterministic(t *testing.T) {
	idx := NewIndex(SortCandidates(sampleClubs()))
	first := idx.Resolve("brussels", 1, DefaultWeights())
	for i := 0; i < 10; i++ {
		again := idx.Resolve("brussels", 1, DefaultWeights())
		require.True(t, again.Matched())
		assert.Equal(t, first.Entity.ID, again.Entity.ID)
		assert.Equal(t, first.Score, again.Score)
	}
}

func TestResolveAllOrdersByScore(t *testing.T) {
	ranked := NewIndex(sampleClubs()).ResolveAll("dublin", DefaultWeights())
	require.Len(t, ranked, 2)
	assert.Equal(t, int64(1), ranked[0].Entity.ID)
	assert.Equal(t, int64(4), ranked[1].Entity.ID)
	assert.Equal(t, 3, ranked[1].Score)
}

func TestFindExact(t *testing.T) {
	clubs := []entity.Entity{
		{ID: 1, Name: "Ballyskenagh GAA", Location: "Offaly"},
		{ID: 2, Name: "Killavilla GAA", Location: "Offaly"},
		{ID: 3, Name: "Éire Óg", Location: "Brussels"},
		{ID: 4, Name: "eire og", Location: "Luxembourg"},
		{ID: 5, Name: "St Mary's GAA", Location: "Leuven"},
		{ID: 6, Name: "St Marys Hurling Club", Location: "Leuven"},
	}

	found, err := FindExact("ballyskenagh gaa", "", clubs)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, int64(1), found.ID)

	missing, err := FindExact("Ballyskenagh-Killavilla GAA", "", clubs)
	require.NoError(t, err)
	assert.Nil(t, missing)

	_, err = FindExact("Eire Og", "", clubs)
	assert.ErrorIs(t, err, entity.ErrAmbiguous)

	scoped, err := FindExact("Eire Og", "Luxembourg", clubs)
	require.NoError(t, err)
	require.NotNil(t, scoped)
	assert.Equal(t, int64(4), scoped.ID)

	// Suffixes and qualifiers are part of the exact name.
	gaa, err := FindExact("St Marys GAA", "", clubs)
	require.NoError(t, err)
	require.NotNil(t, gaa)
	assert.Equal(t, int64(5), gaa.ID)
	assert.Equal(t, textutil.Loose(gaa.Name), textutil.Loose(clubs[5].Name))
}

func TestIndexUpdateRefreshesKeys(t *testing.T) {
	idx := NewIndex(sampleClubs())
	first := idx.candidates[0].Entity
	first.Name = "Renamed Club"
	require.True(t, idx.Update(first))

	c, ok := idx.Candidate(first.ID)
	require.True(t, ok)
	assert.Equal(t, "renamedclub", c.NameKey)
	assert.False(t, idx.Update(entity.Entity{ID: 9999}))
}
