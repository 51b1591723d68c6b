package simulate

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/still-creek/reprise"
)

func bothEngines(t *testing.T) []reprise.Engine {
	t.Helper()
	leitner, err := reprise.NewLeitnerEngine(nil)
	require.NoError(t, err)
	return []reprise.Engine{reprise.SM2Engine{}, leitner}
}

func historyFor(item uuid.UUID, qualities ...reprise.Quality) []reprise.Response {
	history := make([]reprise.Response, len(qualities))
	for i, q := range qualities {
		history[i] = reprise.QualityResponse(item, q, 2*time.Second, simT0.AddDate(0, 0, i*3))
	}
	return history
}

func TestCompareEmpty(t *testing.T) {
	_, err := Compare(bothEngines(t), simUser, nil)
	assert.ErrorIs(t, err, ErrEmptyHistory)

	_, err = Compare(bothEngines(t), simUser, map[uuid.UUID][]reprise.Response{simItem: {}})
	assert.ErrorIs(t, err, ErrEmptyHistory)
}

func TestCompareSummaries(t *testing.T) {
	itemA := uuid.MustParse("5f2d7a3e-aaaa-4e8a-9c40-00000000c004")
	itemB := uuid.MustParse("5f2d7a3e-bbbb-4e8a-9c40-00000000c005")
	histories := map[uuid.UUID][]reprise.Response{
		itemA: historyFor(itemA, reprise.RecalledPerfect, reprise.RecalledPerfect, reprise.Blackout, reprise.RecalledHard),
		itemB: historyFor(itemB, reprise.RecalledHesitant, reprise.RecalledHesitant),
	}

	summaries, err := Compare(bothEngines(t), simUser, histories)
	require.NoError(t, err)
	require.Len(t, summaries, 2)

	// Sorted by variant: SM2 before Leitner.
	assert.Equal(t, reprise.SM2, summaries[0].Algorithm)
	assert.Equal(t, reprise.Leitner, summaries[1].Algorithm)

	for _, s := range summaries {
		assert.Equal(t, 2, s.Items)
		assert.Equal(t, 6, s.Reviews)
		assert.Equal(t, 1, s.Lapses, "one blackout in the data")
		assert.InDelta(t, 1.0/6.0, s.LapseRate, 1e-9)
		assert.Greater(t, s.MeanInterval, 0.0)
		assert.GreaterOrEqual(t, float64(s.MaxInterval), s.MeanInterval)
		assert.GreaterOrEqual(t, s.MeanRetention, 0.0)
		assert.LessOrEqual(t, s.MeanRetention, 1.0)
	}
}

func TestCompareDeterministic(t *testing.T) {
	itemA := uuid.MustParse("5f2d7a3e-aaaa-4e8a-9c40-00000000c004")
	itemB := uuid.MustParse("5f2d7a3e-bbbb-4e8a-9c40-00000000c005")
	histories := map[uuid.UUID][]reprise.Response{
		itemA: historyFor(itemA, reprise.RecalledPerfect, reprise.Blackout),
		itemB: historyFor(itemB, reprise.RecalledHard, reprise.RecalledHesitant),
	}

	first, err := Compare(bothEngines(t), simUser, histories)
	require.NoError(t, err)
	second, err := Compare(bothEngines(t), simUser, histories)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestCompareItemMismatch(t *testing.T) {
	histories := map[uuid.UUID][]reprise.Response{
		simItem: historyFor(uuid.MustParse("5f2d7a3e-9999-4e8a-9c40-00000000c003"), reprise.RecalledHard),
	}
	_, err := Compare(bothEngines(t), simUser, histories)
	assert.ErrorIs(t, err, ErrItemMismatch)
}

func TestCompareLeitnerLapseFollowsCoercion(t *testing.T) {
	leitner, err := reprise.NewLeitnerEngine(nil)
	require.NoError(t, err)

	histories := map[uuid.UUID][]reprise.Response{
		simItem: historyFor(simItem, reprise.RecalledHard, reprise.AlmostRecalled),
	}
	summaries, err := Compare([]reprise.Engine{leitner}, simUser, histories)
	require.NoError(t, err)
	require.Len(t, summaries, 1)
	assert.Equal(t, 1, summaries[0].Lapses, "quality 2 coerces to a miss")
}
