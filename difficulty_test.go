package reprise

import (
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// uuid4 builds a deterministic item ID for fixtures.
func uuid4(t *testing.T, n int) uuid.UUID {
	t.Helper()
	return uuid.MustParse(fmt.Sprintf("00000000-0000-4000-8000-%012d", n))
}

func newAdjuster(t *testing.T, cfg DifficultyConfig) *DifficultyAdjuster {
	t.Helper()
	a, err := NewDifficultyAdjuster(cfg)
	require.NoError(t, err)
	return a
}

func misses(n int) []Response {
	history := make([]Response, n)
	for i := range history {
		history[i] = QualityResponse(testItem, Incorrect, 2*time.Second, t0.AddDate(0, 0, i))
	}
	return history
}

func hits(n int) []Response {
	history := make([]Response, n)
	for i := range history {
		history[i] = QualityResponse(testItem, RecalledPerfect, 2*time.Second, t0.AddDate(0, 0, i))
	}
	return history
}

func TestNewDifficultyAdjusterDefaults(t *testing.T) {
	a := newAdjuster(t, DifficultyConfig{})
	assert.InDelta(t, 0.6, a.cfg.AccuracyThreshold, 1e-9)
	assert.Equal(t, 20, a.cfg.WindowSize)
	assert.Equal(t, 4096, a.cfg.MaxTracked)
}

func TestNewDifficultyAdjusterInvalid(t *testing.T) {
	_, err := NewDifficultyAdjuster(DifficultyConfig{AccuracyThreshold: 1.5})
	assert.Error(t, err)
	_, err = NewDifficultyAdjuster(DifficultyConfig{AgeDecay: -0.2})
	assert.Error(t, err)
	_, err = NewDifficultyAdjuster(DifficultyConfig{WindowSize: -1})
	assert.Error(t, err)
}

func TestAdjustEmptyHistoryReturnsPrior(t *testing.T) {
	a := newAdjuster(t, DifficultyConfig{})
	got, err := a.Adjust(nil, 0.42)
	require.NoError(t, err)
	assert.InDelta(t, 0.42, got, 1e-9)

	// Prior outside [0,1] is clamped, not rejected.
	got, err = a.Adjust(nil, 1.7)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, got, 1e-9)
}

func TestAdjustRisesOnLowAccuracy(t *testing.T) {
	a := newAdjuster(t, DifficultyConfig{})
	got, err := a.Adjust(misses(5), 0.5)
	require.NoError(t, err)
	assert.Greater(t, got, 0.5)
}

func TestAdjustFallsOnHighAccuracy(t *testing.T) {
	a := newAdjuster(t, DifficultyConfig{})
	got, err := a.Adjust(hits(5), 0.5)
	require.NoError(t, err)
	assert.Less(t, got, 0.5)
}

func TestAdjustClampedToUnitInterval(t *testing.T) {
	a := newAdjuster(t, DifficultyConfig{Step: 1})
	high, err := a.Adjust(misses(10), 0.95)
	require.NoError(t, err)
	assert.LessOrEqual(t, high, 1.0)

	low, err := a.Adjust(hits(10), 0.05)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, low, 0.0)
}

func TestAdjustRecentResponsesWeighMore(t *testing.T) {
	a := newAdjuster(t, DifficultyConfig{})

	// Same outcomes, opposite order: misses last must push difficulty
	// higher than misses first.
	oldMisses := append(misses(3), hits(3)...)
	newMisses := append(hits(3), misses(3)...)

	fromOld, err := a.Adjust(oldMisses, 0.5)
	require.NoError(t, err)
	fromNew, err := a.Adjust(newMisses, 0.5)
	require.NoError(t, err)
	assert.Greater(t, fromNew, fromOld)
}

func TestAdjustLatencyPressure(t *testing.T) {
	a := newAdjuster(t, DifficultyConfig{})

	// Establish a fast peer baseline.
	for i := 0; i < 50; i++ {
		_, err := a.Record(testUser, uuid4(t, i), QualityResponse(testItem, RecalledHard, time.Second, t0))
		require.NoError(t, err)
	}

	slow := []Response{
		QualityResponse(testItem, RecalledHard, 30*time.Second, t0),
		QualityResponse(testItem, RecalledHard, 30*time.Second, t0.AddDate(0, 0, 1)),
	}
	fast := []Response{
		QualityResponse(testItem, RecalledHard, 200*time.Millisecond, t0),
		QualityResponse(testItem, RecalledHard, 200*time.Millisecond, t0.AddDate(0, 0, 1)),
	}

	slowDiff, err := a.Adjust(slow, 0.5)
	require.NoError(t, err)
	fastDiff, err := a.Adjust(fast, 0.5)
	require.NoError(t, err)
	assert.Greater(t, slowDiff, fastDiff)
}

func TestAdjustRejectsInvalidHistory(t *testing.T) {
	a := newAdjuster(t, DifficultyConfig{})
	bad := []Response{QualityResponse(testItem, RecalledHard, -time.Second, t0)}
	_, err := a.Adjust(bad, 0.5)
	assert.ErrorIs(t, err, ErrInvalidResponse)
}

func TestRecordTracksSignal(t *testing.T) {
	a := newAdjuster(t, DifficultyConfig{})

	// Untracked items sit at the neutral prior.
	assert.InDelta(t, 0.5, a.Signal(testUser, testItem), 1e-9)
	assert.InDelta(t, 0.0, a.Penalty(testUser, testItem), 1e-9)

	for i := 0; i < 6; i++ {
		_, err := a.Record(testUser, testItem, QualityResponse(testItem, Blackout, 5*time.Second, t0.AddDate(0, 0, i)))
		require.NoError(t, err)
	}
	signal := a.Signal(testUser, testItem)
	assert.Greater(t, signal, 0.5)
	assert.Greater(t, a.Penalty(testUser, testItem), 0.0)
	assert.LessOrEqual(t, a.Penalty(testUser, testItem), 1.0)
}

func TestRecordWindowBounded(t *testing.T) {
	a := newAdjuster(t, DifficultyConfig{WindowSize: 4})
	for i := 0; i < 10; i++ {
		_, err := a.Record(testUser, testItem, QualityResponse(testItem, RecalledHard, time.Second, t0.AddDate(0, 0, i)))
		require.NoError(t, err)
	}
	track, ok := a.tracks.Get(signalKey{user: testUser, item: testItem})
	require.True(t, ok)
	assert.Len(t, track.window, 4)
}

func TestEffectiveQuality(t *testing.T) {
	assert.Equal(t, RecalledPerfect, EffectiveQuality(RecalledPerfect, 0))
	assert.Equal(t, RecalledHesitant, EffectiveQuality(RecalledPerfect, 1))
	assert.Equal(t, RecalledHesitant, EffectiveQuality(RecalledPerfect, 0.6))
	assert.Equal(t, Blackout, EffectiveQuality(Incorrect, 2))  // floored at 0
	assert.Equal(t, Blackout, EffectiveQuality(Blackout, 0.9)) // never negative
}
