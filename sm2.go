package reprise

import (
	"fmt"
	"math"
	"time"
)

// SM2Engine implements the SuperMemo-2 update rule. The zero value is ready
// to use. All methods are pure over their arguments and safe for concurrent
// use.
type SM2Engine struct{}

// Algorithm implements Engine.
func (SM2Engine) Algorithm() Algorithm { return SM2 }

// Review implements Engine. The response must carry a quality rating.
func (e SM2Engine) Review(state ItemState, resp Response, today time.Time) (ItemState, error) {
	if err := resp.Validate(); err != nil {
		return ItemState{}, err
	}
	if resp.Quality == nil {
		return ItemState{}, fmt.Errorf("%w: correctness response for SM2 state", ErrAlgorithmMismatch)
	}
	return e.Update(state, *resp.Quality, today)
}

// Update applies one SM-2 review to the state and returns the new state.
// The ease factor moves by the standard formula on every call, success or
// failure, and never drops below 1.3. A failed recall (quality < 3) resets
// the repetition count to 0 and the interval to 1 day; a successful one
// follows the 1, 6, round(interval x ease) ordinal schedule, growing by the
// freshly updated ease. The input state is not mutated.
func (e SM2Engine) Update(state ItemState, q Quality, today time.Time) (ItemState, error) {
	if !q.IsValid() {
		return ItemState{}, fmt.Errorf("%w: %d", ErrInvalidQuality, int(q))
	}
	if state.Algorithm != SM2 {
		return ItemState{}, fmt.Errorf("%w: quality rating for %s state", ErrAlgorithmMismatch, state.Algorithm)
	}

	s := state.clone()
	s.EaseFactor = nextEase(state.EaseFactor, q)

	if q.Successful() {
		s.Repetitions = state.Repetitions + 1
		switch s.Repetitions {
		case 1:
			s.IntervalDays = 1
		case 2:
			s.IntervalDays = 6
		default:
			s.IntervalDays = growInterval(state.IntervalDays, s.EaseFactor)
		}
	} else {
		s.Repetitions = 0
		s.IntervalDays = 1
	}

	s.Due = today.AddDate(0, 0, s.IntervalDays)
	s.setLastReview(today)
	return s, nil
}

// nextEase computes EF' = EF + (0.1 - (5-q) * (0.08 + (5-q) * 0.02)),
// clamped to a floor of 1.3. There is no ceiling.
func nextEase(ef float64, q Quality) float64 {
	miss := 5 - float64(q)
	next := ef + (0.1 - miss*(0.08+miss*0.02))
	return math.Max(next, MinEaseFactor)
}

// growInterval rounds interval * ease to the nearest integer, minimum 1 day.
func growInterval(intervalDays int, ease float64) int {
	grown := int(math.Round(float64(intervalDays) * ease))
	if grown < 1 {
		grown = 1
	}
	return grown
}
