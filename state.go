package reprise

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Defaults for freshly created scheduling state.
const (
	DefaultEaseFactor = 2.5
	MinEaseFactor     = 1.3
	initialInterval   = 1
	initialBox        = 1
)

// ItemState is the per-(user, item) scheduling state. It is mutated only by
// the owning engine's update call and never deleted while the item exists.
type ItemState struct {
	UserID       uuid.UUID  `json:"user_id"`
	ItemID       uuid.UUID  `json:"item_id"`
	Algorithm    Algorithm  `json:"algorithm"`
	EaseFactor   float64    `json:"ease_factor,omitempty"` // SM2 only; never below 1.3.
	IntervalDays int        `json:"interval_days"`         // always >= 1.
	Repetitions  int        `json:"repetitions"`
	Box          int        `json:"box,omitempty"` // Leitner only; 1..N.
	Due          time.Time  `json:"due"`
	LastReview   *time.Time `json:"last_review"` // nil before first review.
}

// NewSM2State creates scheduling state for first exposure under SM2.
// The item is due immediately.
func NewSM2State(user, item uuid.UUID, today time.Time) ItemState {
	return ItemState{
		UserID:       user,
		ItemID:       item,
		Algorithm:    SM2,
		EaseFactor:   DefaultEaseFactor,
		IntervalDays: initialInterval,
		Due:          today,
	}
}

// NewLeitnerState creates scheduling state for first exposure under Leitner.
// The item starts in box 1 and is due immediately.
func NewLeitnerState(user, item uuid.UUID, today time.Time) ItemState {
	return ItemState{
		UserID:       user,
		ItemID:       item,
		Algorithm:    Leitner,
		IntervalDays: initialInterval,
		Box:          initialBox,
		Due:          today,
	}
}

// NewState creates default state for the given algorithm variant. Switching
// an item between variants goes through here: prior fields are discarded,
// never reinterpreted.
func NewState(alg Algorithm, user, item uuid.UUID, today time.Time) (ItemState, error) {
	switch alg {
	case SM2:
		return NewSM2State(user, item, today), nil
	case Leitner:
		return NewLeitnerState(user, item, today), nil
	default:
		return ItemState{}, fmt.Errorf("%w: %s", ErrUnknownAlgorithm, alg)
	}
}

// clone returns a deep copy of the state. Pointer fields are copied by value.
func (s ItemState) clone() ItemState {
	out := s
	if s.LastReview != nil {
		v := *s.LastReview
		out.LastReview = &v
	}
	return out
}

func (s *ItemState) setLastReview(t time.Time) {
	s.LastReview = &t
}
