package reprise

import (
	"math"
	"time"
)

// Retention estimates the probability of recall after elapsedDays given a
// memory strength: R(t, s) = e^(-t / s). It is total: elapsed time at or
// below zero yields 1.0, arbitrarily large elapsed time approaches 0, and a
// non-positive strength yields 0. Advisory only; it never drives a state
// update directly.
func Retention(elapsedDays, strength float64) float64 {
	if strength <= 0 {
		return 0
	}
	if elapsedDays <= 0 {
		return 1
	}
	return math.Exp(-elapsedDays / strength)
}

// MemoryStrength derives the forgetting-curve strength from scheduling
// state. Strength grows with the interval and, for SM2, with the ease
// factor; for Leitner, with the box index. Higher strength means slower
// decay.
func MemoryStrength(s ItemState) float64 {
	interval := float64(s.IntervalDays)
	if interval < 1 {
		interval = 1
	}
	switch s.Algorithm {
	case SM2:
		ease := s.EaseFactor
		if ease < MinEaseFactor {
			ease = MinEaseFactor
		}
		return interval * ease
	case Leitner:
		box := s.Box
		if box < 1 {
			box = 1
		}
		return interval * (1 + 0.25*float64(box-1))
	default:
		return interval
	}
}

// EstimateRetention returns the modeled recall probability for the state at
// the given time. Before the first review there is nothing to decay from,
// so it returns 0.
func EstimateRetention(s ItemState, at time.Time) float64 {
	if s.LastReview == nil {
		return 0
	}
	elapsed := at.Sub(*s.LastReview).Hours() / 24.0
	return Retention(elapsed, MemoryStrength(s))
}
