// Package reprise implements adaptive spaced-repetition scheduling.
//
// reprise provides two interchangeable scheduling engines, SuperMemo-2 and
// Leitner boxes, behind a common Engine interface, plus a forgetting-curve
// retention estimate, a dynamic per-item difficulty signal, and weak-topic
// detection over per-topic accuracy aggregates. The ReviewScheduler
// orchestrates due-item selection and response routing; the
// reprise/simulate subpackage replays response histories to compare
// algorithms on the same data.
//
// Basic usage:
//
//	s, err := reprise.NewReviewScheduler(reprise.SchedulerConfig{})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	state := reprise.NewSM2State(userID, itemID, today)
//	out, err := s.RecordResponse(item, state, resp, today)
package reprise
