package reprise

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Response records a single answer event. Exactly one of Quality or Correct
// is set: Quality for SM2-governed states, Correct for Leitner ones. The
// event is transient input to an update call; durable logging is the
// collaborator's responsibility.
type Response struct {
	ItemID    uuid.UUID     `json:"item_id"`
	Quality   *Quality      `json:"quality,omitempty"` // nil for Leitner responses.
	Correct   *bool         `json:"correct,omitempty"` // nil for SM2 responses.
	Latency   time.Duration `json:"latency"`
	Timestamp time.Time     `json:"timestamp"`
}

// QualityResponse builds an SM2 response event.
func QualityResponse(item uuid.UUID, q Quality, latency time.Duration, at time.Time) Response {
	return Response{ItemID: item, Quality: &q, Latency: latency, Timestamp: at}
}

// CorrectnessResponse builds a Leitner response event.
func CorrectnessResponse(item uuid.UUID, correct bool, latency time.Duration, at time.Time) Response {
	return Response{ItemID: item, Correct: &correct, Latency: latency, Timestamp: at}
}

// Kind returns the algorithm variant this response targets: SM2 when Quality
// is set, Leitner when Correct is set, and 0 when the response is malformed.
func (r Response) Kind() Algorithm {
	switch {
	case r.Quality != nil && r.Correct == nil:
		return SM2
	case r.Correct != nil && r.Quality == nil:
		return Leitner
	default:
		return 0
	}
}

// Successful reports whether the response counts as a successful recall.
func (r Response) Successful() bool {
	if r.Quality != nil {
		return r.Quality.Successful()
	}
	return r.Correct != nil && *r.Correct
}

// Validate rejects malformed events before any state is touched.
func (r Response) Validate() error {
	if r.Kind() == 0 {
		return fmt.Errorf("%w: exactly one of quality or correctness must be set", ErrInvalidResponse)
	}
	if r.Quality != nil && !r.Quality.IsValid() {
		return fmt.Errorf("%w: %d", ErrInvalidQuality, int(*r.Quality))
	}
	if r.Latency < 0 {
		return fmt.Errorf("%w: negative latency %s", ErrInvalidResponse, r.Latency)
	}
	if r.Timestamp.IsZero() {
		return fmt.Errorf("%w: zero timestamp", ErrInvalidResponse)
	}
	return nil
}

// clone returns a deep copy of the response. Pointer fields are copied by value.
func (r Response) clone() Response {
	out := r
	if r.Quality != nil {
		v := *r.Quality
		out.Quality = &v
	}
	if r.Correct != nil {
		v := *r.Correct
		out.Correct = &v
	}
	return out
}
