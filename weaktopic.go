package reprise

import (
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
)

// TopicKey identifies a per-(user, topic) aggregate.
type TopicKey struct {
	User  uuid.UUID
	Topic string
}

// TopicAggregate is the running accuracy and latency aggregate for one
// (user, topic) pair. It is maintained incrementally; the detector never
// rescans response history.
type TopicAggregate struct {
	Attempts    int           `json:"attempts"`
	Correct     int           `json:"correct"`
	MeanLatency time.Duration `json:"mean_latency"`
}

// Accuracy returns the fraction of correct attempts, 0 when empty.
func (a TopicAggregate) Accuracy() float64 {
	if a.Attempts == 0 {
		return 0
	}
	return float64(a.Correct) / float64(a.Attempts)
}

// add folds one response into the aggregate. The mean latency uses the
// standard running-mean update, so the operation is associative over the
// event stream.
func (a *TopicAggregate) add(correct bool, latency time.Duration) {
	a.Attempts++
	if correct {
		a.Correct++
	}
	a.MeanLatency += (latency - a.MeanLatency) / time.Duration(a.Attempts)
}

// TopicReport is one row of the weak-topic report.
type TopicReport struct {
	Topic       string        `json:"topic"`
	Accuracy    float64       `json:"accuracy"`
	Attempts    int           `json:"attempts"`
	MeanLatency time.Duration `json:"mean_latency"`
}

// WeakTopicDetector aggregates response outcomes per (user, topic) and flags
// statistically weak areas. Detection is a pure query over the aggregates:
// the detector keeps no other history. It is not safe for concurrent
// mutation; callers serialize Record calls per key, as with the state store.
type WeakTopicDetector struct {
	aggregates map[TopicKey]*TopicAggregate
}

// NewWeakTopicDetector creates an empty detector.
func NewWeakTopicDetector() *WeakTopicDetector {
	return &WeakTopicDetector{aggregates: make(map[TopicKey]*TopicAggregate)}
}

// Record folds one response outcome into the (user, topic) aggregate.
func (d *WeakTopicDetector) Record(user uuid.UUID, topic string, correct bool, latency time.Duration) error {
	if topic == "" {
		return fmt.Errorf("%w: empty topic", ErrInvalidResponse)
	}
	if latency < 0 {
		return fmt.Errorf("%w: negative latency %s", ErrInvalidResponse, latency)
	}
	key := TopicKey{User: user, Topic: topic}
	agg, ok := d.aggregates[key]
	if !ok {
		agg = &TopicAggregate{}
		d.aggregates[key] = agg
	}
	agg.add(correct, latency)
	return nil
}

// Aggregate returns a copy of the current aggregate for the key.
func (d *WeakTopicDetector) Aggregate(user uuid.UUID, topic string) (TopicAggregate, bool) {
	agg, ok := d.aggregates[TopicKey{User: user, Topic: topic}]
	if !ok {
		return TopicAggregate{}, false
	}
	return *agg, true
}

// DetectWeak returns the user's topics whose accuracy falls below threshold
// with at least minAttempts attempts, sorted by ascending accuracy and then
// topic name. Topics under the attempt floor are never flagged: that is
// insufficient evidence, not weakness.
func (d *WeakTopicDetector) DetectWeak(user uuid.UUID, minAttempts int, threshold float64) []TopicReport {
	return WeakTopics(d.aggregates, user, minAttempts, threshold)
}

// WeakTopics is the detection query over a raw aggregate map, re-derivable
// at any time from the aggregates alone.
func WeakTopics(aggregates map[TopicKey]*TopicAggregate, user uuid.UUID, minAttempts int, threshold float64) []TopicReport {
	var weak []TopicReport
	for key, agg := range aggregates {
		if key.User != user || agg.Attempts < minAttempts {
			continue
		}
		if acc := agg.Accuracy(); acc < threshold {
			weak = append(weak, TopicReport{
				Topic:       key.Topic,
				Accuracy:    acc,
				Attempts:    agg.Attempts,
				MeanLatency: agg.MeanLatency,
			})
		}
	}
	sort.Slice(weak, func(i, j int) bool {
		if weak[i].Accuracy != weak[j].Accuracy {
			return weak[i].Accuracy < weak[j].Accuracy
		}
		return weak[i].Topic < weak[j].Topic
	})
	return weak
}
