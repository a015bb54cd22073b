// Package anomaly labels login events against a recurrence-based trust
// model: an event is anomalous exactly when its (browser, device, origin)
// signature has never been seen before for that username. There is no
// statistical baseline and no inference; the full audit history is the model.
package anomaly

import (
	"sort"

	"github.com/BradenHooton/bastion/internal/models"
)

// Label classifies a single login event.
type Label string

const (
	LabelNormal  Label = "Normal"
	LabelAnomaly Label = "Anomaly"
)

// LabeledEvent pairs a login event with its classification.
type LabeledEvent struct {
	Event models.LoginEvent `json:"event"`
	Label Label             `json:"label"`
}

// Summary aggregates classification counts across a labeled history.
type Summary struct {
	Total        int `json:"total"`
	AnomalyCount int `json:"anomaly_count"`
	NormalCount  int `json:"normal_count"`
}

// Classify labels each event by whether its signature was previously seen
// for that username. Events are processed in ascending timestamp order
// regardless of input order, so the first chronological occurrence of a
// signature is always the one labeled Anomaly. The input slice is not
// modified; labels come back in the input's order.
func Classify(events []models.LoginEvent) []LabeledEvent {
	if len(events) == 0 {
		return []LabeledEvent{}
	}

	// Stable chronological order decides "first occurrence". Ties keep
	// input order so repeated runs over the same history agree.
	order := make([]int, len(events))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return events[order[a]].OccurredAt.Before(events[order[b]].OccurredAt)
	})

	labels := make([]Label, len(events))
	seen := make(map[string]map[models.Signature]struct{})

	for _, idx := range order {
		e := &events[idx]

		userSeen, ok := seen[e.Username]
		if !ok {
			userSeen = make(map[models.Signature]struct{})
			seen[e.Username] = userSeen
		}

		sig := models.SignatureOf(e)
		if _, known := userSeen[sig]; known {
			labels[idx] = LabelNormal
		} else {
			labels[idx] = LabelAnomaly
			userSeen[sig] = struct{}{}
		}
	}

	labeled := make([]LabeledEvent, len(events))
	for i, e := range events {
		labeled[i] = LabeledEvent{Event: e, Label: labels[i]}
	}

	return labeled
}

// Summarize counts labels across a classified history.
func Summarize(labeled []LabeledEvent) Summary {
	s := Summary{Total: len(labeled)}
	for _, le := range labeled {
		if le.Label == LabelAnomaly {
			s.AnomalyCount++
		} else {
			s.NormalCount++
		}
	}
	return s
}
