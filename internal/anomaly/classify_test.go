package anomaly

import (
	"testing"
	"time"

	"github.com/BradenHooton/bastion/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var baseTime = time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

func event(username, browser, device, ip string, minute int) models.LoginEvent {
	return models.LoginEvent{
		Username:      username,
		BrowserFamily: browser,
		DeviceFamily:  device,
		IPAddress:     ip,
		Status:        models.StatusSuccess,
		OccurredAt:    baseTime.Add(time.Duration(minute) * time.Minute),
	}
}

func TestClassify_FirstOccurrenceIsAnomaly(t *testing.T) {
	// Signatures in chronological order: A, A, B, A
	events := []models.LoginEvent{
		event("alice", "Chrome", "Desktop", "1.2.3.4", 0), // A
		event("alice", "Chrome", "Desktop", "1.2.3.4", 1), // A
		event("alice", "Safari", "iPhone", "1.2.3.4", 2),  // B
		event("alice", "Chrome", "Desktop", "1.2.3.4", 3), // A
	}

	labeled := Classify(events)
	require.Len(t, labeled, 4)

	want := []Label{LabelAnomaly, LabelNormal, LabelAnomaly, LabelNormal}
	for i, w := range want {
		assert.Equal(t, w, labeled[i].Label, "event %d", i)
	}
}

func TestClassify_EmptyInput(t *testing.T) {
	labeled := Classify(nil)
	assert.Empty(t, labeled)

	summary := Summarize(labeled)
	assert.Equal(t, Summary{}, summary)
}

func TestClassify_ColdStart(t *testing.T) {
	// A user's very first login is always flagged
	labeled := Classify([]models.LoginEvent{
		event("bob", "Firefox", "Desktop", "5.6.7.8", 0),
	})

	require.Len(t, labeled, 1)
	assert.Equal(t, LabelAnomaly, labeled[0].Label)
}

func TestClassify_ScopedPerUsername(t *testing.T) {
	// The same signature from two users is a first occurrence for each
	events := []models.LoginEvent{
		event("alice", "Chrome", "Desktop", "1.2.3.4", 0),
		event("bob", "Chrome", "Desktop", "1.2.3.4", 1),
		event("alice", "Chrome", "Desktop", "1.2.3.4", 2),
	}

	labeled := Classify(events)
	require.Len(t, labeled, 3)
	assert.Equal(t, LabelAnomaly, labeled[0].Label)
	assert.Equal(t, LabelAnomaly, labeled[1].Label)
	assert.Equal(t, LabelNormal, labeled[2].Label)
}

func TestClassify_OrderIndependent(t *testing.T) {
	// Input arrives newest-first; chronological order still decides which
	// occurrence is the anomaly.
	first := event("alice", "Chrome", "Desktop", "1.2.3.4", 0)
	second := event("alice", "Chrome", "Desktop", "1.2.3.4", 5)

	labeled := Classify([]models.LoginEvent{second, first})
	require.Len(t, labeled, 2)

	// labeled keeps input order: index 0 is the later event
	assert.Equal(t, LabelNormal, labeled[0].Label)
	assert.Equal(t, LabelAnomaly, labeled[1].Label)
}

func TestClassify_UnknownFieldsCollapse(t *testing.T) {
	// Two failed parses with the same origin share one signature
	events := []models.LoginEvent{
		event("alice", "Unknown", "Unknown", "1.2.3.4", 0),
		event("alice", "Unknown", "Unknown", "1.2.3.4", 1),
	}

	labeled := Classify(events)
	require.Len(t, labeled, 2)
	assert.Equal(t, LabelAnomaly, labeled[0].Label)
	assert.Equal(t, LabelNormal, labeled[1].Label)
}

func TestClassify_DifferentOriginIsNewSignature(t *testing.T) {
	events := []models.LoginEvent{
		event("alice", "Chrome", "Desktop", "1.2.3.4", 0),
		event("alice", "Chrome", "Desktop", "9.9.9.9", 1),
	}

	labeled := Classify(events)
	require.Len(t, labeled, 2)
	assert.Equal(t, LabelAnomaly, labeled[0].Label)
	assert.Equal(t, LabelAnomaly, labeled[1].Label)
}

func TestClassify_Idempotent(t *testing.T) {
	events := []models.LoginEvent{
		event("alice", "Chrome", "Desktop", "1.2.3.4", 0),
		event("alice", "Safari", "iPhone", "1.2.3.4", 1),
		event("alice", "Chrome", "Desktop", "1.2.3.4", 2),
		event("bob", "Chrome", "Desktop", "1.2.3.4", 3),
	}

	first := Classify(events)
	second := Classify(events)
	assert.Equal(t, first, second)
}

func TestSummarize(t *testing.T) {
	events := []models.LoginEvent{
		event("alice", "Chrome", "Desktop", "1.2.3.4", 0),
		event("alice", "Chrome", "Desktop", "1.2.3.4", 1),
		event("alice", "Safari", "iPhone", "1.2.3.4", 2),
		event("alice", "Chrome", "Desktop", "1.2.3.4", 3),
	}

	summary := Summarize(Classify(events))
	assert.Equal(t, Summary{Total: 4, AnomalyCount: 2, NormalCount: 2}, summary)
}
