package models

import "time"

// Audit statuses recorded for login attempts. One event is appended per
// attempt, denials included.
const (
	StatusSuccess             = "Success"
	StatusDeniedGeoRestricted = "Denied - Geo Restricted"
	StatusDeniedTimeWindow    = "Denied - Outside Time Window"
	StatusDeniedNoSuchUser    = "Denied - User Not Found"
	StatusDeniedLocked        = "Denied - Account Locked"
	StatusDeniedBadPassword   = "Denied - Wrong Password"
)

// LocationUnknown is recorded when the origin resolver cannot produce a
// location label. It participates in anomaly signatures as a literal value.
const LocationUnknown = "Unknown"

// LoginEvent is an immutable audit record of one login attempt.
type LoginEvent struct {
	ID            string
	Username      string
	IPAddress     string
	Location      string
	BrowserFamily string
	DeviceFamily  string
	Status        string
	Message       string
	OccurredAt    time.Time
}

// Signature is the recurrence key for anomaly detection: the tuple of
// browser family, device family, and network origin, scoped per username.
type Signature struct {
	BrowserFamily string
	DeviceFamily  string
	IPAddress     string
}

// SignatureOf derives the anomaly signature from an event. Missing browser or
// device fields have already been normalized to "Unknown" at record time, so
// two failed parses from the same origin collapse to the same signature.
func SignatureOf(e *LoginEvent) Signature {
	return Signature{
		BrowserFamily: e.BrowserFamily,
		DeviceFamily:  e.DeviceFamily,
		IPAddress:     e.IPAddress,
	}
}
