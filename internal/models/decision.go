package models

// ReasonCode identifies the outcome of a login attempt.
type ReasonCode string

const (
	ReasonSuccess             ReasonCode = "success"
	ReasonDeniedGeoRestricted ReasonCode = "denied_geo_restricted"
	ReasonDeniedTimeWindow    ReasonCode = "denied_time_restricted"
	ReasonDeniedNoSuchUser    ReasonCode = "denied_no_such_user"
	ReasonDeniedLocked        ReasonCode = "denied_locked"
	ReasonDeniedBadPassword   ReasonCode = "denied_bad_password"
)

// Decision is the policy engine's answer to one login attempt. Denials are
// ordinary values, never errors; errors are reserved for infrastructure
// failures where no decision could be rendered.
type Decision struct {
	Allowed bool       `json:"allowed"`
	Reason  ReasonCode `json:"reason"`
	Message string     `json:"message"`
}

// AuditStatus maps a reason code to the status label stored on the audit
// event for that attempt.
func (d *Decision) AuditStatus() string {
	switch d.Reason {
	case ReasonSuccess:
		return StatusSuccess
	case ReasonDeniedGeoRestricted:
		return StatusDeniedGeoRestricted
	case ReasonDeniedTimeWindow:
		return StatusDeniedTimeWindow
	case ReasonDeniedNoSuchUser:
		return StatusDeniedNoSuchUser
	case ReasonDeniedLocked:
		return StatusDeniedLocked
	case ReasonDeniedBadPassword:
		return StatusDeniedBadPassword
	default:
		return string(d.Reason)
	}
}
