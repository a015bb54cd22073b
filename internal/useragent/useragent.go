package useragent

import (
	ua "github.com/mileusna/useragent"
)

// Unknown is the placeholder recorded when a field cannot be parsed from the
// User-Agent header. It participates in anomaly signatures as a literal
// value, so two unparseable agents from the same origin collapse together.
const Unknown = "Unknown"

// Fields holds the browser and device families extracted from a User-Agent
// header, normalized for audit records.
type Fields struct {
	BrowserFamily string
	DeviceFamily  string
}

// Parse extracts browser and device families from a raw User-Agent header.
// Missing or unparseable parts come back as "Unknown", never empty.
func Parse(header string) Fields {
	parsed := ua.Parse(header)

	// The parser echoes unrecognized tokens back as Name; without a version
	// or a device class the header did not actually parse as a browser.
	browser := parsed.Name
	if browser == "" ||
		(parsed.Version == "" && !parsed.Mobile && !parsed.Tablet && !parsed.Desktop && !parsed.Bot) {
		browser = Unknown
	}

	device := parsed.Device
	if device == "" {
		switch {
		case parsed.Mobile:
			device = "Mobile"
		case parsed.Tablet:
			device = "Tablet"
		case parsed.Desktop:
			device = "Desktop"
		case parsed.Bot:
			device = "Bot"
		default:
			device = Unknown
		}
	}

	return Fields{BrowserFamily: browser, DeviceFamily: device}
}
