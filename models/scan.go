package models

import (
	"encoding/json"
	"fmt"
)

// Scan payload types embedded in QR codes.
const (
	ScanTypeBooking = "booking"
	ScanTypeUser    = "user"
)

// ScanPayload is the canonical form of a kiosk QR scan. All legacy payload
// shapes are normalized into this type at the boundary before any business
// logic runs.
type ScanPayload struct {
	Type      string `json:"type"`
	BookingID string `json:"bookingId,omitempty"`
	UserID    string `json:"userId,omitempty"`
}

// ParseScanPayload decodes a raw QR payload, accepting the historical field
// variants (`id` in place of `bookingId`/`userId`, missing `type` on old
// booking passes) and mapping them to the canonical shape.
func ParseScanPayload(data []byte) (*ScanPayload, error) {
	var raw struct {
		Type      string `json:"type"`
		BookingID string `json:"bookingId"`
		UserID    string `json:"userId"`
		ID        string `json:"id"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("malformed scan payload: %w", err)
	}

	p := &ScanPayload{Type: raw.Type}
	switch raw.Type {
	case ScanTypeBooking:
		p.BookingID = firstNonEmpty(raw.BookingID, raw.ID)
		if p.BookingID == "" {
			return nil, fmt.Errorf("scan payload missing booking identifier")
		}
	case ScanTypeUser:
		p.UserID = firstNonEmpty(raw.UserID, raw.ID)
		if p.UserID == "" {
			return nil, fmt.Errorf("scan payload missing user identifier")
		}
	case "":
		// Oldest payloads carried only an identifier.
		switch {
		case raw.BookingID != "" || raw.ID != "":
			p.Type = ScanTypeBooking
			p.BookingID = firstNonEmpty(raw.BookingID, raw.ID)
		case raw.UserID != "":
			p.Type = ScanTypeUser
			p.UserID = raw.UserID
		default:
			return nil, fmt.Errorf("scan payload carries no identifier")
		}
	default:
		return nil, fmt.Errorf("unknown scan payload type %q", raw.Type)
	}
	return p, nil
}

// Encode renders the canonical payload as the JSON string embedded in QR codes.
func (p *ScanPayload) Encode() (string, error) {
	b, err := json.Marshal(p)
	if err != nil {
		return "", fmt.Errorf("failed to encode scan payload: %w", err)
	}
	return string(b), nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
