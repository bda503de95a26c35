package ticketing

import (
	"encoding/base64"
	"encoding/json"
	"fmt"

	qrcode "github.com/skip2/go-qrcode"
)

// ArtifactPayload is the minimal, non-sensitive subset of ticket data that
// gets embedded in the scannable artifact. Phone and the optional personal
// details are deliberately excluded.
type ArtifactPayload struct {
	TicketID string `json:"ticketId"`
	EventID  string `json:"eventId"`
	UserID   string `json:"userId"`
	FullName string `json:"fullName"`
	Email    string `json:"email"`
}

// ArtifactEncoder turns a ticket payload into a self-contained visual code.
type ArtifactEncoder interface {
	Encode(payload ArtifactPayload) (string, error)
}

// QRArtifactEncoder encodes payloads as PNG QR codes wrapped in a base64
// data URI. Scanning the image yields the JSON payload back verbatim.
type QRArtifactEncoder struct {
	size int
}

// NewQRArtifactEncoder constructs the encoder with the given image edge
// length in pixels (256 when non-positive).
func NewQRArtifactEncoder(size int) *QRArtifactEncoder {
	if size <= 0 {
		size = 256
	}
	return &QRArtifactEncoder{size: size}
}

// Encode serializes the payload to JSON and renders it as a QR data URI.
func (e *QRArtifactEncoder) Encode(payload ArtifactPayload) (string, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshal artifact payload: %w", err)
	}
	png, err := qrcode.Encode(string(raw), qrcode.Medium, e.size)
	if err != nil {
		return "", fmt.Errorf("encode qr: %w", err)
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(png), nil
}
