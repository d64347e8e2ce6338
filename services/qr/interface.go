package qr

// Encoder renders a scan payload string as a QR image. Image encoding is an
// external collaborator; the core only builds payloads.
type Encoder interface {
	Encode(payload string) ([]byte, error)
}
