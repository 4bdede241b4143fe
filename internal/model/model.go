package model

// Package model contains domain models/data structures shared across layers.
// Keep it free of persistence and transport concerns; no business logic here.

// UploadUseCase identifies the business purpose of an upload and selects the
// rule set that governs it. The set of values is closed.
type UploadUseCase string

const (
	UseCaseGearImage    UploadUseCase = "gear_image"
	UseCaseDamagePhoto  UploadUseCase = "damage_photo"
	UseCaseProviderLogo UploadUseCase = "provider_logo"
)

// Valid reports whether u is one of the known use cases.
func (u UploadUseCase) Valid() bool {
	switch u {
	case UseCaseGearImage, UseCaseDamagePhoto, UseCaseProviderLogo:
		return true
	}
	return false
}

// UploadRule is the immutable policy for one use case: what may be uploaded,
// how large it may be, and where it must live.
type UploadRule struct {
	UseCase       UploadUseCase `json:"useCase"`
	AllowedMime   []string      `json:"allowedMime"`
	MaxBytes      int64         `json:"maxBytes"`
	Bucket        string        `json:"bucket"`
	AllowedPrefix string        `json:"allowedPrefix"`
}

// TicketRequest is the validated, request-scoped input to ticket issuance.
// ReservationID is empty unless the use case is damage_photo.
type TicketRequest struct {
	UseCase       UploadUseCase
	FileName      string
	MimeType      string
	SizeBytes     int64
	ProviderID    string
	ReservationID string
}

// UploadTicket is the response artifact for a granted request. It is never
// persisted; the signed URL expires server-side after ExpiresIn seconds.
type UploadTicket struct {
	Bucket      string   `json:"bucket"`
	Path        string   `json:"path"`
	Token       string   `json:"token"`
	SignedURL   string   `json:"signedUrl"`
	ExpiresIn   int      `json:"expiresIn"`
	MaxBytes    int64    `json:"maxBytes"`
	AllowedMime []string `json:"allowedMime"`
}
