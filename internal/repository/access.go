package repository

import "context"

// ProviderAccessRepository answers whether a user may act on behalf of a
// provider: either as a recorded member or as the provider's recorded owner.
type ProviderAccessRepository interface {
	// HasAccess reports whether userID is a member or the owner of providerID.
	HasAccess(ctx context.Context, providerID, userID string) (bool, error)
}

// ReservationRepository answers reservation ownership questions.
type ReservationRepository interface {
	// BelongsToProvider reports whether the reservation exists and is owned
	// by the given provider.
	BelongsToProvider(ctx context.Context, reservationID, providerID string) (bool, error)
}
