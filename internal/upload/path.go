package upload

import (
	"github.com/google/uuid"

	"kitloop/internal/model"
)

// PrefixFor resolves the concrete object-key namespace for a use case. The
// reservation id is only consulted for damage photos. Unknown use cases
// return "" — callers resolve the rule first, so this is unreachable in
// practice.
func PrefixFor(useCase model.UploadUseCase, providerID, reservationID string) string {
	switch useCase {
	case model.UseCaseGearImage:
		return providerID + "/gear/"
	case model.UseCaseDamagePhoto:
		return providerID + "/" + reservationID + "/damage/"
	case model.UseCaseProviderLogo:
		return providerID + "/logo/"
	}
	return ""
}

// BuildObjectKey derives the storage key for one ticket: the use-case prefix,
// a fresh random token, and the sanitized client file name. The per-request
// token guarantees two tickets never resolve to the same key, even for
// identical file names issued concurrently.
func BuildObjectKey(prefix, fileName, mimeType string) string {
	return prefix + uuid.NewString() + "_" + SanitizeFileName(fileName, mimeType)
}
