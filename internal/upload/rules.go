package upload

import (
	"strings"

	"kitloop/internal/model"
)

// Package upload is the single source of truth for what is allowed to be
// uploaded, for what purpose, and where. It is pure data plus validation:
// no I/O, no per-request state, initialized once and never mutated.

// Reason codes returned by ValidateUploadRequest. They are stable,
// machine-readable identifiers that callers surface to clients.
const (
	ReasonUseCaseUnknown   = "use_case_unknown"
	ReasonBucketNotAllowed = "bucket_not_allowed"
	ReasonMimeNotAllowed   = "mime_not_allowed"
	ReasonFileTooLarge     = "file_too_large"
	ReasonPathNotAllowed   = "path_not_allowed"
)

const (
	mib = 1 << 20

	// TicketTTLSeconds is the fixed validity window of every signed upload
	// URL issued against these rules.
	TicketTTLSeconds = 900
)

var rules = map[model.UploadUseCase]model.UploadRule{
	model.UseCaseGearImage: {
		UseCase:       model.UseCaseGearImage,
		AllowedMime:   []string{"image/jpeg", "image/png", "image/webp"},
		MaxBytes:      5 * mib,
		Bucket:        "gear-images",
		AllowedPrefix: "{providerId}/gear/",
	},
	model.UseCaseDamagePhoto: {
		UseCase:       model.UseCaseDamagePhoto,
		AllowedMime:   []string{"image/jpeg", "image/png", "image/webp"},
		MaxBytes:      10 * mib,
		Bucket:        "damage-photos",
		AllowedPrefix: "{providerId}/{reservationId}/damage/",
	},
	model.UseCaseProviderLogo: {
		UseCase:       model.UseCaseProviderLogo,
		AllowedMime:   []string{"image/png", "image/jpeg", "image/svg+xml", "image/webp"},
		MaxBytes:      2 * mib,
		Bucket:        "provider-logos",
		AllowedPrefix: "{providerId}/logo/",
	},
}

// RuleFor returns the rule governing the given use case. The second return
// is false for any value outside the closed enumeration; callers must treat
// that as a validation failure, not a system error.
func RuleFor(useCase model.UploadUseCase) (model.UploadRule, bool) {
	r, ok := rules[useCase]
	return r, ok
}

// Buckets returns the distinct storage buckets referenced by the registry.
func Buckets() []string {
	seen := make(map[string]bool, len(rules))
	out := make([]string, 0, len(rules))
	for _, r := range rules {
		if !seen[r.Bucket] {
			seen[r.Bucket] = true
			out = append(out, r.Bucket)
		}
	}
	return out
}

// ValidateParams is the input to ValidateUploadRequest. Path and
// ExpectedPrefix are optional; when Path is empty the path checks are
// skipped, and when ExpectedPrefix is empty the rule's AllowedPrefix
// template is used as the prefix requirement.
type ValidateParams struct {
	UseCase        model.UploadUseCase
	MimeType       string
	SizeBytes      int64
	Bucket         string
	Path           string
	ExpectedPrefix string
}

// Result is the outcome of ValidateUploadRequest. Rule is nil only when the
// use case itself could not be resolved.
type Result struct {
	OK     bool
	Reason string
	Rule   *model.UploadRule
}

// ValidateUploadRequest runs the upload policy checks in a fixed order so
// that a request violating several rules at once always reports the same
// reason code: use case, bucket, MIME type, size, then path.
func ValidateUploadRequest(p ValidateParams) Result {
	rule, ok := RuleFor(p.UseCase)
	if !ok {
		return Result{Reason: ReasonUseCaseUnknown}
	}

	if p.Bucket != rule.Bucket {
		return Result{Reason: ReasonBucketNotAllowed, Rule: &rule}
	}

	if !mimeAllowed(rule.AllowedMime, p.MimeType) {
		return Result{Reason: ReasonMimeNotAllowed, Rule: &rule}
	}

	// Zero or negative size is never valid and reports the same code as
	// oversize.
	if p.SizeBytes <= 0 || p.SizeBytes > rule.MaxBytes {
		return Result{Reason: ReasonFileTooLarge, Rule: &rule}
	}

	if p.Path != "" {
		if strings.Contains(p.Path, "..") {
			return Result{Reason: ReasonPathNotAllowed, Rule: &rule}
		}
		prefix := p.ExpectedPrefix
		if prefix == "" {
			prefix = rule.AllowedPrefix
		}
		if !strings.HasPrefix(p.Path, prefix) {
			return Result{Reason: ReasonPathNotAllowed, Rule: &rule}
		}
	}

	return Result{OK: true, Rule: &rule}
}

func mimeAllowed(allowed []string, mimeType string) bool {
	mt := strings.ToLower(mimeType)
	for _, m := range allowed {
		if strings.ToLower(m) == mt {
			return true
		}
	}
	return false
}
