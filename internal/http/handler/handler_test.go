package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"kitloop/internal/auth"
	authMocks "kitloop/internal/auth/mocks"
	"kitloop/internal/model"
	"kitloop/internal/service"
	serviceMocks "kitloop/internal/service/mocks"
	"kitloop/internal/upload"
)

const (
	testProviderID    = "11111111-1111-1111-1111-111111111111"
	testReservationID = "22222222-2222-2222-2222-222222222222"
	testUserID        = "33333333-3333-3333-3333-333333333333"
	testToken         = "valid-token"
)

// ticketRequestBodyLimit mirrors the app-level body ceiling wired in main.
const ticketRequestBodyLimit = 256 << 10

func newTicketApp(svc service.TicketService, verifier auth.Verifier) *fiber.App {
	app := fiber.New(fiber.Config{
		BodyLimit:    ticketRequestBodyLimit,
		ErrorHandler: ErrorHandler(),
	})
	app.Post("/upload-tickets", IssueUploadTicket(svc, verifier))
	app.Options("/upload-tickets", Preflight())
	return app
}

func ticketBody(mutate func(m map[string]any)) *bytes.Buffer {
	m := map[string]any{
		"useCase":    "gear_image",
		"fileName":   "photo.png",
		"mimeType":   "image/png",
		"sizeBytes":  1024,
		"providerId": testProviderID,
	}
	if mutate != nil {
		mutate(m)
	}
	b, _ := json.Marshal(m)
	return bytes.NewBuffer(b)
}

func postTicket(t *testing.T, app *fiber.App, body *bytes.Buffer, withAuth bool) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/upload-tickets", body)
	req.Header.Set("Content-Type", "application/json")
	if withAuth {
		req.Header.Set("Authorization", "Bearer "+testToken)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp
}

func decodeError(t *testing.T, resp *http.Response) errorPayload {
	t.Helper()
	var body errorPayload
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return body
}

func TestIssueUploadTicket_Success(t *testing.T) {
	mockSvc := new(serviceMocks.MockTicketService)
	mockVerifier := new(authMocks.MockVerifier)
	app := newTicketApp(mockSvc, mockVerifier)

	mockVerifier.On("Verify", mock.Anything, testToken).Return(&auth.User{ID: testUserID}, nil)
	mockSvc.On("Issue", mock.Anything, testUserID, mock.MatchedBy(func(req *model.TicketRequest) bool {
		return req.UseCase == model.UseCaseGearImage &&
			req.FileName == "photo.png" &&
			req.SizeBytes == 1024 &&
			req.ProviderID == testProviderID
	})).Return(&model.UploadTicket{
		Bucket:      "gear-images",
		Path:        testProviderID + "/gear/tok_photo.png",
		Token:       "sig",
		SignedURL:   "https://storage.test/gear-images/...",
		ExpiresIn:   900,
		MaxBytes:    5 << 20,
		AllowedMime: []string{"image/jpeg", "image/png", "image/webp"},
	}, nil)

	resp := postTicket(t, app, ticketBody(nil), true)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var ticket model.UploadTicket
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&ticket))
	assert.Equal(t, "gear-images", ticket.Bucket)
	assert.True(t, strings.HasPrefix(ticket.Path, testProviderID+"/gear/"))
	assert.Equal(t, 900, ticket.ExpiresIn)
	assert.NotEmpty(t, ticket.SignedURL)

	mockSvc.AssertExpectations(t)
	mockVerifier.AssertExpectations(t)
}

func TestIssueUploadTicket_PayloadValidation(t *testing.T) {
	tests := []struct {
		name       string
		mutate     func(m map[string]any)
		wantReason string
	}{
		{
			name:       "unknown use case",
			mutate:     func(m map[string]any) { m["useCase"] = "passport_scan" },
			wantReason: ReasonInvalidPayload,
		},
		{
			name:       "empty file name",
			mutate:     func(m map[string]any) { m["fileName"] = "" },
			wantReason: ReasonInvalidPayload,
		},
		{
			name:       "empty mime type",
			mutate:     func(m map[string]any) { m["mimeType"] = "" },
			wantReason: ReasonInvalidPayload,
		},
		{
			name:       "zero size",
			mutate:     func(m map[string]any) { m["sizeBytes"] = 0 },
			wantReason: ReasonInvalidPayload,
		},
		{
			name:       "negative size",
			mutate:     func(m map[string]any) { m["sizeBytes"] = -5 },
			wantReason: ReasonInvalidPayload,
		},
		{
			name:       "non-integer size",
			mutate:     func(m map[string]any) { m["sizeBytes"] = 10.5 },
			wantReason: ReasonInvalidPayload,
		},
		{
			name:       "invalid provider id",
			mutate:     func(m map[string]any) { m["providerId"] = "not-a-uuid" },
			wantReason: ReasonInvalidPayload,
		},
		{
			name:       "damage photo without reservation",
			mutate:     func(m map[string]any) { m["useCase"] = "damage_photo" },
			wantReason: ReasonReservationRequired,
		},
		{
			name: "damage photo with malformed reservation id",
			mutate: func(m map[string]any) {
				m["useCase"] = "damage_photo"
				m["reservationId"] = "not-a-uuid"
			},
			wantReason: ReasonInvalidPayload,
		},
		{
			name: "malformed reservation id on gear image",
			mutate: func(m map[string]any) {
				m["reservationId"] = "not-a-uuid"
			},
			wantReason: ReasonInvalidPayload,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockSvc := new(serviceMocks.MockTicketService)
			mockVerifier := new(authMocks.MockVerifier)
			app := newTicketApp(mockSvc, mockVerifier)

			resp := postTicket(t, app, ticketBody(tt.mutate), true)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

			body := decodeError(t, resp)
			assert.Equal(t, tt.wantReason, body.ReasonCode)
			assert.NotEmpty(t, body.Error)

			// Shape failures happen before identity resolution.
			mockVerifier.AssertNotCalled(t, "Verify", mock.Anything, mock.Anything)
			mockSvc.AssertNotCalled(t, "Issue", mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestIssueUploadTicket_MalformedJSON(t *testing.T) {
	mockSvc := new(serviceMocks.MockTicketService)
	mockVerifier := new(authMocks.MockVerifier)
	app := newTicketApp(mockSvc, mockVerifier)

	resp := postTicket(t, app, bytes.NewBufferString("{not json"), true)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, ReasonInvalidPayload, decodeError(t, resp).ReasonCode)
}

func TestIssueUploadTicket_Unauthorized(t *testing.T) {
	t.Run("missing authorization header", func(t *testing.T) {
		mockSvc := new(serviceMocks.MockTicketService)
		mockVerifier := new(authMocks.MockVerifier)
		app := newTicketApp(mockSvc, mockVerifier)

		mockVerifier.On("Verify", mock.Anything, "").Return(nil, auth.ErrUnauthorized)

		resp := postTicket(t, app, ticketBody(nil), false)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		assert.Equal(t, ReasonUnauthorized, decodeError(t, resp).ReasonCode)
		mockSvc.AssertNotCalled(t, "Issue", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("invalid token", func(t *testing.T) {
		mockSvc := new(serviceMocks.MockTicketService)
		mockVerifier := new(authMocks.MockVerifier)
		app := newTicketApp(mockSvc, mockVerifier)

		mockVerifier.On("Verify", mock.Anything, testToken).Return(nil, auth.ErrUnauthorized)

		resp := postTicket(t, app, ticketBody(nil), true)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})
}

func TestIssueUploadTicket_DenialStatusMapping(t *testing.T) {
	tests := []struct {
		name       string
		reason     string
		wantStatus int
	}{
		{"provider forbidden", service.ReasonProviderForbidden, http.StatusForbidden},
		{"reservation mismatch", service.ReasonReservationMismatch, http.StatusForbidden},
		{"file too large", upload.ReasonFileTooLarge, http.StatusBadRequest},
		{"mime not allowed", upload.ReasonMimeNotAllowed, http.StatusBadRequest},
		{"path not allowed", upload.ReasonPathNotAllowed, http.StatusBadRequest},
		{"bucket not allowed", upload.ReasonBucketNotAllowed, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockSvc := new(serviceMocks.MockTicketService)
			mockVerifier := new(authMocks.MockVerifier)
			app := newTicketApp(mockSvc, mockVerifier)

			mockVerifier.On("Verify", mock.Anything, testToken).Return(&auth.User{ID: testUserID}, nil)
			mockSvc.On("Issue", mock.Anything, testUserID, mock.Anything).
				Return(nil, &service.DenialError{Reason: tt.reason})

			resp := postTicket(t, app, ticketBody(nil), true)
			assert.Equal(t, tt.wantStatus, resp.StatusCode)

			body := decodeError(t, resp)
			assert.Equal(t, tt.reason, body.ReasonCode)
		})
	}
}

func TestIssueUploadTicket_InternalError(t *testing.T) {
	mockSvc := new(serviceMocks.MockTicketService)
	mockVerifier := new(authMocks.MockVerifier)
	app := newTicketApp(mockSvc, mockVerifier)

	mockVerifier.On("Verify", mock.Anything, testToken).Return(&auth.User{ID: testUserID}, nil)
	mockSvc.On("Issue", mock.Anything, testUserID, mock.Anything).
		Return(nil, errors.New("presign upload: storage unavailable"))

	resp := postTicket(t, app, ticketBody(nil), true)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)

	body := decodeError(t, resp)
	assert.Empty(t, body.ReasonCode)
	assert.Equal(t, "internal server error", body.Error)
}

func TestIssueUploadTicket_MethodGate(t *testing.T) {
	mockSvc := new(serviceMocks.MockTicketService)
	mockVerifier := new(authMocks.MockVerifier)
	app := newTicketApp(mockSvc, mockVerifier)

	t.Run("options preflight returns empty success", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodOptions, "/upload-tickets", nil)
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("other methods are rejected", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/upload-tickets", nil)
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
		mockSvc.AssertNotCalled(t, "Issue", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestIssueUploadTicket_BodyTooLarge(t *testing.T) {
	mockSvc := new(serviceMocks.MockTicketService)
	mockVerifier := new(authMocks.MockVerifier)
	app := newTicketApp(mockSvc, mockVerifier)

	// fasthttp rejects the request while reading the body, so app.Test
	// surfaces the limit as a transport error rather than a response. On a
	// real listener Fiber maps it to the 413 handled by ErrorHandler, which
	// TestErrorHandler_RequestEntityTooLarge covers.
	huge := bytes.NewBufferString(`{"fileName":"` + strings.Repeat("a", ticketRequestBodyLimit+1) + `"}`)
	req := httptest.NewRequest(http.MethodPost, "/upload-tickets", huge)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+testToken)

	_, err := app.Test(req)
	require.EqualError(t, err, "body size exceeds the given limit")
	mockVerifier.AssertNotCalled(t, "Verify", mock.Anything, mock.Anything)
	mockSvc.AssertNotCalled(t, "Issue", mock.Anything, mock.Anything, mock.Anything)
}

func TestErrorHandler_RequestEntityTooLarge(t *testing.T) {
	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler()})
	app.Post("/upload-tickets", func(c *fiber.Ctx) error {
		return fiber.ErrRequestEntityTooLarge
	})

	req := httptest.NewRequest(http.MethodPost, "/upload-tickets", bytes.NewBufferString("{}"))
	resp, err := app.Test(req)
	require.NoError(t, err)

	assert.Equal(t, http.StatusRequestEntityTooLarge, resp.StatusCode)
	body := decodeError(t, resp)
	assert.Equal(t, "request body too large", body.Error)
	assert.Empty(t, body.ReasonCode)
}

func TestGetUploadRule(t *testing.T) {
	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler()})
	app.Get("/upload-rules/:useCase", GetUploadRule())

	t.Run("known use case", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/upload-rules/gear_image", nil)
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var rule model.UploadRule
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&rule))
		assert.Equal(t, "gear-images", rule.Bucket)
		assert.Equal(t, int64(5<<20), rule.MaxBytes)
		assert.Contains(t, rule.AllowedMime, "image/png")
	})

	t.Run("unknown use case", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/upload-rules/passport_scan", nil)
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		assert.Equal(t, upload.ReasonUseCaseUnknown, decodeError(t, resp).ReasonCode)
	})
}

func TestListAuditEvents(t *testing.T) {
	newAuditApp := func(svc service.TicketService, verifier auth.Verifier) *fiber.App {
		app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler()})
		app.Get("/audit-events", ListAuditEvents(svc, verifier))
		return app
	}

	t.Run("success", func(t *testing.T) {
		mockSvc := new(serviceMocks.MockTicketService)
		mockVerifier := new(authMocks.MockVerifier)
		app := newAuditApp(mockSvc, mockVerifier)

		mockVerifier.On("Verify", mock.Anything, testToken).Return(&auth.User{ID: testUserID}, nil)
		mockSvc.On("ListAudit", mock.Anything, testUserID, testProviderID, 10, 0).
			Return(&service.AuditListResult{
				Items: []model.AuditRecord{{ID: "a1", Action: model.AuditTicketIssued}},
				Total: 1,
			}, nil)

		req := httptest.NewRequest(http.MethodGet, "/audit-events?providerId="+testProviderID, nil)
		req.Header.Set("Authorization", "Bearer "+testToken)
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var res service.AuditListResult
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&res))
		assert.Len(t, res.Items, 1)
		assert.Equal(t, 1, res.Total)
		mockSvc.AssertExpectations(t)
	})

	t.Run("invalid provider id", func(t *testing.T) {
		mockSvc := new(serviceMocks.MockTicketService)
		mockVerifier := new(authMocks.MockVerifier)
		app := newAuditApp(mockSvc, mockVerifier)

		req := httptest.NewRequest(http.MethodGet, "/audit-events?providerId=nope", nil)
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("forbidden", func(t *testing.T) {
		mockSvc := new(serviceMocks.MockTicketService)
		mockVerifier := new(authMocks.MockVerifier)
		app := newAuditApp(mockSvc, mockVerifier)

		mockVerifier.On("Verify", mock.Anything, testToken).Return(&auth.User{ID: testUserID}, nil)
		mockSvc.On("ListAudit", mock.Anything, testUserID, testProviderID, 10, 0).
			Return(nil, &service.DenialError{Reason: service.ReasonProviderForbidden})

		req := httptest.NewRequest(http.MethodGet, "/audit-events?providerId="+testProviderID, nil)
		req.Header.Set("Authorization", "Bearer "+testToken)
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	})
}

func TestHealthCheck(t *testing.T) {
	db, dbMock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	defer db.Close()

	app := fiber.New()
	app.Get("/health", HealthCheck(db))

	t.Run("healthy", func(t *testing.T) {
		dbMock.ExpectPing().WillReturnError(nil)

		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var body map[string]string
		json.NewDecoder(resp.Body).Decode(&body)
		assert.Equal(t, "healthy", body["status"])
	})

	t.Run("unhealthy", func(t *testing.T) {
		dbMock.ExpectPing().WillReturnError(errors.New("db error"))

		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	})
}

func TestLivenessProbe(t *testing.T) {
	app := fiber.New()
	app.Get("/healthz", LivenessProbe())

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	resp, _ := app.Test(req)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
