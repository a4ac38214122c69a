package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gartstein/onboarding/internal/onboarding/auth"
	e "github.com/gartstein/onboarding/internal/onboarding/errors"
	"github.com/gartstein/onboarding/internal/onboarding/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

const testSecret = "test-secret"

type observedRequest struct {
	route string
	code  int
}

type mockHTTPRecorder struct {
	mu       sync.Mutex
	observed []observedRequest
}

func (m *mockHTTPRecorder) ObserveHTTP(route string, code int, _ time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.observed = append(m.observed, observedRequest{route: route, code: code})
}

func (m *mockHTTPRecorder) last() observedRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.observed) == 0 {
		return observedRequest{}
	}
	return m.observed[len(m.observed)-1]
}

func newTestAPI(t *testing.T, ctrl OnboardingController) (http.Handler, *mockHTTPRecorder) {
	t.Helper()
	rec := &mockHTTPRecorder{}
	mux := NewGatewayMux()
	require.NoError(t, NewHTTPHandler(ctrl, rec, zaptest.NewLogger(t)).Register(mux))
	return auth.HTTPMiddleware(mux, testSecret, AdminRoutes...), rec
}

func adminToken(t *testing.T) string {
	t.Helper()
	token, err := auth.GenerateToken("admin-1", auth.AdminRole, testSecret, time.Hour)
	require.NoError(t, err)
	return token
}

func doRequest(api http.Handler, method, path, body, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	api.ServeHTTP(w, req)
	return w
}

func decodeResult(t *testing.T, w *httptest.ResponseRecorder) models.Result {
	t.Helper()
	var result models.Result
	require.NoError(t, json.NewDecoder(w.Body).Decode(&result))
	return result
}

func TestHTTPHandler_Submit(t *testing.T) {
	t.Run("Created", func(t *testing.T) {
		var got *models.OnboardingRequestInput
		api, rec := newTestAPI(t, &mockOnboardingController{
			submitFunc: func(_ context.Context, in *models.OnboardingRequestInput) (*models.OnboardingRequest, error) {
				got = in
				return sampleRequest(), nil
			},
		})

		body := `{"companyName":"Acme","contactName":"Jane Doe","email":"jane@acme.test","mobileNumber":"+15550100"}`
		w := doRequest(api, http.MethodPost, "/v1/onboarding-requests", body, "")

		assert.Equal(t, http.StatusCreated, w.Code)
		result := decodeResult(t, w)
		assert.True(t, result.Success)
		assert.Equal(t, "Onboarding request submitted successfully.", result.Message)
		require.NotNil(t, got)
		require.NotNil(t, got.MobileNumber)
		assert.Equal(t, "+15550100", *got.MobileNumber)
		assert.Equal(t, observedRequest{route: "submit", code: http.StatusCreated}, rec.last())
	})

	t.Run("MalformedBody", func(t *testing.T) {
		api, _ := newTestAPI(t, &mockOnboardingController{})

		w := doRequest(api, http.MethodPost, "/v1/onboarding-requests", "{", "")

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.False(t, decodeResult(t, w).Success)
	})

	t.Run("MissingFields", func(t *testing.T) {
		api, rec := newTestAPI(t, &mockOnboardingController{
			submitFunc: func(_ context.Context, _ *models.OnboardingRequestInput) (*models.OnboardingRequest, error) {
				return nil, e.ErrValidation
			},
		})

		w := doRequest(api, http.MethodPost, "/v1/onboarding-requests", `{"companyName":"Acme"}`, "")

		assert.Equal(t, http.StatusBadRequest, w.Code)
		result := decodeResult(t, w)
		assert.False(t, result.Success)
		assert.Equal(t, "Company Name, Contact Name, and Email are required.", result.Error)
		assert.Equal(t, http.StatusBadRequest, rec.last().code)
	})
}

func TestHTTPHandler_List(t *testing.T) {
	first := sampleRequest()
	api, _ := newTestAPI(t, &mockOnboardingController{
		listFunc: func(_ context.Context) ([]*models.OnboardingRequest, error) {
			return []*models.OnboardingRequest{first}, nil
		},
	})

	t.Run("RequiresToken", func(t *testing.T) {
		w := doRequest(api, http.MethodGet, "/v1/onboarding-requests", "", "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("RejectsNonAdmin", func(t *testing.T) {
		token, err := auth.GenerateToken("member-1", "member", testSecret, time.Hour)
		require.NoError(t, err)
		w := doRequest(api, http.MethodGet, "/v1/onboarding-requests", "", token)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("Admin", func(t *testing.T) {
		w := doRequest(api, http.MethodGet, "/v1/onboarding-requests", "", adminToken(t))
		require.Equal(t, http.StatusOK, w.Code)

		var reqs []*models.OnboardingRequest
		require.NoError(t, json.NewDecoder(w.Body).Decode(&reqs))
		require.Len(t, reqs, 1)
		assert.Equal(t, first.ID, reqs[0].ID)
	})
}

func TestHTTPHandler_Get(t *testing.T) {
	known := sampleRequest()
	api, _ := newTestAPI(t, &mockOnboardingController{
		getFunc: func(_ context.Context, id uuid.UUID) (*models.OnboardingRequest, bool, error) {
			if id == known.ID {
				return known, true, nil
			}
			return nil, false, nil
		},
	})
	token := adminToken(t)

	w := doRequest(api, http.MethodGet, "/v1/onboarding-requests/"+known.ID.String(), "", token)
	require.Equal(t, http.StatusOK, w.Code)
	var got models.OnboardingRequest
	require.NoError(t, json.NewDecoder(w.Body).Decode(&got))
	assert.Equal(t, known.CompanyName, got.CompanyName)

	w = doRequest(api, http.MethodGet, "/v1/onboarding-requests/"+uuid.NewString(), "", token)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doRequest(api, http.MethodGet, "/v1/onboarding-requests/not-a-uuid", "", token)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHTTPHandler_Approve(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{name: "Success", wantStatus: http.StatusOK},
		{name: "NotFound", err: e.ErrNotFound, wantStatus: http.StatusNotFound},
		{name: "AlreadyProcessed", err: e.ErrAlreadyProcessed, wantStatus: http.StatusConflict},
		{name: "RoleMissing", err: e.ErrRoleMissing, wantStatus: http.StatusPreconditionFailed},
		{name: "UserConflict", err: e.ErrUserConflict, wantStatus: http.StatusConflict},
		{name: "StorageError", err: errors.New("boom"), wantStatus: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api, rec := newTestAPI(t, &mockOnboardingController{
				approveFunc: func(_ context.Context, _ uuid.UUID) (*models.Enrollment, error) {
					if tt.err != nil {
						return nil, tt.err
					}
					return &models.Enrollment{Request: sampleRequest()}, nil
				},
			})

			path := "/v1/onboarding-requests/" + uuid.NewString() + "/approve"
			w := doRequest(api, http.MethodPost, path, "", adminToken(t))

			assert.Equal(t, tt.wantStatus, w.Code)
			result := decodeResult(t, w)
			assert.Equal(t, tt.err == nil, result.Success)
			if tt.err != nil {
				assert.Equal(t, "Failed to add company: "+tt.err.Error(), result.Error)
			}
			assert.Equal(t, observedRequest{route: "approve", code: tt.wantStatus}, rec.last())
		})
	}

	t.Run("RequiresToken", func(t *testing.T) {
		api, _ := newTestAPI(t, &mockOnboardingController{})
		w := doRequest(api, http.MethodPost, "/v1/onboarding-requests/"+uuid.NewString()+"/approve", "", "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestHTTPHandler_FormPostCannotReachAdminRoutes(t *testing.T) {
	var listed, fetched bool
	api, _ := newTestAPI(t, &mockOnboardingController{
		listFunc: func(_ context.Context) ([]*models.OnboardingRequest, error) {
			listed = true
			return []*models.OnboardingRequest{sampleRequest()}, nil
		},
		getFunc: func(_ context.Context, _ uuid.UUID) (*models.OnboardingRequest, bool, error) {
			fetched = true
			return sampleRequest(), true, nil
		},
	})

	formPost := func(path string, override string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, path, strings.NewReader("companyName=Acme"))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		if override != "" {
			req.Header.Set("X-HTTP-Method-Override", override)
		}
		w := httptest.NewRecorder()
		api.ServeHTTP(w, req)
		return w
	}

	t.Run("MethodOverrideToList", func(t *testing.T) {
		w := formPost("/v1/onboarding-requests", http.MethodGet)
		assert.NotEqual(t, http.StatusOK, w.Code)
		assert.False(t, listed, "list must not be served without a token")
	})

	t.Run("FallbackToGet", func(t *testing.T) {
		w := formPost("/v1/onboarding-requests/"+uuid.NewString(), "")
		assert.NotEqual(t, http.StatusOK, w.Code)
		assert.False(t, fetched, "get must not be served without a token")
	})

	t.Run("OverrideOnGetPath", func(t *testing.T) {
		w := formPost("/v1/onboarding-requests/"+uuid.NewString(), http.MethodGet)
		assert.NotEqual(t, http.StatusOK, w.Code)
		assert.False(t, fetched)
	})
}
