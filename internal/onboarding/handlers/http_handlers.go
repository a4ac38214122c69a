package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gartstein/onboarding/internal/onboarding/auth"
	"github.com/gartstein/onboarding/internal/onboarding/controller"
	"github.com/gartstein/onboarding/internal/onboarding/models"
	"github.com/grpc-ecosystem/grpc-gateway/v2/runtime"
	"go.uber.org/zap"
)

const requestsPath = "/v1/onboarding-requests"

// AdminRoutes are the HTTP routes that require an admin token.
var AdminRoutes = []auth.Route{
	{Method: http.MethodGet, Prefix: requestsPath},
	{Method: http.MethodPost, Prefix: requestsPath + "/", Suffix: "/approve"},
}

// NewGatewayMux builds the mux the JSON API is served from. Path length
// fallback is disabled so a request is always dispatched with the method
// the auth middleware saw: no X-HTTP-Method-Override rewrite and no POST to
// GET fallback for form-encoded bodies.
func NewGatewayMux() *runtime.ServeMux {
	return runtime.NewServeMux(runtime.WithDisablePathLengthFallback())
}

// HTTPRecorder observes every HTTP API request.
type HTTPRecorder interface {
	ObserveHTTP(route string, code int, elapsed time.Duration)
}

// HTTPHandler serves the onboarding JSON API on a gateway ServeMux.
type HTTPHandler struct {
	service  OnboardingController
	recorder HTTPRecorder
	logger   *zap.Logger
}

func NewHTTPHandler(service OnboardingController, recorder HTTPRecorder, logger *zap.Logger) *HTTPHandler {
	return &HTTPHandler{
		service:  service,
		recorder: recorder,
		logger:   logger.Named("http_handler"),
	}
}

// Register adds the API routes to mux.
func (h *HTTPHandler) Register(mux *runtime.ServeMux) error {
	routes := []struct {
		method  string
		pattern string
		name    string
		handler runtime.HandlerFunc
	}{
		{http.MethodPost, requestsPath, "submit", h.submit},
		{http.MethodGet, requestsPath, "list", h.list},
		{http.MethodGet, requestsPath + "/{id}", "get", h.get},
		{http.MethodPost, requestsPath + "/{id}/approve", "approve", h.approve},
	}
	for _, route := range routes {
		if err := mux.HandlePath(route.method, route.pattern, h.instrument(route.name, route.handler)); err != nil {
			return err
		}
	}
	return nil
}

func (h *HTTPHandler) submit(w http.ResponseWriter, r *http.Request, _ map[string]string) {
	var in models.OnboardingRequestInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		h.writeJSON(w, http.StatusBadRequest, models.Failed("Invalid request body"))
		return
	}

	_, err := h.service.SubmitOnboardingRequest(r.Context(), &in)
	result := controller.SubmitResult(err)
	if err != nil {
		h.writeJSON(w, h.errorStatus(err), result)
		return
	}
	h.writeJSON(w, http.StatusCreated, result)
}

func (h *HTTPHandler) list(w http.ResponseWriter, r *http.Request, _ map[string]string) {
	reqs, err := h.service.ListOnboardingRequests(r.Context())
	if err != nil {
		h.writeJSON(w, h.errorStatus(err), errorBody{Error: "Failed to list onboarding requests."})
		return
	}
	h.writeJSON(w, http.StatusOK, reqs)
}

func (h *HTTPHandler) get(w http.ResponseWriter, r *http.Request, params map[string]string) {
	id, err := parseRequestID(params["id"])
	if err != nil {
		h.writeJSON(w, http.StatusNotFound, errorBody{Error: err.Error()})
		return
	}

	req, found, err := h.service.GetOnboardingRequest(r.Context(), id)
	if err != nil {
		h.writeJSON(w, h.errorStatus(err), errorBody{Error: "Failed to fetch onboarding request with ID " + id.String() + "."})
		return
	}
	if !found {
		h.writeJSON(w, http.StatusNotFound, errorBody{Error: "onboarding request " + id.String() + " not found"})
		return
	}
	h.writeJSON(w, http.StatusOK, req)
}

func (h *HTTPHandler) approve(w http.ResponseWriter, r *http.Request, params map[string]string) {
	id, err := parseRequestID(params["id"])
	if err == nil {
		_, err = h.service.ApproveOnboardingRequest(r.Context(), id)
	}
	result := controller.ApproveResult(err)
	if err != nil {
		h.writeJSON(w, h.errorStatus(err), result)
		return
	}

	approver, _ := auth.SubjectFromContext(r.Context())
	h.logger.Info("Onboarding request approved over HTTP",
		zap.String("request_id", id.String()),
		zap.String("approved_by", approver),
	)
	h.writeJSON(w, http.StatusOK, result)
}

type errorBody struct {
	Error string `json:"error"`
}

func (h *HTTPHandler) errorStatus(err error) int {
	code := httpStatus(err)
	if code == http.StatusInternalServerError {
		h.logger.Error("Internal server error", zap.Error(err))
	}
	return code
}

func (h *HTTPHandler) writeJSON(w http.ResponseWriter, code int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		h.logger.Error("Failed to encode response", zap.Error(err))
	}
}

// instrument records the status code and latency of route.
func (h *HTTPHandler) instrument(route string, next runtime.HandlerFunc) runtime.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request, params map[string]string) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next(rec, r, params)
		h.recorder.ObserveHTTP(route, rec.status, time.Since(start))
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status      int
	wroteHeader bool
}

func (w *statusRecorder) WriteHeader(status int) {
	if !w.wroteHeader {
		w.status = status
		w.wroteHeader = true
	}
	w.ResponseWriter.WriteHeader(status)
}
