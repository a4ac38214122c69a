package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	e "github.com/gartstein/onboarding/internal/onboarding/errors"
	"github.com/gartstein/onboarding/internal/onboarding/models"
	"github.com/google/uuid"
	"google.golang.org/grpc/codes"
	"google.golang.org/protobuf/types/known/structpb"
)

// structToInput reads submission fields from a protobuf Struct. Missing or
// non-string fields read as empty and fail validation downstream.
func structToInput(s *structpb.Struct) *models.OnboardingRequestInput {
	fields := s.GetFields()
	in := &models.OnboardingRequestInput{
		CompanyName: fields["companyName"].GetStringValue(),
		ContactName: fields["contactName"].GetStringValue(),
		Email:       fields["email"].GetStringValue(),
	}
	if mobile, ok := fields["mobileNumber"]; ok {
		v := mobile.GetStringValue()
		in.MobileNumber = &v
	}
	return in
}

// requestToMap converts a request into the generic form structpb accepts.
func requestToMap(r *models.OnboardingRequest) map[string]interface{} {
	m := map[string]interface{}{
		"id":          r.ID.String(),
		"companyName": r.CompanyName,
		"contactName": r.ContactName,
		"email":       r.Email,
		"isEnrolled":  r.IsEnrolled,
		"createdAt":   r.CreatedAt.UTC().Format(time.RFC3339Nano),
		"updatedAt":   r.UpdatedAt.UTC().Format(time.RFC3339Nano),
	}
	if r.MobileNumber != nil {
		m["mobileNumber"] = *r.MobileNumber
	}
	return m
}

func requestToStruct(r *models.OnboardingRequest) (*structpb.Struct, error) {
	return structpb.NewStruct(requestToMap(r))
}

func requestsToStruct(reqs []*models.OnboardingRequest) (*structpb.Struct, error) {
	list := make([]interface{}, 0, len(reqs))
	for _, r := range reqs {
		list = append(list, requestToMap(r))
	}
	return structpb.NewStruct(map[string]interface{}{"requests": list})
}

func resultToStruct(r models.Result) (*structpb.Struct, error) {
	m := map[string]interface{}{"success": r.Success}
	if r.Message != "" {
		m["message"] = r.Message
	}
	if r.Error != "" {
		m["error"] = r.Error
	}
	return structpb.NewStruct(m)
}

// parseRequestID parses a request id. A malformed id cannot name any
// request, so it is reported as not found.
func parseRequestID(raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fmt.Errorf("onboarding request with ID %s: %w", raw, e.ErrNotFound)
	}
	return id, nil
}

// grpcCode maps domain errors to gRPC status codes.
func grpcCode(err error) codes.Code {
	switch {
	case errors.Is(err, e.ErrValidation):
		return codes.InvalidArgument
	case errors.Is(err, e.ErrNotFound):
		return codes.NotFound
	case errors.Is(err, e.ErrAlreadyProcessed), errors.Is(err, e.ErrRoleMissing):
		return codes.FailedPrecondition
	case errors.Is(err, e.ErrUserConflict):
		return codes.Aborted
	default:
		return codes.Internal
	}
}

// httpStatus maps domain errors to HTTP status codes.
func httpStatus(err error) int {
	switch {
	case errors.Is(err, e.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, e.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, e.ErrAlreadyProcessed), errors.Is(err, e.ErrUserConflict):
		return http.StatusConflict
	case errors.Is(err, e.ErrRoleMissing):
		return http.StatusPreconditionFailed
	default:
		return http.StatusInternalServerError
	}
}
