package controller

import (
	"errors"

	e "github.com/gartstein/onboarding/internal/onboarding/errors"
	"github.com/gartstein/onboarding/internal/onboarding/models"
)

const (
	requiredFieldsMessage = "Company Name, Contact Name, and Email are required."
	submittedMessage      = "Onboarding request submitted successfully."
	enrolledMessage       = "Company added and request marked as enrolled."
)

// Outcome labels used for metrics.
const (
	OutcomeSuccess          = "success"
	OutcomeInvalid          = "invalid"
	OutcomeNotFound         = "not_found"
	OutcomeAlreadyProcessed = "already_processed"
	OutcomeRoleMissing      = "role_missing"
	OutcomeConflict         = "conflict"
	OutcomeError            = "error"
)

// SubmitResult converts the error returned by SubmitOnboardingRequest into
// the uniform result shown to the submitter.
func SubmitResult(err error) models.Result {
	switch {
	case err == nil:
		return models.Succeeded(submittedMessage)
	case errors.Is(err, e.ErrValidation):
		return models.Failed(requiredFieldsMessage)
	default:
		return models.Failed("Failed to submit onboarding request: " + err.Error())
	}
}

// ApproveResult converts the error returned by ApproveOnboardingRequest into
// the uniform result shown to the approving admin.
func ApproveResult(err error) models.Result {
	if err == nil {
		return models.Succeeded(enrolledMessage)
	}
	return models.Failed("Failed to add company: " + err.Error())
}

func outcomeLabel(err error) string {
	switch {
	case err == nil:
		return OutcomeSuccess
	case errors.Is(err, e.ErrValidation):
		return OutcomeInvalid
	case errors.Is(err, e.ErrNotFound):
		return OutcomeNotFound
	case errors.Is(err, e.ErrAlreadyProcessed):
		return OutcomeAlreadyProcessed
	case errors.Is(err, e.ErrRoleMissing):
		return OutcomeRoleMissing
	case errors.Is(err, e.ErrUserConflict):
		return OutcomeConflict
	default:
		return OutcomeError
	}
}
