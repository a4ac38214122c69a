// Package errors holds the sentinel errors shared by the onboarding
// repository, service and transport layers.
package errors

import (
	"fmt"
)

var (
	ErrValidation       = fmt.Errorf("validation failed")
	ErrNotFound         = fmt.Errorf("not found")
	ErrAlreadyProcessed = fmt.Errorf("this onboarding request has already been processed")
	// ErrRoleMissing is a deployment problem: the "admin" role must be seeded.
	ErrRoleMissing = fmt.Errorf("'admin' role not found, please ensure it exists")
	ErrStorage     = fmt.Errorf("storage error")
	// ErrUserConflict means another approval created a user with the same
	// email first. Approving again reuses that user.
	ErrUserConflict = fmt.Errorf("a user with this email was created concurrently, please retry")
)
