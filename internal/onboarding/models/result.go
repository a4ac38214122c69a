package models

// Result is the uniform outcome of Submit and Approve. Exactly one of
// Message and Error is set, depending on Success.
type Result struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

// Succeeded builds a successful Result.
func Succeeded(message string) Result {
	return Result{Success: true, Message: message}
}

// Failed builds a failed Result.
func Failed(reason string) Result {
	return Result{Success: false, Error: reason}
}
