package viewmodel

import "fmt"

// FetchFailureMessage is the user-facing text for any failed fetch.
const FetchFailureMessage = "API request failed"

// SubmitAcknowledgement is returned for every form submission.
const SubmitAcknowledgement = "Form submitted successfully!"

// FetchError records why a load or refresh failed
type FetchError struct {
	Op  string
	Err error
}

// Error implements the error interface
func (e *FetchError) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.Op, FetchFailureMessage, e.Err)
}

// Unwrap returns the underlying transport or status error
func (e *FetchError) Unwrap() error {
	return e.Err
}
