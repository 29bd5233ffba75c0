package appwrite

import (
	"errors"
	"fmt"
	"net/http"
)

// FallbackMessage is reported for failures that carry no vendor message.
const FallbackMessage = "Something went wrong"

// VendorError is a failure reported by the Appwrite API itself.
type VendorError struct {
	Code     int
	Message  string
	Type     string
	Response string
}

func (e *VendorError) Error() string {
	if e.Type != "" {
		return fmt.Sprintf("appwrite: %d %s: %s", e.Code, e.Type, e.Message)
	}
	return fmt.Sprintf("appwrite: %d: %s", e.Code, e.Message)
}

// UnknownError wraps any failure that did not come from the API: transport
// errors, bad URLs, unreadable bodies.
type UnknownError struct {
	Err error
}

func (e *UnknownError) Error() string {
	return fmt.Sprintf("appwrite: %v", e.Err)
}

func (e *UnknownError) Unwrap() error {
	return e.Err
}

// Classify maps a ping failure to the status and message recorded in the log.
func Classify(err error) (int, string) {
	var vendor *VendorError
	if errors.As(err, &vendor) {
		return vendor.Code, vendor.Message
	}
	return http.StatusInternalServerError, FallbackMessage
}
