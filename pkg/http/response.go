package http

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"strings"

	"golang.org/x/net/html/charset"
)

// StatusError is returned for responses outside the 2xx range
type StatusError struct {
	StatusCode int
	Status     string
}

// Error implements the error interface
func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status code: %d", e.StatusCode)
}

// EnsureSuccess checks that the response status is 2xx
func EnsureSuccess(resp *http.Response) error {
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &StatusError{StatusCode: resp.StatusCode, Status: resp.Status}
	}
	return nil
}

// GetContentType returns the content type of the response
func GetContentType(resp *http.Response) string {
	return resp.Header.Get("Content-Type")
}

// DecodeJSONResponse checks the status and decodes the JSON body into target.
// The body is always closed.
func DecodeJSONResponse(resp *http.Response, target any) error {
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			slog.Error("Failed to close response body", "error", closeErr)
		}
	}()

	if err := EnsureSuccess(resp); err != nil {
		return err
	}

	body, err := utf8Body(resp)
	if err != nil {
		return err
	}

	if err := json.NewDecoder(body).Decode(target); err != nil {
		return fmt.Errorf("failed to decode json response: %w", err)
	}
	return nil
}

// utf8Body transcodes bodies that declare a non-UTF-8 charset
func utf8Body(resp *http.Response) (io.Reader, error) {
	_, params, err := mime.ParseMediaType(GetContentType(resp))
	if err != nil {
		return resp.Body, nil
	}

	label, ok := params["charset"]
	if !ok || strings.EqualFold(label, "utf-8") || strings.EqualFold(label, "utf8") {
		return resp.Body, nil
	}

	r, err := charset.NewReaderLabel(label, resp.Body)
	if err != nil {
		return nil, fmt.Errorf("unsupported response charset %q: %w", label, err)
	}
	return r, nil
}
