package authority

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// ErrNotFound reports that the authority has no record for the user.
var ErrNotFound = errors.New("authority: user not found")

// APIError is a structured error response from the authority. The dispatcher
// does not inspect it beyond logging; handlers map it to a 502-class reply.
type APIError struct {
	StatusCode  int    `json:"-"`
	Code        string `json:"error"`
	Description string `json:"error_description"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("authority: %s: %s", e.Code, e.Description)
}

// parseErrorResponse turns a non-2xx response into a typed error.
func parseErrorResponse(resp *http.Response, body []byte) error {
	if resp.StatusCode == http.StatusNotFound {
		return ErrNotFound
	}

	var apiErr APIError
	if err := json.Unmarshal(body, &apiErr); err == nil && apiErr.Code != "" {
		apiErr.StatusCode = resp.StatusCode
		return &apiErr
	}

	return &APIError{
		StatusCode:  resp.StatusCode,
		Code:        "authority_error",
		Description: fmt.Sprintf("HTTP %d: %s", resp.StatusCode, http.StatusText(resp.StatusCode)),
	}
}
