package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrPriceUnavailable is returned when the price feed has no USD price for an id
var ErrPriceUnavailable = errors.New("price unavailable")

// APIError is a non-2xx response from an upstream API
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("API returned status code %d", e.StatusCode)
	}
	return fmt.Sprintf("API error (status %d): %s", e.StatusCode, e.Message)
}

// parseAPIError extracts the most useful message from an error body
func parseAPIError(statusCode int, body []byte) *APIError {
	apiErr := &APIError{StatusCode: statusCode}

	if len(body) == 0 {
		return apiErr
	}

	var errorResp map[string]interface{}
	if err := json.Unmarshal(body, &errorResp); err == nil {
		if message, ok := errorResp["message"].(string); ok && message != "" {
			apiErr.Message = message
			return apiErr
		}
		if message, ok := errorResp["error"].(string); ok && message != "" {
			apiErr.Message = message
			return apiErr
		}
		if errs, ok := errorResp["errors"]; ok {
			apiErr.Message = fmt.Sprintf("%v", errs)
			return apiErr
		}
	}

	apiErr.Message = strings.TrimSpace(string(body))
	return apiErr
}
