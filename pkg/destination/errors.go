package destination

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/samvad-hq/samvad-headline-relay/pkg/httpclient"
)

const maxErrorBody = 512

// APIError is a non-2xx answer from the destination application.
type APIError struct {
	Op         string
	StatusCode int
	// Payload holds the response body, compacted when it was JSON.
	Payload    string
	Structured bool
}

func (e *APIError) Error() string {
	if e.Payload == "" {
		return fmt.Sprintf("%s: status %d", e.Op, e.StatusCode)
	}
	return fmt.Sprintf("%s: status %d: %s", e.Op, e.StatusCode, e.Payload)
}

func newAPIError(op string, resp httpclient.Response) *APIError {
	body := bytes.TrimSpace(resp.Body())
	apiErr := &APIError{Op: op, StatusCode: resp.StatusCode()}

	var compact bytes.Buffer
	if len(body) > 0 && json.Valid(body) && json.Compact(&compact, body) == nil {
		apiErr.Payload = truncate(compact.String())
		apiErr.Structured = true
		return apiErr
	}
	apiErr.Payload = truncate(strings.TrimSpace(string(body)))
	return apiErr
}

func truncate(s string) string {
	if len(s) > maxErrorBody {
		return s[:maxErrorBody] + "..."
	}
	return s
}
