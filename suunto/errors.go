package suunto

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"mime"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Common errors
var (
	// ErrUnauthenticated means no access or refresh token is configured.
	ErrUnauthenticated = errors.New("not authenticated with Suunto")
	// ErrNetwork means the request failed in transport or the service answered non-2xx.
	ErrNetwork = errors.New("network problem talking to Suunto")
	// ErrParse means the service answered with a body that is not well-formed JSON.
	ErrParse = errors.New("malformed response from Suunto")
)

// maxMessageLen bounds provider messages carried in errors.
const maxMessageLen = 256

// APIError is returned for non-2xx responses. It unwraps to ErrNetwork.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("suunto: unexpected status code: %d", e.StatusCode)
	}
	return fmt.Sprintf("suunto: unexpected status code: %d: %s", e.StatusCode, e.Message)
}

func (e *APIError) Unwrap() error {
	return ErrNetwork
}

// newAPIError builds an APIError, pulling a readable message out of the body.
func newAPIError(statusCode int, contentType string, body []byte) *APIError {
	return &APIError{
		StatusCode: statusCode,
		Message:    providerMessage(contentType, body),
	}
}

// providerMessage extracts the human readable part of an error body. The OAuth
// server answers with error/error_description, the API gateway with message,
// and proxies in front of both sometimes answer with an HTML page.
func providerMessage(contentType string, body []byte) string {
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return ""
	}

	mediaType, _, _ := mime.ParseMediaType(contentType)

	if mediaType == "text/html" || bytes.HasPrefix(body, []byte("<")) {
		if msg := htmlText(body); msg != "" {
			return truncate(msg)
		}
	}

	var parsed struct {
		Error            string `json:"error"`
		ErrorDescription string `json:"error_description"`
		Message          string `json:"message"`
	}
	if err := json.Unmarshal(body, &parsed); err == nil {
		switch {
		case parsed.ErrorDescription != "":
			return truncate(parsed.Error + ": " + parsed.ErrorDescription)
		case parsed.Message != "":
			return truncate(parsed.Message)
		case parsed.Error != "":
			return truncate(parsed.Error)
		}
	}

	return truncate(string(body))
}

// htmlText returns the title of an HTML page, or its collapsed body text.
func htmlText(body []byte) string {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return ""
	}

	if title := strings.Join(strings.Fields(doc.Find("title").First().Text()), " "); title != "" {
		return title
	}

	return strings.Join(strings.Fields(doc.Find("body").Text()), " ")
}

func truncate(s string) string {
	if len(s) > maxMessageLen {
		return s[:maxMessageLen] + "..."
	}
	return s
}
