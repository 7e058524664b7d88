// Package http provides HTTP server and handler implementations.
//
// This file implements utilities for parsing and validating HTTP request data.
// Handlers accept either JSON or form-encoded bodies and read path values
// through the same helpers.

package http

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"nutrilog/internal/core"
)

// maxBodyBytes bounds every request body read by the parser.
const maxBodyBytes = 1 << 20

// RequestBodyParser handles different content types for request body parsing.
// It supports both JSON and form-encoded data.
type RequestBodyParser struct {
	body        []byte
	contentType string
	jsonData    map[string]interface{}
	formData    url.Values
	parsed      bool
	err         error
}

// NewRequestBodyParser creates a parser for the given request.
// It reads the body once and stores it for subsequent parsing.
func NewRequestBodyParser(r *http.Request) *RequestBodyParser {
	p := &RequestBodyParser{
		contentType: r.Header.Get("Content-Type"),
	}
	if r.Body == nil {
		return p
	}

	p.body, p.err = io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	return p
}

// Parse attempts to parse the body as JSON or form data.
func (p *RequestBodyParser) Parse() error {
	if p.parsed {
		return p.err
	}
	p.parsed = true

	if p.err != nil {
		return p.err
	}

	body := strings.TrimSpace(string(p.body))
	if body == "" {
		p.formData = url.Values{}
		return nil
	}

	// Try JSON first if content looks like JSON
	if body[0] == '{' {
		p.jsonData = make(map[string]interface{})
		if err := json.Unmarshal([]byte(body), &p.jsonData); err != nil {
			p.jsonData = nil
			p.err = err
			return err
		}
		return nil
	}

	// Fall back to form parsing
	p.formData, p.err = url.ParseQuery(body)
	return p.err
}

// Has reports whether key is present with a non-empty value.
func (p *RequestBodyParser) Has(key string) bool {
	return p.Get(key) != ""
}

// Get returns a string value from the parsed data (JSON or form).
func (p *RequestBodyParser) Get(key string) string {
	if p.jsonData != nil {
		if val, ok := p.jsonData[key]; ok {
			return strings.TrimSpace(sanitizeInput(stringValue(val)))
		}
		return ""
	}
	if p.formData != nil {
		return strings.TrimSpace(sanitizeInput(p.formData.Get(key)))
	}
	return ""
}

// Quantity parses key as a non-negative quantity. A missing key yields def.
func (p *RequestBodyParser) Quantity(key string, def float64) (float64, error) {
	v := p.Get(key)
	if v == "" {
		return def, nil
	}
	q, err := core.ParseQuantity(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return q, nil
}

// Int64 parses key as a positive identifier.
func (p *RequestBodyParser) Int64(key string) (int64, error) {
	return parseID(p.Get(key))
}

// IsJSON returns true if the parsed content was JSON.
func (p *RequestBodyParser) IsJSON() bool {
	return p.jsonData != nil
}

// stringValue converts an interface{} to string.
func stringValue(v interface{}) string {
	switch val := v.(type) {
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	default:
		return ""
	}
}

// pathDate reads the {date} path segment.
func pathDate(r *http.Request) (core.Date, error) {
	return core.ParseDate(r.PathValue("date"))
}

// pathID reads the {id} path segment.
func pathID(r *http.Request) (int64, error) {
	return parseID(r.PathValue("id"))
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: invalid id %q", core.ErrValidation, s)
	}
	return id, nil
}

// ParseBodyOrFail parses the request body and returns an error response on
// failure. Returns nil on success.
func ParseBodyOrFail(p *RequestBodyParser) *JSONResponseBuilder {
	if err := p.Parse(); err != nil {
		return BadRequestError("malformed request body")
	}
	return nil
}
