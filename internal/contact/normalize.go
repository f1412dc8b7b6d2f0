package contact

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"
)

const (
	// DefaultMaxBodyBytes caps how much of a request body is read.
	DefaultMaxBodyBytes int64 = 1 << 20

	// DefaultHoneypotField is the hidden form input bots tend to fill.
	DefaultHoneypotField = "website"

	multipartMemory = 32 << 10
)

// Normalizer turns a POST body into a Submission regardless of encoding.
type Normalizer struct {
	HoneypotField string
	MaxBodyBytes  int64
}

// Normalize reads r's body and extracts the lead fields, the honeypot value
// and, for JSON bodies shaped like a finished email, the raw payload.
// Any parse failure is reported as ErrMalformedRequest.
func (n Normalizer) Normalize(r *http.Request) (*Submission, error) {
	field := n.HoneypotField
	if field == "" {
		field = DefaultHoneypotField
	}
	limit := n.MaxBodyBytes
	if limit <= 0 {
		limit = DefaultMaxBodyBytes
	}

	body, err := readBody(r, limit)
	if err != nil {
		return nil, err
	}

	if IsJSONContentType(r.Header.Get("Content-Type")) {
		return normalizeJSON(body, field)
	}
	return normalizeForm(r, body, field)
}

// IsJSONContentType reports whether a Content-Type header declares JSON.
func IsJSONContentType(header string) bool {
	if header == "" {
		return false
	}
	mediaType, _, err := mime.ParseMediaType(header)
	if err != nil {
		return strings.Contains(strings.ToLower(header), "application/json")
	}
	return mediaType == "application/json" || strings.HasSuffix(mediaType, "+json")
}

func readBody(r *http.Request, limit int64) ([]byte, error) {
	if r.Body == nil {
		return nil, nil
	}
	body, err := io.ReadAll(io.LimitReader(r.Body, limit+1))
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %v", ErrMalformedRequest, err)
	}
	if int64(len(body)) > limit {
		return nil, fmt.Errorf("%w: body exceeds %d bytes", ErrMalformedRequest, limit)
	}
	return body, nil
}

func normalizeJSON(body []byte, honeypotField string) (*Submission, error) {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()

	var doc map[string]any
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedRequest, err)
	}
	if doc == nil {
		return nil, fmt.Errorf("%w: body is not a JSON object", ErrMalformedRequest)
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return nil, fmt.Errorf("%w: unexpected data after JSON object", ErrMalformedRequest)
	}

	get := func(keys ...string) string {
		for _, key := range keys {
			if v := jsonString(doc[key]); v != "" {
				return v
			}
		}
		return ""
	}

	sub := &Submission{
		JSON:     true,
		Honeypot: get(honeypotField),
		Lead: Lead{
			Name:     get(nameKeys...),
			Email:    get(emailKeys...),
			Phone:    get(phoneKeys...),
			SiteType: get(siteTypeKeys...),
			Message:  get(messageKeys...),
		},
	}
	if sub.Lead.Message == "" {
		sub.Lead.Message = get("htmlContent")
	}
	if isDirectPayload(doc) {
		sub.Direct = json.RawMessage(body)
	}
	return sub, nil
}

// isDirectPayload reports whether doc already carries everything a provider
// needs to send an email. Only key presence counts; an explicit null is left
// for the provider to reject.
func isDirectPayload(doc map[string]any) bool {
	has := func(keys ...string) bool {
		for _, key := range keys {
			if _, ok := doc[key]; ok {
				return true
			}
		}
		return false
	}
	return has("sender") && has("to", "recipients") && has("subject") && has("htmlContent", "htmlBody")
}

// jsonString trims string values and stringifies scalars. Objects, arrays
// and null count as missing.
func jsonString(v any) string {
	switch val := v.(type) {
	case string:
		return strings.TrimSpace(val)
	case json.Number:
		return val.String()
	case bool:
		if val {
			return "true"
		}
		return "false"
	default:
		return ""
	}
}

func normalizeForm(r *http.Request, body []byte, honeypotField string) (*Submission, error) {
	req := r.Clone(r.Context())
	req.Body = io.NopCloser(bytes.NewReader(body))
	req.ContentLength = int64(len(body))
	req.Form, req.PostForm, req.MultipartForm = nil, nil, nil

	var err error
	if isMultipart(r.Header.Get("Content-Type")) {
		err = req.ParseMultipartForm(multipartMemory)
		if req.MultipartForm != nil {
			defer req.MultipartForm.RemoveAll()
		}
	} else {
		err = req.ParseForm()
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedRequest, err)
	}

	get := func(keys ...string) string {
		for _, key := range keys {
			if v := strings.TrimSpace(req.PostForm.Get(key)); v != "" {
				return v
			}
		}
		return ""
	}

	return &Submission{
		Honeypot: get(honeypotField),
		Lead: Lead{
			Name:     get(nameKeys...),
			Email:    get(emailKeys...),
			Phone:    get(phoneKeys...),
			SiteType: get(siteTypeKeys...),
			Message:  get(messageKeys...),
		},
	}, nil
}

func isMultipart(header string) bool {
	mediaType, _, err := mime.ParseMediaType(header)
	return err == nil && mediaType == "multipart/form-data"
}
