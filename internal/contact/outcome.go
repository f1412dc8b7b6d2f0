package contact

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
)

// Kind classifies how a submission ended.
type Kind string

const (
	KindSuccess       Kind = "success"
	KindHoneypot      Kind = "honeypot"
	KindValidation    Kind = "validation"
	KindMalformed     Kind = "malformed"
	KindConfiguration Kind = "configuration"
	KindUpstream      Kind = "upstream"
	KindUnexpected    Kind = "unexpected"
)

// Caller-facing failure messages. Provider bodies and credentials never reach callers.
const (
	msgMalformed     = "malformed request"
	msgUnavailable   = "email service unavailable"
	msgUnexpected    = "unexpected error"
	errCodeMissing   = "missing_fields"
	errCodeMalformed = "malformed_request"
)

// Outcome is the result of processing one submission.
type Outcome struct {
	Kind      Kind
	MessageID string
	Message   string

	// Err is the underlying cause, kept for logging only.
	Err error
}

// OK reports whether the caller should see a success response.
func (o Outcome) OK() bool {
	return o.Kind == KindSuccess || o.Kind == KindHoneypot
}

// StatusCode maps the outcome to the JSON-mode HTTP status.
func (o Outcome) StatusCode() int {
	switch o.Kind {
	case KindSuccess, KindHoneypot:
		return http.StatusOK
	case KindValidation, KindMalformed:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func (o Outcome) errorMessage() string {
	if o.Message != "" {
		return o.Message
	}
	switch o.Kind {
	case KindValidation:
		return ErrValidationFailed.Error()
	case KindMalformed:
		return msgMalformed
	case KindConfiguration:
		return msgUnavailable
	default:
		return msgUnexpected
	}
}

// Mode selects how the outcome is reported back to the caller.
type Mode string

const (
	ModeJSON     Mode = "json"
	ModeRedirect Mode = "redirect"
)

// AjaxHeader is set by the site's script-driven form.
const AjaxHeader = "X-RT-Ajax"

// DetectMode picks JSON for script callers and redirect for plain form posts.
func DetectMode(r *http.Request) Mode {
	if strings.TrimSpace(r.Header.Get(AjaxHeader)) == "1" {
		return ModeJSON
	}
	if strings.Contains(strings.ToLower(r.Header.Get("Accept")), "application/json") {
		return ModeJSON
	}
	if IsJSONContentType(r.Header.Get("Content-Type")) {
		return ModeJSON
	}
	return ModeRedirect
}

type jsonResponse struct {
	OK    bool   `json:"ok"`
	ID    string `json:"id,omitempty"`
	Error string `json:"error,omitempty"`
}

// WriteOutcome renders o in the given mode.
func WriteOutcome(w http.ResponseWriter, r *http.Request, o Outcome, mode Mode, thankYouPath string) {
	if mode == ModeRedirect {
		http.Redirect(w, r, RedirectURL(thankYouPath, o), http.StatusSeeOther)
		return
	}

	resp := jsonResponse{OK: o.OK()}
	if resp.OK {
		resp.ID = o.MessageID
		if resp.ID == "" {
			resp.ID = "ok"
		}
	} else {
		resp.Error = o.errorMessage()
	}
	writeJSON(w, o.StatusCode(), resp)
}

// RedirectURL builds the thank-you page location for o.
func RedirectURL(thankYouPath string, o Outcome) string {
	if thankYouPath == "" {
		thankYouPath = "/"
	}
	sep := "?"
	if strings.Contains(thankYouPath, "?") {
		sep = "&"
	}
	if o.OK() {
		return thankYouPath + sep + "ok=1"
	}

	var code string
	switch o.Kind {
	case KindValidation:
		code = errCodeMissing
	case KindMalformed:
		code = errCodeMalformed
	default:
		code = o.errorMessage()
	}
	return thankYouPath + sep + "ok=0&err=" + url.QueryEscape(code)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
