package contact

import "encoding/json"

// Lead represents a visitor's contact form submission after normalization.
// It lives for a single request and is never persisted.
type Lead struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	SiteType string `json:"siteType"`
	Message  string `json:"message"`
}

// Submission is the output of the input normalizer.
type Submission struct {
	Lead     Lead
	Honeypot string

	// Direct holds the raw request body when it is already a complete
	// outbound email payload. Such bodies skip validation and escaping.
	Direct json.RawMessage

	// JSON reports whether the body was JSON encoded.
	JSON bool
}

// IsDirect reports whether the submission bypasses the payload builder.
func (s *Submission) IsDirect() bool {
	return s != nil && len(s.Direct) > 0
}

// Accepted spellings for each lead field, in lookup order.
var (
	nameKeys     = []string{"nombre", "name"}
	emailKeys    = []string{"email"}
	phoneKeys    = []string{"telefono", "phone"}
	siteTypeKeys = []string{"tipo", "siteType"}
	messageKeys  = []string{"mensaje", "message"}
)
