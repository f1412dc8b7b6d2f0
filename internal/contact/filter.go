package contact

import "strings"

// TripsHoneypot reports whether the hidden field real visitors never see was filled in.
func TripsHoneypot(s *Submission) bool {
	return s != nil && strings.TrimSpace(s.Honeypot) != ""
}
