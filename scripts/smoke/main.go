// Package main runs smoke checks against a deployed contact relay.
//
// By default it only exercises paths that never reach the email provider
// (health, honeypot, validation). Pass --send to relay one real submission.
//
// Usage:
//
//	go run ./scripts/smoke --api=https://roblartech.com [--send --email=you@example.com]
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"
)

// ---------------------------------------------------------------------------
// Check types
// ---------------------------------------------------------------------------

type check struct {
	Name string
	Run  func(c *http.Client) error
}

var (
	flagAPI   string
	flagSend  bool
	flagEmail string
)

func init() {
	flag.StringVar(&flagAPI, "api", "http://localhost:8080", "Base URL of the contact relay")
	flag.BoolVar(&flagSend, "send", false, "Relay one real submission through the provider")
	flag.StringVar(&flagEmail, "email", "smoke@example.com", "Reply-to address for --send")
}

func main() {
	flag.Parse()
	base := strings.TrimRight(flagAPI, "/")

	// Redirect-mode checks inspect the 303 itself.
	client := &http.Client{
		Timeout: 15 * time.Second,
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}

	checks := []check{
		{"health", func(c *http.Client) error { return expectJSON(c, get(base+"/health"), http.StatusOK, "status", "ok") }},
		{"contact info", func(c *http.Client) error { return expectJSON(c, get(base+"/api/contact"), http.StatusOK, "endpoint", "/api/contact") }},
		{"honeypot json", func(c *http.Client) error {
			return expectJSON(c, postJSON(base, `{"nombre":"Smoke","email":"smoke@example.com","website":"bot"}`), http.StatusOK, "id", "ok")
		}},
		{"honeypot redirect", func(c *http.Client) error {
			return expectRedirect(c, postForm(base, url.Values{"website": {"bot"}}), "ok=1")
		}},
		{"missing fields json", func(c *http.Client) error {
			return expectJSON(c, postJSON(base, `{"nombre":"Smoke"}`), http.StatusBadRequest, "error", "missing required fields")
		}},
		{"missing fields redirect", func(c *http.Client) error {
			return expectRedirect(c, postForm(base, url.Values{"nombre": {"Smoke"}}), "err=missing_fields")
		}},
	}
	if flagSend {
		checks = append(checks, check{"relay", func(c *http.Client) error {
			body := fmt.Sprintf(`{"nombre":"Smoke test","email":%q,"tipo":"smoke","mensaje":"Automated smoke test\n%s"}`,
				flagEmail, time.Now().UTC().Format(time.RFC3339))
			return expectJSON(c, postJSON(base, body), http.StatusOK, "ok", true)
		}})
	}

	failed := 0
	for _, ch := range checks {
		if err := ch.Run(client); err != nil {
			failed++
			fmt.Printf("FAIL  %-24s %v\n", ch.Name, err)
			continue
		}
		fmt.Printf("PASS  %s\n", ch.Name)
	}
	fmt.Printf("\n%d/%d checks passed\n", len(checks)-failed, len(checks))
	if failed > 0 {
		os.Exit(1)
	}
}

// ---------------------------------------------------------------------------
// Request helpers
// ---------------------------------------------------------------------------

func get(u string) *http.Request {
	req, _ := http.NewRequest(http.MethodGet, u, nil)
	return req
}

func postJSON(base, body string) *http.Request {
	req, _ := http.NewRequest(http.MethodPost, base+"/api/contact", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-RT-Ajax", "1")
	return req
}

func postForm(base string, form url.Values) *http.Request {
	req, _ := http.NewRequest(http.MethodPost, base+"/api/contact", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func expectJSON(c *http.Client, req *http.Request, status int, key string, want any) error {
	resp, err := c.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	raw, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != status {
		return fmt.Errorf("status %d, want %d: %s", resp.StatusCode, status, raw)
	}
	var body map[string]any
	if err := json.Unmarshal(raw, &body); err != nil {
		return fmt.Errorf("decode %q: %w", raw, err)
	}
	if body[key] != want {
		return fmt.Errorf("%s = %v, want %v", key, body[key], want)
	}
	return nil
}

func expectRedirect(c *http.Client, req *http.Request, contains string) error {
	resp, err := c.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusSeeOther {
		return fmt.Errorf("status %d, want 303", resp.StatusCode)
	}
	if loc := resp.Header.Get("Location"); !strings.Contains(loc, contains) {
		return fmt.Errorf("location %q missing %q", loc, contains)
	}
	return nil
}
