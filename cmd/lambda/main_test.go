package main

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/aws/aws-lambda-go/events"
)

func TestProxyRoutesAPIGatewayEvents(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"method": r.Method, "path": r.URL.Path, "ajax": r.Header.Get("X-RT-Ajax")})
	})

	resp, err := newProxy(handler)(context.Background(), events.APIGatewayV2HTTPRequest{
		RawPath: "/api/contact",
		Headers: map[string]string{"x-rt-ajax": "1", "content-type": "application/json"},
		Body:    `{"nombre":"Ana"}`,
		RequestContext: events.APIGatewayV2HTTPRequestContext{
			HTTP: events.APIGatewayV2HTTPRequestContextHTTPDescription{Method: http.MethodPost, Path: "/api/contact"},
		},
	})
	if err != nil {
		t.Fatalf("proxy: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var got map[string]string
	if err := json.Unmarshal([]byte(resp.Body), &got); err != nil {
		t.Fatalf("decode body %q: %v", resp.Body, err)
	}
	if got["method"] != http.MethodPost || got["path"] != "/api/contact" || got["ajax"] != "1" {
		t.Fatalf("unexpected proxied request %v", got)
	}
}
