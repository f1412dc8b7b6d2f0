package notify

import (
	"context"
	"errors"
	"testing"
)

func TestNewSendGridSender_ErrorWithoutAPIKey(t *testing.T) {
	sender, err := NewSendGridSender(SendGridConfig{APIKey: ""}, nil)
	if sender != nil {
		t.Error("expected nil sender when API key is empty")
	}
	if !errors.Is(err, ErrMissingAPIKey) {
		t.Fatalf("expected ErrMissingAPIKey, got %v", err)
	}
}

func TestSendGridSender_Send_NilClient(t *testing.T) {
	sender := &SendGridSender{client: nil}

	_, err := sender.Send(context.Background(), Message{Email: &Email{Subject: "Test"}})
	if err == nil {
		t.Error("expected error when client is nil")
	}
}

func TestBuildSendGridMail(t *testing.T) {
	m := buildSendGridMail(testEmail())

	if m.From == nil || m.From.Address != "hola@roblartech.com" || m.From.Name != "Roblar Tech" {
		t.Fatalf("unexpected from: %#v", m.From)
	}
	if len(m.Personalizations) != 1 || len(m.Personalizations[0].To) != 1 {
		t.Fatalf("expected one personalization with one recipient")
	}
	if len(m.Content) != 2 || m.Content[0].Type != "text/plain" || m.Content[1].Type != "text/html" {
		t.Fatalf("expected text then html content, got %#v", m.Content)
	}
	if m.ReplyTo == nil || m.ReplyTo.Address != "ana@example.com" {
		t.Fatalf("unexpected reply to: %#v", m.ReplyTo)
	}
	if len(m.Categories) != 1 || m.Categories[0] != "contact-form" {
		t.Fatalf("unexpected categories: %v", m.Categories)
	}
}

func TestStubSender_Send(t *testing.T) {
	sender := NewStubSender(nil)

	receipt, err := sender.Send(context.Background(), Message{Email: testEmail()})
	if err != nil {
		t.Errorf("stub sender should not return error, got: %v", err)
	}
	if receipt.MessageID == "" {
		t.Error("expected a stub message id")
	}
	if sender.Provider() != ProviderStub {
		t.Errorf("unexpected provider %q", sender.Provider())
	}
}

func TestStubSender_EmptyMessage(t *testing.T) {
	_, err := NewStubSender(nil).Send(context.Background(), Message{})
	if !errors.Is(err, ErrEmptyMessage) {
		t.Fatalf("expected ErrEmptyMessage, got %v", err)
	}
}

func TestDecodeEmailAcceptsAliases(t *testing.T) {
	raw := []byte(`{
		"sender": {"email": "ops@example.com", "name": "Ops"},
		"recipients": [{"email": "team@example.com"}],
		"subject": "Hi",
		"htmlBody": "<p>hi</p>",
		"textBody": "hi"
	}`)

	email, err := DecodeEmail(raw)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(email.To) != 1 || email.To[0].Email != "team@example.com" {
		t.Fatalf("expected recipients alias to populate To, got %#v", email.To)
	}
	if email.HTMLContent != "<p>hi</p>" || email.TextContent != "hi" {
		t.Fatalf("expected body aliases, got %q / %q", email.HTMLContent, email.TextContent)
	}
}

func TestMessageResolvePrefersRaw(t *testing.T) {
	msg := Message{
		Email: &Email{Subject: "built"},
		Raw:   []byte(`{"subject":"raw","htmlContent":"x"}`),
	}
	email, err := msg.Resolve()
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if email.Subject != "raw" {
		t.Fatalf("expected raw payload to win, got %q", email.Subject)
	}
}

func TestUpstreamErrorMessageOmitsBody(t *testing.T) {
	err := &UpstreamError{Provider: ProviderBrevo, StatusCode: 400, Body: "secret detail"}
	if got := err.Error(); got != "notify: brevo returned status 400" {
		t.Fatalf("unexpected error string %q", got)
	}
}

func testEmail() *Email {
	return &Email{
		Sender:      Address{Email: "hola@roblartech.com", Name: "Roblar Tech"},
		To:          []Address{{Email: "hola@roblartech.com", Name: "Roblar Tech"}},
		Subject:     "Contacto web (premium): Ana",
		HTMLContent: "<p>Ana</p>",
		TextContent: "Ana",
		ReplyTo:     &Address{Email: "ana@example.com", Name: "Ana"},
		Tags:        []string{"contact-form"},
	}
}
