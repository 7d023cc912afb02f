package mailer

import (
	"strings"
	"testing"

	"go.uber.org/zap"
)

func TestNew_BlankHostDisables(t *testing.T) {
	m := New(Config{}, zap.NewNop())
	if m != nil {
		t.Fatal("blank host should yield a nil mailer")
	}
	if m.Enabled() {
		t.Error("nil mailer must report disabled")
	}
	if err := m.Send(Email{To: "x@example.com", Subject: "s", TextBody: "b"}); err != nil {
		t.Errorf("nil mailer Send should be a no-op, got %v", err)
	}
}

func TestNew_DefaultsPort(t *testing.T) {
	m := New(Config{Host: "smtp.example.com"}, zap.NewNop())
	if m == nil {
		t.Fatal("expected a mailer")
	}
	if m.cfg.Port != 587 {
		t.Errorf("Port = %d, want 587", m.cfg.Port)
	}
}

func TestSend_EmptyRecipient(t *testing.T) {
	m := New(Config{Host: "smtp.example.com"}, zap.NewNop())
	if err := m.Send(Email{Subject: "s", TextBody: "b"}); err == nil {
		t.Error("expected an error for an empty recipient")
	}
}

func TestBuildMessage_PlainText(t *testing.T) {
	m := New(Config{Host: "smtp.example.com", From: "StaffHub <no-reply@example.com>"}, zap.NewNop())
	msg := string(m.buildMessage(Email{
		To:       "alice@example.com",
		Subject:  "Hello",
		TextBody: "Body text",
	}))

	if !strings.Contains(msg, "To: alice@example.com\r\n") {
		t.Errorf("missing To header: %s", msg)
	}
	if !strings.Contains(msg, "Content-Type: text/plain") {
		t.Errorf("plain-text message should not be multipart: %s", msg)
	}
	if strings.Contains(msg, "multipart/alternative") {
		t.Errorf("plain-text message should not be multipart: %s", msg)
	}
}

func TestBuildMessage_Multipart(t *testing.T) {
	m := New(Config{Host: "smtp.example.com", From: "no-reply@example.com"}, zap.NewNop())
	msg := string(m.buildMessage(Email{
		To:       "alice@example.com",
		Subject:  "Hello",
		TextBody: "Body text",
		HTMLBody: "<p>Body text</p>",
	}))

	if !strings.Contains(msg, "multipart/alternative") {
		t.Errorf("expected multipart message: %s", msg)
	}
	if !strings.Contains(msg, "Body text") || !strings.Contains(msg, "<p>Body text</p>") {
		t.Errorf("expected both bodies: %s", msg)
	}
}

func TestEnvelopeFrom(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"StaffHub <no-reply@example.com>", "no-reply@example.com"},
		{"no-reply@example.com", "no-reply@example.com"},
	}
	for _, tt := range tests {
		if got := envelopeFrom(tt.in); got != tt.want {
			t.Errorf("envelopeFrom(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestBuildReminderEmail(t *testing.T) {
	email := BuildReminderEmail(ReminderEmailData{
		SiteName:      "StaffHub",
		RecipientName: "Alice",
		TrainingTitle: "Fire Safety",
		Deadline:      "Mar 1, 2026",
		TrainingLink:  "https://staffhub.example.com/my/trainings",
	})

	if !strings.Contains(email.Subject, "Fire Safety") {
		t.Errorf("Subject = %q, want the training title", email.Subject)
	}
	if !strings.Contains(email.TextBody, "Mar 1, 2026") {
		t.Errorf("text body missing deadline: %s", email.TextBody)
	}
	if !strings.Contains(email.HTMLBody, "Fire Safety") {
		t.Error("HTML body missing training title")
	}
	if !strings.Contains(email.HTMLBody, "https://staffhub.example.com/my/trainings") {
		t.Error("HTML body missing training link")
	}
}
