package mailer

import (
	"strings"
	"testing"
)

func TestRenderLoanNotice(t *testing.T) {
	msg, err := render("loan_notice.tmpl", map[string]any{
		"bookInstanceID": int64(4),
		"bookTitle":      "Dune",
		"imprint":        "Ace, 1990",
		"dueBack":        "Mar 1, 2024",
		"url":            "/catalog/bookinstance/4",
	})
	if err != nil {
		t.Fatal(err)
	}
	if msg.subject != "Copy #4 is on loan" {
		t.Errorf("unexpected subject %q", msg.subject)
	}
	if !strings.Contains(msg.plainBody, "It is due back on Mar 1, 2024.") {
		t.Errorf("plain body missing due date:\n%s", msg.plainBody)
	}
	if !strings.Contains(msg.htmlBody, "<strong>Dune</strong>") {
		t.Errorf("html body missing title:\n%s", msg.htmlBody)
	}
}

func TestRenderUnknownTemplate(t *testing.T) {
	if _, err := render("missing.tmpl", nil); err == nil {
		t.Error("expected an error for a missing template")
	}
}
