package handler

import (
	"errors"
	"strings"
	"testing"

	"github.com/msomdec/dodgeball-fanpage/internal/domain"
	"github.com/msomdec/dodgeball-fanpage/internal/service"
)

func TestFocusScript_EscapesID(t *testing.T) {
	script, err := focusScript(`x"</script><script>alert(1)`)
	if err != nil {
		t.Fatalf("focusScript: %v", err)
	}
	if strings.Contains(script, "</script>") {
		t.Fatalf("script element could be closed early: %s", script)
	}
}

func TestFocusScript_Body(t *testing.T) {
	script, err := focusScript(service.ElementBody)
	if err != nil {
		t.Fatalf("focusScript: %v", err)
	}
	if script != "document.body.focus()" {
		t.Fatalf("unexpected script %q", script)
	}
}

func TestSSEDocument_RecordsChanges(t *testing.T) {
	doc := newSSEDocument("member-card-1")
	if doc.changed() {
		t.Fatal("a new document has nothing to send")
	}
	if err := doc.Focus(""); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for an empty id, got %v", err)
	}

	doc.SetScrollLocked(true)
	if err := doc.Focus("modal-prev"); err != nil {
		t.Fatalf("Focus: %v", err)
	}
	if doc.ActiveElement() != "modal-prev" {
		t.Fatalf("active element = %q", doc.ActiveElement())
	}
	if !doc.changed() || doc.scroll == nil || !*doc.scroll {
		t.Fatal("expected the scroll lock and focus to be buffered")
	}
}
