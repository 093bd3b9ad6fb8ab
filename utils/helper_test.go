package utils

import (
	"strings"
	"testing"
)

func TestExecTemplate_ConditionalClauses(t *testing.T) {
	tmpl := `SELECT * FROM quotes WHERE business_id = @businessId
{{- if .status }} AND current_status = @status{{ end }}
{{- if .source }} AND source = @source{{ end }}`

	withStatus, err := ExecTemplate(tmpl, map[string]interface{}{"status": true})
	if err != nil {
		t.Fatalf("ExecTemplate: %v", err)
	}
	if !strings.Contains(withStatus, "current_status = @status") {
		t.Fatalf("status clause missing: %s", withStatus)
	}
	if strings.Contains(withStatus, "@source") {
		t.Fatalf("source clause should be omitted: %s", withStatus)
	}

	bare, err := ExecTemplate(tmpl, map[string]interface{}{})
	if err != nil {
		t.Fatalf("ExecTemplate: %v", err)
	}
	if strings.Contains(bare, "AND") {
		t.Fatalf("no optional clauses expected: %s", bare)
	}
}

func TestExecTemplate_ParseError(t *testing.T) {
	if _, err := ExecTemplate("{{ if }}", nil); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestDereferencePtr(t *testing.T) {
	n := 42
	if got := DereferencePtr(&n); got != 42 {
		t.Fatalf("got %d, want 42", got)
	}
	if got := DereferencePtr[int](nil); got != 0 {
		t.Fatalf("got %d, want zero value", got)
	}
	if got := DereferencePtr[string](nil, "fallback"); got != "fallback" {
		t.Fatalf("got %q, want fallback", got)
	}
}

func TestIsValidEmail(t *testing.T) {
	valid := []string{"dana@example.com", "a.b+c@sub.domain.org"}
	invalid := []string{"", "no-at-sign", "a@b", "a b@example.com"}
	for _, email := range valid {
		if !IsValidEmail(email) {
			t.Errorf("%q should be valid", email)
		}
	}
	for _, email := range invalid {
		if IsValidEmail(email) {
			t.Errorf("%q should be invalid", email)
		}
	}
}
