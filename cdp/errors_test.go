package cdp

import (
	"errors"
	"testing"
)

func TestKindString(t *testing.T) {
	tests := []struct {
		kind Kind
		want string
	}{
		{KindUnknown, "Unknown"},
		{KindSessionClosed, "SessionClosed"},
		{KindCommandFailed, "CommandFailed"},
		{KindTimeout, "Timeout"},
		{KindStaleRef, "ElementNotFound"},
		{KindValidation, "ValidationFailed"},
	}
	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.want {
			t.Errorf("Kind(%d).String(): got %q, want %q", tt.kind, got, tt.want)
		}
	}
}

func TestError_ErrorAndUnwrap(t *testing.T) {
	wrapped := errors.New("boom")
	e := &Error{Kind: KindCommandFailed, Method: "DOM.getDocument", Err: wrapped}
	if e.Error() != "CommandFailed: DOM.getDocument: boom" {
		t.Errorf("Error(): got %q", e.Error())
	}
	if !errors.Is(e, wrapped) {
		t.Error("Unwrap: expected errors.Is to see through to the wrapped error")
	}
}

func TestError_ErrorWithoutWrapped(t *testing.T) {
	e := &Error{Kind: KindSessionClosed, Method: "Page.navigate"}
	if e.Error() != "SessionClosed: Page.navigate" {
		t.Errorf("Error(): got %q", e.Error())
	}
}

func TestExtractMessage_FromErrorMessageField(t *testing.T) {
	raw := `{"error":{"code":-32000,"message":"Target closed."}}`
	if got := extractMessage(raw); got != "Target closed." {
		t.Errorf("extractMessage: got %q, want %q", got, "Target closed.")
	}
}

func TestExtractMessage_FromTopLevelMessageField(t *testing.T) {
	raw := `{"message":"session closed"}`
	if got := extractMessage(raw); got != "session closed" {
		t.Errorf("extractMessage: got %q, want %q", got, "session closed")
	}
}

func TestExtractMessage_PlainStringFallback(t *testing.T) {
	raw := "websocket connection closed"
	if got := extractMessage(raw); got != raw {
		t.Errorf("extractMessage: got %q, want unchanged %q", got, raw)
	}
}

func TestExtractMessage_JSONWithNoKnownField(t *testing.T) {
	raw := `{"foo":"bar"}`
	if got := extractMessage(raw); got != raw {
		t.Errorf("extractMessage: got %q, want the raw JSON unchanged", got)
	}
}

func TestLooksDetached(t *testing.T) {
	s := &Session{}
	tests := []struct {
		msg  string
		want bool
	}{
		{`{"error":{"message":"Target closed."}}`, true},
		{`{"message":"Session closed."}`, true},
		{"detached frame owner", true},
		{"No target with given id found", true},
		{`{"error":{"message":"could not compute box model."}}`, false},
		{"some unrelated failure", false},
	}
	for _, tt := range tests {
		if got := s.looksDetached(errors.New(tt.msg)); got != tt.want {
			t.Errorf("looksDetached(%q): got %v, want %v", tt.msg, got, tt.want)
		}
	}
}

func TestIsExpectedFailure(t *testing.T) {
	tests := []struct {
		method string
		msg    string
		want   bool
	}{
		{"DOM.getBoxModel", `{"message":"Could not compute box model."}`, true},
		{"CSS.getComputedStyleForNode", "Node not found", true},
		{"Accessibility.getFullAXTree", "Inspected target navigated or closed.", true},
		{"DOM.getBoxModel", "some other failure", false},
		{"Page.navigate", `{"message":"Could not compute box model."}`, false},
	}
	for _, tt := range tests {
		if got := isExpectedFailure(tt.method, errors.New(tt.msg)); got != tt.want {
			t.Errorf("isExpectedFailure(%q, %q): got %v, want %v", tt.method, tt.msg, got, tt.want)
		}
	}
}
