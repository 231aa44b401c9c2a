package cdp

import "testing"

func TestEncodeDecode_RoundTrip(t *testing.T) {
	type payload struct {
		NodeID int    `json:"nodeId"`
		Name   string `json:"name"`
	}
	in := payload{NodeID: 7, Name: "button"}

	data, err := encode(in)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	var out payload
	if err := decode(data, &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out != in {
		t.Errorf("round trip: got %+v, want %+v", out, in)
	}
}

func TestDecode_InvalidJSON(t *testing.T) {
	var out struct{}
	if err := decode([]byte(`not json`), &out); err == nil {
		t.Error("decode: expected an error for malformed JSON")
	}
}

func TestSplitMethod(t *testing.T) {
	tests := []struct {
		method     string
		wantDomain string
		wantLeaf   string
	}{
		{"DOM.getDocument", "DOM", "getDocument"},
		{"Page.enable", "Page", "enable"},
		{"noDot", "", "noDot"},
		{"", "", ""},
	}
	for _, tt := range tests {
		domain, leaf := splitMethod(tt.method)
		if domain != tt.wantDomain || leaf != tt.wantLeaf {
			t.Errorf("splitMethod(%q): got (%q, %q), want (%q, %q)", tt.method, domain, leaf, tt.wantDomain, tt.wantLeaf)
		}
	}
}
