package util

import (
	"encoding/json"
	"testing"
)

func TestOrgIDString(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want string
	}{
		{name: "string", in: " org-1 ", want: "org-1"},
		{name: "float", in: float64(42), want: "42"},
		{name: "json number", in: json.Number("9007199254740993"), want: "9007199254740993"},
		{name: "raw string", in: json.RawMessage(`"org-2"`), want: "org-2"},
		{name: "raw number", in: json.RawMessage(`17`), want: "17"},
		{name: "raw null", in: json.RawMessage(`null`), want: ""},
		{name: "zero", in: float64(0), want: ""},
		{name: "bool", in: true, want: ""},
		{name: "object", in: map[string]any{"id": "x"}, want: ""},
		{name: "nil", in: nil, want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := OrgIDString(tt.in); got != tt.want {
				t.Fatalf("OrgIDString(%v) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestSafeOrgID(t *testing.T) {
	tests := map[string]bool{
		"org-1":    true,
		"42":       true,
		"":         false,
		"..":       false,
		"../x":     false,
		"a/b":      false,
		"a\\b":     false,
		"a..b":     false,
		"org\x00x": false,
	}
	for in, want := range tests {
		if got := SafeOrgID(in); got != want {
			t.Fatalf("SafeOrgID(%q) = %v, want %v", in, got, want)
		}
	}
}
