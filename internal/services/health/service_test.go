package health

import "testing"

func TestStatus(t *testing.T) {
	if !NewService().Status()["ok"] {
		t.Fatalf("expected ok=true")
	}
}
