package repair

import "testing"

func TestClassify(t *testing.T) {
	cases := []struct {
		name       string
		cmd        string
		wantAction Action
		wantOK     bool
	}{
		{"journalctl status is read-only", "journalctl --user -u boar-gateway.service -n 50", ReadOnly, true},
		{"systemctl status is read-only", "systemctl --user status boar-gateway.service", ReadOnly, true},
		{"git status is read-only", "git status", ReadOnly, true},
		{"git log is read-only", "git log --oneline -5", ReadOnly, true},
		{"systemctl restart is human-gated", "systemctl --user restart boar-gateway.service", HumanGated, true},
		{"rm session file is human-gated", "rm ~/.boar/agents/main/sessions/abc.jsonl", HumanGated, true},
		{"arbitrary shell is blocked", "rm -rf /", "", false},
		{"unrelated service restart is blocked", "systemctl --user restart sshd.service; rm -rf /", "", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			action, ok := Classify(tc.cmd)
			if ok != tc.wantOK {
				t.Fatalf("got ok=%v, want %v", ok, tc.wantOK)
			}
			if action != tc.wantAction {
				t.Fatalf("got action=%v, want %v", action, tc.wantAction)
			}
		})
	}
}

func TestClassify_NeverExecutesAnything(t *testing.T) {
	// Classify is a pure lookup; this test documents that invariant by
	// asserting the function signature returns a value, not an error
	// from a subprocess call. A classification of HumanGated or
	// ReadOnly is a recommendation only — the caller decides whether
	// and how to run it.
	action, ok := Classify("systemctl --user restart boar-gateway.service")
	if !ok || action != HumanGated {
		t.Fatalf("expected a human-gated classification, got action=%v ok=%v", action, ok)
	}
}
