// Package repair classifies self-diagnosis commands the orchestrator
// may want to suggest during a gateway/provider outage into read-only
// (safe to run automatically) or human-gated (suggested only, never
// executed by this process). No command is ever run by this package —
// it is a lookup table, not a shell.
package repair

import "regexp"

// Action is the gate level for a classified command.
type Action string

const (
	// ReadOnly commands may be run automatically during diagnostics —
	// they inspect state and cannot mutate it.
	ReadOnly Action = "read_only"
	// HumanGated commands are suggested to the operator but never
	// executed by this process.
	HumanGated Action = "human_gated"
)

var readOnlyPatterns = []*regexp.Regexp{
	regexp.MustCompile(`^journalctl --user -u [a-zA-Z0-9._-]+\.service -n \d{1,3}$`),
	regexp.MustCompile(`^systemctl --user status [a-zA-Z0-9._-]+\.service$`),
	regexp.MustCompile(`^git status$`),
	regexp.MustCompile(`^git log --oneline -\d{1,2}$`),
}

var humanGatedPatterns = []*regexp.Regexp{
	regexp.MustCompile(`^systemctl --user restart [a-zA-Z0-9._-]+\.service$`),
	regexp.MustCompile(`^rm [\w./~-]+\.jsonl$`),
}

// Classify reports the command's gate level. The second return value
// is false when cmd matches neither list — callers must treat that as
// blocked, the same way the whitelist check it is grounded on does.
func Classify(cmd string) (Action, bool) {
	for _, p := range readOnlyPatterns {
		if p.MatchString(cmd) {
			return ReadOnly, true
		}
	}
	for _, p := range humanGatedPatterns {
		if p.MatchString(cmd) {
			return HumanGated, true
		}
	}
	return "", false
}
