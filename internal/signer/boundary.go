// Package signer implements the orchestrator-side half of the blind
// signer boundary: it spawns an isolated subprocess with a minimal
// environment, writes the unsigned payload to its stdin, and reads the
// signed payload back from stdout. The signing key itself only ever
// exists in the subprocess's address space.
package signer

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"
)

// signTimeout is the fixed subprocess deadline of spec.md §4.4; past
// it the subprocess is force-terminated via context cancellation.
const signTimeout = 10 * time.Second

// KeyEnvVar is the environment variable name the signer subprocess
// reads its key from. It must never appear in the orchestrator's own
// environment — VerifyIsolation checks exactly that.
const KeyEnvVar = "BOAR_SIGNER_KEY"

// Boundary spawns the signer subprocess. KeyMaterial is held only long
// enough to populate the child's environment before Sign/PublicKey
// returns; callers should overwrite it immediately after use.
type Boundary struct {
	BinaryPath   string
	KeyMaterial  string
	WorkspaceDir string
}

// Sign spawns the signer over unsignedB64 and returns the signed
// payload it writes to stdout.
func (b Boundary) Sign(ctx context.Context, unsignedB64 string) (string, error) {
	return b.run(ctx, unsignedB64, false)
}

// PublicKey spawns the signer in --pubkey mode, which derives and
// prints the public key without touching stdin.
func (b Boundary) PublicKey(ctx context.Context) (string, error) {
	return b.run(ctx, "", true)
}

func (b Boundary) run(ctx context.Context, unsignedB64 string, pubkeyMode bool) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, signTimeout)
	defer cancel()

	var args []string
	if pubkeyMode {
		args = append(args, "--pubkey")
	}

	cmd := exec.CommandContext(ctx, b.BinaryPath, args...)
	// Never cmd.Env = os.Environ() — the child gets exactly four
	// variables, never the orchestrator's full environment.
	cmd.Env = []string{
		"PATH=" + os.Getenv("PATH"),
		"HOME=" + os.Getenv("HOME"),
		"BOAR_WORKSPACE_DIR=" + b.WorkspaceDir,
		KeyEnvVar + "=" + b.KeyMaterial,
	}
	if !pubkeyMode {
		cmd.Stdin = strings.NewReader(unsignedB64)
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	runErr := cmd.Run()
	if ctx.Err() == context.DeadlineExceeded {
		return "", fmt.Errorf("signer: subprocess exceeded %s timeout", signTimeout)
	}
	if runErr != nil {
		return "", fmt.Errorf("signer: subprocess failed: %s", strings.TrimSpace(stderr.String()))
	}
	return strings.TrimSpace(stdout.String()), nil
}

// safeEnvPrefixes names orchestrator environment variables known not
// to carry secret material, so VerifyIsolation doesn't flag long but
// benign values like PATH.
var safeEnvPrefixes = []string{
	"PATH=", "HOME=", "LANG=", "LC_", "TERM=", "PWD=", "SHELL=",
	"USER=", "TZ=", "GOPATH=", "GOROOT=", "XDG_", "SSH_AUTH_SOCK=",
}

// suspiciousValueLength is the length above which an unrecognized
// environment value is worth flagging.
const suspiciousValueLength = 64

// VerifyIsolation scans the current process's environment and reports
// variable names that look like leaked secret material: the signer's
// key variable by name, or any unusually long value outside the safe
// prefix allowlist. It never returns the values themselves.
func VerifyIsolation() []string {
	var suspects []string
	for _, kv := range os.Environ() {
		name, value, found := strings.Cut(kv, "=")
		if !found {
			continue
		}
		if name == KeyEnvVar {
			suspects = append(suspects, name)
			continue
		}
		if len(value) >= suspiciousValueLength && !hasSafePrefix(name) {
			suspects = append(suspects, name)
		}
	}
	return suspects
}

func hasSafePrefix(name string) bool {
	for _, p := range safeEnvPrefixes {
		if strings.HasPrefix(name+"=", p) {
			return true
		}
	}
	return false
}
