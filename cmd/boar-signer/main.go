// Command boar-signer is the isolated signing subprocess of the blind
// signer boundary (spec.md §4.4). It must never write to disk, never
// open a network connection, never log, and never emit key material on
// any stream — every failure path returns a generic message.
package main

import (
	"crypto/ed25519"
	"encoding/base64"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/btcsuite/btcd/btcutil/base58"
)

// signedPayload is the wire shape this signer writes to stdout,
// base64-encoded as a single line: the Solana versioned-message
// preimage plus the ed25519 signature over it. spec.md does not pin a
// specific binary transaction envelope, so this is the project's own
// minimal convention rather than a guess at Solana's wire format.
type signedPayload struct {
	Message   string `json:"message"`
	Signature string `json:"signature"`
}

func main() {
	pubkeyMode := flag.Bool("pubkey", false, "print the derived public key instead of signing stdin")
	flag.Parse()

	key, err := loadKey()
	if err != nil {
		fail("key unavailable")
	}

	if *pubkeyMode {
		fmt.Fprintln(os.Stdout, base64.StdEncoding.EncodeToString(key.Public().(ed25519.PublicKey)))
		return
	}

	unsignedB64, err := io.ReadAll(os.Stdin)
	if err != nil {
		fail("stdin read failed")
	}

	message, err := base64.StdEncoding.DecodeString(string(unsignedB64))
	if err != nil {
		fail("decode failed")
	}

	sig := ed25519.Sign(key, message)

	out, err := json.Marshal(signedPayload{
		Message:   base64.StdEncoding.EncodeToString(message),
		Signature: base64.StdEncoding.EncodeToString(sig),
	})
	if err != nil {
		fail("signing failed")
	}

	fmt.Fprintln(os.Stdout, base64.StdEncoding.EncodeToString(out))
}

// loadKey resolves the signing key by spec.md's priority order: a
// file at a configured path, then a platform keychain, then a
// test-only environment variable gated behind explicit opt-in. The
// variables it reads are BOAR_SIGNER_KEY_FILE, BOAR_SIGNER_ALLOW_TEST_KEY
// and BOAR_SIGNER_KEY; internal/signer.Boundary passes only the last.
func loadKey() (ed25519.PrivateKey, error) {
	if path := os.Getenv("BOAR_SIGNER_KEY_FILE"); path != "" {
		return loadKeyFromFile(path)
	}
	if key, err := loadKeyFromKeychain(); err == nil {
		return key, nil
	}
	if os.Getenv("BOAR_SIGNER_ALLOW_TEST_KEY") == "true" {
		if raw := os.Getenv("BOAR_SIGNER_KEY"); raw != "" {
			return decodeBase58Key(raw)
		}
	}
	return nil, fmt.Errorf("no key source available")
}

func loadKeyFromFile(path string) (ed25519.PrivateKey, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if info.Mode().Perm()&0o077 != 0 {
		return nil, fmt.Errorf("key file permissions too permissive")
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return decodeBase58Key(string(raw))
}

// loadKeyFromKeychain is a placeholder: no example in the retrieval
// pack integrates a platform keychain service, so this path always
// falls through to the next priority tier.
func loadKeyFromKeychain() (ed25519.PrivateKey, error) {
	return nil, fmt.Errorf("keychain integration not configured")
}

func decodeBase58Key(raw string) (ed25519.PrivateKey, error) {
	decoded := base58.Decode(trimNewline(raw))
	if len(decoded) != ed25519.PrivateKeySize {
		return nil, fmt.Errorf("decode failed")
	}
	return ed25519.PrivateKey(decoded), nil
}

func trimNewline(s string) string {
	for len(s) > 0 && (s[len(s)-1] == '\n' || s[len(s)-1] == '\r') {
		s = s[:len(s)-1]
	}
	return s
}

// fail writes a generic, key-material-free error to stderr and exits
// non-zero. It is the only error path this binary has.
func fail(msg string) {
	fmt.Fprintln(os.Stderr, "boar-signer: "+msg)
	os.Exit(1)
}
