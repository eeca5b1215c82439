package cliutil

import (
	"context"
	"fmt"
	"os"

	"github.com/rawblock/boar-agent/internal/chain"
	"github.com/rawblock/boar-agent/internal/config"
)

// OpenChain loads the YAML config at configPath and opens the bead
// chain against BOAR_DATABASE_URL, the two pieces of bootstrap every
// cmd/ binary that touches the chain needs. The signing key comes from
// BOAR_CHAIN_SIGNING_KEY_FILE (PKCS#8 DER); its absence is tolerated —
// writes fall back to the "signing_unavailable" attestation sentinel
// rather than refusing to record anything.
func OpenChain(ctx context.Context, configPath string) (*chain.Store, config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, config.Config{}, fmt.Errorf("cliutil: load config: %w", err)
	}

	dbURL := RequireEnv("BOAR_DATABASE_URL")
	signingKey := loadChainSigningKey()
	codeHash := GetEnvOrDefault("BOAR_CODE_HASH", "dev")

	store, err := chain.Open(ctx, dbURL, signingKey, cfg.NodeID, codeHash)
	if err != nil {
		return nil, config.Config{}, fmt.Errorf("cliutil: open chain: %w", err)
	}
	return store, cfg, nil
}

func loadChainSigningKey() *chain.SigningKey {
	path := os.Getenv("BOAR_CHAIN_SIGNING_KEY_FILE")
	if path == "" {
		return nil
	}
	der, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: could not read BOAR_CHAIN_SIGNING_KEY_FILE: %v\n", err)
		return nil
	}
	key, err := chain.LoadSigningKeyFromPKCS8(der)
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: could not parse BOAR_CHAIN_SIGNING_KEY_FILE: %v\n", err)
		return nil
	}
	return key
}
