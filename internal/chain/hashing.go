package chain

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/sha256"
	"crypto/x509"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/rawblock/boar-agent/pkg/models"
)

// hashableView is everything compute_hash_self covers: every Bead
// field plus attestation.node_id/code_hash, explicitly excluding
// ecdsa_sig and hash_self itself.
type hashableView struct {
	BeadID                  string              `json:"bead_id"`
	BeadType                models.BeadType     `json:"bead_type"`
	TemporalClass           models.TemporalClass `json:"temporal_class"`
	WorldTimeValidFrom      *string             `json:"world_time_valid_from"`
	WorldTimeValidTo        *string             `json:"world_time_valid_to"`
	KnowledgeTimeRecordedAt string              `json:"knowledge_time_recorded_at"`
	Lineage                 []string            `json:"lineage"`
	Content                 json.RawMessage     `json:"content"`
	HashPrev                *string             `json:"hash_prev"`
	AttestationNodeID       string              `json:"attestation_node_id"`
	AttestationCodeHash     string              `json:"attestation_code_hash"`
	MerkleBatchID           *string             `json:"merkle_batch_id"`
	Status                  models.BeadStatus   `json:"status"`
	Tags                    []string            `json:"tags"`
	TokenMint               string              `json:"token_mint"`
}

// computeHashSelf returns the lowercase hex SHA-256 digest of the
// canonical serialization of b's hashable fields.
func computeHashSelf(b models.Bead) (string, error) {
	contentRaw, err := json.Marshal(b.Content)
	if err != nil {
		return "", fmt.Errorf("chain: marshal content for hashing: %w", err)
	}

	view := hashableView{
		BeadID:                  b.BeadID,
		BeadType:                b.BeadType,
		TemporalClass:           b.TemporalClass,
		KnowledgeTimeRecordedAt: formatHashTime(b),
		Lineage:                 nonNil(b.Lineage),
		Content:                 contentRaw,
		HashPrev:                b.HashPrev,
		AttestationNodeID:       b.Attestation.NodeID,
		AttestationCodeHash:     b.Attestation.CodeHash,
		MerkleBatchID:           b.MerkleBatchID,
		Status:                  b.Status,
		Tags:                    nonNil(b.Tags),
		TokenMint:               b.TokenMint,
	}
	if b.WorldTimeValidFrom != nil {
		s := b.WorldTimeValidFrom.UTC().Format(models.CanonicalTimeLayout)
		view.WorldTimeValidFrom = &s
	}
	if b.WorldTimeValidTo != nil {
		s := b.WorldTimeValidTo.UTC().Format(models.CanonicalTimeLayout)
		view.WorldTimeValidTo = &s
	}

	raw, err := json.Marshal(view)
	if err != nil {
		return "", fmt.Errorf("chain: marshal hashable view: %w", err)
	}
	canon, err := canonicalJSON(raw)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(canon)
	return hex.EncodeToString(sum[:]), nil
}

func formatHashTime(b models.Bead) string {
	return b.KnowledgeTimeRecordedAt.UTC().Format(models.CanonicalTimeLayout)
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

// SigningKey wraps the node's secp256r1 key used to attest bead hashes.
type SigningKey struct {
	priv *ecdsa.PrivateKey
}

// GenerateSigningKey creates a fresh secp256r1 (P-256) signing key.
func GenerateSigningKey() (*SigningKey, error) {
	priv, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("chain: generate signing key: %w", err)
	}
	return &SigningKey{priv: priv}, nil
}

// LoadSigningKeyFromPKCS8 parses a DER-encoded PKCS#8 private key.
func LoadSigningKeyFromPKCS8(der []byte) (*SigningKey, error) {
	key, err := x509.ParsePKCS8PrivateKey(der)
	if err != nil {
		return nil, fmt.Errorf("chain: parse signing key: %w", err)
	}
	priv, ok := key.(*ecdsa.PrivateKey)
	if !ok {
		return nil, fmt.Errorf("chain: signing key is not ECDSA")
	}
	return &SigningKey{priv: priv}, nil
}

// Sign signs the hex-encoded hash digest, returning a base64 ASN.1
// DER signature.
func (k *SigningKey) Sign(hashHex string) (string, error) {
	digest, err := hex.DecodeString(hashHex)
	if err != nil {
		return "", fmt.Errorf("chain: decode hash for signing: %w", err)
	}
	sig, err := ecdsa.SignASN1(rand.Reader, k.priv, digest)
	if err != nil {
		return "", fmt.Errorf("chain: sign: %w", err)
	}
	return base64.StdEncoding.EncodeToString(sig), nil
}

// Verify checks sigB64 over hashHex against the node's public key.
func (k *SigningKey) Verify(hashHex, sigB64 string) (bool, error) {
	digest, err := hex.DecodeString(hashHex)
	if err != nil {
		return false, fmt.Errorf("chain: decode hash for verify: %w", err)
	}
	sig, err := base64.StdEncoding.DecodeString(sigB64)
	if err != nil {
		return false, fmt.Errorf("chain: decode signature: %w", err)
	}
	return ecdsa.VerifyASN1(&k.priv.PublicKey, digest, sig), nil
}

// PublicKey exposes the node's public key for external verifiers.
func (k *SigningKey) PublicKey() *ecdsa.PublicKey {
	return &k.priv.PublicKey
}
