package chain

import (
	"testing"
	"time"

	"github.com/rawblock/boar-agent/pkg/models"
)

func sampleBead() models.Bead {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	return models.Bead{
		BeadID:                  "0192f000-0000-7000-8000-000000000001",
		BeadType:                models.BeadFact,
		TemporalClass:           models.TemporalDerived,
		KnowledgeTimeRecordedAt: now,
		Lineage:                 nil,
		Content: models.FactContent{
			Source:  "oracle",
			Payload: map[string]any{"whales": 3, "narrative_volume_multiple": 10},
		},
		Status: models.StatusActive,
		Tags:   []string{"oracle"},
		Attestation: models.Attestation{
			NodeID:   "node-1",
			CodeHash: "abc123",
		},
	}
}

func TestComputeHashSelf_DeterministicAcrossFieldOrder(t *testing.T) {
	b1 := sampleBead()
	b2 := sampleBead()
	// Rebuild the payload map with different insertion order.
	b2.Content = models.FactContent{
		Source:  "oracle",
		Payload: map[string]any{"narrative_volume_multiple": 10, "whales": 3},
	}

	h1, err := computeHashSelf(b1)
	if err != nil {
		t.Fatalf("computeHashSelf(b1): %v", err)
	}
	h2, err := computeHashSelf(b2)
	if err != nil {
		t.Fatalf("computeHashSelf(b2): %v", err)
	}
	if h1 != h2 {
		t.Fatalf("expected identical hashes, got %s vs %s", h1, h2)
	}
}

func TestComputeHashSelf_ChangesOnContentMutation(t *testing.T) {
	b1 := sampleBead()
	b2 := sampleBead()
	b2.Content = models.FactContent{Source: "oracle", Payload: map[string]any{"whales": 4}}

	h1, _ := computeHashSelf(b1)
	h2, _ := computeHashSelf(b2)
	if h1 == h2 {
		t.Fatalf("expected different hashes for different content")
	}
}

func TestComputeHashSelf_ExcludesEcdsaSig(t *testing.T) {
	b1 := sampleBead()
	b2 := sampleBead()
	b1.Attestation.EcdsaSig = "sig-a"
	b2.Attestation.EcdsaSig = "sig-b"

	h1, _ := computeHashSelf(b1)
	h2, _ := computeHashSelf(b2)
	if h1 != h2 {
		t.Fatalf("hash_self must not depend on ecdsa_sig")
	}
}

func TestSigningKey_SignVerifyRoundTrip(t *testing.T) {
	key, err := GenerateSigningKey()
	if err != nil {
		t.Fatalf("GenerateSigningKey: %v", err)
	}
	b := sampleBead()
	hash, err := computeHashSelf(b)
	if err != nil {
		t.Fatalf("computeHashSelf: %v", err)
	}
	sig, err := key.Sign(hash)
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}
	ok, err := key.Verify(hash, sig)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if !ok {
		t.Fatalf("expected signature to verify")
	}

	other, _ := GenerateSigningKey()
	ok, _ = other.Verify(hash, sig)
	if ok {
		t.Fatalf("expected signature to fail verification under a different key")
	}
}
