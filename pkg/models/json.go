package models

import (
	"encoding/json"
	"fmt"
)

// beadWire is the on-the-wire shape of Bead, with Content left raw so
// it can be decoded into the concrete type BeadType names.
type beadWire struct {
	BeadID                  string          `json:"bead_id"`
	BeadType                BeadType        `json:"bead_type"`
	TemporalClass           TemporalClass   `json:"temporal_class"`
	WorldTimeValidFrom      *string         `json:"world_time_valid_from,omitempty"`
	WorldTimeValidTo        *string         `json:"world_time_valid_to,omitempty"`
	KnowledgeTimeRecordedAt string          `json:"knowledge_time_recorded_at"`
	Lineage                 []string        `json:"lineage"`
	Content                 json.RawMessage `json:"content"`
	HashPrev                *string         `json:"hash_prev"`
	HashSelf                string          `json:"hash_self"`
	Attestation             Attestation     `json:"attestation"`
	MerkleBatchID           *string         `json:"merkle_batch_id,omitempty"`
	Status                  BeadStatus      `json:"status"`
	Tags                    []string        `json:"tags"`
	TokenMint               string          `json:"token_mint,omitempty"`
}

// DecodeContent unmarshals raw JSON into the concrete BeadContent type
// selected by t. Used by both Bead.UnmarshalJSON and the chain store
// when reconstructing rows read back from full_bead JSONB.
func DecodeContent(t BeadType, raw []byte) (BeadContent, error) {
	var c BeadContent
	switch t {
	case BeadFact:
		c = &FactContent{}
	case BeadClaim:
		c = &ClaimContent{}
	case BeadSignal:
		c = &SignalContent{}
	case BeadProposal:
		c = &ProposalContent{}
	case BeadProposalRejected:
		c = &ProposalRejectedContent{}
	case BeadHeartbeat:
		c = &HeartbeatContent{}
	case BeadPolicy:
		c = &PolicyContent{}
	case BeadModelVersion:
		c = &ModelVersionContent{}
	case BeadAutopsy:
		c = &AutopsyContent{}
	case BeadSkill:
		c = &SkillContent{}
	default:
		return nil, fmt.Errorf("models: unknown bead_type %q", t)
	}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, c); err != nil {
			return nil, fmt.Errorf("models: decode content for %q: %w", t, err)
		}
	}
	// Dereference the pointer so callers get value types back, matching
	// how content is constructed by writers (see content.go).
	switch v := c.(type) {
	case *FactContent:
		return *v, nil
	case *ClaimContent:
		return *v, nil
	case *SignalContent:
		return *v, nil
	case *ProposalContent:
		return *v, nil
	case *ProposalRejectedContent:
		return *v, nil
	case *HeartbeatContent:
		return *v, nil
	case *PolicyContent:
		return *v, nil
	case *ModelVersionContent:
		return *v, nil
	case *AutopsyContent:
		return *v, nil
	case *SkillContent:
		return *v, nil
	}
	return c, nil
}

// MarshalJSON encodes a Bead with its Content field tagged by BeadType,
// the discriminated-union encoding required by spec.md §9.
func (b Bead) MarshalJSON() ([]byte, error) {
	contentRaw, err := json.Marshal(b.Content)
	if err != nil {
		return nil, fmt.Errorf("models: marshal content: %w", err)
	}
	wire := beadWire{
		BeadID:                  b.BeadID,
		BeadType:                b.BeadType,
		TemporalClass:           b.TemporalClass,
		KnowledgeTimeRecordedAt: formatTime(b.KnowledgeTimeRecordedAt),
		Lineage:                 nonNilStrings(b.Lineage),
		Content:                 contentRaw,
		HashPrev:                b.HashPrev,
		HashSelf:                b.HashSelf,
		Attestation:             b.Attestation,
		MerkleBatchID:           b.MerkleBatchID,
		Status:                  b.Status,
		Tags:                    nonNilStrings(b.Tags),
		TokenMint:               b.TokenMint,
	}
	if b.WorldTimeValidFrom != nil {
		s := formatTime(*b.WorldTimeValidFrom)
		wire.WorldTimeValidFrom = &s
	}
	if b.WorldTimeValidTo != nil {
		s := formatTime(*b.WorldTimeValidTo)
		wire.WorldTimeValidTo = &s
	}
	return json.Marshal(wire)
}

// UnmarshalJSON decodes a Bead, dispatching Content by bead_type.
func (b *Bead) UnmarshalJSON(data []byte) error {
	var wire beadWire
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	content, err := DecodeContent(wire.BeadType, wire.Content)
	if err != nil {
		return err
	}
	kt, err := parseTime(wire.KnowledgeTimeRecordedAt)
	if err != nil {
		return fmt.Errorf("models: knowledge_time_recorded_at: %w", err)
	}
	*b = Bead{
		BeadID:                  wire.BeadID,
		BeadType:                wire.BeadType,
		TemporalClass:           wire.TemporalClass,
		KnowledgeTimeRecordedAt: kt,
		Lineage:                 wire.Lineage,
		Content:                 content,
		HashPrev:                wire.HashPrev,
		HashSelf:                wire.HashSelf,
		Attestation:             wire.Attestation,
		MerkleBatchID:           wire.MerkleBatchID,
		Status:                  wire.Status,
		Tags:                    wire.Tags,
		TokenMint:               wire.TokenMint,
	}
	if wire.WorldTimeValidFrom != nil {
		t, err := parseTime(*wire.WorldTimeValidFrom)
		if err != nil {
			return fmt.Errorf("models: world_time_valid_from: %w", err)
		}
		b.WorldTimeValidFrom = &t
	}
	if wire.WorldTimeValidTo != nil {
		t, err := parseTime(*wire.WorldTimeValidTo)
		if err != nil {
			return fmt.Errorf("models: world_time_valid_to: %w", err)
		}
		b.WorldTimeValidTo = &t
	}
	return nil
}

func nonNilStrings(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
