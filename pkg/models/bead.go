// Package models holds the typed data model shared across the chain,
// scoring, warden, guards, and orchestrator packages.
package models

import (
	"time"

	"github.com/google/uuid"
)

// BeadType tags which structured payload a Bead carries.
type BeadType string

const (
	BeadFact                BeadType = "FACT"
	BeadClaim               BeadType = "CLAIM"
	BeadSignal              BeadType = "SIGNAL"
	BeadProposal            BeadType = "PROPOSAL"
	BeadProposalRejected    BeadType = "PROPOSAL_REJECTED"
	BeadHeartbeat           BeadType = "HEARTBEAT"
	BeadPolicy              BeadType = "POLICY"
	BeadModelVersion        BeadType = "MODEL_VERSION"
	BeadAutopsy             BeadType = "AUTOPSY"
	BeadSkill               BeadType = "SKILL"
)

// TemporalClass distinguishes observations of the world from derived
// conclusions and cross-instance patterns.
type TemporalClass string

const (
	TemporalObservation TemporalClass = "OBSERVATION"
	TemporalDerived     TemporalClass = "DERIVED"
	TemporalPattern     TemporalClass = "PATTERN"
)

// BeadStatus is the lifecycle state of a bead. Transitions are additive:
// a new bead referencing the old one via lineage, never a mutation.
type BeadStatus string

const (
	StatusActive     BeadStatus = "ACTIVE"
	StatusSuperseded BeadStatus = "SUPERSEDED"
	StatusArchived   BeadStatus = "ARCHIVED"
)

// Attestation signs hash_self with the recording node's ECDSA key.
type Attestation struct {
	NodeID   string `json:"node_id"`
	CodeHash string `json:"code_hash"`
	// EcdsaSig is base64-encoded (r||s). The sentinel value
	// "signing_unavailable" marks a bead written while the node's
	// signing key could not be loaded; chain verification excludes these
	// from signature-failure counts.
	EcdsaSig string `json:"ecdsa_sig"`
}

// SignatureUnavailable is the sentinel attestation value meaning the
// writer could not reach its signing key when this bead was committed.
const SignatureUnavailable = "signing_unavailable"

// BeadContent is the discriminated-union payload. Each BeadType has
// exactly one concrete implementation below.
type BeadContent interface {
	beadContent()
}

// Bead is the atomic, append-only record described in spec.md §3.
type Bead struct {
	BeadID   string   `json:"bead_id"`
	BeadType BeadType `json:"bead_type"`

	TemporalClass        TemporalClass `json:"temporal_class"`
	WorldTimeValidFrom   *time.Time    `json:"world_time_valid_from,omitempty"`
	WorldTimeValidTo     *time.Time    `json:"world_time_valid_to,omitempty"`
	KnowledgeTimeRecordedAt time.Time  `json:"knowledge_time_recorded_at"`

	Lineage []string `json:"lineage"`

	Content BeadContent `json:"content"`

	HashPrev *string `json:"hash_prev"`
	HashSelf string  `json:"hash_self"`

	Attestation Attestation `json:"attestation"`

	MerkleBatchID *string    `json:"merkle_batch_id,omitempty"`
	Status        BeadStatus `json:"status"`
	Tags          []string   `json:"tags"`

	// TokenMint is denormalized for by-token queries; empty for
	// token-agnostic beads such as HEARTBEAT and POLICY.
	TokenMint string `json:"token_mint,omitempty"`
}

// NewBeadID returns a time-ordered, lexicographically sortable bead id.
func NewBeadID() (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", err
	}
	return id.String(), nil
}

// RequiresLineage reports whether this BeadType must carry a non-empty
// lineage per spec.md §3's invariant.
func (t BeadType) RequiresLineage() bool {
	switch t {
	case BeadClaim, BeadSignal, BeadProposal, BeadProposalRejected, BeadAutopsy:
		return true
	default:
		return false
	}
}
