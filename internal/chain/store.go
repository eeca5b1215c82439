// Package chain implements the bi-temporal, hash-linked, ECDSA-signed
// append-only bead store described in spec.md §4.1, backed by
// PostgreSQL via pgx — the storage engine and transaction discipline
// carried over directly from the teacher's internal/db package.
package chain

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rawblock/boar-agent/pkg/models"
)

//go:embed schema.sql
var schemaSQL string

// Store is the bead chain, one writer at a time, many concurrent
// readers — the concurrency contract of spec.md §5.
type Store struct {
	pool *pgxpool.Pool

	signingKey *SigningKey
	nodeID     string
	codeHash   string

	// writeLock is a size-1 semaphore implementing the exclusive
	// chain-write lock; acquiring it respects the caller's context
	// deadline and surfaces ChainBusy on timeout.
	writeLock chan struct{}
}

// Open connects to Postgres and loads the bead-chain schema.
func Open(ctx context.Context, connStr string, signingKey *SigningKey, nodeID, codeHash string) (*Store, error) {
	pool, err := pgxpool.New(ctx, connStr)
	if err != nil {
		return nil, fmt.Errorf("chain: connect: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("chain: ping: %w", err)
	}
	s := &Store{
		pool:       pool,
		signingKey: signingKey,
		nodeID:     nodeID,
		codeHash:   codeHash,
		writeLock:  make(chan struct{}, 1),
	}
	if _, err := pool.Exec(ctx, schemaSQL); err != nil {
		pool.Close()
		return nil, fmt.Errorf("chain: init schema: %w", err)
	}
	return s, nil
}

// Close releases the underlying connection pool.
func (s *Store) Close() {
	s.pool.Close()
}

func (s *Store) acquireWriteLock(ctx context.Context) error {
	select {
	case s.writeLock <- struct{}{}:
		return nil
	case <-ctx.Done():
		return ChainBusy{Waited: ctx.Err().Error()}
	}
}

func (s *Store) releaseWriteLock() {
	<-s.writeLock
}

// Write appends a bead to the chain: sets hash_prev to the current
// tip, populates attestation, computes hash_self, signs it, and
// inserts the bead plus one lineage row per parent in a single
// transaction.
func (s *Store) Write(ctx context.Context, b models.Bead) (models.Bead, error) {
	if err := s.acquireWriteLock(ctx); err != nil {
		return models.Bead{}, err
	}
	defer s.releaseWriteLock()

	if b.BeadType.RequiresLineage() && len(b.Lineage) == 0 {
		return models.Bead{}, SchemaViolation{Field: "lineage", Reason: "required non-empty for this bead_type"}
	}
	if rc, ok := b.Content.(models.ProposalRejectedContent); ok {
		if rc.Category == models.RejectionRiskBreach && rc.RejectionPolicyRef == nil {
			return models.Bead{}, SchemaViolation{Field: "rejection_policy_ref", Reason: "required for RISK_BREACH"}
		}
	}
	if b.WorldTimeValidFrom != nil && b.WorldTimeValidTo != nil {
		if b.WorldTimeValidFrom.After(*b.WorldTimeValidTo) {
			return models.Bead{}, SchemaViolation{Field: "world_time_valid_from", Reason: "must be <= world_time_valid_to"}
		}
		if b.KnowledgeTimeRecordedAt.Before(*b.WorldTimeValidTo) {
			return models.Bead{}, SchemaViolation{Field: "knowledge_time_recorded_at", Reason: "must be >= world_time_valid_to"}
		}
	}
	if b.TemporalClass == models.TemporalObservation && b.WorldTimeValidFrom == nil {
		return models.Bead{}, SchemaViolation{Field: "world_time_valid_from", Reason: "OBSERVATION requires a world-time window"}
	}
	if b.TemporalClass == models.TemporalPattern && (b.WorldTimeValidFrom != nil || b.WorldTimeValidTo != nil) {
		return models.Bead{}, SchemaViolation{Field: "world_time_valid_from", Reason: "PATTERN forbids a world-time window"}
	}

	for _, parentID := range b.Lineage {
		exists, err := s.beadExists(ctx, parentID)
		if err != nil {
			return models.Bead{}, err
		}
		if !exists {
			return models.Bead{}, LineageMissing{MissingID: parentID}
		}
	}

	if b.BeadID == "" {
		id, err := models.NewBeadID()
		if err != nil {
			return models.Bead{}, fmt.Errorf("chain: generate bead id: %w", err)
		}
		b.BeadID = id
	}
	if b.KnowledgeTimeRecordedAt.IsZero() {
		b.KnowledgeTimeRecordedAt = time.Now().UTC()
	}
	if b.Status == "" {
		b.Status = models.StatusActive
	}

	tip, err := s.tipHash(ctx)
	if err != nil {
		return models.Bead{}, err
	}
	b.HashPrev = tip
	b.Attestation.NodeID = s.nodeID
	b.Attestation.CodeHash = s.codeHash

	hashSelf, err := computeHashSelf(b)
	if err != nil {
		return models.Bead{}, err
	}
	b.HashSelf = hashSelf

	if s.signingKey != nil {
		sig, err := s.signingKey.Sign(hashSelf)
		if err != nil {
			b.Attestation.EcdsaSig = models.SignatureUnavailable
		} else {
			b.Attestation.EcdsaSig = sig
		}
	} else {
		b.Attestation.EcdsaSig = models.SignatureUnavailable
	}

	if err := s.insert(ctx, b); err != nil {
		return models.Bead{}, err
	}
	return b, nil
}

func (s *Store) beadExists(ctx context.Context, beadID string) (bool, error) {
	var exists bool
	err := s.pool.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM beads WHERE bead_id = $1)`, beadID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("chain: check lineage parent: %w", err)
	}
	return exists, nil
}

func (s *Store) tipHash(ctx context.Context) (*string, error) {
	var id string
	err := s.pool.QueryRow(ctx, `SELECT bead_id FROM beads ORDER BY seq DESC LIMIT 1`).Scan(&id)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("chain: read tip: %w", err)
	}
	return &id, nil
}

func (s *Store) insert(ctx context.Context, b models.Bead) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("chain: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	fullBead, err := json.Marshal(b)
	if err != nil {
		return fmt.Errorf("chain: marshal bead: %w", err)
	}
	contentJSON, err := json.Marshal(b.Content)
	if err != nil {
		return fmt.Errorf("chain: marshal content: %w", err)
	}
	lineageJSON, err := json.Marshal(nonNil(b.Lineage))
	if err != nil {
		return err
	}
	tagsJSON, err := json.Marshal(nonNil(b.Tags))
	if err != nil {
		return err
	}
	attestationJSON, err := json.Marshal(b.Attestation)
	if err != nil {
		return err
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO beads (
			bead_id, bead_type, hash_self, hash_prev, merkle_batch_id,
			world_time_valid_from, world_time_valid_to, knowledge_time_recorded_at,
			temporal_class, token_mint, status, tags, content, lineage,
			source_ref, attestation, full_bead
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,'{}',$15,$16)
	`, b.BeadID, string(b.BeadType), b.HashSelf, b.HashPrev, b.MerkleBatchID,
		b.WorldTimeValidFrom, b.WorldTimeValidTo, b.KnowledgeTimeRecordedAt,
		string(b.TemporalClass), b.TokenMint, string(b.Status), tagsJSON, contentJSON, lineageJSON,
		attestationJSON, fullBead)
	if err != nil {
		return fmt.Errorf("chain: insert bead: %w", err)
	}

	for i, parentID := range b.Lineage {
		_, err := tx.Exec(ctx, `INSERT INTO bead_lineage (bead_id, parent_id, position) VALUES ($1,$2,$3)`,
			b.BeadID, parentID, i)
		if err != nil {
			return fmt.Errorf("chain: insert lineage: %w", err)
		}
	}

	return tx.Commit(ctx)
}
