package chain

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// AnchorTrigger names why create_merkle_batch should run.
type AnchorTrigger string

const (
	TriggerNone             AnchorTrigger = ""
	TriggerDecisionBoundary AnchorTrigger = "DECISION_BOUNDARY"
	TriggerMaxBeads         AnchorTrigger = "MAX_BEADS"
	TriggerMaxTime          AnchorTrigger = "MAX_TIME"
)

const (
	maxUnanchoredBeads = 500
	maxTimeSinceAnchor = time.Hour
)

// CheckAnchorTrigger evaluates spec.md §4.1's three trigger conditions
// in priority order.
func (s *Store) CheckAnchorTrigger(ctx context.Context) (AnchorTrigger, error) {
	var signalOrProposalCount int
	err := s.pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM beads
		WHERE merkle_batch_id IS NULL AND bead_type IN ('SIGNAL', 'PROPOSAL')
	`).Scan(&signalOrProposalCount)
	if err != nil {
		return TriggerNone, fmt.Errorf("chain: check decision boundary trigger: %w", err)
	}
	if signalOrProposalCount > 0 {
		return TriggerDecisionBoundary, nil
	}

	var unanchoredCount int
	err = s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM beads WHERE merkle_batch_id IS NULL`).Scan(&unanchoredCount)
	if err != nil {
		return TriggerNone, fmt.Errorf("chain: count unanchored: %w", err)
	}
	if unanchoredCount >= maxUnanchoredBeads {
		return TriggerMaxBeads, nil
	}
	if unanchoredCount == 0 {
		return TriggerNone, nil
	}

	var lastAnchor time.Time
	err = s.pool.QueryRow(ctx, `SELECT COALESCE(MAX(created_at), 'epoch') FROM merkle_batches`).Scan(&lastAnchor)
	if err != nil {
		return TriggerNone, fmt.Errorf("chain: read last anchor time: %w", err)
	}
	if time.Since(lastAnchor) >= maxTimeSinceAnchor {
		return TriggerMaxTime, nil
	}
	return TriggerNone, nil
}

// merkleCombine hashes two concatenated 32-byte digests, never hex
// strings, per spec.md's algorithmic note.
func merkleCombine(a, b [32]byte) [32]byte {
	buf := make([]byte, 64)
	copy(buf[:32], a[:])
	copy(buf[32:], b[:])
	return sha256.Sum256(buf)
}

// merkleRoot builds a binary SHA-256 Merkle tree with odd leaves
// duplicated and deterministic left-to-right pairing, returning the
// root digest.
func merkleRoot(leafHashesHex []string) ([32]byte, error) {
	if len(leafHashesHex) == 0 {
		return [32]byte{}, fmt.Errorf("chain: merkle root of empty leaf set")
	}
	level := make([][32]byte, len(leafHashesHex))
	for i, h := range leafHashesHex {
		decoded, err := hex.DecodeString(h)
		if err != nil || len(decoded) != 32 {
			return [32]byte{}, fmt.Errorf("chain: leaf hash %q is not 32 bytes of hex", h)
		}
		copy(level[i][:], decoded)
	}
	for len(level) > 1 {
		if len(level)%2 == 1 {
			level = append(level, level[len(level)-1])
		}
		next := make([][32]byte, len(level)/2)
		for i := 0; i < len(level); i += 2 {
			next[i/2] = merkleCombine(level[i], level[i+1])
		}
		level = next
	}
	return level[0], nil
}

// AnchorPayload is the exact external-anchoring wire shape of spec.md §6.
type AnchorPayload struct {
	V     int     `json:"v"`
	Type  string  `json:"type"`
	Root  string  `json:"root"`
	Range [2]int64 `json:"range"`
	N     int     `json:"n"`
	TS    string  `json:"ts"`
}

// CreateMerkleBatch builds a Merkle tree over the currently unanchored
// beads' hashes (in seq order), inserts a batch record, and backfills
// merkle_batch_id on the covered rows. Returns the new batch id.
func (s *Store) CreateMerkleBatch(ctx context.Context, trigger AnchorTrigger) (string, error) {
	if err := s.acquireWriteLock(ctx); err != nil {
		return "", err
	}
	defer s.releaseWriteLock()

	rows, err := s.pool.Query(ctx, `SELECT seq, hash_self FROM beads WHERE merkle_batch_id IS NULL ORDER BY seq ASC`)
	if err != nil {
		return "", fmt.Errorf("chain: query unanchored: %w", err)
	}
	var seqs []int64
	var hashes []string
	for rows.Next() {
		var seq int64
		var h string
		if err := rows.Scan(&seq, &h); err != nil {
			rows.Close()
			return "", err
		}
		seqs = append(seqs, seq)
		hashes = append(hashes, h)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return "", err
	}
	if len(hashes) == 0 {
		return "", fmt.Errorf("chain: no unanchored beads to batch")
	}

	root, err := merkleRoot(hashes)
	if err != nil {
		return "", err
	}
	rootHex := hex.EncodeToString(root[:])

	batchID := uuid.NewString()

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return "", fmt.Errorf("chain: begin batch tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	_, err = tx.Exec(ctx, `
		INSERT INTO merkle_batches (batch_id, merkle_root, bead_count, trigger_type)
		VALUES ($1, $2, $3, $4)
	`, batchID, rootHex, len(hashes), string(trigger))
	if err != nil {
		return "", fmt.Errorf("chain: insert batch: %w", err)
	}

	_, err = tx.Exec(ctx, `UPDATE beads SET merkle_batch_id = $1 WHERE seq = ANY($2)`, batchID, seqs)
	if err != nil {
		return "", fmt.Errorf("chain: backfill merkle_batch_id: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return "", fmt.Errorf("chain: commit batch: %w", err)
	}

	return batchID, nil
}

// AnchorPayloadFor builds the external-anchoring JSON payload for a
// previously created batch.
func (s *Store) AnchorPayloadFor(ctx context.Context, batchID string) (AnchorPayload, error) {
	var root string
	var count int
	var minSeq, maxSeq int64
	err := s.pool.QueryRow(ctx, `
		SELECT mb.merkle_root, mb.bead_count, MIN(b.seq), MAX(b.seq)
		FROM merkle_batches mb JOIN beads b ON b.merkle_batch_id = mb.batch_id
		WHERE mb.batch_id = $1
		GROUP BY mb.merkle_root, mb.bead_count
	`, batchID).Scan(&root, &count, &minSeq, &maxSeq)
	if err != nil {
		return AnchorPayload{}, fmt.Errorf("chain: load batch %s: %w", batchID, err)
	}
	return AnchorPayload{
		V:     1,
		Type:  "boar_anchor",
		Root:  root,
		Range: [2]int64{minSeq, maxSeq},
		N:     count,
		TS:    time.Now().UTC().Format(time.RFC3339),
	}, nil
}

// RecordAnchorSubmission stores the anchor transaction reference for a
// batch once external submission succeeds. Submission failures never
// invalidate the local chain — the batch record persists untouched
// and can be re-submitted later.
func (s *Store) RecordAnchorSubmission(ctx context.Context, batchID, anchorTx string) error {
	_, err := s.pool.Exec(ctx, `UPDATE merkle_batches SET anchor_tx = $1 WHERE batch_id = $2`, anchorTx, batchID)
	if err != nil {
		return fmt.Errorf("chain: record anchor submission: %w", err)
	}
	return nil
}
