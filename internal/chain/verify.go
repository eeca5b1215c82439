package chain

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/rawblock/boar-agent/pkg/models"
)

// VerifyResult is the outcome of a chain integrity scan.
type VerifyResult struct {
	Valid               bool
	FirstBreakSeq       int64 // 0 if Valid
	FirstBreakReason    string
	SignatureFailures   int
	BeadsScanned        int
}

// VerifyChain scans the whole chain in sequence order, recomputing
// each hash_self, checking hash_prev linkage to the previous row, and
// verifying each ECDSA signature. This is the full audit cmd/chainstatus
// --verify runs on demand; the heartbeat cycle uses VerifyFromAnchor
// instead so its per-cycle cost doesn't grow with total chain length.
// It never repairs what it finds — that is the caller's call, per
// spec.md §7 (ChainIntegrityBroken is never auto-repaired).
func (s *Store) VerifyChain(ctx context.Context) (VerifyResult, error) {
	rows, err := s.pool.Query(ctx, `SELECT seq, full_bead FROM beads ORDER BY seq ASC`)
	if err != nil {
		return VerifyResult{}, fmt.Errorf("chain: verify query: %w", err)
	}
	defer rows.Close()
	return s.verifyRows(rows, nil)
}

// VerifyFromAnchor verifies only the suffix of the chain written since
// the last Merkle anchor, per spec.md §4.5 step 2 ("verify chain
// integrity from the last anchor forward"). The prefix up to and
// including the most recently anchored bead was hash- and
// signature-checked the cycle it was written, and is additionally
// committed to by that anchor's Merkle root, so re-scanning it every
// heartbeat would make step 2's cost grow unboundedly with total chain
// size inside a fixed CycleBudgetSeconds. Only the unanchored tail can
// still hide a break, so only it is re-read here. When nothing has
// been anchored yet it falls back to scanning from genesis.
func (s *Store) VerifyFromAnchor(ctx context.Context) (VerifyResult, error) {
	var lastSeq int64
	var lastBeadID *string

	row := s.pool.QueryRow(ctx, `SELECT seq, bead_id FROM beads WHERE merkle_batch_id IS NOT NULL ORDER BY seq DESC LIMIT 1`)
	var seq int64
	var id string
	switch err := row.Scan(&seq, &id); err {
	case nil:
		lastSeq = seq
		lastBeadID = &id
	case pgx.ErrNoRows:
		// No anchor yet; verify the whole chain from genesis.
	default:
		return VerifyResult{}, fmt.Errorf("chain: find last anchor: %w", err)
	}

	rows, err := s.pool.Query(ctx, `SELECT seq, full_bead FROM beads WHERE seq > $1 ORDER BY seq ASC`, lastSeq)
	if err != nil {
		return VerifyResult{}, fmt.Errorf("chain: verify-from-anchor query: %w", err)
	}
	defer rows.Close()
	return s.verifyRows(rows, lastBeadID)
}

// verifyRows walks rows (already ordered by seq ASC), checking
// hash_self, hash_prev linkage against prevID, and signatures.
// Beads whose signature equals the "signing_unavailable" sentinel are
// excluded from signature-failure counts. prevID is nil only when the
// first row scanned is expected to be the true genesis bead.
func (s *Store) verifyRows(rows pgx.Rows, prevID *string) (VerifyResult, error) {
	result := VerifyResult{Valid: true}

	for rows.Next() {
		var seq int64
		var raw []byte
		if err := rows.Scan(&seq, &raw); err != nil {
			return VerifyResult{}, fmt.Errorf("chain: verify scan: %w", err)
		}
		var b models.Bead
		if err := b.UnmarshalJSON(raw); err != nil {
			return VerifyResult{}, fmt.Errorf("chain: verify decode seq %d: %w", seq, err)
		}
		result.BeadsScanned++

		wantHash, err := computeHashSelf(b)
		if err != nil {
			return VerifyResult{}, err
		}
		if wantHash != b.HashSelf {
			result.Valid = false
			result.FirstBreakSeq = seq
			result.FirstBreakReason = "hash_self mismatch"
			break
		}

		if prevID == nil {
			if b.HashPrev != nil {
				result.Valid = false
				result.FirstBreakSeq = seq
				result.FirstBreakReason = "genesis bead has non-null hash_prev"
				break
			}
		} else {
			if b.HashPrev == nil || *b.HashPrev != *prevID {
				result.Valid = false
				result.FirstBreakSeq = seq
				result.FirstBreakReason = "hash_prev does not match preceding bead_id"
				break
			}
		}

		if b.Attestation.EcdsaSig != models.SignatureUnavailable {
			if s.signingKey == nil {
				result.SignatureFailures++
			} else {
				ok, err := s.signingKey.Verify(b.HashSelf, b.Attestation.EcdsaSig)
				if err != nil || !ok {
					result.SignatureFailures++
				}
			}
		}

		id := b.BeadID
		prevID = &id
	}
	if err := rows.Err(); err != nil {
		return VerifyResult{}, err
	}
	return result, nil
}
