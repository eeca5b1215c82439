package chain

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/rawblock/boar-agent/pkg/models"
)

// Read returns the bead with the given id, or (models.Bead{}, false, nil)
// if it does not exist.
func (s *Store) Read(ctx context.Context, beadID string) (models.Bead, bool, error) {
	row := s.pool.QueryRow(ctx, `SELECT full_bead FROM beads WHERE bead_id = $1`, beadID)
	var raw []byte
	if err := row.Scan(&raw); err != nil {
		if err == pgx.ErrNoRows {
			return models.Bead{}, false, nil
		}
		return models.Bead{}, false, fmt.Errorf("chain: read %s: %w", beadID, err)
	}
	var b models.Bead
	if err := b.UnmarshalJSON(raw); err != nil {
		return models.Bead{}, false, fmt.Errorf("chain: decode %s: %w", beadID, err)
	}
	return b, true, nil
}

// TimeRange bounds a query by knowledge time; either end may be the
// zero time to leave that side unbounded.
type TimeRange struct {
	Since time.Time
	Until time.Time
}

func (s *Store) scanBeads(ctx context.Context, query string, args ...any) ([]models.Bead, error) {
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("chain: query: %w", err)
	}
	defer rows.Close()

	var out []models.Bead
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("chain: scan: %w", err)
		}
		var b models.Bead
		if err := b.UnmarshalJSON(raw); err != nil {
			return nil, fmt.Errorf("chain: decode row: %w", err)
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func rangeClause(tr *TimeRange, placeholderBase int) (string, []any) {
	if tr == nil {
		return "", nil
	}
	var clauses []string
	var args []any
	idx := placeholderBase
	if !tr.Since.IsZero() {
		clauses = append(clauses, fmt.Sprintf("knowledge_time_recorded_at >= $%d", idx))
		args = append(args, tr.Since)
		idx++
	}
	if !tr.Until.IsZero() {
		clauses = append(clauses, fmt.Sprintf("knowledge_time_recorded_at <= $%d", idx))
		args = append(args, tr.Until)
		idx++
	}
	if len(clauses) == 0 {
		return "", nil
	}
	out := " AND " + clauses[0]
	for _, c := range clauses[1:] {
		out += " AND " + c
	}
	return out, args
}

// QueryByType returns beads of the given type, descending by sequence,
// optionally bounded by knowledge time.
func (s *Store) QueryByType(ctx context.Context, t models.BeadType, tr *TimeRange) ([]models.Bead, error) {
	clause, args := rangeClause(tr, 2)
	q := fmt.Sprintf(`SELECT full_bead FROM beads WHERE bead_type = $1%s ORDER BY seq DESC`, clause)
	return s.scanBeads(ctx, q, append([]any{string(t)}, args...)...)
}

// QueryByToken returns beads for a token mint, descending by sequence.
func (s *Store) QueryByToken(ctx context.Context, tokenMint string, tr *TimeRange) ([]models.Bead, error) {
	clause, args := rangeClause(tr, 2)
	q := fmt.Sprintf(`SELECT full_bead FROM beads WHERE token_mint = $1%s ORDER BY seq DESC`, clause)
	return s.scanBeads(ctx, q, append([]any{tokenMint}, args...)...)
}

// QueryByStatus returns beads with the given lifecycle status.
func (s *Store) QueryByStatus(ctx context.Context, status models.BeadStatus, tr *TimeRange) ([]models.Bead, error) {
	clause, args := rangeClause(tr, 2)
	q := fmt.Sprintf(`SELECT full_bead FROM beads WHERE status = $1%s ORDER BY seq DESC`, clause)
	return s.scanBeads(ctx, q, append([]any{string(status)}, args...)...)
}

// QueryByTemporalClass returns beads of a given temporal class.
func (s *Store) QueryByTemporalClass(ctx context.Context, tc models.TemporalClass, tr *TimeRange) ([]models.Bead, error) {
	clause, args := rangeClause(tr, 2)
	q := fmt.Sprintf(`SELECT full_bead FROM beads WHERE temporal_class = $1%s ORDER BY seq DESC`, clause)
	return s.scanBeads(ctx, q, append([]any{string(tc)}, args...)...)
}

// QueryByTag returns beads carrying the given tag.
func (s *Store) QueryByTag(ctx context.Context, tag string, tr *TimeRange) ([]models.Bead, error) {
	clause, args := rangeClause(tr, 2)
	q := fmt.Sprintf(`SELECT full_bead FROM beads WHERE tags @> $1::jsonb%s ORDER BY seq DESC`, clause)
	tagJSON := fmt.Sprintf(`[%q]`, tag)
	return s.scanBeads(ctx, q, append([]any{tagJSON}, args...)...)
}

// QueryWorldTimeRange returns beads whose world-time interval overlaps
// [from, to].
func (s *Store) QueryWorldTimeRange(ctx context.Context, from, to time.Time) ([]models.Bead, error) {
	q := `SELECT full_bead FROM beads
		WHERE world_time_valid_from IS NOT NULL AND world_time_valid_to IS NOT NULL
		AND world_time_valid_from <= $2 AND world_time_valid_to >= $1
		ORDER BY seq DESC`
	return s.scanBeads(ctx, q, from, to)
}

// QueryKnowledgeAt returns every bead known as of time t — "what did
// we know at time t".
func (s *Store) QueryKnowledgeAt(ctx context.Context, t time.Time) ([]models.Bead, error) {
	q := `SELECT full_bead FROM beads WHERE knowledge_time_recorded_at <= $1 ORDER BY seq DESC`
	return s.scanBeads(ctx, q, t)
}

// QueryRecent returns the n most recently written beads, newest first.
func (s *Store) QueryRecent(ctx context.Context, n int) ([]models.Bead, error) {
	return s.scanBeads(ctx, `SELECT full_bead FROM beads ORDER BY seq DESC LIMIT $1`, n)
}

// GetLineage returns a bead's direct parents in declared order.
func (s *Store) GetLineage(ctx context.Context, beadID string) ([]models.Bead, error) {
	rows, err := s.pool.Query(ctx, `SELECT parent_id FROM bead_lineage WHERE bead_id = $1 ORDER BY position`, beadID)
	if err != nil {
		return nil, fmt.Errorf("chain: get lineage: %w", err)
	}
	defer rows.Close()

	var parentIDs []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		parentIDs = append(parentIDs, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	out := make([]models.Bead, 0, len(parentIDs))
	for _, id := range parentIDs {
		b, ok, err := s.Read(ctx, id)
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, b)
		}
	}
	return out, nil
}

// GetDescendants returns beads that list beadID in their lineage.
func (s *Store) GetDescendants(ctx context.Context, beadID string) ([]models.Bead, error) {
	q := `SELECT full_bead FROM beads b
		WHERE EXISTS (SELECT 1 FROM bead_lineage l WHERE l.parent_id = $1 AND l.bead_id = b.bead_id)
		ORDER BY seq DESC`
	return s.scanBeads(ctx, q, beadID)
}

// WalkLineage performs a BFS ancestor traversal up to depth,
// deduplicated, ordered by discovery distance.
func (s *Store) WalkLineage(ctx context.Context, beadID string, depth int) ([]models.Bead, error) {
	visited := map[string]bool{beadID: true}
	frontier := []string{beadID}
	var out []models.Bead

	for d := 0; d < depth && len(frontier) > 0; d++ {
		var next []string
		for _, id := range frontier {
			parents, err := s.GetLineage(ctx, id)
			if err != nil {
				return nil, err
			}
			for _, p := range parents {
				if visited[p.BeadID] {
					continue
				}
				visited[p.BeadID] = true
				out = append(out, p)
				next = append(next, p.BeadID)
			}
		}
		frontier = next
	}
	return out, nil
}
