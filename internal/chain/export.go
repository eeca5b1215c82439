package chain

import (
	"bufio"
	"context"
	"fmt"
	"io"

	"github.com/rawblock/boar-agent/pkg/models"
)

// ExportJSONL writes the whole chain, one bead per line, UTF-8,
// LF-terminated, sorted object keys per line, in sequence order.
func (s *Store) ExportJSONL(ctx context.Context, w io.Writer) error {
	rows, err := s.pool.Query(ctx, `SELECT full_bead FROM beads ORDER BY seq ASC`)
	if err != nil {
		return fmt.Errorf("chain: export query: %w", err)
	}
	defer rows.Close()

	bw := bufio.NewWriter(w)
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return fmt.Errorf("chain: export scan: %w", err)
		}
		canon, err := canonicalJSON(raw)
		if err != nil {
			return err
		}
		if _, err := bw.Write(canon); err != nil {
			return err
		}
		if err := bw.WriteByte('\n'); err != nil {
			return err
		}
	}
	if err := rows.Err(); err != nil {
		return err
	}
	return bw.Flush()
}

// ImportJSONL reads beads from r and writes each into the store,
// skipping any whose id already exists. Beads are imported in file
// order so lineage references to earlier lines in the same file
// resolve correctly.
func (s *Store) ImportJSONL(ctx context.Context, r io.Reader) (imported int, skipped int, err error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var b models.Bead
		if err := b.UnmarshalJSON(line); err != nil {
			return imported, skipped, fmt.Errorf("chain: import decode: %w", err)
		}
		exists, err := s.beadExists(ctx, b.BeadID)
		if err != nil {
			return imported, skipped, err
		}
		if exists {
			skipped++
			continue
		}
		if err := s.importRaw(ctx, b); err != nil {
			return imported, skipped, fmt.Errorf("chain: import bead %s: %w", b.BeadID, err)
		}
		imported++
	}
	if err := scanner.Err(); err != nil {
		return imported, skipped, fmt.Errorf("chain: import scan: %w", err)
	}
	return imported, skipped, nil
}

// importRaw inserts a bead exactly as read — preserving its original
// hash_self, hash_prev, and attestation — rather than re-deriving them
// as Write does, so a re-imported chain is byte-identical to the
// exported one.
func (s *Store) importRaw(ctx context.Context, b models.Bead) error {
	if err := s.acquireWriteLock(ctx); err != nil {
		return err
	}
	defer s.releaseWriteLock()
	return s.insert(ctx, b)
}
