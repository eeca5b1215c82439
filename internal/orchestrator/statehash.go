package orchestrator

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"

	"github.com/rawblock/boar-agent/pkg/models"
)

// stateHashOf returns the hex SHA-256 digest of state's encoding/json
// encoding (struct field order, not the chain's sorted-key canonical
// form), the HEARTBEAT bead's state-hash field of spec.md §4.5 step 9.
func stateHashOf(state models.State) string {
	raw, err := json.Marshal(state)
	if err != nil {
		return ""
	}
	sum := sha256.Sum256(raw)
	return hex.EncodeToString(sum[:])
}
