package ticketing

import (
	"strings"

	"github.com/google/uuid"
)

// codePrefix is the human-readable prefix on every ticket code.
const codePrefix = "TICKET-"

// NewCode produces a unique human-readable ticket code such as
// TICKET-3FA85F64. The suffix carries 8 hex characters (2^32 combinations),
// large enough that the registration workflow never retries on collision;
// the unique index on tickets.code backstops the improbable case.
func NewCode() string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
	return codePrefix + suffix
}
