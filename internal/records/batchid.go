package records

import (
	"fmt"
	"strconv"
	"strings"
)

// FirstBatchID is allocated when no numeric batch id exists.
const FirstBatchID = "001"

// Scope selects the records considered when allocating the next batch id.
type Scope string

const (
	// ScopeOrganization allocates ids per organization.
	ScopeOrganization Scope = "organization"
	// ScopeGlobal allocates ids from one counter shared by every organization.
	ScopeGlobal Scope = "global"
)

// ParseScope validates a configured scope name.
func ParseScope(s string) (Scope, error) {
	switch Scope(strings.ToLower(strings.TrimSpace(s))) {
	case ScopeOrganization:
		return ScopeOrganization, nil
	case ScopeGlobal:
		return ScopeGlobal, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidScope, s)
}

// NextBatchID returns one more than the largest numeric id in existing,
// zero-padded to three digits. Ids that are empty, not all ASCII digits,
// or too large to count are ignored.
func NextBatchID(existing []string) string {
	var (
		max   uint64
		found bool
	)
	for _, id := range existing {
		if !numeric(id) {
			continue
		}
		n, err := strconv.ParseUint(id, 10, 64)
		if err != nil || n == ^uint64(0) {
			continue
		}
		if !found || n > max {
			max, found = n, true
		}
	}

	if !found {
		return FirstBatchID
	}
	return fmt.Sprintf("%03d", max+1)
}

func numeric(id string) bool {
	if id == "" {
		return false
	}
	for i := 0; i < len(id); i++ {
		if id[i] < '0' || id[i] > '9' {
			return false
		}
	}
	return true
}
