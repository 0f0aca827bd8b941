package records

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// columns maps editable core fields to their columns.
var columns = map[string]string{
	"objective": "objective",
	"measure":   "measure",
	"target":    "target",
	"actual":    "actual",
	"owner":     "owner",
	"date":      "date",
}

// statement is a resolved single-record update.
type statement struct {
	sql  string
	args []any
}

// resolve validates u and builds the UPDATE scoped to the organization and batch.
// Batch membership, tenancy, and upload time are never editable.
func (u FieldUpdate) resolve(orgID uuid.UUID, batchID string) (statement, error) {
	if !u.Perspective.Valid() {
		return statement{}, fmt.Errorf("%w: %q", ErrInvalidPerspective, u.Perspective)
	}
	if u.ID == uuid.Nil {
		return statement{}, fmt.Errorf("%w: record id required", ErrInvalidUpdate)
	}

	field := strings.ToLower(strings.TrimSpace(u.Field))
	value := strings.TrimSpace(u.Value)
	scope := []any{u.ID, orgID, batchID, string(u.Perspective)}

	if u.Perspective.HasAttribute(field) {
		return statement{
			sql: `
				UPDATE records SET attributes = jsonb_set(attributes, ARRAY[$1::text], to_jsonb($2::text))
				WHERE id = $3 AND organization_id = $4 AND batch_id = $5 AND perspective = $6`,
			args: append([]any{field, value}, scope...),
		}, nil
	}

	column, ok := columns[field]
	if !ok {
		return statement{}, fmt.Errorf("%w: %q", ErrInvalidField, u.Field)
	}

	var arg any
	switch field {
	case "objective", "measure":
		if value == "" {
			return statement{}, fmt.Errorf("%w: %s must not be empty", ErrInvalidUpdate, field)
		}
		arg = value
	case "owner":
		if value != "" {
			arg = value
		}
	case "date":
		if value != "" {
			d := ParseDate(value)
			if d == nil {
				return statement{}, fmt.Errorf("%w: unrecognized date %q", ErrInvalidUpdate, value)
			}
			arg = *d
		}
	default:
		arg = value
	}

	return statement{
		sql: fmt.Sprintf(`
			UPDATE records SET %s = $1
			WHERE id = $2 AND organization_id = $3 AND batch_id = $4 AND perspective = $5`, column),
		args: append([]any{arg}, scope...),
	}, nil
}
