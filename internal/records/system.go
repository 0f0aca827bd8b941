package records

import (
	"context"

	"github.com/google/uuid"

	"github.com/JaimeStill/scorecard/pkg/pagination"
)

// System defines the public contract for the performance record store.
// Every operation is scoped to one organization.
type System interface {
	Handler() *Handler

	// CreateBatch allocates the next batch id and inserts every draft under it
	// in one transaction.
	CreateBatch(ctx context.Context, cmd BatchCommand) (*Batch, error)

	ListByOrganization(ctx context.Context, orgID uuid.UUID) ([]Record, error)
	ListBatch(ctx context.Context, orgID uuid.UUID, batchID string) ([]Record, error)
	Entries(ctx context.Context, orgID uuid.UUID) ([]Entry, error)

	Search(
		ctx context.Context,
		orgID uuid.UUID,
		page pagination.PageRequest,
		filters Filters,
	) (*pagination.PageResult[Record], error)

	UpdateFields(ctx context.Context, orgID uuid.UUID, batchID string, updates []FieldUpdate) (int, error)
	RenameBatch(ctx context.Context, orgID uuid.UUID, batchID, name string) (int, error)
	DeleteBatch(ctx context.Context, orgID uuid.UUID, batchID string) (int, error)
	DeleteAll(ctx context.Context, orgID uuid.UUID) (int, error)
}
