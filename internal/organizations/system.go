package organizations

import (
	"context"

	"github.com/google/uuid"

	"github.com/JaimeStill/scorecard/pkg/pagination"
)

// System defines the public contract for organization operations.
type System interface {
	Handler() *Handler

	List(ctx context.Context, page pagination.PageRequest) (*pagination.PageResult[Organization], error)
	Find(ctx context.Context, id uuid.UUID) (*Organization, error)
	Create(ctx context.Context, cmd CreateCommand) (*Organization, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
