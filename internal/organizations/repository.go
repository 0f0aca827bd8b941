package organizations

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/JaimeStill/scorecard/pkg/cache"
	"github.com/JaimeStill/scorecard/pkg/pagination"
	"github.com/JaimeStill/scorecard/pkg/query"
	"github.com/JaimeStill/scorecard/pkg/repository"
	"github.com/JaimeStill/scorecard/pkg/storage"
)

type repo struct {
	db         *sql.DB
	storage    storage.System
	cache      cache.System
	logger     *slog.Logger
	pagination pagination.Config
}

// New creates an organization repository implementing the System interface.
func New(
	db *sql.DB,
	store storage.System,
	cache cache.System,
	logger *slog.Logger,
	pagination pagination.Config,
) System {
	return &repo{
		db:         db,
		storage:    store,
		cache:      cache,
		logger:     logger.With("system", "organizations"),
		pagination: pagination,
	}
}

// UploadsPrefix is the blob key prefix under which an organization's uploads are archived.
func UploadsPrefix(id uuid.UUID) string {
	return fmt.Sprintf("uploads/%s/", id)
}

func (r *repo) Handler() *Handler {
	return NewHandler(r, r.logger, r.pagination)
}

func (r *repo) List(ctx context.Context, page pagination.PageRequest) (*pagination.PageResult[Organization], error) {
	page.Normalize(r.pagination)

	qb := query.
		NewBuilder(projection, defaultSort).
		WhereSearch(page.Search, "Name")

	if len(page.Sort) > 0 {
		qb.OrderByFields(page.Sort)
	}

	countSQL, countArgs := qb.BuildCount()
	var total int
	if err := r.db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count organizations: %w", err)
	}

	pageSQL, pageArgs := qb.BuildPage(page.Page, page.PageSize)
	orgs, err := repository.QueryMany(ctx, r.db, pageSQL, pageArgs, scanOrganization)
	if err != nil {
		return nil, fmt.Errorf("query organizations: %w", err)
	}

	result := pagination.NewPageResult(orgs, total, page.Page, page.PageSize)
	return &result, nil
}

func (r *repo) Find(ctx context.Context, id uuid.UUID) (*Organization, error) {
	q, args := query.NewBuilder(projection).BuildSingle("ID", id)

	o, err := repository.QueryOne(ctx, r.db, q, args, scanOrganization)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &o, nil
}

func (r *repo) Create(ctx context.Context, cmd CreateCommand) (*Organization, error) {
	name := strings.TrimSpace(cmd.Name)
	if name == "" {
		return nil, ErrInvalidName
	}

	q := `
		INSERT INTO organizations(id, name)
		VALUES ($1, $2)
		RETURNING id, name, created_at`

	o, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Organization, error) {
		return repository.QueryOne(ctx, tx, q, []any{uuid.New(), name}, scanOrganization)
	})
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("organization created", "id", o.ID, "name", o.Name)
	return &o, nil
}

// Delete removes the organization. Records follow through the foreign key cascade;
// archived uploads and cached aggregates are dropped afterwards and failures there are logged.
func (r *repo) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (struct{}, error) {
		return struct{}{}, repository.ExecExpectOne(
			ctx, tx,
			"DELETE FROM organizations WHERE id = $1",
			id,
		)
	})
	if err != nil {
		return repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	if n, err := r.storage.DeletePrefix(ctx, UploadsPrefix(id)); err != nil && !errors.Is(err, storage.ErrNotFound) {
		r.logger.Warn("archived upload cleanup failed", "id", id, "removed", n, "error", err)
	}

	if err := r.cache.Invalidate(ctx, id.String()); err != nil {
		r.logger.Warn("cache invalidation failed", "id", id, "error", err)
	}

	r.logger.Info("organization deleted", "id", id)
	return nil
}
