package records

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/google/uuid"

	"github.com/JaimeStill/scorecard/pkg/pagination"
	"github.com/JaimeStill/scorecard/pkg/query"
	"github.com/JaimeStill/scorecard/pkg/repository"
)

const (
	insertColumns = "id, organization_id, perspective, objective, measure, target, actual, owner, date, batch_id, batch_name, row_number, attributes"
	insertWidth   = 13
	insertChunk   = 1000
)

type repo struct {
	db         *sql.DB
	logger     *slog.Logger
	pagination pagination.Config
	scope      Scope
}

// New creates a record store implementing the System interface.
// scope selects which records are considered when allocating batch ids.
func New(
	db *sql.DB,
	logger *slog.Logger,
	pagination pagination.Config,
	scope Scope,
) System {
	if scope == "" {
		scope = ScopeOrganization
	}
	return &repo{
		db:         db,
		logger:     logger.With("system", "records"),
		pagination: pagination,
		scope:      scope,
	}
}

func (r *repo) Handler() *Handler {
	return NewHandler(r, r.logger, r.pagination)
}

func (r *repo) CreateBatch(ctx context.Context, cmd BatchCommand) (*Batch, error) {
	if len(cmd.Drafts) == 0 {
		return nil, ErrEmptyBatch
	}

	batch, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Batch, error) {
		id, err := r.allocate(ctx, tx, cmd.OrganizationID)
		if err != nil {
			return Batch{}, fmt.Errorf("allocate batch id: %w", err)
		}

		for chunk := range slices.Chunk(cmd.Drafts, insertChunk) {
			q := fmt.Sprintf(
				"INSERT INTO records (%s) VALUES %s",
				insertColumns,
				repository.ValuesList(len(chunk), insertWidth, 1),
			)

			args := make([]any, 0, len(chunk)*insertWidth)
			for _, d := range chunk {
				args = append(args, d.insertArgs(cmd.OrganizationID, id, cmd.BatchName)...)
			}

			if _, err := tx.ExecContext(ctx, q, args...); err != nil {
				return Batch{}, fmt.Errorf("insert records: %w", err)
			}
		}

		return Batch{ID: id, Created: len(cmd.Drafts)}, nil
	})

	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("batch created", "organization", cmd.OrganizationID, "batch", batch.ID, "records", batch.Created)
	return &batch, nil
}

// allocate serializes allocation per scope with a transaction-level advisory lock,
// so the computed id stays unique until the inserting transaction commits.
func (r *repo) allocate(ctx context.Context, tx *sql.Tx, orgID uuid.UUID) (string, error) {
	key := "batch:global"
	q := "SELECT DISTINCT batch_id FROM records WHERE batch_id IS NOT NULL"
	var args []any

	if r.scope == ScopeOrganization {
		key = "batch:" + orgID.String()
		q += " AND organization_id = $1"
		args = append(args, orgID)
	}

	if _, err := tx.ExecContext(ctx, "SELECT pg_advisory_xact_lock(hashtext($1))", key); err != nil {
		return "", err
	}

	existing, err := repository.QueryMany(ctx, tx, q, args, scanString)
	if err != nil {
		return "", err
	}

	return NextBatchID(existing), nil
}

func (d Draft) insertArgs(orgID uuid.UUID, batchID string, batchName *string) []any {
	var date any
	if d.Date != nil {
		date = *d.Date
	}

	attrs := d.Attributes
	if attrs == nil {
		attrs = Attributes{}
	}

	return []any{
		uuid.New(),
		orgID,
		string(d.Perspective),
		d.Objective,
		d.Measure,
		d.Target,
		d.Actual,
		d.Owner,
		date,
		batchID,
		batchName,
		d.RowNumber,
		attrs,
	}
}

func (r *repo) ListByOrganization(ctx context.Context, orgID uuid.UUID) ([]Record, error) {
	q, args := query.
		NewBuilder(projection, defaultSort...).
		WhereEquals("OrganizationID", orgID).
		Build()

	recs, err := repository.QueryMany(ctx, r.db, q, args, scanRecord)
	if err != nil {
		return nil, fmt.Errorf("query records: %w", err)
	}
	return recs, nil
}

func (r *repo) ListBatch(ctx context.Context, orgID uuid.UUID, batchID string) ([]Record, error) {
	q, args := query.
		NewBuilder(projection, defaultSort...).
		WhereEquals("OrganizationID", orgID).
		WhereEquals("BatchID", batchID).
		Build()

	recs, err := repository.QueryMany(ctx, r.db, q, args, scanRecord)
	if err != nil {
		return nil, fmt.Errorf("query batch records: %w", err)
	}
	return recs, nil
}

func (r *repo) Entries(ctx context.Context, orgID uuid.UUID) ([]Entry, error) {
	recs, err := r.ListByOrganization(ctx, orgID)
	if err != nil {
		return nil, err
	}

	slices.SortStableFunc(recs, func(a, b Record) int {
		return a.Perspective.Index() - b.Perspective.Index()
	})

	entries := make([]Entry, len(recs))
	for i, rec := range recs {
		entries[i] = rec.Entry()
	}
	return entries, nil
}

func (r *repo) Search(
	ctx context.Context,
	orgID uuid.UUID,
	page pagination.PageRequest,
	filters Filters,
) (*pagination.PageResult[Record], error) {
	page.Normalize(r.pagination)

	qb := query.
		NewBuilder(projection, defaultSort...).
		WhereEquals("OrganizationID", orgID).
		WhereSearch(page.Search, "Objective", "Measure", "Owner", "BatchName")

	filters.Apply(qb)

	if len(page.Sort) > 0 {
		qb.OrderByFields(page.Sort)
	}

	countSQL, countArgs := qb.BuildCount()
	var total int
	if err := r.db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count records: %w", err)
	}

	pageSQL, pageArgs := qb.BuildPage(page.Page, page.PageSize)
	recs, err := repository.QueryMany(ctx, r.db, pageSQL, pageArgs, scanRecord)
	if err != nil {
		return nil, fmt.Errorf("query records: %w", err)
	}

	result := pagination.NewPageResult(recs, total, page.Page, page.PageSize)
	return &result, nil
}

func (r *repo) UpdateFields(ctx context.Context, orgID uuid.UUID, batchID string, updates []FieldUpdate) (int, error) {
	stmts := make([]statement, len(updates))
	for i, u := range updates {
		s, err := u.resolve(orgID, batchID)
		if err != nil {
			return 0, err
		}
		stmts[i] = s
	}

	n, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (int, error) {
		for _, s := range stmts {
			if err := repository.ExecExpectOne(ctx, tx, s.sql, s.args...); err != nil {
				return 0, err
			}
		}
		return len(stmts), nil
	})

	if err != nil {
		return 0, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("records updated", "organization", orgID, "batch", batchID, "updates", n)
	return n, nil
}

func (r *repo) RenameBatch(ctx context.Context, orgID uuid.UUID, batchID, name string) (int, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return 0, fmt.Errorf("%w: batch name must not be empty", ErrInvalidUpdate)
	}

	n, err := repository.ExecAffected(
		ctx, r.db,
		"UPDATE records SET batch_name = $1 WHERE organization_id = $2 AND batch_id = $3",
		name, orgID, batchID,
	)
	if err != nil {
		return 0, fmt.Errorf("rename batch: %w", err)
	}
	if n == 0 {
		return 0, ErrNotFound
	}

	r.logger.Info("batch renamed", "organization", orgID, "batch", batchID, "records", n)
	return int(n), nil
}

func (r *repo) DeleteBatch(ctx context.Context, orgID uuid.UUID, batchID string) (int, error) {
	n, err := repository.ExecAffected(
		ctx, r.db,
		"DELETE FROM records WHERE organization_id = $1 AND batch_id = $2",
		orgID, batchID,
	)
	if err != nil {
		return 0, fmt.Errorf("delete batch: %w", err)
	}
	if n == 0 {
		return 0, ErrNotFound
	}

	r.logger.Info("batch deleted", "organization", orgID, "batch", batchID, "records", n)
	return int(n), nil
}

func (r *repo) DeleteAll(ctx context.Context, orgID uuid.UUID) (int, error) {
	n, err := repository.ExecAffected(
		ctx, r.db,
		"DELETE FROM records WHERE organization_id = $1",
		orgID,
	)
	if err != nil {
		return 0, fmt.Errorf("delete records: %w", err)
	}

	r.logger.Info("records deleted", "organization", orgID, "records", n)
	return int(n), nil
}
