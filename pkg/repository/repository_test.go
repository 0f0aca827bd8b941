package repository_test

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/JaimeStill/scorecard/pkg/repository"
)

var (
	errNotFound  = errors.New("not found")
	errDuplicate = errors.New("duplicate")
)

func TestMapError(t *testing.T) {
	other := errors.New("connection reset")
	check := &pgconn.PgError{Code: "23514"}

	tests := []struct {
		name string
		err  error
		want error
	}{
		{"nil", nil, nil},
		{"no rows", fmt.Errorf("find: %w", sql.ErrNoRows), errNotFound},
		{"unique violation", &pgconn.PgError{Code: "23505"}, errDuplicate},
		{"foreign key violation", &pgconn.PgError{Code: "23503"}, errNotFound},
		{"check violation", check, check},
		{"other", other, other},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := repository.MapError(tt.err, errNotFound, errDuplicate)
			if !errors.Is(got, tt.want) {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestValuesList(t *testing.T) {
	if got := repository.ValuesList(2, 3, 1); got != "($1, $2, $3), ($4, $5, $6)" {
		t.Errorf("ValuesList(2, 3, 1) = %q", got)
	}
	if got := repository.ValuesList(1, 2, 4); got != "($4, $5)" {
		t.Errorf("ValuesList(1, 2, 4) = %q", got)
	}
}

type result int64

func (r result) LastInsertId() (int64, error) { return 0, errors.New("unsupported") }
func (r result) RowsAffected() (int64, error) { return int64(r), nil }

type executor struct {
	affected int64
	err      error
}

func (e executor) ExecContext(context.Context, string, ...any) (sql.Result, error) {
	if e.err != nil {
		return nil, e.err
	}
	return result(e.affected), nil
}

func TestExecExpectOne(t *testing.T) {
	ctx := context.Background()

	if err := repository.ExecExpectOne(ctx, executor{affected: 1}, "UPDATE"); err != nil {
		t.Errorf("one row: %v", err)
	}
	if err := repository.ExecExpectOne(ctx, executor{affected: 0}, "UPDATE"); !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("zero rows = %v, want sql.ErrNoRows", err)
	}

	n, err := repository.ExecAffected(ctx, executor{affected: 7}, "DELETE")
	if err != nil || n != 7 {
		t.Errorf("ExecAffected = %d, %v", n, err)
	}
}
