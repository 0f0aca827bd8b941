package query_test

import (
	"strings"
	"testing"

	"github.com/JaimeStill/scorecard/pkg/query"
)

func recordsProjection() *query.ProjectionMap {
	return query.NewProjectionMap("public", "records", "r").
		Project("id", "ID").
		Project("batch_id", "BatchID").
		Project("perspective", "Perspective").
		Project("owner", "Owner").
		Join("public", "organizations", "o", "JOIN", "o.id = r.organization_id").
		Project("name", "Organization")
}

func TestProjectionMap(t *testing.T) {
	p := recordsProjection()

	if got := p.Columns(); got != "r.id, r.batch_id, r.perspective, r.owner, o.name" {
		t.Errorf("Columns() = %q", got)
	}
	if got := p.From(); got != "public.records r JOIN public.organizations o ON o.id = r.organization_id" {
		t.Errorf("From() = %q", got)
	}
	if got := p.Column("Organization"); got != "o.name" {
		t.Errorf("Column(Organization) = %q", got)
	}
	if got := p.Column("r.uploaded_at"); got != "r.uploaded_at" {
		t.Errorf("unmapped Column = %q, want passthrough", got)
	}
	if _, ok := p.Lookup("uploaded_at"); ok {
		t.Error("Lookup of unmapped field should fail")
	}
}

func TestParseSortFields(t *testing.T) {
	got := query.ParseSortFields("BatchID, -Perspective,,")
	want := []query.SortField{
		{Field: "BatchID"},
		{Field: "Perspective", Descending: true},
	}

	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("[%d] = %+v, want %+v", i, got[i], want[i])
		}
	}

	if query.ParseSortFields("") != nil {
		t.Error("empty input should yield nil")
	}
}

func TestBuilderConditions(t *testing.T) {
	batch := "003"
	search := "rev"
	var owner *string

	sql, args := query.NewBuilder(recordsProjection(), query.SortField{Field: "BatchID"}).
		WhereEquals("r.organization_id", "org").
		WhereEquals("BatchID", &batch).
		WhereEquals("Owner", owner).
		WhereIn("Perspective", []any{"financial", "customer"}).
		WhereSearch(&search, "Owner", "Organization").
		Build()

	wantWhere := " WHERE r.organization_id = $1 AND r.batch_id = $2 AND r.perspective IN ($3, $4)" +
		" AND (r.owner ILIKE $5 OR o.name ILIKE $6)"
	if !strings.Contains(sql, wantWhere) {
		t.Errorf("sql = %s\nwant where %s", sql, wantWhere)
	}
	if !strings.HasSuffix(sql, " ORDER BY r.batch_id ASC") {
		t.Errorf("sql = %s, want default ordering", sql)
	}
	if len(args) != 6 {
		t.Fatalf("args = %v, want 6", args)
	}
	if args[4] != "%rev%" {
		t.Errorf("search arg = %v", args[4])
	}
}

func TestBuilderNullable(t *testing.T) {
	var name *string
	sql, args := query.NewBuilder(recordsProjection()).
		WhereNullable("Owner", name).
		BuildCount()

	if sql != "SELECT COUNT(*) FROM public.records r JOIN public.organizations o ON o.id = r.organization_id WHERE r.owner IS NULL" {
		t.Errorf("sql = %s", sql)
	}
	if len(args) != 0 {
		t.Errorf("args = %v, want none", args)
	}
}

func TestBuildPage(t *testing.T) {
	sql, _ := query.NewBuilder(recordsProjection()).
		OrderByFields(query.ParseSortFields("-BatchID,unknown")).
		BuildPage(3, 20)

	if !strings.HasSuffix(sql, " ORDER BY r.batch_id DESC LIMIT 20 OFFSET 40") {
		t.Errorf("sql = %s", sql)
	}
}

func TestBuildSingleKeepsScope(t *testing.T) {
	sql, args := query.NewBuilder(recordsProjection()).
		WhereEquals("r.organization_id", "org").
		BuildSingle("ID", "rec")

	if !strings.HasSuffix(sql, " WHERE r.organization_id = $1 AND r.id = $2") {
		t.Errorf("sql = %s", sql)
	}
	if len(args) != 2 || args[1] != "rec" {
		t.Errorf("args = %v", args)
	}
}
