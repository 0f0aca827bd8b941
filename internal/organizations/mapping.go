package organizations

import (
	"github.com/JaimeStill/scorecard/pkg/query"
	"github.com/JaimeStill/scorecard/pkg/repository"
)

var projection = query.
	NewProjectionMap("public", "organizations", "o").
	Project("id", "ID").
	Project("name", "Name").
	Project("created_at", "CreatedAt")

var defaultSort = query.SortField{Field: "Name"}

func scanOrganization(s repository.Scanner) (Organization, error) {
	var o Organization
	err := s.Scan(&o.ID, &o.Name, &o.CreatedAt)
	return o, err
}
