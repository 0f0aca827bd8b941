package api

import (
	"github.com/JaimeStill/scorecard/internal/batches"
	"github.com/JaimeStill/scorecard/internal/ingest"
	"github.com/JaimeStill/scorecard/internal/organizations"
	"github.com/JaimeStill/scorecard/internal/records"
	"github.com/JaimeStill/scorecard/internal/reports"
)

// Domain holds all domain systems that comprise the API.
type Domain struct {
	Organizations organizations.System
	Records       records.System
	Ingest        ingest.System
	Batches       batches.System
	Reports       reports.System
}

// NewDomain creates all domain systems from the API runtime.
func NewDomain(runtime *Runtime) *Domain {
	db := runtime.Database.Connection()

	orgsSystem := organizations.New(
		db,
		runtime.Storage,
		runtime.Cache,
		runtime.Logger,
		runtime.Pagination,
	)

	recordsSystem := records.New(
		db,
		runtime.Logger,
		runtime.Pagination,
		runtime.Ingest.Scope(),
	)

	ingestSystem := ingest.New(
		ingest.Deps{
			Organizations: orgsSystem,
			Records:       recordsSystem,
			Storage:       runtime.Storage,
			Cache:         runtime.Cache,
			Locks:         runtime.Locks,
			Events:        runtime.Events,
		},
		runtime.Ingest.Options(),
		runtime.Logger,
	)

	batchesSystem := batches.New(
		recordsSystem,
		runtime.Storage,
		runtime.Cache,
		runtime.Events,
		runtime.Logger,
	)

	return &Domain{
		Organizations: orgsSystem,
		Records:       recordsSystem,
		Ingest:        ingestSystem,
		Batches:       batchesSystem,
		Reports:       reports.New(batchesSystem, runtime.Logger),
	}
}
