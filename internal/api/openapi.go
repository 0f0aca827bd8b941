package api

import (
	"github.com/JaimeStill/scorecard/internal/config"
	"github.com/JaimeStill/scorecard/pkg/openapi"
)

var (
	orgParam   = openapi.PathParam("org", "Organization ID")
	batchParam = openapi.PatternParam("batch", "Batch ID", "^[0-9]+$")
)

// NewSpec describes every API endpoint as an OpenAPI 3.1 document.
func NewSpec(cfg *config.Config) *openapi.Spec {
	spec := openapi.NewSpec(&cfg.API.OpenAPI, cfg.Version, cfg.API.BasePath)
	spec.Components.AddSchemas(schemas)
	spec.Components.AddResponses(map[string]*openapi.Response{
		"UnsupportedMediaType": openapi.ErrorResponse("Upload format is not csv, xlsx, or xls"),
		"UnprocessableEntity":  openapi.ErrorResponse("Upload is missing required columns"),
	})

	spec.Paths["/organizations"] = &openapi.PathItem{
		Get: &openapi.Operation{
			Summary:    "List organizations",
			Tags:       []string{"Organizations"},
			Parameters: openapi.PageParams(),
			Responses:  map[int]*openapi.Response{200: openapi.ResponseJSON("Organization page", "OrganizationPage")},
		},
		Post: &openapi.Operation{
			Summary:     "Create an organization",
			Tags:        []string{"Organizations"},
			RequestBody: openapi.RequestBodyJSON("CreateOrganization", true),
			Responses: map[int]*openapi.Response{
				201: openapi.ResponseJSON("Created organization", "Organization"),
				400: openapi.ResponseRef("BadRequest"),
				409: openapi.ResponseRef("Conflict"),
			},
		},
	}

	spec.Paths["/organizations/{org}"] = &openapi.PathItem{
		Get: &openapi.Operation{
			Summary:    "Find an organization",
			Tags:       []string{"Organizations"},
			Parameters: []*openapi.Parameter{orgParam},
			Responses: map[int]*openapi.Response{
				200: openapi.ResponseJSON("Organization", "Organization"),
				404: openapi.ResponseRef("NotFound"),
			},
		},
		Delete: &openapi.Operation{
			Summary:     "Delete an organization",
			Description: "Removes the organization with all of its records and archived uploads.",
			Tags:        []string{"Organizations"},
			Parameters:  []*openapi.Parameter{orgParam},
			Responses: map[int]*openapi.Response{
				204: {Description: "Deleted"},
				404: openapi.ResponseRef("NotFound"),
			},
		},
	}

	spec.Paths["/organizations/{org}/uploads"] = &openapi.PathItem{
		Post: &openapi.Operation{
			Summary:     "Ingest a scorecard table",
			Description: "Parses a csv, xlsx, or xls upload, routes each row to its perspective, and stores the rows as a new batch.",
			Tags:        []string{"Uploads"},
			Parameters:  []*openapi.Parameter{orgParam},
			RequestBody: openapi.RequestBodyMultipart(map[string]string{
				"batch_name": "Optional label shared by every record of the batch",
			}),
			Responses: map[int]*openapi.Response{
				200: openapi.ResponseJSON("No row could be routed; nothing stored", "UploadResult"),
				201: openapi.ResponseJSON("Batch stored", "UploadResult"),
				400: openapi.ResponseRef("BadRequest"),
				404: openapi.ResponseRef("NotFound"),
				409: openapi.ResponseRef("Conflict"),
				413: openapi.ResponseRef("PayloadTooLarge"),
				415: openapi.ResponseRef("UnsupportedMediaType"),
				422: openapi.ResponseRef("UnprocessableEntity"),
			},
		},
	}

	spec.Paths["/organizations/{org}/entries"] = &openapi.PathItem{
		Get: &openapi.Operation{
			Summary:    "List flat record entries",
			Tags:       []string{"Records"},
			Parameters: []*openapi.Parameter{orgParam},
			Responses: map[int]*openapi.Response{
				200: openapi.ResponseJSON("Entries", "Entries"),
				400: openapi.ResponseRef("BadRequest"),
			},
		},
	}

	spec.Paths["/organizations/{org}/records"] = &openapi.PathItem{
		Get: &openapi.Operation{
			Summary: "Search records",
			Tags:    []string{"Records"},
			Parameters: append(
				[]*openapi.Parameter{orgParam},
				append(openapi.PageParams(),
					openapi.EnumParam("perspective", "Perspective filter", perspectiveEnum),
					openapi.QueryParam("batch_id", "string", "Batch filter", false),
					openapi.QueryParam("owner", "string", "Owner substring filter", false),
				)...,
			),
			Responses: map[int]*openapi.Response{
				200: openapi.ResponseJSON("Record page", "RecordPage"),
				400: openapi.ResponseRef("BadRequest"),
			},
		},
	}

	spec.Paths["/organizations/{org}/batches"] = &openapi.PathItem{
		Get: &openapi.Operation{
			Summary:    "Batch dashboard",
			Tags:       []string{"Batches"},
			Parameters: []*openapi.Parameter{orgParam},
			Responses: map[int]*openapi.Response{
				200: openapi.ResponseJSONArray("Batches, newest first", "BatchSummary"),
			},
		},
		Delete: &openapi.Operation{
			Summary:    "Delete every batch of the organization",
			Tags:       []string{"Batches"},
			Parameters: []*openapi.Parameter{orgParam},
			Responses:  map[int]*openapi.Response{200: openapi.ResponseJSON("Deleted count", "Deleted")},
		},
	}

	batchParams := []*openapi.Parameter{orgParam, batchParam}

	spec.Paths["/organizations/{org}/batches/{batch}"] = &openapi.PathItem{
		Get: &openapi.Operation{
			Summary:    "Find a batch",
			Tags:       []string{"Batches"},
			Parameters: batchParams,
			Responses: map[int]*openapi.Response{
				200: openapi.ResponseJSON("Batch", "BatchSummary"),
				404: openapi.ResponseRef("NotFound"),
			},
		},
		Delete: &openapi.Operation{
			Summary:    "Delete a batch",
			Tags:       []string{"Batches"},
			Parameters: batchParams,
			Responses: map[int]*openapi.Response{
				200: openapi.ResponseJSON("Deleted count", "Deleted"),
				404: openapi.ResponseRef("NotFound"),
			},
		},
	}

	spec.Paths["/organizations/{org}/batches/{batch}/summary"] = &openapi.PathItem{
		Get: &openapi.Operation{
			Summary:    "Per-perspective status totals",
			Tags:       []string{"Batches"},
			Parameters: batchParams,
			Responses: map[int]*openapi.Response{
				200: openapi.ResponseJSON("Batch detail", "BatchDetail"),
				404: openapi.ResponseRef("NotFound"),
			},
		},
	}

	spec.Paths["/organizations/{org}/batches/{batch}/records"] = &openapi.PathItem{
		Put: &openapi.Operation{
			Summary:     "Edit record fields",
			Tags:        []string{"Batches"},
			Parameters:  batchParams,
			RequestBody: openapi.RequestBodyJSON("UpdateRequest", true),
			Responses: map[int]*openapi.Response{
				200: openapi.ResponseJSON("Updated count", "Updated"),
				400: openapi.ResponseRef("BadRequest"),
				404: openapi.ResponseRef("NotFound"),
			},
		},
	}

	spec.Paths["/organizations/{org}/batches/{batch}/name"] = &openapi.PathItem{
		Put: &openapi.Operation{
			Summary:     "Rename a batch",
			Tags:        []string{"Batches"},
			Parameters:  batchParams,
			RequestBody: openapi.RequestBodyJSON("RenameRequest", true),
			Responses: map[int]*openapi.Response{
				200: openapi.ResponseJSON("Renamed", "RenameResult"),
				400: openapi.ResponseRef("BadRequest"),
				404: openapi.ResponseRef("NotFound"),
			},
		},
	}

	spec.Paths["/organizations/{org}/batches/{batch}/source"] = &openapi.PathItem{
		Get: &openapi.Operation{
			Summary:    "Download the archived upload",
			Tags:       []string{"Batches"},
			Parameters: batchParams,
			Responses: map[int]*openapi.Response{
				200: openapi.ResponseBinary("Original upload", "application/octet-stream"),
				404: openapi.ResponseRef("NotFound"),
			},
		},
	}

	spec.Paths["/organizations/{org}/batches/{batch}/charts"] = &openapi.PathItem{
		Get: &openapi.Operation{
			Summary:    "Status pie charts",
			Tags:       []string{"Reports"},
			Parameters: batchParams,
			Responses: map[int]*openapi.Response{
				200: openapi.ResponseJSON("Charts keyed by perspective", "Charts"),
				404: openapi.ResponseRef("NotFound"),
			},
		},
	}

	spec.Paths["/organizations/{org}/batches/{batch}/report"] = &openapi.PathItem{
		Get: &openapi.Operation{
			Summary:    "PDF report",
			Tags:       []string{"Reports"},
			Parameters: batchParams,
			Responses: map[int]*openapi.Response{
				200: openapi.ResponseBinary("One page per perspective", "application/pdf"),
				404: openapi.ResponseRef("NotFound"),
			},
		},
	}

	return spec
}

var perspectiveEnum = []any{"financial", "customer", "internal", "learning_growth"}

var counts = &openapi.Schema{
	Type: "object",
	Properties: map[string]*openapi.Schema{
		"good":     {Type: "integer"},
		"moderate": {Type: "integer"},
		"bad":      {Type: "integer"},
		"unknown":  {Type: "integer"},
	},
}

var schemas = map[string]*openapi.Schema{
	"Organization": {
		Type: "object",
		Properties: map[string]*openapi.Schema{
			"id":         {Type: "string", Format: "uuid"},
			"name":       {Type: "string"},
			"created_at": {Type: "string", Format: "date-time"},
		},
	},
	"CreateOrganization": {
		Type:       "object",
		Properties: map[string]*openapi.Schema{"name": {Type: "string"}},
		Required:   []string{"name"},
	},
	"OrganizationPage": openapi.PageSchema("Organization"),
	"Record": {
		Type: "object",
		Properties: map[string]*openapi.Schema{
			"id":              {Type: "string", Format: "uuid"},
			"organization_id": {Type: "string", Format: "uuid"},
			"perspective":     {Type: "string", Enum: perspectiveEnum},
			"objective":       {Type: "string"},
			"measure":         {Type: "string"},
			"target":          {Type: "string"},
			"actual":          {Type: "string"},
			"owner":           {Type: "string"},
			"date":            {Type: "string", Format: "date"},
			"row_number":      {Type: "integer"},
			"attributes":      {Type: "object"},
			"batch_id":        {Type: "string"},
			"batch_name":      {Type: "string"},
			"uploaded_at":     {Type: "string", Format: "date-time"},
		},
	},
	"RecordPage": openapi.PageSchema("Record"),
	"Entries": {
		Type: "object",
		Properties: map[string]*openapi.Schema{
			"entries": {Type: "array", Items: &openapi.Schema{
				Type: "object",
				Properties: map[string]*openapi.Schema{
					"perspective": {Type: "string", Enum: perspectiveEnum},
					"objective":   {Type: "string"},
					"measure":     {Type: "string"},
					"target":      {Type: "string"},
					"actual":      {Type: "string"},
					"owner":       {Type: "string"},
					"date":        {Type: "string", Format: "date"},
				},
			}},
		},
	},
	"UploadResult": {
		Type: "object",
		Properties: map[string]*openapi.Schema{
			"batch_id":       {Type: "string"},
			"batch_name":     {Type: "string"},
			"created":        {Type: "integer"},
			"skipped":        {Type: "integer"},
			"skipped_rows":   {Type: "array", Items: &openapi.Schema{Type: "integer"}},
			"by_perspective": {Type: "object"},
			"source_key":     {Type: "string"},
		},
	},
	"Counts": counts,
	"BatchSummary": {
		Type: "object",
		Properties: map[string]*openapi.Schema{
			"batch_id":    {Type: "string"},
			"batch_name":  {Type: "string"},
			"uploaded_at": {Type: "string", Format: "date-time"},
			"counts":      openapi.SchemaRef("Counts"),
			"records":     {Type: "array", Items: openapi.SchemaRef("Record")},
		},
	},
	"BatchDetail": {
		Type: "object",
		Properties: map[string]*openapi.Schema{
			"batch_id":         {Type: "string"},
			"batch_name":       {Type: "string"},
			"perspective_data": {Type: "object", Description: "Status counts keyed by perspective"},
		},
	},
	"UpdateRequest": {
		Type: "object",
		Properties: map[string]*openapi.Schema{
			"updates": {Type: "array", Items: &openapi.Schema{
				Type: "object",
				Properties: map[string]*openapi.Schema{
					"perspective": {Type: "string", Enum: perspectiveEnum},
					"id":          {Type: "string", Format: "uuid"},
					"field":       {Type: "string"},
					"value":       {Type: "string"},
				},
				Required: []string{"perspective", "id", "field", "value"},
			}},
		},
		Required: []string{"updates"},
	},
	"RenameRequest": {
		Type:       "object",
		Properties: map[string]*openapi.Schema{"batch_name": {Type: "string"}},
		Required:   []string{"batch_name"},
	},
	"RenameResult": {
		Type: "object",
		Properties: map[string]*openapi.Schema{
			"success":  {Type: "boolean"},
			"new_name": {Type: "string"},
		},
	},
	"Updated": {
		Type:       "object",
		Properties: map[string]*openapi.Schema{
			"success": {Type: "boolean"},
			"updated": {Type: "integer"},
		},
	},
	"Deleted": {
		Type:       "object",
		Properties: map[string]*openapi.Schema{
			"success": {Type: "boolean"},
			"deleted": {Type: "integer"},
		},
	},
	"Charts": {
		Type: "object",
		Properties: map[string]*openapi.Schema{
			"charts": {Type: "object", Description: "Chart per perspective: counts plus base64 PNG image"},
		},
	},
}
