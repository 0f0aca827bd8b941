package openapi

import (
	"maps"
	"net/http"
)

// errorStatuses lists the shared error responses and the status each documents.
var errorStatuses = map[string]int{
	"BadRequest":           http.StatusBadRequest,
	"NotFound":             http.StatusNotFound,
	"Conflict":             http.StatusConflict,
	"PayloadTooLarge":      http.StatusRequestEntityTooLarge,
	"UnsupportedMediaType": http.StatusUnsupportedMediaType,
	"UnprocessableEntity":  http.StatusUnprocessableEntity,
}

// NewComponents creates Components with the shared page request schema and
// one error response per entry in errorStatuses.
func NewComponents() *Components {
	responses := make(map[string]*Response, len(errorStatuses))
	for name, status := range errorStatuses {
		responses[name] = ErrorResponse(http.StatusText(status))
	}

	return &Components{
		Schemas: map[string]*Schema{
			"PageRequest": {
				Type: "object",
				Properties: map[string]*Schema{
					"page":      {Type: "integer", Description: "Page number (1-indexed)", Example: 1},
					"page_size": {Type: "integer", Description: "Results per page", Example: 20},
					"search":    {Type: "string", Description: "Search query"},
					"sort":      {Type: "string", Description: "Comma-separated sort fields. Prefix with - for descending. Example: -batch_id,row_number"},
				},
			},
			"Error": {
				Type: "object",
				Properties: map[string]*Schema{
					"error": {Type: "string", Description: "Error message"},
				},
			},
		},
		Responses: responses,
	}
}

// ErrorResponse creates a JSON response carrying the {"error": "..."} body.
func ErrorResponse(description string) *Response {
	return &Response{
		Description: description,
		Content: map[string]*MediaType{
			"application/json": {Schema: SchemaRef("Error")},
		},
	}
}

// AddSchemas merges the given schemas into the component schemas.
func (c *Components) AddSchemas(schemas map[string]*Schema) {
	maps.Copy(c.Schemas, schemas)
}

// AddResponses merges the given responses into the component responses.
func (c *Components) AddResponses(responses map[string]*Response) {
	maps.Copy(c.Responses, responses)
}
