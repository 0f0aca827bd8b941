// Package organizations manages the tenants that own performance records.
package organizations

import (
	"time"

	"github.com/google/uuid"
)

// Organization is a tenant. Deleting it removes its records and archived uploads.
type Organization struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// CreateCommand carries the fields required to create an organization.
type CreateCommand struct {
	Name string `json:"name"`
}
