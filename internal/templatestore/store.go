// Package templatestore provides storage interfaces and implementations for
// the facial templates persisted by the face verification service.
package templatestore

import (
	"context"
	"errors"
	"time"
)

// ErrTemplateNotFound is returned when no template exists for a fan_id.
var ErrTemplateNotFound = errors.New("face template not found")

// Template is one stored facial template. Encoding holds the raw embedding
// blob produced by the vector codec.
type Template struct {
	FanID     string
	Encoding  []byte
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TemplateStore defines the interface for storing and retrieving facial
// templates. A fan_id holds at most one template; Save overwrites silently.
type TemplateStore interface {
	// Initialize initializes the store with the given database path.
	Initialize(dbPath string) error

	// Close closes the store and releases any resources.
	Close() error

	// Save upserts the template for fanID. A second Save for the same
	// fanID replaces the encoding and refreshes the update timestamp; the
	// creation timestamp is preserved.
	Save(ctx context.Context, fanID string, encoding []byte, now time.Time) error

	// Get returns the template for fanID, or ErrTemplateNotFound.
	Get(ctx context.Context, fanID string) (*Template, error)

	// Delete removes the template for fanID. It returns
	// ErrTemplateNotFound when no row was present, including on a repeated
	// delete.
	Delete(ctx context.Context, fanID string) error
}
