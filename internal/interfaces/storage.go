package interfaces

import (
	"context"
	"time"

	"github.com/studyforge/studyforge/internal/models"
)

// CourseStorage persists generated courses keyed by document fingerprint.
type CourseStorage interface {
	// SaveRecord upserts a cache record. Concurrent writers for the same
	// fingerprint converge on a single record (at-least-once semantics).
	SaveRecord(record *models.CourseRecord) error

	// GetByHash returns the cached record for a document fingerprint,
	// or nil when no record exists.
	GetByHash(hash string) (*models.CourseRecord, error)

	// ListRecords returns cache records for a user, newest first.
	ListRecords(userID string, limit int) ([]*models.CourseRecord, error)

	// DeleteRecord removes a cache record by ID. Missing records are not an error.
	DeleteRecord(id string) error

	// DeleteOlderThan removes records created before the cutoff and
	// returns how many were deleted.
	DeleteOlderThan(cutoff time.Time) (int, error)

	// CountRecords returns the total number of cached courses.
	CountRecords() (int, error)
}

// KeyValueStorage provides simple string key/value persistence for
// settings and API keys.
type KeyValueStorage interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
	List(ctx context.Context) (map[string]string, error)
}

// StorageManager aggregates the storage interfaces behind one handle.
type StorageManager interface {
	CourseStorage() CourseStorage
	KeyValueStorage() KeyValueStorage
	Close() error
}
