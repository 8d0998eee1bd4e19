package badger

import (
	"fmt"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/timshannon/badgerhold/v4"

	"github.com/studyforge/studyforge/internal/interfaces"
	"github.com/studyforge/studyforge/internal/models"
)

// CourseStorage implements the CourseStorage interface for Badger.
// Records are keyed by document fingerprint, so concurrent writers for the
// same content converge on a single record.
type CourseStorage struct {
	db     *BadgerDB
	logger arbor.ILogger
}

// NewCourseStorage creates a new CourseStorage instance
func NewCourseStorage(db *BadgerDB, logger arbor.ILogger) interfaces.CourseStorage {
	return &CourseStorage{
		db:     db,
		logger: logger,
	}
}

func (s *CourseStorage) SaveRecord(record *models.CourseRecord) error {
	if record.DocumentHash == "" {
		return fmt.Errorf("document hash is required")
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now()
	}

	if err := s.db.Store().Upsert(record.DocumentHash, record); err != nil {
		return fmt.Errorf("failed to save course record: %w", err)
	}
	return nil
}

func (s *CourseStorage) GetByHash(hash string) (*models.CourseRecord, error) {
	var record models.CourseRecord
	if err := s.db.Store().Get(hash, &record); err != nil {
		if err == badgerhold.ErrNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get course record: %w", err)
	}
	return &record, nil
}

func (s *CourseStorage) ListRecords(userID string, limit int) ([]*models.CourseRecord, error) {
	query := badgerhold.Where("UserID").Eq(userID).SortBy("CreatedAt").Reverse()
	if limit > 0 {
		query = query.Limit(limit)
	}

	var records []models.CourseRecord
	if err := s.db.Store().Find(&records, query); err != nil {
		return nil, fmt.Errorf("failed to list course records: %w", err)
	}

	result := make([]*models.CourseRecord, len(records))
	for i := range records {
		result[i] = &records[i]
	}
	return result, nil
}

func (s *CourseStorage) DeleteRecord(id string) error {
	var records []models.CourseRecord
	if err := s.db.Store().Find(&records, badgerhold.Where("ID").Eq(id)); err != nil {
		return fmt.Errorf("failed to find course record: %w", err)
	}
	for i := range records {
		if err := s.db.Store().Delete(records[i].DocumentHash, &models.CourseRecord{}); err != nil && err != badgerhold.ErrNotFound {
			return fmt.Errorf("failed to delete course record: %w", err)
		}
	}
	return nil
}

func (s *CourseStorage) DeleteOlderThan(cutoff time.Time) (int, error) {
	var stale []models.CourseRecord
	if err := s.db.Store().Find(&stale, badgerhold.Where("CreatedAt").Lt(cutoff)); err != nil {
		return 0, fmt.Errorf("failed to find stale course records: %w", err)
	}

	deleted := 0
	for i := range stale {
		if err := s.db.Store().Delete(stale[i].DocumentHash, &models.CourseRecord{}); err != nil {
			if err == badgerhold.ErrNotFound {
				continue
			}
			s.logger.Warn().
				Err(err).
				Str("document_hash", stale[i].DocumentHash).
				Msg("Failed to delete stale course record")
			continue
		}
		deleted++
	}

	return deleted, nil
}

func (s *CourseStorage) CountRecords() (int, error) {
	count, err := s.db.Store().Count(&models.CourseRecord{}, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to count course records: %w", err)
	}
	return int(count), nil
}
