package camspec

import (
	"context"
	"time"
)

// StoredRecord is a scraped record persisted with its provenance.
type StoredRecord struct {
	ID           string       `json:"id"`
	SourceURL    string       `json:"sourceUrl"`
	Manufacturer Manufacturer `json:"manufacturer"`
	Record       *Record      `json:"record"`
	BodyHash     string       `json:"bodyHash"`
	ScrapedAt    time.Time    `json:"scrapedAt"`
}

// Validate returns an error if the stored record contains invalid fields.
func (s *StoredRecord) Validate() error {
	if s.SourceURL == "" {
		return Errorf(EINVALID, "record source URL required")
	}
	if s.Record == nil {
		return Errorf(EINVALID, "record body required")
	}
	return nil
}

// RecordService represents a service for persisting scraped records.
type RecordService interface {
	// SaveRecord stores a record, replacing any record previously stored
	// for the same source URL. ID, BodyHash and ScrapedAt are assigned.
	SaveRecord(ctx context.Context, rec *StoredRecord) error

	// FindRecordByURL retrieves the record scraped from url.
	// Returns ENOTFOUND if no record exists.
	FindRecordByURL(ctx context.Context, url string) (*StoredRecord, error)

	// FindRecords retrieves records matching the filter.
	FindRecords(ctx context.Context, filter RecordFilter) ([]*StoredRecord, error)

	// DeleteRecord permanently removes a record.
	// Returns ENOTFOUND if the record does not exist.
	DeleteRecord(ctx context.Context, id string) error
}

// RecordFilter represents a filter for FindRecords.
type RecordFilter struct {
	Manufacturer *Manufacturer `json:"manufacturer"`
	FailedOnly   bool          `json:"failedOnly"`

	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}
