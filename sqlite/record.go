package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/fwojciec/camspec"
	"github.com/google/uuid"
)

// Compile-time interface verification.
var _ camspec.RecordService = (*RecordService)(nil)

// RecordService implements camspec.RecordService using SQLite.
// Record bodies are stored as ordered JSON.
type RecordService struct {
	db  *DB
	now func() time.Time
}

// NewRecordService creates a new RecordService.
func NewRecordService(db *DB) *RecordService {
	return &RecordService{
		db:  db,
		now: func() time.Time { return time.Now().UTC() },
	}
}

const recordColumns = "id, source_url, manufacturer, body, body_hash, error, scraped_at"

// SaveRecord stores rec, replacing the record previously scraped from the
// same URL. A replaced record keeps its ID.
func (s *RecordService) SaveRecord(ctx context.Context, rec *camspec.StoredRecord) error {
	if err := rec.Validate(); err != nil {
		return err
	}

	body, err := rec.Record.MarshalJSON()
	if err != nil {
		return err
	}

	var id string
	err = s.db.QueryRowContext(ctx, "SELECT id FROM records WHERE source_url = ?", rec.SourceURL).Scan(&id)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		id = uuid.New().String()
	case err != nil:
		return err
	}

	rec.ID = id
	rec.BodyHash = hashBody(body)
	rec.ScrapedAt = s.now()

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO records (`+recordColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(source_url) DO UPDATE SET
			manufacturer = excluded.manufacturer,
			body = excluded.body,
			body_hash = excluded.body_hash,
			error = excluded.error,
			scraped_at = excluded.scraped_at
	`, rec.ID, rec.SourceURL, string(rec.Manufacturer), string(body), rec.BodyHash,
		rec.Record.Error, rec.ScrapedAt.Format(timeLayout))

	return err
}

// FindRecordByURL retrieves the record scraped from url.
func (s *RecordService) FindRecordByURL(ctx context.Context, url string) (*camspec.StoredRecord, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+recordColumns+" FROM records WHERE source_url = ?", url)
	rec, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, camspec.Errorf(camspec.ENOTFOUND, "record not found")
	}
	return rec, err
}

// FindRecords retrieves records matching the filter, oldest scrape first.
func (s *RecordService) FindRecords(ctx context.Context, filter camspec.RecordFilter) ([]*camspec.StoredRecord, error) {
	var query strings.Builder
	var args []any

	query.WriteString("SELECT " + recordColumns + " FROM records WHERE 1=1")

	if filter.Manufacturer != nil {
		query.WriteString(" AND manufacturer = ?")
		args = append(args, string(*filter.Manufacturer))
	}
	if filter.FailedOnly {
		query.WriteString(" AND error != ''")
	}

	query.WriteString(" ORDER BY scraped_at ASC, source_url ASC")
	appendPagination(&query, &args, filter.Limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var recs []*camspec.StoredRecord
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		recs = append(recs, rec)
	}

	return recs, rows.Err()
}

// DeleteRecord permanently removes a record.
func (s *RecordService) DeleteRecord(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM records WHERE id = ?", id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return camspec.Errorf(camspec.ENOTFOUND, "record not found")
	}

	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(row scanner) (*camspec.StoredRecord, error) {
	var rec camspec.StoredRecord
	var manufacturer, body, errText, scrapedAt string

	if err := row.Scan(&rec.ID, &rec.SourceURL, &manufacturer, &body, &rec.BodyHash, &errText, &scrapedAt); err != nil {
		return nil, err
	}

	rec.Manufacturer = camspec.Manufacturer(manufacturer)
	rec.Record = camspec.NewRecord()
	if err := rec.Record.UnmarshalJSON([]byte(body)); err != nil {
		return nil, camspec.Errorf(camspec.EINTERNAL, "corrupt record body for %s: %v", rec.SourceURL, err)
	}

	var err error
	rec.ScrapedAt, err = parseTime(scrapedAt, "scraped_at")
	if err != nil {
		return nil, err
	}

	return &rec, nil
}
