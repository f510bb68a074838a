package mock

import (
	"context"

	"github.com/fwojciec/camspec"
)

var _ camspec.RecordService = (*RecordService)(nil)

// RecordService is a mock implementation of camspec.RecordService.
type RecordService struct {
	SaveRecordFn      func(ctx context.Context, rec *camspec.StoredRecord) error
	FindRecordByURLFn func(ctx context.Context, url string) (*camspec.StoredRecord, error)
	FindRecordsFn     func(ctx context.Context, filter camspec.RecordFilter) ([]*camspec.StoredRecord, error)
	DeleteRecordFn    func(ctx context.Context, id string) error
}

func (s *RecordService) SaveRecord(ctx context.Context, rec *camspec.StoredRecord) error {
	return s.SaveRecordFn(ctx, rec)
}

func (s *RecordService) FindRecordByURL(ctx context.Context, url string) (*camspec.StoredRecord, error) {
	return s.FindRecordByURLFn(ctx, url)
}

func (s *RecordService) FindRecords(ctx context.Context, filter camspec.RecordFilter) ([]*camspec.StoredRecord, error) {
	return s.FindRecordsFn(ctx, filter)
}

func (s *RecordService) DeleteRecord(ctx context.Context, id string) error {
	return s.DeleteRecordFn(ctx, id)
}
