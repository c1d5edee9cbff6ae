package repository

import (
	"log/slog"
)

const recordsFile = "messages.json"

// RecordRepository stores the last accepted message time per chat and
// user. Mutations go through Update so pruning and inserting happen in
// one read-modify-write cycle.
type RecordRepository interface {
	All() (RecordMap, error)
	Replace(records RecordMap) error
	Update(fn func(RecordMap) RecordMap) error
}

type JSONRecordRepository struct {
	doc *document[RecordMap]
}

func NewRecordRepository(dir string, logger *slog.Logger) RecordRepository {
	return &JSONRecordRepository{
		doc: newDocument(dir, recordsFile, logger, func() RecordMap { return RecordMap{} }),
	}
}

func (r *JSONRecordRepository) All() (RecordMap, error) {
	return r.doc.Get()
}

func (r *JSONRecordRepository) Replace(records RecordMap) error {
	return r.doc.Put(records)
}

func (r *JSONRecordRepository) Update(fn func(RecordMap) RecordMap) error {
	return r.doc.Update(fn)
}
