package services

import (
	"context"
	"fmt"
	"time"

	"github.com/mvicenzino/kidzart/pkg/collection"
	"github.com/rfberaldo/sqlz"
)

type RecordServiceConfig struct {
	DB *sqlz.DB
}

/*
RecordService keeps serialized collections in the records table, one row
per collection name.
*/
type RecordService struct {
	db *sqlz.DB
}

type storedRecord struct {
	Name    string `db:"name"`
	Payload string `db:"payload"`
}

func NewRecordService(config RecordServiceConfig) RecordService {
	return RecordService{
		db: config.DB,
	}
}

func (s RecordService) ReadRecord(ctx context.Context, name string) ([]byte, error) {
	var (
		err error
	)

	result := storedRecord{}

	sql := `
SELECT
   r.name
   , r.payload
FROM records AS r
WHERE 1=1
   AND r.name=?
`

	ctx, cancel := context.WithTimeout(ctx, time.Second*5)
	defer cancel()

	if err = s.db.QueryRow(ctx, &result, sql, name); err != nil {
		if sqlz.IsNotFound(err) {
			return nil, collection.ErrRecordNotFound
		}

		return nil, fmt.Errorf("error querying for record '%s': %w", name, err)
	}

	return []byte(result.Payload), nil
}

func (s RecordService) WriteRecord(ctx context.Context, name string, value []byte) error {
	var (
		err error
	)

	sql := `
INSERT INTO records (
   name,
   payload,
   updated_at
) VALUES (?, ?, ?)
ON CONFLICT (name) DO UPDATE SET
   payload = excluded.payload,
   updated_at = excluded.updated_at
`

	params := []any{
		name,
		string(value),
		time.Now().UTC(),
	}

	ctx, cancel := context.WithTimeout(ctx, time.Second*5)
	defer cancel()

	if _, err = s.db.Exec(ctx, sql, params...); err != nil {
		return fmt.Errorf("error writing record '%s': %w", name, err)
	}

	return nil
}
