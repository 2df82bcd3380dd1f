package documents

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

const pgUniqueViolation = "23505"

// PGRepo implements DocumentsRepo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

const documentColumns = `id, filename, extracted_text, uploaded_at, job_id, status`

// Create inserts a new record.
func (r *PGRepo) Create(ctx context.Context, doc Document) error {
	const query = `
INSERT INTO documents (id, filename, extracted_text, uploaded_at, job_id, status)
VALUES ($1, $2, $3, $4, $5, $6)`

	status := doc.Status
	if status == "" {
		status = StatusProcessing
	}

	var jobID sql.NullString
	if doc.JobID != "" {
		jobID = sql.NullString{String: doc.JobID, Valid: true}
	}

	_, err := r.DB.ExecContext(ctx, query,
		doc.ID,
		doc.FileName,
		doc.ExtractedText,
		doc.UploadedAt,
		jobID,
		status,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return ErrDuplicateID
		}
		return err
	}
	return nil
}

// GetByID fetches a record by id.
func (r *PGRepo) GetByID(ctx context.Context, id string) (Document, error) {
	const query = `
SELECT ` + documentColumns + `
FROM documents
WHERE id = $1`

	doc, err := scanDocument(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Document{}, ErrNotFound
		}
		return Document{}, err
	}
	return doc, nil
}

// List returns all records, most recently uploaded first.
func (r *PGRepo) List(ctx context.Context) ([]Document, error) {
	const query = `
SELECT ` + documentColumns + `
FROM documents
ORDER BY uploaded_at DESC`

	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectDocuments(rows)
}

// Update merges the supplied fields into an existing record and returns the
// updated row. The merge is one conditional statement so that concurrent
// updates to the same id apply atomically.
func (r *PGRepo) Update(ctx context.Context, id string, fields UpdateFields) (Document, error) {
	const query = `
UPDATE documents
SET filename       = COALESCE($1, filename),
    extracted_text = COALESCE($2, extracted_text),
    job_id         = COALESCE($3, job_id),
    status         = COALESCE($4, status)
WHERE id = $5
RETURNING ` + documentColumns

	doc, err := scanDocument(r.DB.QueryRowContext(ctx, query,
		nullable(fields.FileName),
		nullable(fields.ExtractedText),
		nullable(fields.JobID),
		nullable(fields.Status),
		id,
	))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Document{}, ErrNotFound
		}
		return Document{}, err
	}
	return doc, nil
}

// Search returns completed records matching the query. Tier one is indexed
// full-text matching over the stored tsvector; when it yields nothing (or the
// index query itself fails) the substring tier runs instead.
func (r *PGRepo) Search(ctx context.Context, query string) ([]Document, error) {
	const ftsQuery = `
SELECT ` + documentColumns + `
FROM documents
WHERE status = 'completed'
  AND extracted_text_tsv @@ plainto_tsquery('english', $1)`

	docs, ftsErr := r.queryDocuments(ctx, ftsQuery, query)
	if ftsErr == nil && len(docs) > 0 {
		return docs, nil
	}

	const substringQuery = `
SELECT ` + documentColumns + `
FROM documents
WHERE status = 'completed'
  AND extracted_text ILIKE '%' || $1 || '%' ESCAPE '\'`

	docs, err := r.queryDocuments(ctx, substringQuery, escapeLike(query))
	if err != nil {
		if ftsErr != nil {
			return nil, ftsErr
		}
		return nil, err
	}
	return docs, nil
}

func (r *PGRepo) queryDocuments(ctx context.Context, query string, args ...any) ([]Document, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectDocuments(rows)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDocument(row rowScanner) (Document, error) {
	var doc Document
	var jobID sql.NullString
	if err := row.Scan(
		&doc.ID,
		&doc.FileName,
		&doc.ExtractedText,
		&doc.UploadedAt,
		&jobID,
		&doc.Status,
	); err != nil {
		return Document{}, err
	}
	if jobID.Valid {
		doc.JobID = jobID.String
	}
	return doc, nil
}

func collectDocuments(rows *sql.Rows) ([]Document, error) {
	var out []Document
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, doc)
	}
	return out, rows.Err()
}

func nullable(v *string) sql.NullString {
	if v == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *v, Valid: true}
}

func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `%`, `\%`)
	s = strings.ReplaceAll(s, `_`, `\_`)
	return s
}

var _ DocumentsRepo = (*PGRepo)(nil)
