package documents

import "context"

// UpdateFields is a partial field merge for Update. Nil members leave the
// stored value unchanged. The id itself is never mutable.
type UpdateFields struct {
	FileName      *string
	ExtractedText *string
	JobID         *string
	Status        *string
}

// DocumentsRepo defines persistence operations for documents.
//
// Search returns only records with status completed. Matching is two-tier:
// indexed full-text first, then a case-insensitive substring scan when the
// indexed tier yields nothing. The substring tier exists because tokenized
// matching misses substrings that span token boundaries; it is a correctness
// net, not a performance path. Result order is unspecified; ranking belongs
// to the caller.
type DocumentsRepo interface {
	Create(ctx context.Context, doc Document) error
	GetByID(ctx context.Context, id string) (Document, error)
	List(ctx context.Context) ([]Document, error)
	Update(ctx context.Context, id string, fields UpdateFields) (Document, error)
	Search(ctx context.Context, query string) ([]Document, error)
}
