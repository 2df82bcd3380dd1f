package documents

import (
	"context"
	"sort"
	"strings"
	"sync"
	"unicode"
)

// MemoryRepo is an in-memory implementation of DocumentsRepo, used when no
// database is configured (dev mode) and in tests.
type MemoryRepo struct {
	mu   sync.RWMutex
	data map[string]Document
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{data: make(map[string]Document)}
}

// Create inserts a new record.
func (r *MemoryRepo) Create(ctx context.Context, doc Document) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.data[doc.ID]; exists {
		return ErrDuplicateID
	}
	if doc.Status == "" {
		doc.Status = StatusProcessing
	}
	r.data[doc.ID] = doc
	return nil
}

// GetByID returns a record by id.
func (r *MemoryRepo) GetByID(ctx context.Context, id string) (Document, error) {
	if err := ctx.Err(); err != nil {
		return Document{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	doc, ok := r.data[id]
	if !ok {
		return Document{}, ErrNotFound
	}
	return doc, nil
}

// List returns all records, most recently uploaded first.
func (r *MemoryRepo) List(ctx context.Context) ([]Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	docs := make([]Document, 0, len(r.data))
	for _, doc := range r.data {
		docs = append(docs, doc)
	}
	r.mu.RUnlock()

	sort.Slice(docs, func(i, j int) bool {
		return docs[i].UploadedAt.After(docs[j].UploadedAt)
	})
	return docs, nil
}

// Update merges the supplied fields into an existing record under one lock
// acquisition, mirroring the single-statement merge of the Postgres repo.
func (r *MemoryRepo) Update(ctx context.Context, id string, fields UpdateFields) (Document, error) {
	if err := ctx.Err(); err != nil {
		return Document{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	doc, ok := r.data[id]
	if !ok {
		return Document{}, ErrNotFound
	}
	if fields.FileName != nil {
		doc.FileName = *fields.FileName
	}
	if fields.ExtractedText != nil {
		doc.ExtractedText = *fields.ExtractedText
	}
	if fields.JobID != nil {
		doc.JobID = *fields.JobID
	}
	if fields.Status != nil {
		doc.Status = *fields.Status
	}
	r.data[id] = doc
	return doc, nil
}

// Search returns completed records matching the query, token tier first and
// substring tier when the token tier yields nothing.
func (r *MemoryRepo) Search(ctx context.Context, query string) ([]Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	completed := make([]Document, 0, len(r.data))
	for _, doc := range r.data {
		if doc.Status == StatusCompleted {
			completed = append(completed, doc)
		}
	}
	r.mu.RUnlock()

	queryTokens := tokenize(query)
	var out []Document
	for _, doc := range completed {
		if matchesAllTokens(tokenSet(doc.ExtractedText), queryTokens) {
			out = append(out, doc)
		}
	}
	if len(out) > 0 {
		return out, nil
	}

	lowered := strings.ToLower(query)
	for _, doc := range completed {
		if strings.Contains(strings.ToLower(doc.ExtractedText), lowered) {
			out = append(out, doc)
		}
	}
	return out, nil
}

func tokenize(s string) []string {
	return strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

func tokenSet(s string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, tok := range tokenize(s) {
		set[tok] = struct{}{}
	}
	return set
}

func matchesAllTokens(set map[string]struct{}, tokens []string) bool {
	if len(tokens) == 0 {
		return false
	}
	for _, tok := range tokens {
		if _, ok := set[tok]; !ok {
			return false
		}
	}
	return true
}

var _ DocumentsRepo = (*MemoryRepo)(nil)
