package documents

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"docsearch-backend/internal/events"
	"docsearch-backend/internal/extract"
	"docsearch-backend/internal/extraction"
	"docsearch-backend/internal/search"
	"docsearch-backend/internal/shared/metrics"
	"docsearch-backend/internal/shared/storage/object"
	"docsearch-backend/internal/shared/telemetry"
)

const (
	pdfMimeType    = "application/pdf"
	minQueryLength = 2
)

// TextExtractor drives one stored payload through remote OCR to a terminal
// outcome.
type TextExtractor interface {
	Process(ctx context.Context, handle string) (extraction.Result, error)
}

// Service contains business logic for documents.
type Service struct {
	Repo      DocumentsRepo
	Store     object.ObjectStore
	Extractor TextExtractor

	// Index and Events are optional. When set, completed documents are pushed
	// to the secondary search index and terminal transitions are announced on
	// the event bus; failures on either are logged and never affect the
	// stored record.
	Index  search.Index
	Events events.Client

	// TextLayerFastPath skips remote OCR for PDFs that carry an embedded
	// text layer.
	TextLayerFastPath bool
}

// Upload stores the payload, creates the processing record, and kicks off
// asynchronous extraction. The returned document is the initial processing
// snapshot; extraction completes in the background.
func (s *Service) Upload(ctx context.Context, fileName string, file io.Reader) (Document, error) {
	fileName = strings.TrimSpace(fileName)
	if fileName == "" {
		return Document{}, fmt.Errorf("%w: file name is required", ErrInvalidInput)
	}
	if !strings.EqualFold(filepath.Ext(fileName), ".pdf") {
		return Document{}, fmt.Errorf("%w: only PDF files are accepted", ErrInvalidInput)
	}

	storageKey, sizeBytes, mimeType, err := s.Store.Save(ctx, fileName, file)
	if err != nil {
		return Document{}, fmt.Errorf("store payload: %w", err)
	}
	if mimeType != pdfMimeType {
		s.deletePayload(ctx, storageKey)
		return Document{}, fmt.Errorf("%w: content is not a PDF", ErrInvalidInput)
	}

	doc := Document{
		ID:         uuid.NewString(),
		FileName:   fileName,
		UploadedAt: time.Now().UTC(),
		Status:     StatusProcessing,
	}
	if err := s.Repo.Create(ctx, doc); err != nil {
		s.deletePayload(ctx, storageKey)
		return Document{}, err
	}

	telemetry.Info("document.uploaded", map[string]any{
		"request_id":  requestIDFromContext(ctx),
		"document_id": doc.ID,
		"file_name":   doc.FileName,
		"size_bytes":  sizeBytes,
	})

	go s.completeAsync(backgroundWithRequestID(ctx), doc.ID, storageKey)

	return doc, nil
}

// Get returns a document by id.
func (s *Service) Get(ctx context.Context, id string) (Document, error) {
	if strings.TrimSpace(id) == "" {
		return Document{}, fmt.Errorf("%w: id is required", ErrInvalidInput)
	}
	return s.Repo.GetByID(ctx, id)
}

// List returns all documents, most recently uploaded first.
func (s *Service) List(ctx context.Context) ([]Document, error) {
	return s.Repo.List(ctx)
}

// Search returns completed documents matching the query, ranked with match
// previews. The secondary index is consulted first when configured; any
// index failure falls through to the metadata store.
func (s *Service) Search(ctx context.Context, query string) ([]SearchResult, error) {
	query = strings.TrimSpace(query)
	if utf8.RuneCountInString(query) < minQueryLength {
		return nil, fmt.Errorf("%w: query must be at least %d characters", ErrInvalidInput, minQueryLength)
	}

	if s.Index != nil {
		hits, err := s.Index.Search(ctx, query)
		if err != nil {
			telemetry.Error("search.index_fallback", map[string]any{
				"request_id": requestIDFromContext(ctx),
				"error":      err.Error(),
			})
		} else if len(hits) > 0 {
			return rankResults(fromIndexDocuments(hits), query), nil
		}
	}

	docs, err := s.Repo.Search(ctx, query)
	if err != nil {
		return nil, err
	}
	return rankResults(docs, query), nil
}

func (s *Service) completeAsync(ctx context.Context, documentID, storageKey string) {
	startedAt := time.Now().UTC()
	defer func() {
		if r := recover(); r != nil {
			s.fail(ctx, documentID, storageKey, "", fmt.Errorf("panic: %v", r), startedAt)
		}
	}()
	metrics.IncExtractionStarted()

	if s.TextLayerFastPath {
		text, err := extract.TextLayer(ctx, s.Store, storageKey)
		if err == nil && strings.TrimSpace(text) != "" {
			s.complete(ctx, documentID, storageKey, text, "", startedAt)
			return
		}
		if err != nil {
			telemetry.Info("extraction.text_layer_miss", map[string]any{
				"request_id":  requestIDFromContext(ctx),
				"document_id": documentID,
				"error":       err.Error(),
			})
		}
	}

	res, err := s.Extractor.Process(ctx, storageKey)
	if err != nil {
		s.fail(ctx, documentID, storageKey, res.JobID, err, startedAt)
		return
	}
	s.complete(ctx, documentID, storageKey, res.Text, res.JobID, startedAt)
}

// complete applies the single terminal update for a successful extraction.
// An empty text result is still a completion; a scanned image with no
// detectable text is a valid document.
func (s *Service) complete(ctx context.Context, documentID, storageKey, text, jobID string, startedAt time.Time) {
	status := StatusCompleted
	fields := UpdateFields{ExtractedText: &text, Status: &status}
	if jobID != "" {
		fields.JobID = &jobID
	}
	doc, err := s.Repo.Update(ctx, documentID, fields)
	if err != nil {
		s.fail(ctx, documentID, storageKey, jobID, fmt.Errorf("set completed failed: %w", err), startedAt)
		return
	}

	completedAt := time.Now().UTC()
	metrics.IncExtractionCompleted()
	metrics.ObserveExtractionDurationMs(durationMs(startedAt, completedAt))
	telemetry.Info("extraction.status", map[string]any{
		"request_id":        requestIDFromContext(ctx),
		"document_id":       documentID,
		"job_id":            jobID,
		"status":            StatusCompleted,
		"status_transition": "processing->completed",
		"duration_ms":       durationMs(startedAt, completedAt),
	})

	s.deletePayload(ctx, storageKey)
	s.indexDocument(ctx, doc)
	s.publishEvent(ctx, documentID, jobID, StatusCompleted)
}

// fail applies the terminal failed update and then cleans up the payload.
// The two side effects are independent; a failed delete never blocks the
// status update and vice versa.
func (s *Service) fail(ctx context.Context, documentID, storageKey, jobID string, cause error, startedAt time.Time) {
	status := StatusFailed
	fields := UpdateFields{Status: &status}
	if jobID != "" {
		fields.JobID = &jobID
	}
	// The update runs on a fresh context so that a cancelled upload request
	// cannot strand the record in processing.
	if _, err := s.Repo.Update(context.Background(), documentID, fields); err != nil {
		telemetry.Error("extraction.fail_update", map[string]any{
			"request_id":  requestIDFromContext(ctx),
			"document_id": documentID,
			"error":       err.Error(),
			"cause":       cause.Error(),
		})
	}

	failedAt := time.Now().UTC()
	metrics.IncExtractionFailed()
	metrics.ObserveExtractionDurationMs(durationMs(startedAt, failedAt))
	telemetry.Error("extraction.status", map[string]any{
		"request_id":        requestIDFromContext(ctx),
		"document_id":       documentID,
		"job_id":            jobID,
		"status":            StatusFailed,
		"status_transition": "processing->failed",
		"timeout":           errors.Is(cause, extraction.ErrTimeout),
		"error":             cause.Error(),
		"duration_ms":       durationMs(startedAt, failedAt),
	})

	s.deletePayload(ctx, storageKey)
	s.publishEvent(ctx, documentID, jobID, StatusFailed)
}

func (s *Service) deletePayload(ctx context.Context, storageKey string) {
	if err := s.Store.Delete(ctx, storageKey); err != nil {
		telemetry.Error("document.payload_delete", map[string]any{
			"request_id":  requestIDFromContext(ctx),
			"storage_key": storageKey,
			"error":       err.Error(),
		})
	}
}

func (s *Service) indexDocument(ctx context.Context, doc Document) {
	if s.Index == nil {
		return
	}
	if err := s.Index.Index(ctx, toIndexDocument(doc)); err != nil {
		telemetry.Error("search.index_write", map[string]any{
			"request_id":  requestIDFromContext(ctx),
			"document_id": doc.ID,
			"error":       err.Error(),
		})
	}
}

func (s *Service) publishEvent(ctx context.Context, documentID, jobID, status string) {
	if s.Events == nil {
		return
	}
	msg := events.Message{
		DocumentID: documentID,
		JobID:      jobID,
		Status:     status,
		RequestID:  requestIDFromContext(ctx),
		OccurredAt: time.Now().UTC().Format(time.RFC3339),
		Version:    1,
	}
	if err := s.Events.Publish(ctx, msg); err != nil {
		telemetry.Error("events.publish", map[string]any{
			"request_id":  requestIDFromContext(ctx),
			"document_id": documentID,
			"error":       err.Error(),
		})
	}
}

func toIndexDocument(doc Document) search.Document {
	return search.Document{
		ID:         doc.ID,
		FileName:   doc.FileName,
		Text:       doc.ExtractedText,
		UploadedAt: doc.UploadedAt,
		Status:     doc.Status,
	}
}

func fromIndexDocuments(hits []search.Document) []Document {
	out := make([]Document, 0, len(hits))
	for _, hit := range hits {
		out = append(out, Document{
			ID:            hit.ID,
			FileName:      hit.FileName,
			ExtractedText: hit.Text,
			UploadedAt:    hit.UploadedAt,
			Status:        hit.Status,
		})
	}
	return out
}

func durationMs(startedAt, completedAt time.Time) float64 {
	return float64(completedAt.Sub(startedAt).Microseconds()) / 1000.0
}
