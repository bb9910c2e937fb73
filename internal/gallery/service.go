package gallery

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/artfolio/service/internal/storage"
)

const (
	// opTimeout bounds each repository call so a hung database does not hang
	// the request.
	opTimeout = 10 * time.Second
	// uploadTimeout bounds a single upload attempt.
	uploadTimeout = 30 * time.Second
	// uploadAttempts is the total number of upload tries before giving up.
	uploadAttempts = 3
	// retryBackoff is the base delay between upload attempts, growing linearly.
	retryBackoff = 500 * time.Millisecond
)

// ItemStore is the repository surface the service depends on.
type ItemStore interface {
	Create(ctx context.Context, title, description, imageURL string) (*Item, error)
	List(ctx context.Context) ([]Item, error)
	GetByID(ctx context.Context, id string) (*Item, error)
	Update(ctx context.Context, id string, upd ItemUpdate) (*Item, error)
	Delete(ctx context.Context, id string) error
}

// Upload describes one incoming image file. Reader must support seeking so a
// failed upload attempt can be retried from the start of the file; multipart
// form files satisfy this.
type Upload struct {
	Filename    string
	ContentType string
	Size        int64
	Reader      io.ReadSeeker
}

// Service orchestrates the upload-then-link workflow for one gallery resource.
type Service struct {
	repo     ItemStore
	store    storage.Storage
	resource string // resource name for log lines, e.g. "arts"
}

// NewService creates a Service for the named resource.
func NewService(repo ItemStore, store storage.Storage, resource string) *Service {
	return &Service{repo: repo, store: store, resource: resource}
}

// CreateWithImage stores the image first and inserts the record second, so a
// record never references an object whose upload failed. If the insert fails
// after a successful upload, a best-effort compensating delete removes the
// object; when that delete also fails the object is orphaned and logged.
func (s *Service) CreateWithImage(ctx context.Context, title, description string, up Upload) (*Item, error) {
	key := uuid.NewString() + "_" + filepath.Base(up.Filename)

	if err := s.uploadWithRetry(ctx, key, up); err != nil {
		return nil, fmt.Errorf("upload image: %w", err)
	}

	imageURL := s.store.PublicURL(key)

	opCtx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	item, err := s.repo.Create(opCtx, title, description, imageURL)
	if err != nil {
		s.compensateUpload(key)
		return nil, fmt.Errorf("create %s record: %w", s.resource, err)
	}
	return item, nil
}

// uploadWithRetry performs up to uploadAttempts uploads, each under its own
// timeout, rewinding the reader between attempts. Retrying under the same key
// is safe: a timed-out attempt that actually landed is simply overwritten.
func (s *Service) uploadWithRetry(ctx context.Context, key string, up Upload) error {
	var lastErr error
	for attempt := 1; attempt <= uploadAttempts; attempt++ {
		if attempt > 1 {
			if _, err := up.Reader.Seek(0, io.SeekStart); err != nil {
				return fmt.Errorf("rewind upload: %w", err)
			}
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(time.Duration(attempt-1) * retryBackoff):
			}
		}

		attemptCtx, cancel := context.WithTimeout(ctx, uploadTimeout)
		lastErr = s.store.Upload(attemptCtx, key, up.Reader, up.Size, up.ContentType)
		cancel()

		if lastErr == nil {
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		log.Printf("%s: upload attempt %d/%d for %q failed: %v", s.resource, attempt, uploadAttempts, key, lastErr)
	}
	return lastErr
}

// compensateUpload deletes an object whose record insert failed. Runs on a
// fresh context: the request context may already be dead at this point.
func (s *Service) compensateUpload(key string) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()
	if err := s.store.Delete(ctx, key); err != nil {
		log.Printf("%s: compensating delete of orphaned object %q failed: %v", s.resource, key, err)
	}
}

// List returns all items of this resource.
func (s *Service) List(ctx context.Context) ([]Item, error) {
	opCtx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()
	return s.repo.List(opCtx)
}

// GetByID returns one item by its id.
func (s *Service) GetByID(ctx context.Context, id string) (*Item, error) {
	opCtx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()
	return s.repo.GetByID(opCtx, id)
}

// Update applies a partial update to one item.
func (s *Service) Update(ctx context.Context, id string, upd ItemUpdate) (*Item, error) {
	opCtx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()
	return s.repo.Update(opCtx, id, upd)
}

// Delete removes one item. The stored image object is left in place: records
// are the only reference to objects, so removing a record may orphan its image.
func (s *Service) Delete(ctx context.Context, id string) error {
	opCtx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()
	return s.repo.Delete(opCtx, id)
}

// IsNotFound returns true when the error indicates a missing item.
func (s *Service) IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
