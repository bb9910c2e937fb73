package gallery

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeObjectStore is an in-memory storage.Storage with fault injection.
type fakeObjectStore struct {
	objects     map[string][]byte
	failUploads int // fail this many upload attempts before succeeding
	failDelete  bool
	uploadCalls int
	deleteCalls int
	lastKey     string
}

func newFakeObjectStore() *fakeObjectStore {
	return &fakeObjectStore{objects: map[string][]byte{}}
}

func (f *fakeObjectStore) Upload(_ context.Context, key string, reader io.Reader, _ int64, _ string) error {
	f.uploadCalls++
	if f.failUploads > 0 {
		f.failUploads--
		return errors.New("storage unavailable")
	}
	data, err := io.ReadAll(reader)
	if err != nil {
		return err
	}
	f.objects[key] = data
	f.lastKey = key
	return nil
}

func (f *fakeObjectStore) Delete(_ context.Context, key string) error {
	f.deleteCalls++
	if f.failDelete {
		return errors.New("delete refused")
	}
	delete(f.objects, key)
	return nil
}

func (f *fakeObjectStore) PublicURL(key string) string {
	return "http://cdn.test/art-images/" + key
}

// fakeItemRepo is an in-memory ItemStore with fault injection.
type fakeItemRepo struct {
	items       map[string]*Item
	nextID      int
	createErr   error
	createCalls int
}

func newFakeItemRepo() *fakeItemRepo {
	return &fakeItemRepo{items: map[string]*Item{}}
}

func (f *fakeItemRepo) Create(_ context.Context, title, description, imageURL string) (*Item, error) {
	f.createCalls++
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.nextID++
	it := &Item{
		ID:          fmt.Sprintf("id-%d", f.nextID),
		Title:       title,
		Description: description,
		ImageURL:    imageURL,
	}
	f.items[it.ID] = it
	return it, nil
}

func (f *fakeItemRepo) List(_ context.Context) ([]Item, error) {
	items := make([]Item, 0, len(f.items))
	for _, it := range f.items {
		items = append(items, *it)
	}
	return items, nil
}

func (f *fakeItemRepo) GetByID(_ context.Context, id string) (*Item, error) {
	it, ok := f.items[id]
	if !ok {
		return nil, ErrNotFound
	}
	return it, nil
}

func (f *fakeItemRepo) Update(_ context.Context, id string, upd ItemUpdate) (*Item, error) {
	it, ok := f.items[id]
	if !ok {
		return nil, ErrNotFound
	}
	if upd.Title != nil {
		it.Title = *upd.Title
	}
	if upd.Description != nil {
		it.Description = *upd.Description
	}
	if upd.ImageURL != nil {
		it.ImageURL = *upd.ImageURL
	}
	return it, nil
}

func (f *fakeItemRepo) Delete(_ context.Context, id string) error {
	delete(f.items, id)
	return nil
}

func testUpload(name, content string) Upload {
	return Upload{
		Filename:    name,
		ContentType: "image/png",
		Size:        int64(len(content)),
		Reader:      bytes.NewReader([]byte(content)),
	}
}

func TestCreateWithImage_LinksStoredObject(t *testing.T) {
	store := newFakeObjectStore()
	repo := newFakeItemRepo()
	svc := NewService(repo, store, "arts")

	item, err := svc.CreateWithImage(context.Background(), "Sunset", "evening view", testUpload("a.png", "pngbytes"))
	require.NoError(t, err)

	assert.Equal(t, "Sunset", item.Title)
	assert.Equal(t, "evening view", item.Description)
	assert.True(t, strings.HasSuffix(item.ImageURL, "a.png"), "image_url should end with the original filename, got %q", item.ImageURL)
	assert.Equal(t, store.PublicURL(store.lastKey), item.ImageURL, "image_url must match the path the store reports")
	assert.Equal(t, []byte("pngbytes"), store.objects[store.lastKey])
}

func TestCreateWithImage_UniqueKeysForSameFilename(t *testing.T) {
	store := newFakeObjectStore()
	repo := newFakeItemRepo()
	svc := NewService(repo, store, "arts")

	first, err := svc.CreateWithImage(context.Background(), "One", "", testUpload("a.png", "x"))
	require.NoError(t, err)
	second, err := svc.CreateWithImage(context.Background(), "Two", "", testUpload("a.png", "y"))
	require.NoError(t, err)

	assert.NotEqual(t, first.ImageURL, second.ImageURL)
	assert.Len(t, store.objects, 2)
}

func TestCreateWithImage_UploadFailureCreatesNoRecord(t *testing.T) {
	store := newFakeObjectStore()
	store.failUploads = uploadAttempts // every attempt fails
	repo := newFakeItemRepo()
	svc := NewService(repo, store, "arts")

	_, err := svc.CreateWithImage(context.Background(), "Sunset", "", testUpload("a.png", "x"))
	require.Error(t, err)

	assert.Equal(t, 0, repo.createCalls, "repository must never be invoked when the upload fails")
	assert.Empty(t, store.objects)
}

func TestCreateWithImage_RetriesTransientUploadFailure(t *testing.T) {
	store := newFakeObjectStore()
	store.failUploads = 1 // first attempt fails, second succeeds
	repo := newFakeItemRepo()
	svc := NewService(repo, store, "arts")

	item, err := svc.CreateWithImage(context.Background(), "Sunset", "", testUpload("a.png", "pngbytes"))
	require.NoError(t, err)

	assert.Equal(t, 2, store.uploadCalls)
	// The retry must see the whole file, not the remainder after a failed read.
	assert.Equal(t, []byte("pngbytes"), store.objects[store.lastKey])
	assert.NotEmpty(t, item.ImageURL)
}

func TestCreateWithImage_InsertFailureCompensatesUpload(t *testing.T) {
	store := newFakeObjectStore()
	repo := newFakeItemRepo()
	repo.createErr = errors.New("insert rejected")
	svc := NewService(repo, store, "arts")

	_, err := svc.CreateWithImage(context.Background(), "Sunset", "", testUpload("a.png", "x"))
	require.Error(t, err)

	assert.Equal(t, 1, store.deleteCalls, "compensating delete should run on insert failure")
	assert.Empty(t, store.objects, "compensated object should be gone")
}

func TestCreateWithImage_FailedCompensationOrphansObject(t *testing.T) {
	store := newFakeObjectStore()
	store.failDelete = true
	repo := newFakeItemRepo()
	repo.createErr = errors.New("insert rejected")
	svc := NewService(repo, store, "arts")

	_, err := svc.CreateWithImage(context.Background(), "Sunset", "", testUpload("a.png", "x"))
	require.Error(t, err)

	// Compensation was attempted but refused; the object outlives the failed
	// request and stays retrievable.
	assert.Equal(t, 1, store.deleteCalls)
	assert.Len(t, store.objects, 1)
}

func TestDelete_MissingIDIsSilentNoOp(t *testing.T) {
	store := newFakeObjectStore()
	repo := newFakeItemRepo()
	svc := NewService(repo, store, "arts")

	// Documented behavior: the store reports success for ids that match
	// nothing, and the service passes that through.
	err := svc.Delete(context.Background(), "no-such-id")
	assert.NoError(t, err)
}

func TestDelete_LeavesImageObjectInPlace(t *testing.T) {
	store := newFakeObjectStore()
	repo := newFakeItemRepo()
	svc := NewService(repo, store, "arts")

	item, err := svc.CreateWithImage(context.Background(), "Sunset", "", testUpload("a.png", "x"))
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), item.ID))

	assert.Zero(t, store.deleteCalls, "record deletion must not touch the object store")
	assert.Len(t, store.objects, 1)
}
