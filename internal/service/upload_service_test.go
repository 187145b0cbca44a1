package service

import (
	"context"
	"errors"
	"io"
	"regexp"
	"strings"
	"sync"
	"testing"

	"characterhub-be/pkg/blobstore"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeBlobClient struct {
	mu      sync.Mutex
	objects map[string][]byte
	failPut error
	deleted []string
}

func newFakeBlobClient() *fakeBlobClient {
	return &fakeBlobClient{objects: make(map[string][]byte)}
}

func (f *fakeBlobClient) Put(_ context.Context, key string, data []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failPut != nil {
		return f.failPut
	}
	f.objects[key] = data
	return nil
}

func (f *fakeBlobClient) Get(context.Context, string) (io.ReadCloser, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeBlobClient) Head(context.Context, string) (*blobstore.ObjectMeta, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeBlobClient) Exists(_ context.Context, key string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.objects[key]
	return ok, nil
}

func (f *fakeBlobClient) List(context.Context) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	keys := make([]string, 0, len(f.objects))
	for k := range f.objects {
		keys = append(keys, k)
	}
	return keys, nil
}

func (f *fakeBlobClient) Delete(_ context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.objects, key)
	f.deleted = append(f.deleted, key)
	return nil
}

func (f *fakeBlobClient) deletedKeys() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.deleted...)
}

func TestUpload_KeyFormat(t *testing.T) {
	store := newFakeBlobClient()
	svc := NewUploadService(store, "https://media.test")

	url, err := svc.Upload(context.Background(), "my file @2x.png", []byte("data"))
	require.NoError(t, err)

	require.True(t, strings.HasPrefix(url, "https://media.test/"))
	key := strings.TrimPrefix(url, "https://media.test/")

	// Millisecond timestamp prefix, unsafe characters flattened.
	assert.Regexp(t, regexp.MustCompile(`^\d+-my_file__2x\.png$`), key)

	stored, ok := store.objects[key]
	require.True(t, ok)
	assert.Equal(t, []byte("data"), stored)
}

func TestUpload_TrimsTrailingSlashOnBaseURL(t *testing.T) {
	store := newFakeBlobClient()
	svc := NewUploadService(store, "https://media.test/")

	url, err := svc.Upload(context.Background(), "a.png", []byte("x"))
	require.NoError(t, err)
	assert.NotContains(t, url, "//a")
	assert.True(t, strings.HasPrefix(url, "https://media.test/"))
}

func TestUpload_PutFailure(t *testing.T) {
	store := newFakeBlobClient()
	store.failPut = errors.New("bucket unavailable")
	svc := NewUploadService(store, "https://media.test")

	_, err := svc.Upload(context.Background(), "a.png", []byte("x"))
	assert.Error(t, err)
}
