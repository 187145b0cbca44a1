package service

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"characterhub-be/pkg/blobstore"
)

var unsafeKeyChars = regexp.MustCompile(`[^a-zA-Z0-9.-]`)

type IUploadService interface {
	// Upload stores the file and returns its public URL.
	Upload(ctx context.Context, filename string, data []byte) (string, error)
}

type uploadService struct {
	store         blobstore.Client
	publicBaseURL string
}

func NewUploadService(store blobstore.Client, publicBaseURL string) IUploadService {
	return &uploadService{
		store:         store,
		publicBaseURL: strings.TrimRight(publicBaseURL, "/"),
	}
}

func (s *uploadService) Upload(ctx context.Context, filename string, data []byte) (string, error) {
	// Millisecond prefix keeps keys unique; unsafe filename characters are
	// flattened to underscores so the key is URL- and S3-safe.
	key := fmt.Sprintf("%d-%s", time.Now().UnixMilli(), unsafeKeyChars.ReplaceAllString(filename, "_"))

	if err := s.store.Put(ctx, key, data); err != nil {
		return "", fmt.Errorf("failed to store object %s: %w", key, err)
	}

	return s.publicBaseURL + "/" + key, nil
}
