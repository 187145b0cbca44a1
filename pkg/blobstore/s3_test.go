package blobstore

import (
	"bytes"
	"compress/flate"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeflatePayloadRoundTrip(t *testing.T) {
	payload := bytes.Repeat([]byte("character avatar bytes "), 100)

	compressed, err := deflatePayload(payload)
	require.NoError(t, err)
	assert.Less(t, len(compressed), len(payload))

	r := flate.NewReader(bytes.NewReader(compressed))
	defer r.Close()

	decompressed, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, payload, decompressed)
}

func TestDeflatePayloadEmpty(t *testing.T) {
	compressed, err := deflatePayload(nil)
	require.NoError(t, err)

	r := flate.NewReader(bytes.NewReader(compressed))
	defer r.Close()

	decompressed, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Empty(t, decompressed)
}

func TestNewS3Client_RequiresBucket(t *testing.T) {
	_, err := NewS3Client(Config{})
	assert.Error(t, err)
}

func TestNewS3Client_Defaults(t *testing.T) {
	client, err := NewS3Client(Config{
		Bucket:          "media",
		AccessKeyID:     "key",
		SecretAccessKey: "secret",
	})
	require.NoError(t, err)

	assert.Equal(t, "media", client.bucket)
	assert.Equal(t, time.Hour, client.presignDuration)
}

func TestNewS3Client_CustomEndpoint(t *testing.T) {
	client, err := NewS3Client(Config{
		Bucket:          "media",
		AccessKeyID:     "key",
		SecretAccessKey: "secret",
		Endpoint:        "https://accountid.r2.cloudflarestorage.com",
		UsePathStyle:    true,
		PresignDuration: 600,
	})
	require.NoError(t, err)

	assert.Equal(t, 10*time.Minute, client.presignDuration)
}
