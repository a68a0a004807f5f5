package storage

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taponce/backend/internal/infrastructure/config"
)

func TestNewS3ObjectStorage_Validation(t *testing.T) {
	ctx := context.Background()

	t.Run("nil config", func(t *testing.T) {
		_, err := NewS3ObjectStorage(ctx, nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "configuration is required")
	})

	t.Run("missing bucket", func(t *testing.T) {
		_, err := NewS3ObjectStorage(ctx, &config.StorageConfig{AccessKeyID: "k", SecretAccessKey: "s"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "bucket is required")
	})

	t.Run("missing credentials", func(t *testing.T) {
		_, err := NewS3ObjectStorage(ctx, &config.StorageConfig{Bucket: "cards"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "credentials are required")
	})

	t.Run("defaults presign expiry", func(t *testing.T) {
		s, err := NewS3ObjectStorage(ctx, &config.StorageConfig{Bucket: "cards", AccessKeyID: "k", SecretAccessKey: "s"})
		require.NoError(t, err)
		assert.Equal(t, 15*time.Minute, s.presignExpiration)
		assert.Equal(t, "cards", s.Bucket())
		assert.Equal(t, "https://cards.s3.ap-south-1.amazonaws.com/a.png", s.PublicURL("a.png"))
	})
}

func TestS3ObjectStorage_Presign(t *testing.T) {
	ctx := context.Background()
	s, err := NewS3ObjectStorage(ctx, &config.StorageConfig{
		Bucket:          "taponce-test",
		AccessKeyID:     "test-key",
		SecretAccessKey: "test-secret",
		Endpoint:        "http://localhost:9000",
		UsePathStyle:    true,
		PresignExpiry:   10 * time.Minute,
	})
	require.NoError(t, err)

	t.Run("upload", func(t *testing.T) {
		p, err := s.PresignUpload(ctx, "uploads/photos/a.jpg", "image/jpeg")
		require.NoError(t, err)
		assert.Equal(t, "PUT", p.Method)
		assert.Contains(t, p.URL, "localhost:9000")
		assert.Contains(t, p.URL, "taponce-test")
		assert.Contains(t, p.URL, "X-Amz-Signature")
		assert.Equal(t, "http://localhost:9000/taponce-test/uploads/photos/a.jpg", p.PublicURL)
		assert.True(t, p.ExpiresAt.Before(time.Now().Add(11*time.Minute)))
	})

	t.Run("download", func(t *testing.T) {
		u, err := s.PresignDownload(ctx, "proofs/TO-2026-00001.pdf")
		require.NoError(t, err)
		assert.True(t, strings.Contains(u, "TO-2026-00001.pdf"))
	})

	t.Run("empty key", func(t *testing.T) {
		_, err := s.PresignUpload(ctx, "", "image/png")
		assert.ErrorIs(t, err, ErrEmptyKey)
		_, err = s.PresignDownload(ctx, "")
		assert.ErrorIs(t, err, ErrEmptyKey)
		assert.ErrorIs(t, s.Put(ctx, "", nil, ""), ErrEmptyKey)
		assert.ErrorIs(t, s.Delete(ctx, ""), ErrEmptyKey)
	})
}

func TestUploadKey(t *testing.T) {
	key, err := UploadKey(UploadPhoto, "image/PNG")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(key, "uploads/photos/"))
	assert.True(t, strings.HasSuffix(key, ".png"))

	_, err = UploadKey(UploadLogo, "application/pdf")
	assert.Error(t, err)

	_, err = UploadKey(UploadKind("videos"), "image/png")
	assert.Error(t, err)

	assert.Equal(t, "proofs/TO-2026-00042.pdf", ProofKey("to-2026-00042"))
}

func TestMemoryObjectStorage(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryObjectStorage("http://files.local/")

	require.NoError(t, m.Put(ctx, "proofs/x.pdf", []byte("%PDF"), "application/pdf"))
	ok, err := m.Exists(ctx, "proofs/x.pdf")
	require.NoError(t, err)
	assert.True(t, ok)

	data, found := m.Object("proofs/x.pdf")
	require.True(t, found)
	assert.Equal(t, []byte("%PDF"), data)
	assert.Equal(t, "http://files.local/proofs/x.pdf", m.PublicURL("proofs/x.pdf"))

	p, err := m.PresignUpload(ctx, "uploads/logos/y.png", "image/png")
	require.NoError(t, err)
	assert.Equal(t, "PUT", p.Method)

	require.NoError(t, m.Delete(ctx, "proofs/x.pdf"))
	ok, err = m.Exists(ctx, "proofs/x.pdf")
	require.NoError(t, err)
	assert.False(t, ok)
}
