package storage

import (
	"context"
	"testing"
	"time"

	appreconciliation "github.com/erp/reconciliation/internal/application/reconciliation"
	"github.com/erp/reconciliation/internal/infrastructure/config"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func sampleRecord() appreconciliation.AuditRecord {
	return appreconciliation.AuditRecord{
		EventID:        uuid.MustParse("7b4c1f2e-3a5d-4e6f-8a9b-0c1d2e3f4a5b"),
		EventType:      "ReturnPosted",
		DocumentType:   "RETURN",
		DocumentID:     uuid.New(),
		DocumentNumber: "SR-2026-00007",
		OccurredAt:     time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC),
		Payload:        []byte(`{"number":"SR-2026-00007"}`),
	}
}

func TestNewS3AuditArchive_Validation(t *testing.T) {
	t.Run("nil config returns error", func(t *testing.T) {
		_, err := NewS3AuditArchive(nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "configuration is required")
	})

	t.Run("missing bucket returns error", func(t *testing.T) {
		_, err := NewS3AuditArchive(&config.StorageConfig{AccessKey: "k", SecretKey: "s"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "bucket is required")
	})

	t.Run("missing access key returns error", func(t *testing.T) {
		_, err := NewS3AuditArchive(&config.StorageConfig{Bucket: "b", SecretKey: "s"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "access key is required")
	})

	t.Run("missing secret key returns error", func(t *testing.T) {
		_, err := NewS3AuditArchive(&config.StorageConfig{Bucket: "b", AccessKey: "k"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "secret key is required")
	})

	t.Run("endpoint without scheme", func(t *testing.T) {
		archive, err := NewS3AuditArchive(&config.StorageConfig{
			Bucket:    "audit",
			AccessKey: "k",
			SecretKey: "s",
			Endpoint:  "minio.internal:9000",
			UseSSL:    true,
		}, WithLogger(zaptest.NewLogger(t)))
		require.NoError(t, err)
		assert.Equal(t, "audit", archive.Bucket())
		assert.Equal(t, "s3", archive.Name())
	})
}

func TestS3AuditArchive_ObjectKey(t *testing.T) {
	tests := []struct {
		prefix string
		want   string
	}{
		{"", "RETURN/2026/03/SR-2026-00007/ReturnPosted-7b4c1f2e-3a5d-4e6f-8a9b-0c1d2e3f4a5b.json"},
		{"audit", "audit/RETURN/2026/03/SR-2026-00007/ReturnPosted-7b4c1f2e-3a5d-4e6f-8a9b-0c1d2e3f4a5b.json"},
		{"/audit/", "audit/RETURN/2026/03/SR-2026-00007/ReturnPosted-7b4c1f2e-3a5d-4e6f-8a9b-0c1d2e3f4a5b.json"},
	}
	for _, tt := range tests {
		t.Run(tt.prefix, func(t *testing.T) {
			archive, err := NewS3AuditArchive(&config.StorageConfig{
				Bucket: "audit", AccessKey: "k", SecretKey: "s", Prefix: tt.prefix,
			})
			require.NoError(t, err)
			assert.Equal(t, tt.want, archive.ObjectKey(sampleRecord()))
		})
	}
}

func TestS3AuditArchive_EmptyKey(t *testing.T) {
	archive, err := NewS3AuditArchive(&config.StorageConfig{Bucket: "audit", AccessKey: "k", SecretKey: "s"})
	require.NoError(t, err)

	_, err = archive.Exists(context.Background(), "")
	assert.Error(t, err)
	_, err = archive.Read(context.Background(), "")
	assert.Error(t, err)
}

func TestMemoryAuditArchive(t *testing.T) {
	ctx := context.Background()
	archive := NewMemoryAuditArchive("audit/")
	record := sampleRecord()

	require.NoError(t, archive.Write(ctx, record))
	require.NoError(t, archive.Write(ctx, record))

	keys := archive.Keys()
	require.Len(t, keys, 1)
	assert.Equal(t, "audit/"+record.Key(), keys[0])

	got, err := archive.Read(ctx, keys[0])
	require.NoError(t, err)
	assert.Equal(t, record.EventID, got.EventID)
	assert.Equal(t, record.DocumentNumber, got.DocumentNumber)
	assert.JSONEq(t, string(record.Payload), string(got.Payload))

	_, err = archive.Read(ctx, "missing")
	assert.Error(t, err)
}
