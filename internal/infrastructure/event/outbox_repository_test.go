package event

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/erp/reconciliation/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var outboxColumns = []string{
	"id", "event_id", "event_type", "aggregate_id", "aggregate_type", "payload",
	"status", "retry_count", "max_retries", "last_error", "next_retry_at",
	"processed_at", "created_at", "updated_at",
}

func outboxRow(rows *sqlmock.Rows, id uuid.UUID, status shared.OutboxStatus) *sqlmock.Rows {
	now := time.Now()
	return rows.AddRow(id, uuid.New(), "ReturnPosted", uuid.New(), "ReturnDocument", []byte(`{}`),
		status, 0, 5, "", nil, nil, now, now)
}

func TestGormOutboxRepository_Save(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewGormOutboxRepository(db)

	entry := shared.NewOutboxEntry(newSubmittedEvent(), []byte(`{"document_number":"RT-2026-00001"}`))

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "outbox_events"`)).
		WillReturnRows(sqlmock.NewRows([]string{"retry_count"}).AddRow(0))
	mock.ExpectCommit()

	require.NoError(t, repo.Save(context.Background(), entry))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormOutboxRepository_Save_Empty(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewGormOutboxRepository(db)

	require.NoError(t, repo.Save(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormOutboxRepository_FindPending(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewGormOutboxRepository(db)

	id := uuid.New()
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "outbox_events" WHERE status = $1 ORDER BY created_at ASC`)).
		WillReturnRows(outboxRow(sqlmock.NewRows(outboxColumns), id, shared.OutboxStatusPending))

	entries, err := repo.FindPending(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, id, entries[0].ID)
	assert.Equal(t, "ReturnPosted", entries[0].EventType)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormOutboxRepository_FindRetryable(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewGormOutboxRepository(db)
	before := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "outbox_events" WHERE status = $1 AND next_retry_at <= $2`)).
		WillReturnRows(sqlmock.NewRows(outboxColumns))

	entries, err := repo.FindRetryable(context.Background(), before, 5)
	require.NoError(t, err)
	assert.Empty(t, entries)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormOutboxRepository_MarkProcessing(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewGormOutboxRepository(db)

	id := uuid.New()
	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`FOR UPDATE SKIP LOCKED`)).
		WillReturnRows(outboxRow(sqlmock.NewRows(outboxColumns), id, shared.OutboxStatusPending))
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "outbox_events" SET`)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	claimed, err := repo.MarkProcessing(context.Background(), []uuid.UUID{id})
	require.NoError(t, err)
	require.Len(t, claimed, 1)
	assert.Equal(t, shared.OutboxStatusProcessing, claimed[0].Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormOutboxRepository_MarkProcessing_NothingClaimed(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewGormOutboxRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`FOR UPDATE SKIP LOCKED`)).
		WillReturnRows(sqlmock.NewRows(outboxColumns))
	mock.ExpectCommit()

	claimed, err := repo.MarkProcessing(context.Background(), []uuid.UUID{uuid.New()})
	require.NoError(t, err)
	assert.Empty(t, claimed)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormOutboxRepository_Update(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewGormOutboxRepository(db)

	entry := shared.NewOutboxEntry(newSubmittedEvent(), []byte(`{}`))
	entry.MarkSent()

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "outbox_events" SET`)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.Update(context.Background(), entry))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormOutboxRepository_DeleteOlderThan(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewGormOutboxRepository(db)
	cutoff := time.Now().Add(-time.Hour)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "outbox_events" WHERE status = $1 AND processed_at < $2`)).
		WithArgs(shared.OutboxStatusSent, cutoff).
		WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectCommit()

	deleted, err := repo.DeleteOlderThan(context.Background(), cutoff)
	require.NoError(t, err)
	assert.Equal(t, int64(3), deleted)
	assert.NoError(t, mock.ExpectationsWereMet())
}
