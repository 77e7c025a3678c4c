package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trongtuan99/review-company/internal/domain"
	"github.com/trongtuan99/review-company/pkg/database"
	apperrors "github.com/trongtuan99/review-company/pkg/errors"
)

func setupReplyRepo(t *testing.T) (*ReplyRepository, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := database.NewMockPool()
	require.NoError(t, err)
	repo := NewReplyRepository(mock)
	return repo, mock
}

var replyColumns = []string{
	"id", "review_id", "user_id", "content", "is_edited", "created_at", "updated_at",
}

func sampleReply() domain.Reply {
	return domain.Reply{
		ID:        "reply-1",
		ReviewID:  "review-1",
		UserID:    "user-2",
		Content:   "Agreed, same experience here.",
		CreatedAt: time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
		UpdatedAt: time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestReplyRepository_GetByID_Success(t *testing.T) {
	repo, mock := setupReplyRepo(t)
	defer mock.Close()

	rp := sampleReply()
	mock.ExpectQuery("SELECT .+ FROM replies WHERE").
		WithArgs(rp.ID).
		WillReturnRows(
			pgxmock.NewRows(replyColumns).
				AddRow(rp.ID, rp.ReviewID, rp.UserID, rp.Content,
					rp.IsEdited, rp.CreatedAt, rp.UpdatedAt),
		)

	result, err := repo.GetByID(context.Background(), rp.ID)
	require.NoError(t, err)
	assert.Equal(t, rp.ID, result.ID)
	assert.Equal(t, rp.ReviewID, result.ReviewID)
	assert.False(t, result.IsEdited)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReplyRepository_GetByID_NotFound(t *testing.T) {
	repo, mock := setupReplyRepo(t)
	defer mock.Close()

	mock.ExpectQuery("SELECT .+ FROM replies WHERE").
		WithArgs("reply-x").
		WillReturnError(pgx.ErrNoRows)

	result, err := repo.GetByID(context.Background(), "reply-x")
	assert.Nil(t, result)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReplyRepository_ListByReview_Success(t *testing.T) {
	repo, mock := setupReplyRepo(t)
	defer mock.Close()

	rp := sampleReply()
	columns := append(append([]string{}, replyColumns...), "total_count")
	mock.ExpectQuery("SELECT .+ FROM replies WHERE review_id").
		WithArgs(rp.ReviewID, 20, 0).
		WillReturnRows(
			pgxmock.NewRows(columns).
				AddRow(rp.ID, rp.ReviewID, rp.UserID, rp.Content,
					rp.IsEdited, rp.CreatedAt, rp.UpdatedAt, 1),
		)

	replies, total, err := repo.ListByReview(context.Background(), rp.ReviewID, 1, 20)
	require.NoError(t, err)
	assert.Len(t, replies, 1)
	assert.Equal(t, 1, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReplyRepository_Edit_Success(t *testing.T) {
	repo, mock := setupReplyRepo(t)
	defer mock.Close()

	editedAt := time.Date(2025, 3, 2, 0, 0, 0, 0, time.UTC)
	mock.ExpectExec("UPDATE replies SET content").
		WithArgs("Updated thoughts.", editedAt, "reply-1").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	err := repo.Edit(context.Background(), "reply-1", "Updated thoughts.", editedAt)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReplyRepository_Edit_NotFound(t *testing.T) {
	repo, mock := setupReplyRepo(t)
	defer mock.Close()

	editedAt := time.Date(2025, 3, 2, 0, 0, 0, 0, time.UTC)
	mock.ExpectExec("UPDATE replies SET content").
		WithArgs("Updated thoughts.", editedAt, "reply-x").
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := repo.Edit(context.Background(), "reply-x", "Updated thoughts.", editedAt)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
