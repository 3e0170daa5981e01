package store

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/SauravS-01/eNoteBook/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNoteStoreFindByIDPreloadsOwner(t *testing.T) {
	conn, mock := newMockDB(t)
	notes := NewNoteStore(conn)

	noteRows := sqlmock.NewRows([]string{"id", "title", "body", "status", "user_id"}).
		AddRow(3, "My Trip", "notes from the road", types.NoteStatusPublic, 1)

	mock.ExpectQuery(`SELECT (.+) FROM "notes" WHERE id = \$1`).
		WithArgs(3, 1).
		WillReturnRows(noteRows)

	userRows := sqlmock.NewRows([]string{"id", "display_name"}).
		AddRow(1, "Jane")

	mock.ExpectQuery(`SELECT (.+) FROM "users" WHERE "users"."id" = \$1`).
		WithArgs(1).
		WillReturnRows(userRows)

	note, err := notes.FindByID(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, "My Trip", note.Title)
	assert.Equal(t, "Jane", note.User.DisplayName)

	expectationsMet(t, mock)
}

func TestNoteStoreFindByIDNotFound(t *testing.T) {
	conn, mock := newMockDB(t)
	notes := NewNoteStore(conn)

	mock.ExpectQuery(`SELECT (.+) FROM "notes" WHERE id = \$1`).
		WithArgs(99, 1).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := notes.FindByID(context.Background(), 99)
	assert.ErrorIs(t, err, ErrNotFound)

	expectationsMet(t, mock)
}

func TestNoteStoreSearchPublicFiltersAndOrders(t *testing.T) {
	conn, mock := newMockDB(t)
	notes := NewNoteStore(conn)

	// Only public titles containing the query, newest first; the
	// private "Big Trip" never leaves the database.
	noteRows := sqlmock.NewRows([]string{"id", "title", "status", "user_id"}).
		AddRow(1, "My Trip", types.NoteStatusPublic, 1)

	mock.ExpectQuery(`SELECT (.+) FROM "notes" WHERE \(?status = \$1 AND title ILIKE \$2\)?(.+)ORDER BY created_at desc`).
		WithArgs(types.NoteStatusPublic, "%Trip%").
		WillReturnRows(noteRows)

	mock.ExpectQuery(`SELECT (.+) FROM "users" WHERE "users"."id" = \$1`).
		WithArgs(1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "display_name"}).AddRow(1, "Jane"))

	found, err := notes.SearchPublic(context.Background(), "Trip")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "My Trip", found[0].Title)

	expectationsMet(t, mock)
}

func TestNoteStoreUpdateNeverTouchesOwner(t *testing.T) {
	conn, mock := newMockDB(t)
	notes := NewNoteStore(conn)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "notes" SET "body"=\$1,"status"=\$2,"title"=\$3,"updated_at"=\$4 WHERE id = \$5`).
		WithArgs("new body", types.NoteStatusPrivate, "new title", sqlmock.AnyArg(), 3).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := notes.Update(context.Background(), 3, "new title", "new body", types.NoteStatusPrivate)
	require.NoError(t, err)

	expectationsMet(t, mock)
}

func TestNoteStoreDelete(t *testing.T) {
	conn, mock := newMockDB(t)
	notes := NewNoteStore(conn)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "notes" SET "deleted_at"=\$1 WHERE "notes"."id" = \$2`).
		WithArgs(sqlmock.AnyArg(), 3).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := notes.Delete(context.Background(), 3)
	require.NoError(t, err)

	expectationsMet(t, mock)
}
