package services

import (
	"context"
	"io"
	"strings"
	"testing"

	"aeroportal/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func securedFile(t *testing.T, password string) *models.File {
	t.Helper()
	hash, err := HashResourcePassword(true, password)
	require.NoError(t, err)
	return &models.File{
		Base:        models.Base{ID: "file-1"},
		DisplayName: "Juknis Keamanan",
		Category:    "Juknis",
		FilePath:    "files/1700000000_juknis.pdf",
		IsSecure:    true,
		Password:    hash,
	}
}

func TestFileServiceVerifyPassword(t *testing.T) {
	db, _ := newMockDB(t)
	svc := NewFileService(db, newTestStorage(t))

	secure := securedFile(t, "opensesame")
	open := &models.File{Base: models.Base{ID: "file-2"}}

	assert.True(t, svc.VerifyPassword(secure, "opensesame"))
	assert.False(t, svc.VerifyPassword(secure, "wrong"))
	assert.False(t, svc.VerifyPassword(secure, ""))
	assert.True(t, svc.VerifyPassword(open, ""))
}

func TestFileServiceDownload(t *testing.T) {
	db, _ := newMockDB(t)
	storage := newTestStorage(t)
	svc := NewFileService(db, storage)
	ctx := context.Background()

	file := securedFile(t, "opensesame")
	require.NoError(t, storage.Save(ctx, file.FilePath, strings.NewReader("payload")))

	t.Run("wrong password is rejected before storage access", func(t *testing.T) {
		_, _, err := svc.Download(ctx, file, "wrong")
		assert.ErrorIs(t, err, ErrIncorrectPassword)
	})

	t.Run("correct password streams with stripped name", func(t *testing.T) {
		reader, name, err := svc.Download(ctx, file, "opensesame")
		require.NoError(t, err)
		defer reader.Close()

		assert.Equal(t, "juknis.pdf", name)

		contents, err := io.ReadAll(reader)
		require.NoError(t, err)
		assert.Equal(t, "payload", string(contents))
	})

	t.Run("missing artifact is reported", func(t *testing.T) {
		gone := securedFile(t, "opensesame")
		gone.FilePath = "files/1700000000_missing.pdf"

		_, _, err := svc.Download(ctx, gone, "opensesame")
		assert.ErrorIs(t, err, ErrArtifactMissing)
	})
}

func TestFileServiceDeleteTolerantOfMissingArtifact(t *testing.T) {
	db, mock := newMockDB(t)
	storage := newTestStorage(t)
	svc := NewFileService(db, storage)

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM "files"`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	// The artifact was never written; delete must still remove the row.
	file := &models.File{
		Base:     models.Base{ID: "file-1"},
		FilePath: "files/1700000000_gone.pdf",
	}

	require.NoError(t, svc.Delete(context.Background(), file))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFileServiceCreateRemovesArtifactOnInsertFailure(t *testing.T) {
	db, mock := newMockDB(t)
	storage := newTestStorage(t)
	svc := NewFileService(db, storage)

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "files"`).
		WillReturnError(assert.AnError)
	mock.ExpectRollback()

	_, err := svc.Create(context.Background(), CreateFileInput{
		DisplayName: "SOP Apron",
		Category:    "SOP",
		FileName:    "sop.pdf",
		Size:        7,
		Contents:    strings.NewReader("payload"),
	})
	require.Error(t, err)

	stored, listErr := storage.List(context.Background(), "files")
	require.NoError(t, listErr)
	assert.Empty(t, stored)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFileServiceCreateRequiresUpload(t *testing.T) {
	db, _ := newMockDB(t)
	svc := NewFileService(db, newTestStorage(t))

	_, err := svc.Create(context.Background(), CreateFileInput{
		DisplayName: "SOP Apron",
		Category:    "SOP",
	})
	assert.ErrorIs(t, err, ErrNoUpload)
}
