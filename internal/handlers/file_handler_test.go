package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"aeroportal/internal/models"
	"aeroportal/internal/services"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newFileHandlerFixture(t *testing.T) (*FileHandler, sqlmock.Sqlmock, *services.LocalStorage) {
	t.Helper()

	conn, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: conn}), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	storage, err := services.NewLocalStorage(t.TempDir(), "http://localhost:8080")
	require.NoError(t, err)

	files := services.NewFileService(db, storage)
	reports := services.NewReportService(db, storage)
	return NewFileHandler(files, reports), mock, storage
}

func newFileRequest(t *testing.T, method, target, body string, user *models.User) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()

	e := echo.New()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if user != nil {
		c.Set("user", user)
		c.Set("userID", user.ID)
	}
	return c, rec
}

func restrictedFilesUser() *models.User {
	return &models.User{
		Base: models.Base{ID: "user-1"},
		Role: models.UserRoleAdmin,
		Permissions: datatypes.JSONMap{
			"access_files": false,
		},
	}
}

func TestDownloadRestrictedWithoutFilesCapability(t *testing.T) {
	handler, mock, storage := newFileHandlerFixture(t)

	// An artifact exists; the restricted user must never receive it.
	require.NoError(t, storage.Save(context.Background(),
		"files/1700000000_secret.pdf", strings.NewReader("secret payload")))

	c, rec := newFileRequest(t, http.MethodPost, "/files/file-1/download", "", restrictedFilesUser())
	c.SetParamNames("id")
	c.SetParamValues("file-1")

	require.NoError(t, handler.Download(c))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"restriction"`)
	assert.NotContains(t, rec.Body.String(), "secret payload")

	// The handler must bail out before touching the database.
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestVerifyPasswordRestrictedWithoutFilesCapability(t *testing.T) {
	handler, mock, _ := newFileHandlerFixture(t)

	c, rec := newFileRequest(t, http.MethodPost, "/files/file-1/verify-password",
		`{"password":"opensesame"}`, restrictedFilesUser())
	c.SetParamNames("id")
	c.SetParamValues("file-1")

	require.NoError(t, handler.VerifyPassword(c))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"restriction"`)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDownloadRequiresAuthentication(t *testing.T) {
	handler, mock, _ := newFileHandlerFixture(t)

	c, _ := newFileRequest(t, http.MethodPost, "/files/file-1/download", "", nil)
	c.SetParamNames("id")
	c.SetParamValues("file-1")

	err := handler.Download(c)
	require.Error(t, err)

	var httpErr *echo.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusUnauthorized, httpErr.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}
