package routes

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"aeroportal/internal/api/middleware"
	"aeroportal/internal/services"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newPortalRouter(t *testing.T) (*echo.Echo, sqlmock.Sqlmock) {
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

	e := echo.New()
	api := e.Group("/api/v1")
	authMiddleware := middleware.NewAuthMiddleware(db, "test-secret")

	files := services.NewFileService(db, storage)
	reports := services.NewReportService(db, storage)
	SetupPortalRoutes(api, db, storage, files, reports, authMiddleware)

	return e, mock
}

func TestDashboardRequiresAuthentication(t *testing.T) {
	e, mock := newPortalRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/dashboard", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// Anonymous requests must be rejected before any data is loaded.
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestContactListingIsReachableAnonymously(t *testing.T) {
	e, mock := newPortalRouter(t)

	mock.ExpectQuery(`SELECT \* FROM "contacts"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "position", "phone"}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/contacts", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFileMutationsRequireAuthentication(t *testing.T) {
	e, mock := newPortalRouter(t)

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/files/file-1", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}
