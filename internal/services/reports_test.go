package services

import (
	"context"
	"strings"
	"testing"
	"time"

	"aeroportal/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	conn, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: conn}), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	return db, mock
}

func TestGroupDetails(t *testing.T) {
	airportA := &models.Airport{Base: models.Base{ID: "ap-a"}, Name: "Bandara Syamsudin Noor"}
	airportB := &models.Airport{Base: models.Base{ID: "ap-b"}, Name: "Bandara Juwata"}
	lion := &models.Airline{Base: models.Base{ID: "al-1"}, Name: "Lion Air"}
	garuda := &models.Airline{Base: models.Base{ID: "al-2"}, Name: "Garuda Indonesia"}

	details := []models.SupervisionReportDetail{
		{AirportID: "ap-b", Airport: airportB, AirlineID: "al-1", Airline: lion},
		{AirportID: "ap-a", Airport: airportA, AirlineID: "al-2", Airline: garuda},
		{AirportID: "ap-b", Airport: airportB, AirlineID: "al-2", Airline: garuda},
		// Duplicate pairing must collapse.
		{AirportID: "ap-b", Airport: airportB, AirlineID: "al-1", Airline: lion},
	}

	groups := GroupDetails(details)

	require.Len(t, groups, 2)

	// Airports appear in first-seen order, not alphabetically.
	assert.Equal(t, "ap-b", groups[0].AirportID)
	assert.Equal(t, "Bandara Juwata", groups[0].Airport)
	require.Len(t, groups[0].Airlines, 2)
	assert.Equal(t, "Lion Air", groups[0].Airlines[0].Name)
	assert.Equal(t, "Garuda Indonesia", groups[0].Airlines[1].Name)

	assert.Equal(t, "ap-a", groups[1].AirportID)
	require.Len(t, groups[1].Airlines, 1)
	assert.Equal(t, "Garuda Indonesia", groups[1].Airlines[0].Name)
}

func TestGroupDetailsEmpty(t *testing.T) {
	assert.Empty(t, GroupDetails(nil))
}

func TestBuildAirportStatsZeroFills(t *testing.T) {
	airports := []models.Airport{
		{Base: models.Base{ID: "ap-a"}, Name: "Bandara Syamsudin Noor"},
		{Base: models.Base{ID: "ap-b"}, Name: "Bandara Juwata"},
		{Base: models.Base{ID: "ap-c"}, Name: "Bandara Kalimarau"},
	}
	counts := map[string]int64{"ap-b": 4}

	stats := BuildAirportStats(airports, counts)

	require.Len(t, stats, 3)
	assert.Equal(t, int64(0), stats[0].Count)
	assert.Equal(t, int64(4), stats[1].Count)
	assert.Equal(t, int64(0), stats[2].Count)
}

func TestBuildAirlineStatsZeroFills(t *testing.T) {
	airlines := []models.Airline{
		{Base: models.Base{ID: "al-1"}, Name: "Lion Air", Color: "#ED1C24"},
		{Base: models.Base{ID: "al-2"}, Name: "Garuda Indonesia", Color: "#035AA6"},
	}
	counts := map[string]int64{"al-2": 7}

	stats := BuildAirlineStats(airlines, counts)

	require.Len(t, stats, 2)
	assert.Equal(t, "Lion Air", stats[0].Name)
	assert.Equal(t, "#ED1C24", stats[0].Color)
	assert.Equal(t, int64(0), stats[0].Count)
	assert.Equal(t, int64(7), stats[1].Count)
}

func TestExpandLocationsCartesianProduct(t *testing.T) {
	details := expandLocations("rep-1", []LocationInput{
		{AirportID: "ap-a", AirlineIDs: []string{"al-1", "al-2"}},
		{AirportID: "ap-b", AirlineIDs: []string{"al-3"}},
	})

	// 2 locations with {2 airlines, 1 airline} yield exactly 3 detail rows.
	require.Len(t, details, 3)

	type pair struct{ airport, airline string }
	got := make([]pair, 0, len(details))
	for _, d := range details {
		assert.Equal(t, "rep-1", d.SupervisionReportID)
		got = append(got, pair{d.AirportID, d.AirlineID})
	}
	assert.ElementsMatch(t, []pair{
		{"ap-a", "al-1"},
		{"ap-a", "al-2"},
		{"ap-b", "al-3"},
	}, got)
}

func TestCreateReportPersistsCartesianDetails(t *testing.T) {
	db, mock := newMockDB(t)
	storage := newTestStorage(t)
	svc := NewReportService(db, storage)
	ctx := context.Background()

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "supervision_reports"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("rep-1"))
	// One batch insert carrying the three detail rows.
	mock.ExpectQuery(`INSERT INTO "supervision_report_details"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).
			AddRow("det-1").AddRow("det-2").AddRow("det-3"))
	mock.ExpectCommit()

	report, err := svc.Create(ctx, CreateReportInput{
		Name:      "Pengawasan Triwulan III",
		StartDate: time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2025, 9, 30, 0, 0, 0, 0, time.UTC),
		FileName:  "laporan.pdf",
		Size:      7,
		Contents:  strings.NewReader("payload"),
		UserID:    "user-1",
		Locations: []LocationInput{
			{AirportID: "ap-a", AirlineIDs: []string{"al-1", "al-2"}},
			{AirportID: "ap-b", AirlineIDs: []string{"al-3"}},
		},
	})
	require.NoError(t, err)
	require.NotNil(t, report)

	stored, listErr := storage.List(ctx, "supervision_reports")
	require.NoError(t, listErr)
	assert.Len(t, stored, 1)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateReportRollsBackAndRemovesArtifact(t *testing.T) {
	db, mock := newMockDB(t)
	storage := newTestStorage(t)
	svc := NewReportService(db, storage)

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "supervision_reports"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("rep-1"))
	mock.ExpectQuery(`INSERT INTO "supervision_report_details"`).
		WillReturnError(assert.AnError)
	mock.ExpectRollback()

	_, err := svc.Create(context.Background(), CreateReportInput{
		Name:      "Pengawasan Triwulan II",
		StartDate: time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC),
		FileName:  "laporan.pdf",
		Size:      7,
		Contents:  strings.NewReader("payload"),
		UserID:    "user-1",
		Locations: []LocationInput{{AirportID: "ap-a", AirlineIDs: []string{"al-1"}}},
	})
	require.Error(t, err)

	// The stored artifact must not survive the failed transaction.
	stored, listErr := storage.List(context.Background(), "supervision_reports")
	require.NoError(t, listErr)
	assert.Empty(t, stored)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReportDownloadUsesDisplayName(t *testing.T) {
	db, _ := newMockDB(t)
	storage := newTestStorage(t)
	svc := NewReportService(db, storage)
	ctx := context.Background()

	report := &models.SupervisionReport{
		Base:     models.Base{ID: "rep-1"},
		Name:     "Laporan Pengawasan Triwulan II",
		FilePath: "supervision_reports/1700000000_upload.pdf",
	}
	require.NoError(t, storage.Save(ctx, report.FilePath, strings.NewReader("payload")))

	reader, name, err := svc.Download(ctx, report, "")
	require.NoError(t, err)
	defer reader.Close()

	// Reports download under their display name, not the stored name.
	assert.Equal(t, "Laporan Pengawasan Triwulan II.pdf", name)
}

func TestCreateReportRequiresLocations(t *testing.T) {
	db, _ := newMockDB(t)
	storage := newTestStorage(t)
	svc := NewReportService(db, storage)

	_, err := svc.Create(context.Background(), CreateReportInput{
		Name:     "Pengawasan",
		FileName: "laporan.pdf",
		Contents: strings.NewReader("payload"),
	})
	assert.ErrorIs(t, err, ErrNoLocations)
}

func TestCreateReportRequiresUpload(t *testing.T) {
	db, _ := newMockDB(t)
	storage := newTestStorage(t)
	svc := NewReportService(db, storage)

	_, err := svc.Create(context.Background(), CreateReportInput{
		Name:      "Pengawasan",
		Locations: []LocationInput{{AirportID: "ap-a", AirlineIDs: []string{"al-1"}}},
	})
	assert.ErrorIs(t, err, ErrNoUpload)
}
