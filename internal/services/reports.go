package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"aeroportal/internal/models"
	"aeroportal/internal/utils/logger"

	"gorm.io/gorm"
)

var ErrNoLocations = errors.New("at least one location is required")

// ReportService manages supervision reports: transactional creation of a
// report with its airport/airline detail rows, grouped listings, and
// dashboard aggregate counts.
type ReportService struct {
	db      *gorm.DB
	storage Storage
	log     *logger.Logger
}

func NewReportService(db *gorm.DB, storage Storage) *ReportService {
	return &ReportService{
		db:      db,
		storage: storage,
		log:     logger.New("report_service"),
	}
}

// LocationInput selects one airport and the airlines visited there.
type LocationInput struct {
	AirportID  string   `json:"airport_id" validate:"required,uuid"`
	AirlineIDs []string `json:"airlines" validate:"required,min=1,dive,uuid"`
}

type CreateReportInput struct {
	Name      string
	StartDate time.Time
	EndDate   time.Time
	IsSecure  bool
	Password  string
	FileName  string
	Size      int64
	Contents  io.Reader
	UserID    string
	Locations []LocationInput
}

// Create stores the artifact and then writes the report row together with
// the airport×airline cartesian detail rows in a single transaction. Any
// failure rolls the rows back and removes the artifact again.
func (s *ReportService) Create(ctx context.Context, in CreateReportInput) (*models.SupervisionReport, error) {
	if in.Contents == nil {
		return nil, ErrNoUpload
	}
	if len(in.Locations) == 0 {
		return nil, ErrNoLocations
	}

	storedPath := fmt.Sprintf("supervision_reports/%s", StoredFilename(in.FileName))
	if err := s.storage.Save(ctx, storedPath, in.Contents); err != nil {
		return nil, s.log.Error("Failed to store artifact", err)
	}

	passwordHash, err := HashResourcePassword(in.IsSecure, in.Password)
	if err != nil {
		return nil, err
	}

	report := &models.SupervisionReport{
		Name:      in.Name,
		FilePath:  storedPath,
		FileSize:  in.Size,
		StartDate: in.StartDate,
		EndDate:   in.EndDate,
		IsSecure:  in.IsSecure,
		Password:  passwordHash,
		UserID:    in.UserID,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(report).Error; err != nil {
			return err
		}

		details := expandLocations(report.ID, in.Locations)
		return tx.Create(&details).Error
	})
	if err != nil {
		// No partial report may survive, on disk or in the database.
		_ = s.storage.Delete(ctx, storedPath)
		return nil, err
	}

	return report, nil
}

// expandLocations builds one detail row per (airport, airline) pairing, the
// cartesian product within each location.
func expandLocations(reportID string, locations []LocationInput) []models.SupervisionReportDetail {
	var details []models.SupervisionReportDetail
	for _, location := range locations {
		for _, airlineID := range location.AirlineIDs {
			details = append(details, models.SupervisionReportDetail{
				SupervisionReportID: reportID,
				AirportID:           location.AirportID,
				AirlineID:           airlineID,
			})
		}
	}
	return details
}

func (s *ReportService) Get(ctx context.Context, id string) (*models.SupervisionReport, error) {
	var report models.SupervisionReport
	if err := s.db.WithContext(ctx).First(&report, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &report, nil
}

// LocationGroup is one airport with the distinct airlines visited there.
type LocationGroup struct {
	AirportID string       `json:"airport_id"`
	Airport   string       `json:"airport"`
	Airlines  []AirlineRef `json:"airlines"`
}

type AirlineRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// GroupDetails groups detail rows by airport in first-seen order; each
// group lists its distinct airlines in first-seen order.
func GroupDetails(details []models.SupervisionReportDetail) []LocationGroup {
	var groups []LocationGroup
	index := make(map[string]int)
	seen := make(map[string]map[string]bool)

	for _, detail := range details {
		i, ok := index[detail.AirportID]
		if !ok {
			group := LocationGroup{AirportID: detail.AirportID}
			if detail.Airport != nil {
				group.Airport = detail.Airport.Name
			}
			groups = append(groups, group)
			i = len(groups) - 1
			index[detail.AirportID] = i
			seen[detail.AirportID] = make(map[string]bool)
		}

		if seen[detail.AirportID][detail.AirlineID] {
			continue
		}
		seen[detail.AirportID][detail.AirlineID] = true

		ref := AirlineRef{ID: detail.AirlineID}
		if detail.Airline != nil {
			ref.Name = detail.Airline.Name
		}
		groups[i].Airlines = append(groups[i].Airlines, ref)
	}

	return groups
}

// ReportView is the listing projection consumed by the reports page.
type ReportView struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	FileURL   string          `json:"file_path"`
	FileSize  string          `json:"file_size"`
	StartDate string          `json:"start_date"`
	EndDate   string          `json:"end_date"`
	IsSecure  bool            `json:"is_secure"`
	Locations []LocationGroup `json:"locations"`
	Modified  string          `json:"modified"`
}

// List returns all reports newest first, each with its grouped locations.
func (s *ReportService) List(ctx context.Context) ([]ReportView, error) {
	var reports []models.SupervisionReport
	err := s.db.WithContext(ctx).
		Preload("Details.Airport").
		Preload("Details.Airline").
		Preload("User").
		Order("created_at desc").
		Find(&reports).Error
	if err != nil {
		return nil, err
	}

	views := make([]ReportView, 0, len(reports))
	for _, report := range reports {
		views = append(views, ReportView{
			ID:        report.ID,
			Name:      report.Name,
			FileURL:   report.PublicURL,
			FileSize:  FormatSize(report.FileSize),
			StartDate: report.StartDate.Format("2006-01-02"),
			EndDate:   report.EndDate.Format("2006-01-02"),
			IsSecure:  report.IsSecure,
			Locations: GroupDetails(report.Details),
			Modified:  report.UpdatedAt.Format("02 Jan 2006, 15:04"),
		})
	}
	return views, nil
}

// ListAll returns reports without the view projection (merged listing input).
func (s *ReportService) ListAll(ctx context.Context) ([]models.SupervisionReport, error) {
	var reports []models.SupervisionReport
	if err := s.db.WithContext(ctx).Order("created_at desc").Find(&reports).Error; err != nil {
		return nil, err
	}
	return reports, nil
}

// AirportStat carries a reference row with its detail reference count;
// zero-count airports are included.
type AirportStat struct {
	Name  string `json:"name"`
	Count int64  `json:"count"`
}

type AirlineStat struct {
	Name  string `json:"name"`
	Color string `json:"color"`
	Count int64  `json:"count"`
}

// BuildAirportStats zero-fills counts so every airport appears.
func BuildAirportStats(airports []models.Airport, counts map[string]int64) []AirportStat {
	stats := make([]AirportStat, 0, len(airports))
	for _, airport := range airports {
		stats = append(stats, AirportStat{
			Name:  airport.Name,
			Count: counts[airport.ID],
		})
	}
	return stats
}

// BuildAirlineStats zero-fills counts so every airline appears.
func BuildAirlineStats(airlines []models.Airline, counts map[string]int64) []AirlineStat {
	stats := make([]AirlineStat, 0, len(airlines))
	for _, airline := range airlines {
		stats = append(stats, AirlineStat{
			Name:  airline.Name,
			Color: airline.Color,
			Count: counts[airline.ID],
		})
	}
	return stats
}

type refCount struct {
	ID    string
	Count int64
}

func (s *ReportService) detailCounts(ctx context.Context, column string) (map[string]int64, error) {
	var rows []refCount
	err := s.db.WithContext(ctx).
		Model(&models.SupervisionReportDetail{}).
		Select(fmt.Sprintf("%s AS id, COUNT(*) AS count", column)).
		Group(column).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.ID] = row.Count
	}
	return counts, nil
}

// AirportStats counts detail references per airport across all reports.
func (s *ReportService) AirportStats(ctx context.Context) ([]AirportStat, error) {
	var airports []models.Airport
	if err := s.db.WithContext(ctx).Order("name asc").Find(&airports).Error; err != nil {
		return nil, err
	}
	counts, err := s.detailCounts(ctx, "airport_id")
	if err != nil {
		return nil, err
	}
	return BuildAirportStats(airports, counts), nil
}

// AirlineStats counts detail references per airline across all reports.
func (s *ReportService) AirlineStats(ctx context.Context) ([]AirlineStat, error) {
	var airlines []models.Airline
	if err := s.db.WithContext(ctx).Order("name asc").Find(&airlines).Error; err != nil {
		return nil, err
	}
	counts, err := s.detailCounts(ctx, "airline_id")
	if err != nil {
		return nil, err
	}
	return BuildAirlineStats(airlines, counts), nil
}

// VerifyPassword mirrors FileService.VerifyPassword for reports.
func (s *ReportService) VerifyPassword(report *models.SupervisionReport, password string) bool {
	return VerifyResourcePassword(report.IsSecure, report.Password, password)
}

// Download re-checks the password and streams the artifact. Reports download
// under their display name with the stored extension.
func (s *ReportService) Download(ctx context.Context, report *models.SupervisionReport, password string) (io.ReadCloser, string, error) {
	if !VerifyResourcePassword(report.IsSecure, report.Password, password) {
		return nil, "", ErrIncorrectPassword
	}

	exists, err := s.storage.Exists(ctx, report.FilePath)
	if err != nil {
		return nil, "", err
	}
	if !exists {
		return nil, "", ErrArtifactMissing
	}

	reader, err := s.storage.Open(ctx, report.FilePath)
	if err != nil {
		return nil, "", err
	}

	name := report.Name + path.Ext(report.FilePath)
	name = strings.TrimSuffix(name, ".")
	return reader, name, nil
}

// Delete removes artifact, detail rows and the report row. A missing
// artifact is not an error.
func (s *ReportService) Delete(ctx context.Context, report *models.SupervisionReport) error {
	if err := s.storage.Delete(ctx, report.FilePath); err != nil {
		return s.log.Error("Failed to delete artifact", err)
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("supervision_report_id = ?", report.ID).
			Delete(&models.SupervisionReportDetail{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.SupervisionReport{}, "id = ?", report.ID).Error
	})
}
