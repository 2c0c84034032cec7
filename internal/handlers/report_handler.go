package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"aeroportal/internal/models"
	"aeroportal/internal/services"
	"aeroportal/internal/utils/logger"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

const dateLayout = "2006-01-02"

// ReportHandler serves supervision reports: the listing with per-airport and
// per-airline aggregates, transactional creation, password-gated downloads
// and deletion.
type ReportHandler struct {
	db      *gorm.DB
	reports *services.ReportService
	log     *logger.Logger
}

func NewReportHandler(db *gorm.DB, reports *services.ReportService) *ReportHandler {
	return &ReportHandler{
		db:      db,
		reports: reports,
		log:     logger.New("ReportHandler"),
	}
}

// Index returns the report listing plus the zero-filled airport and airline
// aggregates and the reference rows the creation form needs.
// @Summary List supervision reports
// @Tags reports
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /supervision-reports [get]
func (h *ReportHandler) Index(c echo.Context) error {
	if _, err := requireUser(c); err != nil {
		return err
	}

	ctx := c.Request().Context()

	views, err := h.reports.List(ctx)
	if err != nil {
		return respondError(c, http.StatusInternalServerError, "Failed to load reports")
	}

	airportStats, err := h.reports.AirportStats(ctx)
	if err != nil {
		return respondError(c, http.StatusInternalServerError, "Failed to load airport stats")
	}
	airlineStats, err := h.reports.AirlineStats(ctx)
	if err != nil {
		return respondError(c, http.StatusInternalServerError, "Failed to load airline stats")
	}

	var airports []models.Airport
	if err := h.db.WithContext(ctx).Order("name asc").Find(&airports).Error; err != nil {
		return respondError(c, http.StatusInternalServerError, "Failed to load airports")
	}
	var airlines []models.Airline
	if err := h.db.WithContext(ctx).Order("name asc").Find(&airlines).Error; err != nil {
		return respondError(c, http.StatusInternalServerError, "Failed to load airlines")
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"reports":       views,
		"airport_stats": airportStats,
		"airline_stats": airlineStats,
		"airports":      airports,
		"airlines":      airlines,
	})
}

// Store creates a report from a multipart payload. The locations field is a
// JSON array of {airport_id, airlines} objects because the rest of the
// payload is form fields.
// @Summary Create supervision report
// @Tags reports
// @Accept multipart/form-data
// @Produce json
// @Success 201 {object} map[string]string
// @Router /supervision-reports [post]
func (h *ReportHandler) Store(c echo.Context) error {
	user, err := requireUser(c)
	if err != nil {
		return err
	}
	if user.IsReadOnly() {
		return respondRestriction(c, msgReadOnly)
	}

	name := c.FormValue("name")
	if name == "" {
		return respondError(c, http.StatusBadRequest, "Report name is required")
	}

	startDate, err := time.Parse(dateLayout, c.FormValue("start_date"))
	if err != nil {
		return respondError(c, http.StatusBadRequest, "Invalid start date")
	}
	endDate, err := time.Parse(dateLayout, c.FormValue("end_date"))
	if err != nil {
		return respondError(c, http.StatusBadRequest, "Invalid end date")
	}
	if endDate.Before(startDate) {
		return respondError(c, http.StatusBadRequest, "End date must not be before start date")
	}

	isSecure := formBool(c, "is_secure")
	password := c.FormValue("password")
	if isSecure && len(password) < services.MinSecurePasswordLen {
		return respondError(c, http.StatusBadRequest, "Secure reports require a password of at least 4 characters")
	}

	var locations []services.LocationInput
	if raw := c.FormValue("locations"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &locations); err != nil {
			return respondError(c, http.StatusBadRequest, "Invalid locations payload")
		}
	}
	if len(locations) == 0 {
		return respondError(c, http.StatusBadRequest, "At least one location is required")
	}
	for _, location := range locations {
		if err := c.Validate(location); err != nil {
			return respondError(c, http.StatusBadRequest, err.Error())
		}
	}

	header, err := formUpload(c, "file", maxReportUploadBytes)
	if err != nil {
		return err
	}
	if header == nil {
		return respondError(c, http.StatusBadRequest, "A report file is required")
	}

	src, err := openUpload(header)
	if err != nil {
		return respondError(c, http.StatusBadRequest, "Failed to read uploaded file")
	}
	defer src.Close()

	_, err = h.reports.Create(c.Request().Context(), services.CreateReportInput{
		Name:      name,
		StartDate: startDate,
		EndDate:   endDate,
		IsSecure:  isSecure,
		Password:  password,
		FileName:  header.Filename,
		Size:      header.Size,
		Contents:  src,
		UserID:    user.ID,
		Locations: locations,
	})
	if err != nil {
		return respondError(c, http.StatusInternalServerError, "Failed to create report")
	}

	return respondCreated(c, "Supervision report created successfully.")
}

// Download streams the report artifact under its display name. Secure
// reports re-check the password on every call.
// @Summary Download supervision report
// @Tags reports
// @Produce octet-stream
// @Param password formData string false "Password for secure reports"
// @Success 200 {file} binary
// @Failure 403 {object} map[string]string "Incorrect password"
// @Failure 404 {object} map[string]string "Artifact missing"
// @Router /supervision-reports/{id}/download [post]
func (h *ReportHandler) Download(c echo.Context) error {
	if _, err := requireUser(c); err != nil {
		return err
	}

	ctx := c.Request().Context()
	report, err := h.reports.Get(ctx, c.Param("id"))
	if err != nil {
		return respondError(c, http.StatusNotFound, "Report not found")
	}

	reader, name, err := h.reports.Download(ctx, report, c.FormValue("password"))
	if err != nil {
		switch {
		case errors.Is(err, services.ErrIncorrectPassword):
			return respondError(c, http.StatusForbidden, msgIncorrectSecret)
		case errors.Is(err, services.ErrArtifactMissing):
			return respondError(c, http.StatusNotFound, "File not found.")
		default:
			return respondError(c, http.StatusInternalServerError, "Failed to download report")
		}
	}
	defer reader.Close()

	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+name+`"`)
	return c.Stream(http.StatusOK, "application/octet-stream", reader)
}

// VerifyPassword is the stateless preview-unlock check for secure reports.
// @Summary Verify secure report password
// @Tags reports
// @Accept json
// @Produce json
// @Success 200 {object} map[string]bool
// @Failure 403 {object} map[string]bool "Incorrect password"
// @Router /supervision-reports/{id}/verify-password [post]
func (h *ReportHandler) VerifyPassword(c echo.Context) error {
	if _, err := requireUser(c); err != nil {
		return err
	}

	var req struct {
		Password string `json:"password" form:"password"`
	}
	if err := c.Bind(&req); err != nil {
		return respondError(c, http.StatusBadRequest, err.Error())
	}

	report, err := h.reports.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return respondError(c, http.StatusNotFound, "Report not found")
	}

	if !h.reports.VerifyPassword(report, req.Password) {
		return c.JSON(http.StatusForbidden, map[string]bool{"valid": false})
	}
	return c.JSON(http.StatusOK, map[string]bool{"valid": true})
}

// Destroy removes the artifact, the detail rows and the report row.
// @Summary Delete supervision report
// @Tags reports
// @Produce json
// @Success 200 {object} map[string]string
// @Router /supervision-reports/{id} [delete]
func (h *ReportHandler) Destroy(c echo.Context) error {
	user, err := requireUser(c)
	if err != nil {
		return err
	}
	if user.IsReadOnly() {
		return respondRestriction(c, msgReadOnly)
	}

	ctx := c.Request().Context()
	report, err := h.reports.Get(ctx, c.Param("id"))
	if err != nil {
		return respondError(c, http.StatusNotFound, "Report not found")
	}

	if err := h.reports.Delete(ctx, report); err != nil {
		return respondError(c, http.StatusInternalServerError, "Failed to delete report")
	}

	return respondSuccess(c, "Supervision report deleted successfully.")
}
