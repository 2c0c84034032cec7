package handlers

import (
	"errors"
	"net/http"

	"aeroportal/internal/api/middleware"
	"aeroportal/internal/models"
	"aeroportal/internal/services"
	"aeroportal/internal/utils/logger"

	"github.com/labstack/echo/v4"
)

// FileHandler serves the file repository: the merged file/report listing,
// uploads, password-gated downloads and deletion.
type FileHandler struct {
	files   *services.FileService
	reports *services.ReportService
	log     *logger.Logger
}

func NewFileHandler(files *services.FileService, reports *services.ReportService) *FileHandler {
	return &FileHandler{
		files:   files,
		reports: reports,
		log:     logger.New("FileHandler"),
	}
}

// Index returns the merged file and supervision report listing, newest
// first, optionally filtered by category. Authenticated users without the
// access_files capability receive a restriction.
// @Summary List files and reports
// @Tags files
// @Produce json
// @Param category query string false "Category filter"
// @Success 200 {object} map[string]interface{}
// @Router /files [get]
func (h *FileHandler) Index(c echo.Context) error {
	if user := middleware.CurrentUser(c); user != nil && !user.Can(models.CapabilityAccessFiles) {
		return respondRestriction(c, msgNoFiles)
	}

	ctx := c.Request().Context()

	files, err := h.files.List(ctx)
	if err != nil {
		return respondError(c, http.StatusInternalServerError, "Failed to load files")
	}
	reports, err := h.reports.ListAll(ctx)
	if err != nil {
		return respondError(c, http.StatusInternalServerError, "Failed to load reports")
	}

	totalSize, err := h.files.TotalSize(ctx)
	if err != nil {
		return respondError(c, http.StatusInternalServerError, "Failed to load files")
	}

	entries := services.MergeEntries(files, reports, c.QueryParam("category"))

	return c.JSON(http.StatusOK, map[string]interface{}{
		"entries":    entries,
		"total_size": services.FormatSize(totalSize),
	})
}

// Store uploads a file with its metadata. Secure files require a password of
// at least four characters; the pairing is checked here because the payload
// is multipart.
// @Summary Upload file
// @Tags files
// @Accept multipart/form-data
// @Produce json
// @Success 201 {object} map[string]string
// @Router /files [post]
func (h *FileHandler) Store(c echo.Context) error {
	user, err := requireUser(c)
	if err != nil {
		return err
	}
	if !user.Can(models.CapabilityAccessFiles) {
		return respondRestriction(c, msgNoFiles)
	}
	if user.IsReadOnly() {
		return respondRestriction(c, msgReadOnly)
	}

	displayName := c.FormValue("display_name")
	category := c.FormValue("category")
	if displayName == "" || category == "" {
		return respondError(c, http.StatusBadRequest, "Display name and category are required")
	}

	isSecure := formBool(c, "is_secure")
	password := c.FormValue("password")
	if isSecure && len(password) < services.MinSecurePasswordLen {
		return respondError(c, http.StatusBadRequest, "Secure files require a password of at least 4 characters")
	}

	header, err := formUpload(c, "file", 0)
	if err != nil {
		return err
	}
	if header == nil {
		return respondError(c, http.StatusBadRequest, "A file upload is required")
	}

	src, err := openUpload(header)
	if err != nil {
		return respondError(c, http.StatusBadRequest, "Failed to read uploaded file")
	}
	defer src.Close()

	_, err = h.files.Create(c.Request().Context(), services.CreateFileInput{
		DisplayName: displayName,
		Category:    category,
		Description: c.FormValue("description"),
		IsSecure:    isSecure,
		Password:    password,
		FileName:    header.Filename,
		Size:        header.Size,
		Contents:    src,
	})
	if err != nil {
		return respondError(c, http.StatusInternalServerError, "Failed to store file")
	}

	return respondCreated(c, "File uploaded successfully.")
}

// Download streams the artifact. Secure files re-check the password on every
// call; there is no unlock state to replay.
// @Summary Download file
// @Tags files
// @Produce octet-stream
// @Param password formData string false "Password for secure files"
// @Success 200 {file} binary
// @Failure 403 {object} map[string]string "Incorrect password"
// @Failure 404 {object} map[string]string "Artifact missing"
// @Router /files/{id}/download [post]
func (h *FileHandler) Download(c echo.Context) error {
	user, err := requireUser(c)
	if err != nil {
		return err
	}
	if !user.Can(models.CapabilityAccessFiles) {
		return respondRestriction(c, msgNoFiles)
	}

	ctx := c.Request().Context()
	file, err := h.files.Get(ctx, c.Param("id"))
	if err != nil {
		return respondError(c, http.StatusNotFound, "File not found")
	}

	reader, name, err := h.files.Download(ctx, file, c.FormValue("password"))
	if err != nil {
		switch {
		case errors.Is(err, services.ErrIncorrectPassword):
			return respondError(c, http.StatusForbidden, msgIncorrectSecret)
		case errors.Is(err, services.ErrArtifactMissing):
			return respondError(c, http.StatusNotFound, "File not found.")
		default:
			return respondError(c, http.StatusInternalServerError, "Failed to download file")
		}
	}
	defer reader.Close()

	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+name+`"`)
	return c.Stream(http.StatusOK, "application/octet-stream", reader)
}

// VerifyPassword is the stateless preview-unlock check. It reports validity
// only; the download re-checks independently.
// @Summary Verify secure file password
// @Tags files
// @Accept json
// @Produce json
// @Success 200 {object} map[string]bool
// @Failure 403 {object} map[string]bool "Incorrect password"
// @Router /files/{id}/verify-password [post]
func (h *FileHandler) VerifyPassword(c echo.Context) error {
	user, err := requireUser(c)
	if err != nil {
		return err
	}
	if !user.Can(models.CapabilityAccessFiles) {
		return respondRestriction(c, msgNoFiles)
	}

	var req struct {
		Password string `json:"password" form:"password"`
	}
	if err := c.Bind(&req); err != nil {
		return respondError(c, http.StatusBadRequest, err.Error())
	}

	file, err := h.files.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return respondError(c, http.StatusNotFound, "File not found")
	}

	if !h.files.VerifyPassword(file, req.Password) {
		return c.JSON(http.StatusForbidden, map[string]bool{"valid": false})
	}
	return c.JSON(http.StatusOK, map[string]bool{"valid": true})
}

// Destroy removes the artifact and the metadata row.
// @Summary Delete file
// @Tags files
// @Produce json
// @Success 200 {object} map[string]string
// @Router /files/{id} [delete]
func (h *FileHandler) Destroy(c echo.Context) error {
	user, err := requireUser(c)
	if err != nil {
		return err
	}
	if !user.Can(models.CapabilityAccessFiles) {
		return respondRestriction(c, msgNoFiles)
	}
	if user.IsReadOnly() {
		return respondRestriction(c, msgReadOnly)
	}

	ctx := c.Request().Context()
	file, err := h.files.Get(ctx, c.Param("id"))
	if err != nil {
		return respondError(c, http.StatusNotFound, "File not found")
	}

	if err := h.files.Delete(ctx, file); err != nil {
		return respondError(c, http.StatusInternalServerError, "Failed to delete file")
	}

	return respondSuccess(c, "File deleted successfully.")
}
