package handlers

import (
	"fmt"
	"net/http"

	"aeroportal/internal/models"
	"aeroportal/internal/services"
	"aeroportal/internal/utils/logger"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

// DashboardHandler serves the landing page aggregate plus the shortcut link
// and announcement mutations that live on it.
type DashboardHandler struct {
	db            *gorm.DB
	storage       services.Storage
	files         *services.FileService
	links         services.BaseService[models.Link]
	announcements services.BaseService[models.Announcement]
	log           *logger.Logger
}

func NewDashboardHandler(db *gorm.DB, storage services.Storage, files *services.FileService) *DashboardHandler {
	return &DashboardHandler{
		db:            db,
		storage:       storage,
		files:         files,
		links:         services.NewBaseService(db, models.Link{}),
		announcements: services.NewBaseService(db, models.Announcement{}),
		log:           logger.New("DashboardHandler"),
	}
}

// Index returns everything the landing page renders in one call: shortcut
// links, the five newest files, the active announcement and the formatted
// total stored size.
// @Summary Dashboard aggregate
// @Tags dashboard
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /dashboard [get]
func (h *DashboardHandler) Index(c echo.Context) error {
	ctx := c.Request().Context()

	links, err := h.links.List(ctx, "category asc, title asc")
	if err != nil {
		return respondError(c, http.StatusInternalServerError, "Failed to load links")
	}

	recentFiles, err := h.files.Recent(ctx, 5)
	if err != nil {
		return respondError(c, http.StatusInternalServerError, "Failed to load files")
	}

	totalSize, err := h.files.TotalSize(ctx)
	if err != nil {
		return respondError(c, http.StatusInternalServerError, "Failed to load files")
	}

	var announcement *models.Announcement
	var active models.Announcement
	err = h.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("created_at desc").
		First(&active).Error
	if err == nil {
		announcement = &active
	} else if err != gorm.ErrRecordNotFound {
		return respondError(c, http.StatusInternalServerError, "Failed to load announcement")
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"links":        links,
		"recent_files": recentFiles,
		"announcement": announcement,
		"total_size":   services.FormatSize(totalSize),
	})
}

type LinkRequest struct {
	Title       string `json:"title" form:"title" validate:"required,max=255"`
	URL         string `json:"url" form:"url" validate:"required,url"`
	Category    string `json:"category" form:"category" validate:"required,max=255"`
	Icon        string `json:"icon" form:"icon"`
	Description string `json:"description" form:"description"`
}

// StoreLink creates a shortcut link, optionally with an uploaded icon.
// @Summary Create shortcut link
// @Tags dashboard
// @Accept multipart/form-data
// @Produce json
// @Success 201 {object} map[string]string
// @Router /links [post]
func (h *DashboardHandler) StoreLink(c echo.Context) error {
	user, err := requireUser(c)
	if err != nil {
		return err
	}
	if user.IsReadOnly() {
		return respondRestriction(c, msgReadOnly)
	}

	var req LinkRequest
	if err := c.Bind(&req); err != nil {
		return respondError(c, http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(req); err != nil {
		return respondError(c, http.StatusBadRequest, err.Error())
	}

	link := &models.Link{
		Title:       req.Title,
		URL:         req.URL,
		Category:    req.Category,
		Icon:        req.Icon,
		Description: req.Description,
	}

	iconPath, err := h.saveIcon(c)
	if err != nil {
		return err
	}
	link.IconPath = iconPath

	if err := h.links.Create(c.Request().Context(), link); err != nil {
		return respondError(c, http.StatusInternalServerError, "Failed to create link")
	}

	return respondCreated(c, "Link created successfully.")
}

// UpdateLink edits a shortcut link. A new icon replaces and removes the old
// artifact.
// @Summary Update shortcut link
// @Tags dashboard
// @Accept multipart/form-data
// @Produce json
// @Success 200 {object} map[string]string
// @Router /links/{id} [put]
func (h *DashboardHandler) UpdateLink(c echo.Context) error {
	user, err := requireUser(c)
	if err != nil {
		return err
	}
	if user.IsReadOnly() {
		return respondRestriction(c, msgReadOnly)
	}

	ctx := c.Request().Context()
	link, err := h.links.Get(ctx, c.Param("id"))
	if err != nil {
		return respondError(c, http.StatusNotFound, "Link not found")
	}

	var req LinkRequest
	if err := c.Bind(&req); err != nil {
		return respondError(c, http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(req); err != nil {
		return respondError(c, http.StatusBadRequest, err.Error())
	}

	link.Title = req.Title
	link.URL = req.URL
	link.Category = req.Category
	link.Icon = req.Icon
	link.Description = req.Description

	iconPath, err := h.saveIcon(c)
	if err != nil {
		return err
	}
	if iconPath != "" {
		if link.IconPath != "" {
			_ = h.storage.Delete(ctx, link.IconPath)
		}
		link.IconPath = iconPath
	}

	if err := h.links.Update(ctx, link.ID, link); err != nil {
		return respondError(c, http.StatusInternalServerError, "Failed to update link")
	}

	return respondSuccess(c, "Link updated successfully.")
}

// DestroyLink removes a shortcut link and its icon artifact.
// @Summary Delete shortcut link
// @Tags dashboard
// @Produce json
// @Success 200 {object} map[string]string
// @Router /links/{id} [delete]
func (h *DashboardHandler) DestroyLink(c echo.Context) error {
	user, err := requireUser(c)
	if err != nil {
		return err
	}
	if user.IsReadOnly() {
		return respondRestriction(c, msgReadOnly)
	}

	ctx := c.Request().Context()
	link, err := h.links.Get(ctx, c.Param("id"))
	if err != nil {
		return respondError(c, http.StatusNotFound, "Link not found")
	}

	if link.IconPath != "" {
		_ = h.storage.Delete(ctx, link.IconPath)
	}

	if err := h.links.Delete(ctx, link.ID); err != nil {
		return respondError(c, http.StatusInternalServerError, "Failed to delete link")
	}

	return respondSuccess(c, "Link deleted successfully.")
}

func (h *DashboardHandler) saveIcon(c echo.Context) (string, error) {
	header, err := formUpload(c, "icon_file", maxImageUploadBytes)
	if err != nil || header == nil {
		return "", err
	}

	src, err := openUpload(header)
	if err != nil {
		return "", echo.NewHTTPError(http.StatusBadRequest, "Failed to read uploaded icon")
	}
	defer src.Close()

	storedPath := fmt.Sprintf("links/%s", services.StoredFilename(header.Filename))
	if err := h.storage.Save(c.Request().Context(), storedPath, src); err != nil {
		h.log.Error("Failed to store icon", err)
		return "", echo.NewHTTPError(http.StatusInternalServerError, "Failed to store icon")
	}
	return storedPath, nil
}

type AnnouncementRequest struct {
	Content string `json:"content" form:"content" validate:"required"`
}

// StoreAnnouncement publishes a new announcement. Only one announcement is
// active at a time, so previous ones are deactivated in the same transaction.
// @Summary Publish announcement
// @Tags dashboard
// @Accept json
// @Produce json
// @Success 201 {object} map[string]string
// @Router /announcements [post]
func (h *DashboardHandler) StoreAnnouncement(c echo.Context) error {
	user, err := requireUser(c)
	if err != nil {
		return err
	}
	if user.IsReadOnly() {
		return respondRestriction(c, msgReadOnly)
	}

	var req AnnouncementRequest
	if err := c.Bind(&req); err != nil {
		return respondError(c, http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(req); err != nil {
		return respondError(c, http.StatusBadRequest, err.Error())
	}

	ctx := c.Request().Context()
	err = h.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Announcement{}).
			Where("is_active = ?", true).
			Update("is_active", false).Error; err != nil {
			return err
		}
		return tx.Create(&models.Announcement{Content: req.Content, IsActive: true}).Error
	})
	if err != nil {
		return respondError(c, http.StatusInternalServerError, "Failed to publish announcement")
	}

	return respondCreated(c, "Announcement published successfully.")
}

// DestroyAnnouncement removes an announcement.
// @Summary Delete announcement
// @Tags dashboard
// @Produce json
// @Success 200 {object} map[string]string
// @Router /announcements/{id} [delete]
func (h *DashboardHandler) DestroyAnnouncement(c echo.Context) error {
	user, err := requireUser(c)
	if err != nil {
		return err
	}
	if user.IsReadOnly() {
		return respondRestriction(c, msgReadOnly)
	}

	ctx := c.Request().Context()
	announcement, err := h.announcements.Get(ctx, c.Param("id"))
	if err != nil {
		return respondError(c, http.StatusNotFound, "Announcement not found")
	}

	if err := h.announcements.Delete(ctx, announcement.ID); err != nil {
		return respondError(c, http.StatusInternalServerError, "Failed to delete announcement")
	}

	return respondSuccess(c, "Announcement deleted successfully.")
}
