package handlers

import (
	"fmt"
	"net/http"

	"aeroportal/internal/api/middleware"
	"aeroportal/internal/models"
	"aeroportal/internal/services"
	"aeroportal/internal/utils/logger"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

// ContactHandler serves the contact directory. Listing is gated on the
// access_directory capability; mutations additionally honor read-only mode.
type ContactHandler struct {
	db       *gorm.DB
	storage  services.Storage
	contacts services.BaseService[models.Contact]
	log      *logger.Logger
}

func NewContactHandler(db *gorm.DB, storage services.Storage) *ContactHandler {
	return &ContactHandler{
		db:       db,
		storage:  storage,
		contacts: services.NewBaseService(db, models.Contact{}),
		log:      logger.New("ContactHandler"),
	}
}

// Index lists the directory alphabetically. Authenticated users without the
// access_directory capability receive a restriction, anonymous requests see
// the public listing.
// @Summary List contacts
// @Tags contacts
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /contacts [get]
func (h *ContactHandler) Index(c echo.Context) error {
	if user := middleware.CurrentUser(c); user != nil && !user.Can(models.CapabilityAccessDirectory) {
		return respondRestriction(c, msgNoDirectory)
	}

	contacts, err := h.contacts.List(c.Request().Context(), "name asc")
	if err != nil {
		return respondError(c, http.StatusInternalServerError, "Failed to load contacts")
	}

	return c.JSON(http.StatusOK, map[string]interface{}{"contacts": contacts})
}

type ContactRequest struct {
	Name           string `json:"name" form:"name" validate:"required,max=255"`
	Position       string `json:"position" form:"position" validate:"required,max=255"`
	Phone          string `json:"phone" form:"phone" validate:"required,max=20"`
	Email          string `json:"email" form:"email" validate:"omitempty,email,max=255"`
	Department     string `json:"department" form:"department" validate:"omitempty,max=255"`
	EmployeeID     string `json:"employeeId" form:"employee_id" validate:"omitempty,max=50"`
	Bio            string `json:"bio" form:"bio"`
	Certifications string `json:"certifications" form:"certifications"`
}

// Store creates a contact, optionally with a photo upload.
// @Summary Create contact
// @Tags contacts
// @Accept multipart/form-data
// @Produce json
// @Success 201 {object} map[string]string
// @Router /contacts [post]
func (h *ContactHandler) Store(c echo.Context) error {
	user, err := requireUser(c)
	if err != nil {
		return err
	}
	if !user.Can(models.CapabilityAccessDirectory) {
		return respondRestriction(c, msgNoDirectory)
	}
	if user.IsReadOnly() {
		return respondRestriction(c, msgReadOnly)
	}

	var req ContactRequest
	if err := c.Bind(&req); err != nil {
		return respondError(c, http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(req); err != nil {
		return respondError(c, http.StatusBadRequest, err.Error())
	}

	contact := &models.Contact{
		Name:           req.Name,
		Position:       req.Position,
		Phone:          req.Phone,
		Email:          req.Email,
		Department:     req.Department,
		EmployeeID:     req.EmployeeID,
		Bio:            req.Bio,
		Certifications: req.Certifications,
	}

	photoPath, err := h.savePhoto(c)
	if err != nil {
		return err
	}
	contact.PhotoPath = photoPath

	if err := h.contacts.Create(c.Request().Context(), contact); err != nil {
		return respondError(c, http.StatusInternalServerError, "Failed to create contact")
	}

	return respondCreated(c, "Contact created successfully.")
}

// Update edits a contact. A new photo replaces the old one and removes its
// artifact.
// @Summary Update contact
// @Tags contacts
// @Accept multipart/form-data
// @Produce json
// @Success 200 {object} map[string]string
// @Router /contacts/{id} [put]
func (h *ContactHandler) Update(c echo.Context) error {
	user, err := requireUser(c)
	if err != nil {
		return err
	}
	if !user.Can(models.CapabilityAccessDirectory) {
		return respondRestriction(c, msgNoDirectory)
	}
	if user.IsReadOnly() {
		return respondRestriction(c, msgReadOnly)
	}

	ctx := c.Request().Context()
	contact, err := h.contacts.Get(ctx, c.Param("id"))
	if err != nil {
		return respondError(c, http.StatusNotFound, "Contact not found")
	}

	var req ContactRequest
	if err := c.Bind(&req); err != nil {
		return respondError(c, http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(req); err != nil {
		return respondError(c, http.StatusBadRequest, err.Error())
	}

	contact.Name = req.Name
	contact.Position = req.Position
	contact.Phone = req.Phone
	contact.Email = req.Email
	contact.Department = req.Department
	contact.EmployeeID = req.EmployeeID
	contact.Bio = req.Bio
	contact.Certifications = req.Certifications

	photoPath, err := h.savePhoto(c)
	if err != nil {
		return err
	}
	if photoPath != "" {
		if contact.PhotoPath != "" {
			_ = h.storage.Delete(ctx, contact.PhotoPath)
		}
		contact.PhotoPath = photoPath
	}

	if err := h.contacts.Update(ctx, contact.ID, contact); err != nil {
		return respondError(c, http.StatusInternalServerError, "Failed to update contact")
	}

	return respondSuccess(c, "Contact updated successfully.")
}

// Destroy removes a contact and its photo artifact.
// @Summary Delete contact
// @Tags contacts
// @Produce json
// @Success 200 {object} map[string]string
// @Router /contacts/{id} [delete]
func (h *ContactHandler) Destroy(c echo.Context) error {
	user, err := requireUser(c)
	if err != nil {
		return err
	}
	if !user.Can(models.CapabilityAccessDirectory) {
		return respondRestriction(c, msgNoDirectory)
	}
	if user.IsReadOnly() {
		return respondRestriction(c, msgReadOnly)
	}

	ctx := c.Request().Context()
	contact, err := h.contacts.Get(ctx, c.Param("id"))
	if err != nil {
		return respondError(c, http.StatusNotFound, "Contact not found")
	}

	if contact.PhotoPath != "" {
		_ = h.storage.Delete(ctx, contact.PhotoPath)
	}

	if err := h.contacts.Delete(ctx, contact.ID); err != nil {
		return respondError(c, http.StatusInternalServerError, "Failed to delete contact")
	}

	return respondSuccess(c, "Contact deleted successfully.")
}

func (h *ContactHandler) savePhoto(c echo.Context) (string, error) {
	header, err := formUpload(c, "photo", maxImageUploadBytes)
	if err != nil || header == nil {
		return "", err
	}

	src, err := openUpload(header)
	if err != nil {
		return "", echo.NewHTTPError(http.StatusBadRequest, "Failed to read uploaded photo")
	}
	defer src.Close()

	storedPath := fmt.Sprintf("contacts/%s", services.StoredFilename(header.Filename))
	if err := h.storage.Save(c.Request().Context(), storedPath, src); err != nil {
		h.log.Error("Failed to store photo", err)
		return "", echo.NewHTTPError(http.StatusInternalServerError, "Failed to store photo")
	}
	return storedPath, nil
}
