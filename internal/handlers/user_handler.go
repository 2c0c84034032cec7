package handlers

import (
	"net/http"

	"aeroportal/internal/models"
	"aeroportal/internal/utils/crypto"
	"aeroportal/internal/utils/logger"

	"github.com/labstack/echo/v4"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// UserHandler manages portal accounts. Every route sits behind the
// superadmin middleware; these handlers assume an authorized caller.
type UserHandler struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewUserHandler(db *gorm.DB) *UserHandler {
	return &UserHandler{db: db, log: logger.New("UserHandler")}
}

// Index lists all accounts, newest first.
// @Summary List users
// @Tags users
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /users [get]
func (h *UserHandler) Index(c echo.Context) error {
	var users []models.User
	if err := h.db.WithContext(c.Request().Context()).
		Order("created_at desc").Find(&users).Error; err != nil {
		return respondError(c, http.StatusInternalServerError, "Failed to load users")
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"users": users})
}

type CreateUserRequest struct {
	Name        string          `json:"name" validate:"required,max=255"`
	Email       string          `json:"email" validate:"required,email,max=255"`
	Password    string          `json:"password" validate:"required,min=8"`
	Role        string          `json:"role" validate:"required,user_role"`
	Permissions map[string]bool `json:"permissions"`
}

// Store creates an account. Missing permission keys are materialized with
// their defaults so the stored map always carries every known capability.
// @Summary Create user
// @Tags users
// @Accept json
// @Produce json
// @Success 201 {object} map[string]string
// @Router /users [post]
func (h *UserHandler) Store(c echo.Context) error {
	var req CreateUserRequest
	if err := c.Bind(&req); err != nil {
		return respondError(c, http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(req); err != nil {
		return respondError(c, http.StatusBadRequest, err.Error())
	}

	ctx := c.Request().Context()

	var count int64
	if err := h.db.WithContext(ctx).Model(&models.User{}).
		Where("email = ?", req.Email).Count(&count).Error; err != nil {
		return respondError(c, http.StatusInternalServerError, "Failed to create user")
	}
	if count > 0 {
		return respondError(c, http.StatusBadRequest, "Email is already in use")
	}

	hashed, err := crypto.HashPassword(req.Password)
	if err != nil {
		return respondError(c, http.StatusInternalServerError, "Failed to create user")
	}

	user := &models.User{
		Name:        req.Name,
		Email:       req.Email,
		Password:    hashed,
		Role:        models.UserRole(req.Role),
		Permissions: models.MergePermissionDefaults(toJSONMap(req.Permissions)),
	}

	if err := h.db.WithContext(ctx).Create(user).Error; err != nil {
		return respondError(c, http.StatusInternalServerError, "Failed to create user")
	}

	return respondCreated(c, "User created successfully.")
}

type UpdateUserRequest struct {
	Name        string          `json:"name" validate:"required,max=255"`
	Email       string          `json:"email" validate:"required,email,max=255"`
	Password    string          `json:"password" validate:"omitempty,min=8"`
	Role        string          `json:"role" validate:"required,user_role"`
	Permissions map[string]bool `json:"permissions"`
}

// Update edits an account. The password only changes when one is supplied.
// @Summary Update user
// @Tags users
// @Accept json
// @Produce json
// @Success 200 {object} map[string]string
// @Router /users/{id} [put]
func (h *UserHandler) Update(c echo.Context) error {
	var req UpdateUserRequest
	if err := c.Bind(&req); err != nil {
		return respondError(c, http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(req); err != nil {
		return respondError(c, http.StatusBadRequest, err.Error())
	}

	ctx := c.Request().Context()

	var user models.User
	if err := h.db.WithContext(ctx).First(&user, "id = ?", c.Param("id")).Error; err != nil {
		return respondError(c, http.StatusNotFound, "User not found")
	}

	var count int64
	if err := h.db.WithContext(ctx).Model(&models.User{}).
		Where("email = ? AND id <> ?", req.Email, user.ID).Count(&count).Error; err != nil {
		return respondError(c, http.StatusInternalServerError, "Failed to update user")
	}
	if count > 0 {
		return respondError(c, http.StatusBadRequest, "Email is already in use")
	}

	user.Name = req.Name
	user.Email = req.Email
	user.Role = models.UserRole(req.Role)
	user.Permissions = models.MergePermissionDefaults(toJSONMap(req.Permissions))

	if req.Password != "" {
		hashed, err := crypto.HashPassword(req.Password)
		if err != nil {
			return respondError(c, http.StatusInternalServerError, "Failed to update user")
		}
		user.Password = hashed
	}

	if err := h.db.WithContext(ctx).Save(&user).Error; err != nil {
		return respondError(c, http.StatusInternalServerError, "Failed to update user")
	}

	return respondSuccess(c, "User updated successfully.")
}

// Destroy removes an account. Superadmins cannot delete themselves; their
// auth transactions go with them so stale tokens die immediately.
// @Summary Delete user
// @Tags users
// @Produce json
// @Success 200 {object} map[string]string
// @Router /users/{id} [delete]
func (h *UserHandler) Destroy(c echo.Context) error {
	caller, err := requireUser(c)
	if err != nil {
		return err
	}

	id := c.Param("id")
	if id == caller.ID {
		return respondError(c, http.StatusBadRequest, "You cannot delete your own account!")
	}

	ctx := c.Request().Context()

	var user models.User
	if err := h.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return respondError(c, http.StatusNotFound, "User not found")
	}

	err = h.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", user.ID).
			Delete(&models.AuthTransaction{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.User{}, "id = ?", user.ID).Error
	})
	if err != nil {
		return respondError(c, http.StatusInternalServerError, "Failed to delete user")
	}

	return respondSuccess(c, "User deleted successfully.")
}

func toJSONMap(perms map[string]bool) datatypes.JSONMap {
	out := make(datatypes.JSONMap, len(perms))
	for key, value := range perms {
		out[key] = value
	}
	return out
}
