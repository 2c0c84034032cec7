package handlers

import (
	"io"
	"mime/multipart"
	"net/http"

	"aeroportal/internal/api/middleware"
	"aeroportal/internal/models"

	"github.com/labstack/echo/v4"
)

// Capability restriction messages surfaced as flash text by the client.
const (
	msgReadOnly        = "Action restricted: You are in Read-Only mode."
	msgNoDirectory     = "Access restricted: You do not have permission to access the directory."
	msgNoFiles         = "Access restricted: You do not have permission to access files."
	msgIncorrectSecret = "Incorrect password for secure file."
)

// Per-call upload caps. Portal files have no cap beyond the server body
// limit; images and reports do.
const (
	maxImageUploadBytes  = 2 << 20
	maxReportUploadBytes = 10 << 20
)

// requireUser returns the resolved user or writes a 401.
func requireUser(c echo.Context) (*models.User, error) {
	user := middleware.CurrentUser(c)
	if user == nil {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "Unauthorized")
	}
	return user, nil
}

// formUpload fetches a multipart upload by field name. A missing field
// returns (nil, nil); an oversized upload returns an echo.HTTPError the
// caller can return directly.
func formUpload(c echo.Context, field string, maxBytes int64) (*multipart.FileHeader, error) {
	header, err := c.FormFile(field)
	if err != nil {
		if err == http.ErrMissingFile {
			return nil, nil
		}
		return nil, nil
	}
	if maxBytes > 0 && header.Size > maxBytes {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "Uploaded file exceeds the allowed size")
	}
	return header, nil
}

// openUpload opens the multipart part for streaming into storage.
func openUpload(header *multipart.FileHeader) (io.ReadCloser, error) {
	return header.Open()
}

// formBool reads a checkbox-style form value ("1", "true", "on").
func formBool(c echo.Context, field string) bool {
	switch c.FormValue(field) {
	case "1", "true", "on":
		return true
	}
	return false
}
