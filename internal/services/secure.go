package services

import (
	"errors"
	"fmt"
	"path"
	"regexp"
	"strings"
	"time"

	"aeroportal/internal/utils/crypto"
)

// MinSecurePasswordLen is enforced at the validation boundary for secure
// uploads; the store itself does not re-check it.
const MinSecurePasswordLen = 4

var (
	// ErrIncorrectPassword is the recoverable outcome of a failed
	// secure-resource password check.
	ErrIncorrectPassword = errors.New("incorrect password for secure file")

	// ErrArtifactMissing signals a metadata row whose artifact is gone
	// from storage.
	ErrArtifactMissing = errors.New("file not found")

	unsafeChars     = regexp.MustCompile(`[^a-zA-Z0-9._-]`)
	timestampPrefix = regexp.MustCompile(`^\d+_`)
)

// SanitizeBaseName replaces every character outside [A-Za-z0-9._-] with an
// underscore.
func SanitizeBaseName(name string) string {
	return unsafeChars.ReplaceAllString(name, "_")
}

// StoredFilename derives the on-disk name for an upload: the sanitized base
// name prefixed with the current unix timestamp so names stay unique but
// human-recognizable.
func StoredFilename(original string) string {
	ext := path.Ext(original)
	base := strings.TrimSuffix(path.Base(original), ext)
	safe := SanitizeBaseName(base)
	return fmt.Sprintf("%d_%s%s", time.Now().Unix(), safe, ext)
}

// DownloadName recovers a client-facing name from a stored path by stripping
// the leading timestamp prefix. Falls back to the full stored name when
// stripping would leave nothing.
func DownloadName(storedPath string) string {
	storageName := path.Base(storedPath)
	name := timestampPrefix.ReplaceAllString(storageName, "")
	if name == "" {
		return storageName
	}
	return name
}

// VerifyResourcePassword checks a supplied password against a secure
// resource. Non-secure resources always pass. Stateless: callers re-run this
// on every download, no unlock state is kept.
func VerifyResourcePassword(isSecure bool, hash *string, password string) bool {
	if !isSecure {
		return true
	}
	if hash == nil || password == "" {
		return false
	}
	return crypto.CheckPassword(*hash, password)
}

// HashResourcePassword returns the stored hash for a secure resource, or nil
// when the resource is not secure.
func HashResourcePassword(isSecure bool, password string) (*string, error) {
	if !isSecure || password == "" {
		return nil, nil
	}
	hashed, err := crypto.HashPassword(password)
	if err != nil {
		return nil, err
	}
	return &hashed, nil
}

// FormatSize renders a byte count the way the report listing shows it.
func FormatSize(bytes int64) string {
	switch {
	case bytes >= 1073741824:
		return fmt.Sprintf("%.2f GB", float64(bytes)/1073741824)
	case bytes >= 1048576:
		return fmt.Sprintf("%.2f MB", float64(bytes)/1048576)
	case bytes >= 1024:
		return fmt.Sprintf("%.2f KB", float64(bytes)/1024)
	case bytes > 1:
		return fmt.Sprintf("%d bytes", bytes)
	case bytes == 1:
		return "1 byte"
	default:
		return "0 bytes"
	}
}
