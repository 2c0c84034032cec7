package services

import (
	"regexp"
	"testing"

	"aeroportal/internal/utils/crypto"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeBaseName(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"clean name unchanged", "report_2024.pdf", "report_2024.pdf"},
		{"spaces replaced", "my report.pdf", "my_report.pdf"},
		{"unicode replaced", "laporan pengawasan ✈.pdf", "laporan_pengawasan___.pdf"},
		{"slashes replaced", "../../etc/passwd", ".._.._etc_passwd"},
		{"dots dashes kept", "a.b-c_d", "a.b-c_d"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SanitizeBaseName(tt.in))
		})
	}
}

func TestStoredFilename(t *testing.T) {
	stored := StoredFilename("My Report (final).pdf")

	assert.Regexp(t, regexp.MustCompile(`^\d+_My_Report__final_\.pdf$`), stored)
}

func TestDownloadName(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"strips timestamp prefix", "files/1700000000_report.pdf", "report.pdf"},
		{"no prefix passes through", "files/report.pdf", "report.pdf"},
		{"prefix only falls back to stored name", "files/1700000000_", "1700000000_"},
		{"strips only the first prefix", "files/1700000000_2024_report.pdf", "2024_report.pdf"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DownloadName(tt.in))
		})
	}
}

func TestVerifyResourcePassword(t *testing.T) {
	hash, err := crypto.HashPassword("opensesame")
	require.NoError(t, err)

	tests := []struct {
		name     string
		isSecure bool
		hash     *string
		password string
		want     bool
	}{
		{"non-secure always passes", false, nil, "", true},
		{"non-secure ignores supplied password", false, nil, "whatever", true},
		{"secure with correct password", true, &hash, "opensesame", true},
		{"secure with wrong password", true, &hash, "letmein", false},
		{"secure with empty password", true, &hash, "", false},
		{"secure with nil hash never passes", true, nil, "opensesame", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, VerifyResourcePassword(tt.isSecure, tt.hash, tt.password))
		})
	}
}

func TestHashResourcePassword(t *testing.T) {
	t.Run("non-secure stores no hash", func(t *testing.T) {
		hash, err := HashResourcePassword(false, "ignored")
		require.NoError(t, err)
		assert.Nil(t, hash)
	})

	t.Run("secure hash verifies round trip", func(t *testing.T) {
		hash, err := HashResourcePassword(true, "opensesame")
		require.NoError(t, err)
		require.NotNil(t, hash)

		assert.True(t, VerifyResourcePassword(true, hash, "opensesame"))
		assert.False(t, VerifyResourcePassword(true, hash, "other"))
	})
}

func TestFormatSize(t *testing.T) {
	tests := []struct {
		name  string
		bytes int64
		want  string
	}{
		{"zero", 0, "0 bytes"},
		{"one byte", 1, "1 byte"},
		{"bytes", 512, "512 bytes"},
		{"kilobytes", 2048, "2.00 KB"},
		{"megabytes", 5 * 1048576, "5.00 MB"},
		{"gigabytes", 3 * 1073741824, "3.00 GB"},
		{"just under a kilobyte", 1023, "1023 bytes"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatSize(tt.bytes))
		})
	}
}
