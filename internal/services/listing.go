package services

import (
	"sort"
	"time"

	"aeroportal/internal/models"
)

// Source discriminator values for merged listing entries.
const (
	SourceFile              = "file"
	SourceSupervisionReport = "supervision_report"
)

// ListEntry is the common projection over files and supervision reports the
// merged listing serves; consumers branch on Source.
type ListEntry struct {
	Source      string    `json:"source"`
	ID          string    `json:"id"`
	DisplayName string    `json:"display_name"`
	Category    string    `json:"category"`
	Description string    `json:"description,omitempty"`
	URL         string    `json:"url,omitempty"`
	Size        int64     `json:"size"`
	IsSecure    bool      `json:"is_secure"`
	CreatedAt   time.Time `json:"created_at"`
}

// FileEntry adapts a File row into the common projection.
func FileEntry(f models.File) ListEntry {
	return ListEntry{
		Source:      SourceFile,
		ID:          f.ID,
		DisplayName: f.DisplayName,
		Category:    f.Category,
		Description: f.Description,
		URL:         f.PublicURL,
		Size:        f.Size,
		IsSecure:    f.IsSecure,
		CreatedAt:   f.CreatedAt,
	}
}

// ReportEntry adapts a SupervisionReport row into the common projection.
// Reports always carry the fixed report category label.
func ReportEntry(r models.SupervisionReport) ListEntry {
	return ListEntry{
		Source:      SourceSupervisionReport,
		ID:          r.ID,
		DisplayName: r.Name,
		Category:    models.ReportCategory,
		URL:         r.PublicURL,
		Size:        r.FileSize,
		IsSecure:    r.IsSecure,
		CreatedAt:   r.CreatedAt,
	}
}

// MergeEntries filters by category, merges files and reports into one
// sequence and sorts it newest first. Reports only appear when the filter is
// absent or names the fixed report category.
func MergeEntries(files []models.File, reports []models.SupervisionReport, category string) []ListEntry {
	entries := make([]ListEntry, 0, len(files)+len(reports))

	for _, f := range files {
		if category != "" && f.Category != category {
			continue
		}
		entries = append(entries, FileEntry(f))
	}

	if category == "" || category == models.ReportCategory {
		for _, r := range reports {
			entries = append(entries, ReportEntry(r))
		}
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].CreatedAt.After(entries[j].CreatedAt)
	})

	return entries
}
