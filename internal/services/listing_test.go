package services

import (
	"testing"
	"time"

	"aeroportal/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func listingFixtures() ([]models.File, []models.SupervisionReport) {
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	files := []models.File{
		{
			Base:        models.Base{ID: "f1", CreatedAt: base.Add(1 * time.Hour)},
			DisplayName: "SOP Apron",
			Category:    "SOP",
		},
		{
			Base:        models.Base{ID: "f2", CreatedAt: base.Add(3 * time.Hour)},
			DisplayName: "Juknis Keamanan",
			Category:    "Juknis",
			IsSecure:    true,
		},
	}
	reports := []models.SupervisionReport{
		{
			Base: models.Base{ID: "r1", CreatedAt: base.Add(2 * time.Hour)},
			Name: "Pengawasan Triwulan II",
		},
	}
	return files, reports
}

func TestMergeEntriesOrdersNewestFirst(t *testing.T) {
	files, reports := listingFixtures()

	entries := MergeEntries(files, reports, "")

	require.Len(t, entries, 3)
	assert.Equal(t, "f2", entries[0].ID)
	assert.Equal(t, "r1", entries[1].ID)
	assert.Equal(t, "f1", entries[2].ID)

	for i := 1; i < len(entries); i++ {
		assert.False(t, entries[i-1].CreatedAt.Before(entries[i].CreatedAt))
	}
}

func TestMergeEntriesSourceDiscriminator(t *testing.T) {
	files, reports := listingFixtures()

	entries := MergeEntries(files, reports, "")

	sources := map[string]string{}
	for _, entry := range entries {
		sources[entry.ID] = entry.Source
	}
	assert.Equal(t, SourceFile, sources["f1"])
	assert.Equal(t, SourceFile, sources["f2"])
	assert.Equal(t, SourceSupervisionReport, sources["r1"])
}

func TestMergeEntriesCategoryFilter(t *testing.T) {
	files, reports := listingFixtures()

	t.Run("plain category excludes reports", func(t *testing.T) {
		entries := MergeEntries(files, reports, "SOP")

		require.Len(t, entries, 1)
		assert.Equal(t, "f1", entries[0].ID)
	})

	t.Run("report category includes reports", func(t *testing.T) {
		entries := MergeEntries(files, reports, models.ReportCategory)

		require.Len(t, entries, 1)
		assert.Equal(t, "r1", entries[0].ID)
		assert.Equal(t, models.ReportCategory, entries[0].Category)
	})

	t.Run("unknown category yields empty listing", func(t *testing.T) {
		entries := MergeEntries(files, reports, "Tidak Ada")

		assert.Empty(t, entries)
	})
}

func TestReportEntryCarriesFixedCategory(t *testing.T) {
	_, reports := listingFixtures()

	entry := ReportEntry(reports[0])

	assert.Equal(t, models.ReportCategory, entry.Category)
	assert.Equal(t, SourceSupervisionReport, entry.Source)
}
