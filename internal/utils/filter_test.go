package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sysconf-tracker/sysconf/internal/models"
)

func cfp(name, rank, deadline string) models.Record {
	return models.NewRecord(
		models.FieldName, name,
		models.FieldCoreRank, rank,
		models.FieldCFPDeadline, deadline,
	)
}

func names(ds models.Dataset) []string {
	out := make([]string, 0, len(ds))
	for _, rec := range ds {
		out = append(out, rec.String(models.FieldName))
	}
	return out
}

func TestFilterByRankAllKeepsEverything(t *testing.T) {
	ds := models.Dataset{
		cfp("OSDI", "A*", "2024-05-01"),
		cfp("FAST", "A", "TBA"),
		cfp("HotOS", "B", ""),
	}

	got := FilterByRank(ds, models.RankAll)
	assert.Equal(t, names(ds), names(got))
}

func TestFilterByRankKeepsMatchingInOrder(t *testing.T) {
	ds := models.Dataset{
		cfp("OSDI", "A*", ""),
		cfp("FAST", "A", ""),
		cfp("SOSP", "A*", ""),
		cfp("ATC", "A", ""),
	}

	assert.Equal(t, []string{"OSDI", "SOSP"}, names(FilterByRank(ds, "A*")))
	assert.Equal(t, []string{"FAST", "ATC"}, names(FilterByRank(ds, "A")))
	assert.Empty(t, FilterByRank(ds, "C"))
}

func TestFilterByRankIgnoresNonStringRanks(t *testing.T) {
	ds := models.Dataset{
		models.NewRecord(models.FieldName, "X", models.FieldCoreRank, 1),
		models.NewRecord(models.FieldName, "Y", models.FieldCoreRank, "1"),
		models.NewRecord(models.FieldName, "Z"),
	}

	assert.Equal(t, []string{"Y"}, names(FilterByRank(ds, "1")))
}

func TestSortByDeadlineAscending(t *testing.T) {
	ds := models.Dataset{
		cfp("June", "A", "2024-06-01"),
		cfp("NoDate", "A", "TBA"),
		cfp("January", "A", "2024-01-01 (AoE)"),
		cfp("Blank", "A", ""),
	}

	got := SortByDeadline(ds, models.SortAsc)
	assert.Equal(t, []string{"January", "June", "NoDate", "Blank"}, names(got))
}

func TestSortByDeadlineDescending(t *testing.T) {
	ds := models.Dataset{
		cfp("January", "A", "2024-01-01"),
		cfp("NoDate", "A", "TBA"),
		cfp("June", "A", "2024-06-01"),
		cfp("Garbage", "A", "soon"),
	}

	got := SortByDeadline(ds, models.SortDesc)
	assert.Equal(t, []string{"NoDate", "Garbage", "June", "January"}, names(got))
}

func TestSortByDeadlineDoesNotMutateInput(t *testing.T) {
	ds := models.Dataset{
		cfp("June", "A", "2024-06-01"),
		cfp("January", "A", "2024-01-01"),
	}

	_ = SortByDeadline(ds, models.SortAsc)
	assert.Equal(t, []string{"June", "January"}, names(ds))
}

func TestRanks(t *testing.T) {
	a := models.Dataset{cfp("OSDI", "A*", ""), cfp("FAST", "A", ""), cfp("X", "A*", "")}
	b := models.Dataset{cfp("HotOS", "B", ""), models.NewRecord(models.FieldName, "N", models.FieldCoreRank, 2)}

	assert.Equal(t, []string{"All", "A*", "A", "B"}, Ranks(a, b))
	assert.Equal(t, []string{"All"}, Ranks())
}
