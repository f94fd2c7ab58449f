package utils

import (
	"sort"
	"time"

	"github.com/sysconf-tracker/sysconf/internal/models"
)

// FilterByRank keeps the records whose core_rank equals rank. RankAll keeps
// everything. Relative order is preserved
func FilterByRank(ds models.Dataset, rank string) models.Dataset {
	if rank == models.RankAll {
		out := make(models.Dataset, len(ds))
		copy(out, ds)
		return out
	}

	out := models.Dataset{}
	for _, rec := range ds {
		// Only string ranks match; a numeric core_rank never equals a selector value.
		if r, ok := stringField(rec, models.FieldCoreRank); ok && r == rank {
			out = append(out, rec)
		}
	}
	return out
}

func stringField(rec models.Record, key string) (string, bool) {
	v, ok := rec.Get(key)
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

type deadlineRow struct {
	rec models.Record
	at  time.Time
	ok  bool
}

// SortByDeadline orders CFP records by parsed cfp_deadline. Records without
// a usable deadline go last when ascending and first when descending; among
// themselves they keep their order
func SortByDeadline(ds models.Dataset, order models.SortOrder) models.Dataset {
	rows := make([]deadlineRow, len(ds))
	for i, rec := range ds {
		at, ok := ParseCFPDate(rec.String(models.FieldCFPDeadline))
		rows[i] = deadlineRow{rec: rec, at: at, ok: ok}
	}

	sort.SliceStable(rows, func(i, j int) bool {
		return compareDeadlines(rows[i], rows[j], order) < 0
	})

	out := make(models.Dataset, len(rows))
	for i, row := range rows {
		out[i] = row.rec
	}
	return out
}

func compareDeadlines(a, b deadlineRow, order models.SortOrder) int {
	asc := order != models.SortDesc
	switch {
	case !a.ok && !b.ok:
		return 0
	case !a.ok:
		if asc {
			return 1
		}
		return -1
	case !b.ok:
		if asc {
			return -1
		}
		return 1
	}

	cmp := a.at.Compare(b.at)
	if !asc {
		cmp = -cmp
	}
	return cmp
}

// Ranks lists RankAll followed by every distinct string core_rank across
// the given datasets, in first-seen order
func Ranks(datasets ...models.Dataset) []string {
	seen := map[string]bool{models.RankAll: true}
	out := []string{models.RankAll}
	for _, ds := range datasets {
		for _, rec := range ds {
			r, ok := stringField(rec, models.FieldCoreRank)
			if !ok || r == "" || seen[r] {
				continue
			}
			seen[r] = true
			out = append(out, r)
		}
	}
	return out
}
