// Package view holds the board's UI state: the two datasets, the selected
// tab, the rank filter and the deadline sort order
package view

import (
	"io"

	"github.com/sysconf-tracker/sysconf/internal/models"
	"github.com/sysconf-tracker/sysconf/internal/render"
	"github.com/sysconf-tracker/sysconf/internal/utils"
)

// Board is the view-model behind the conference table. It is not safe for
// concurrent mutation; the web server builds one per request
type Board struct {
	cfp   models.Dataset
	dates models.Dataset
	tab   models.TabMode
	rank  string
	order models.SortOrder
}

// NewBoard starts on the CFP tab, showing every rank, earliest deadline first
func NewBoard(cfp, dates models.Dataset) *Board {
	return &Board{
		cfp:   cfp,
		dates: dates,
		tab:   models.TabCFP,
		rank:  models.RankAll,
		order: models.SortAsc,
	}
}

// SetDatasets replaces both datasets
func (b *Board) SetDatasets(cfp, dates models.Dataset) {
	b.cfp = cfp
	b.dates = dates
}

// SetTab switches tabs. The value is not validated: anything other than
// TabCFP shows the dates dataset
func (b *Board) SetTab(tab models.TabMode) {
	b.tab = tab
}

// SetRank selects the core_rank filter. An empty rank means RankAll
func (b *Board) SetRank(rank string) {
	if rank == "" {
		rank = models.RankAll
	}
	b.rank = rank
}

// SetSortOrder selects the deadline order used on the CFP tab
func (b *Board) SetSortOrder(order models.SortOrder) {
	b.order = order
}

// Tab returns the selected tab
func (b *Board) Tab() models.TabMode {
	return b.tab
}

// Rank returns the selected rank filter
func (b *Board) Rank() string {
	return b.rank
}

// SortOrder returns the selected deadline order
func (b *Board) SortOrder() models.SortOrder {
	return b.order
}

// Ranks lists the rank selector's options
func (b *Board) Ranks() []string {
	return utils.Ranks(b.cfp, b.dates)
}

func (b *Board) active() models.Dataset {
	if b.tab == models.TabCFP {
		return b.cfp
	}
	return b.dates
}

// Rows returns the active dataset filtered by rank and, on the CFP tab only,
// sorted by deadline
func (b *Board) Rows() models.Dataset {
	rows := utils.FilterByRank(b.active(), b.rank)
	if b.tab == models.TabCFP {
		rows = utils.SortByDeadline(rows, b.order)
	}
	return rows
}

// Table lays out the current rows for the page template
func (b *Board) Table() render.TableData {
	return render.BuildTable(b.Rows())
}

// Render writes the table for the current state. Each call produces the
// complete container content
func (b *Board) Render(w io.Writer) error {
	return render.Table(w, b.Rows())
}
