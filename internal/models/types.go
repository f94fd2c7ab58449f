package models

import "strings"

// Field names shared by the generated datasets
const (
	FieldName        = "name"
	FieldCoreRank    = "core_rank"
	FieldCFPDeadline = "cfp_deadline"
)

// RankAll selects every record regardless of core_rank
const RankAll = "All"

// TBA is written by the generator wherever a value could not be found
const TBA = "TBA"

// Dataset is an ordered sequence of records loaded from one JSON array
type Dataset []Record

// TabMode selects which dataset the board shows
type TabMode string

const (
	TabCFP   TabMode = "cfp"
	TabDates TabMode = "dates"
)

// SortOrder is the deadline ordering used on the CFP tab
type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// ParseSortOrder maps a selector value to a SortOrder. Anything but "desc",
// including an absent selector, sorts ascending
func ParseSortOrder(value string) SortOrder {
	if strings.TrimSpace(value) == string(SortDesc) {
		return SortDesc
	}
	return SortAsc
}

// Conference is one entry of the generator's input list
type Conference struct {
	Name     string `json:"name"`
	CoreRank string `json:"core_rank"`
}

// CFPEntry is one row of generated/cfp.json
type CFPEntry struct {
	Name        string `json:"name"`
	CoreRank    string `json:"core_rank"`
	CFPDeadline string `json:"cfp_deadline"`
	CFPURL      string `json:"cfp_url"`
}

// DateEntry is one row of generated/confdates.json
type DateEntry struct {
	Name      string `json:"name"`
	CoreRank  string `json:"core_rank"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	Location  string `json:"location"`
	Homepage  string `json:"homepage"`
}

// ScrapeProgress represents the progress of a scraping operation
type ScrapeProgress struct {
	Processed int `json:"processed"`
	Total     int `json:"total"`
}
