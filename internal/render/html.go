// Package render builds the HTML for the conference board. All values go
// through html/template and are escaped
package render

import (
	"html/template"
	"io"
	"net/url"
	"strings"

	"github.com/sysconf-tracker/sysconf/internal/models"
)

// Cell is one table cell. Href is set when the value is an http(s) URL
type Cell struct {
	Text string
	Href string
}

// TableData is the view of a dataset the table template consumes
type TableData struct {
	Columns []string
	Rows    [][]Cell
}

// TabLink is one entry of the tab bar
type TabLink struct {
	Label  string
	Href   string
	Active bool
}

// PageData drives the full page template
type PageData struct {
	Title     string
	Tab       models.TabMode
	Tabs      []TabLink
	Rank      string
	Ranks     []string
	Sort      models.SortOrder
	ShowSort  bool
	Table     TableData
	RowCount  int
	Generated string
}

var templates = template.Must(template.New("board").Parse(tableTemplate + pageTemplate))

// Columns returns the keys of the first record, or nil for an empty dataset
func Columns(ds models.Dataset) []string {
	if len(ds) == 0 {
		return nil
	}
	return ds[0].Keys()
}

// BuildTable lays a dataset out under the first record's columns. A field
// missing from a later record renders as an empty cell and fields the first
// record does not have are not shown
func BuildTable(ds models.Dataset) TableData {
	cols := Columns(ds)
	rows := make([][]Cell, 0, len(ds))
	for _, rec := range ds {
		row := make([]Cell, len(cols))
		for i, col := range cols {
			row[i] = newCell(rec.String(col))
		}
		rows = append(rows, row)
	}
	return TableData{Columns: cols, Rows: rows}
}

func newCell(text string) Cell {
	c := Cell{Text: text}
	if strings.HasPrefix(text, "http://") || strings.HasPrefix(text, "https://") {
		if u, err := url.Parse(text); err == nil && u.Host != "" {
			c.Href = u.String()
		}
	}
	return c
}

// Table writes the table markup for ds
func Table(w io.Writer, ds models.Dataset) error {
	return templates.ExecuteTemplate(w, "table", BuildTable(ds))
}

// Page writes a complete HTML document
func Page(w io.Writer, data PageData) error {
	if data.Title == "" {
		data.Title = "Systems Conferences"
	}
	return templates.ExecuteTemplate(w, "page", data)
}

const tableTemplate = `{{define "table"}}<table>
<thead><tr>{{range .Columns}}<th>{{.}}</th>{{end}}</tr></thead>
<tbody>
{{- range .Rows}}
<tr>{{range .}}<td>{{if .Href}}<a href="{{.Href}}">{{.Text}}</a>{{else}}{{.Text}}{{end}}</td>{{end}}</tr>
{{- end}}
</tbody>
</table>{{end}}`

const pageTemplate = `{{define "page"}}<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>{{.Title}}</title>
<style>
body { font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, sans-serif; margin: 1rem auto; max-width: 1200px; padding: 0 1rem; }
nav a { margin-right: 1rem; }
nav a.active { font-weight: 700; }
form { margin: 1rem 0; }
table { width: 100%; border-collapse: collapse; font-size: .875rem; }
th, td { padding: .4rem .6rem; text-align: left; border-bottom: 1px solid #dee2e6; }
tr:nth-child(even) { background: #f8f9fa; }
footer { color: #6c757d; font-size: .75rem; margin-top: 1rem; }
</style>
</head>
<body>
<h1>{{.Title}}</h1>
<nav>{{range .Tabs}}<a href="{{.Href}}"{{if .Active}} class="active"{{end}}>{{.Label}}</a>{{end}}</nav>
<form method="get" action="/">
<input type="hidden" name="tab" value="{{.Tab}}">
<label for="rank">Rank</label>
<select id="rank" name="rank" onchange="this.form.submit()">
{{- $rank := .Rank}}
{{- range .Ranks}}
<option value="{{.}}"{{if eq . $rank}} selected{{end}}>{{.}}</option>
{{- end}}
</select>
{{- if .ShowSort}}
<label for="sort">Deadline</label>
<select id="sort" name="sort" onchange="this.form.submit()">
<option value="asc"{{if eq (print .Sort) "asc"}} selected{{end}}>Earliest first</option>
<option value="desc"{{if eq (print .Sort) "desc"}} selected{{end}}>Latest first</option>
</select>
{{- end}}
<noscript><button type="submit">Apply</button></noscript>
</form>
<div id="content">{{template "table" .Table}}</div>
<footer>{{.RowCount}} conferences{{if .Generated}} &middot; {{.Generated}}{{end}}</footer>
</body>
</html>
{{end}}`
