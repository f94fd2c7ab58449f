package ui

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/pterm/pterm"

	"github.com/sysconf-tracker/sysconf/internal/models"
	"github.com/sysconf-tracker/sysconf/internal/render"
	"github.com/sysconf-tracker/sysconf/internal/utils"
)

const (
	urgentWindow = 14 * 24 * time.Hour
	soonWindow   = 60 * 24 * time.Hour
)

// FormatURL formats a URL, optionally as a clickable terminal hyperlink using OSC 8 escape sequence
func FormatURL(url string, useHyperlink bool) string {
	if !useHyperlink || !strings.HasPrefix(url, "http") {
		return url
	}
	// Using \a (BEL) as the terminator for wider compatibility
	return fmt.Sprintf("\033]8;;%s\a%s\033]8;;\a", url, url)
}

// ColorizeDeadline colours a CFP deadline by how close it is to now and
// appends a relative hint such as "3 weeks from now"
func ColorizeDeadline(deadline string, now time.Time) string {
	at, ok := utils.ParseCFPDate(deadline)
	if !ok {
		if deadline == "" {
			deadline = models.TBA
		}
		return pterm.Gray(deadline)
	}

	label := fmt.Sprintf("%s (%s)", deadline, humanize.RelTime(at, now, "ago", "from now"))
	until := at.Sub(now)
	switch {
	case until < 0:
		return pterm.Gray(label)
	case until <= urgentWindow:
		return pterm.Red(label)
	case until <= soonWindow:
		return pterm.Yellow(label)
	default:
		return pterm.Green(label)
	}
}

// TableOptions tunes terminal rendering
type TableOptions struct {
	Now        time.Time
	Hyperlinks bool
}

// RenderTable formats rows as a boxed terminal table, using the same
// columns as the HTML table
func RenderTable(rows models.Dataset, opts TableOptions) (string, error) {
	cols := render.Columns(rows)
	if len(cols) == 0 {
		return pterm.Gray("No conferences match the current filter.") + "\n", nil
	}
	if opts.Now.IsZero() {
		opts.Now = time.Now()
	}

	data := pterm.TableData{cols}
	for _, rec := range rows {
		line := make([]string, len(cols))
		for i, col := range cols {
			value := rec.String(col)
			switch {
			case col == models.FieldCFPDeadline:
				value = ColorizeDeadline(value, opts.Now)
			case strings.HasPrefix(value, "http"):
				value = FormatURL(value, opts.Hyperlinks)
			}
			line[i] = value
		}
		data = append(data, line)
	}

	return pterm.DefaultTable.WithHasHeader().WithBoxed().WithData(data).Srender()
}

// PrintTable writes the table and a row count to w
func PrintTable(w io.Writer, rows models.Dataset, opts TableOptions) error {
	out, err := RenderTable(rows, opts)
	if err != nil {
		return fmt.Errorf("render table: %w", err)
	}
	fmt.Fprintln(w, out)
	fmt.Fprintf(w, "Showing %d conferences\n", len(rows))
	return nil
}
