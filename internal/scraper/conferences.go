package scraper

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/cheggaaa/pb/v3"
	"github.com/pterm/pterm"

	"github.com/sysconf-tracker/sysconf/internal/client"
	"github.com/sysconf-tracker/sysconf/internal/models"
)

const (
	defaultSearchURL = "https://dblp.org/search"
	defaultWorkers   = 5
	defaultHorizon   = 365 * 24 * time.Hour

	htmlAccept = "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8"
)

var deadlinePattern = regexp.MustCompile(`\b(20\d{2}[-/]\d{1,2}[-/]\d{1,2})\b`)

// Config controls a scraping run
type Config struct {
	Workers   int
	SearchURL string
	Horizon   time.Duration
	Homepages map[string]string
	// Progress receives the progress bar; nil hides it
	Progress io.Writer
	Now      func() time.Time
}

// Scraper discovers conference homepages, CFP pages and deadlines
type Scraper struct {
	client *client.Client
	cfg    Config
	log    *pterm.Logger
}

// New creates a scraper, filling unset config fields with defaults
func New(c *client.Client, cfg Config, log *pterm.Logger) *Scraper {
	if c == nil {
		c = client.New(client.Options{})
	}
	if cfg.Workers <= 0 {
		cfg.Workers = defaultWorkers
	}
	if cfg.SearchURL == "" {
		cfg.SearchURL = defaultSearchURL
	}
	if cfg.Horizon <= 0 {
		cfg.Horizon = defaultHorizon
	}
	if cfg.Progress == nil {
		cfg.Progress = io.Discard
	}
	if cfg.Now == nil {
		cfg.Now = func() time.Time { return time.Now().UTC() }
	}
	return &Scraper{client: c, cfg: cfg, log: log}
}

type page struct {
	url *url.URL
	raw string
	doc *goquery.Document
}

func (s *Scraper) fetchPage(ctx context.Context, target string) (*page, error) {
	u, err := url.Parse(target)
	if err != nil {
		return nil, fmt.Errorf("parse url %q: %w", target, err)
	}

	body, err := s.client.Fetch(ctx, target, htmlAccept)
	if err != nil {
		return nil, err
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse html from %s: %w", target, err)
	}
	return &page{url: u, raw: string(body), doc: doc}, nil
}

// FindHomepage returns the configured homepage for name, or the first
// conference/symposium link of a dblp search. Empty means not found
func (s *Scraper) FindHomepage(ctx context.Context, name string) (string, error) {
	if known, ok := s.cfg.Homepages[name]; ok && known != "" {
		return known, nil
	}
	return s.SearchHomepage(ctx, name)
}

// SearchHomepage queries the search endpoint for name
func (s *Scraper) SearchHomepage(ctx context.Context, name string) (string, error) {
	target := s.cfg.SearchURL + "?q=" + url.QueryEscape(name)
	p, err := s.fetchPage(ctx, target)
	if err != nil {
		return "", err
	}
	return ConferenceLink(p.doc, p.url), nil
}

// ConferenceLink returns the first link whose href mentions a conference or
// symposium
func ConferenceLink(doc *goquery.Document, base *url.URL) string {
	var found string
	doc.Find("a[href]").EachWithBreak(func(i int, a *goquery.Selection) bool {
		href, _ := a.Attr("href")
		if strings.Contains(href, "conference") || strings.Contains(href, "symposium") {
			found = resolve(base, href)
			return false
		}
		return true
	})
	return found
}

// FindCFPPage fetches homepage and returns its call-for-papers link
func (s *Scraper) FindCFPPage(ctx context.Context, homepage string) (string, error) {
	if homepage == "" {
		return "", nil
	}
	p, err := s.fetchPage(ctx, homepage)
	if err != nil {
		return "", err
	}
	return CFPLink(p.doc, p.url), nil
}

// CFPLink returns the first link labelled "call for papers" or whose href
// contains "cfp", resolved against base
func CFPLink(doc *goquery.Document, base *url.URL) string {
	var found string
	doc.Find("a[href]").EachWithBreak(func(i int, a *goquery.Selection) bool {
		href, _ := a.Attr("href")
		text := strings.ToLower(a.Text())
		if strings.Contains(text, "call for papers") || strings.Contains(strings.ToLower(href), "cfp") {
			found = resolve(base, href)
			return false
		}
		return true
	})
	return found
}

func resolve(base *url.URL, href string) string {
	ref, err := url.Parse(strings.TrimSpace(href))
	if err != nil {
		return href
	}
	if base == nil || ref.IsAbs() {
		return ref.String()
	}
	return base.ResolveReference(ref).String()
}

// ExtractDeadline fetches the CFP page and returns its first upcoming date,
// or TBA
func (s *Scraper) ExtractDeadline(ctx context.Context, cfpURL string) (string, error) {
	if cfpURL == "" {
		return models.TBA, nil
	}
	p, err := s.fetchPage(ctx, cfpURL)
	if err != nil {
		return models.TBA, err
	}
	return DeadlineIn(p.raw, s.cfg.Now(), s.cfg.Horizon), nil
}

// DeadlineIn returns the first YYYY-MM-DD or YYYY/MM/DD date in text that lies
// within [now, now+horizon], formatted as YYYY-MM-DD. Matches without zero
// padding (2024/5/1) are skipped. TBA when none qualifies
func DeadlineIn(text string, now time.Time, horizon time.Duration) string {
	cutoff := now.Add(horizon)
	for _, m := range deadlinePattern.FindAllStringSubmatch(text, -1) {
		d, err := time.Parse("2006-01-02", strings.ReplaceAll(m[1], "/", "-"))
		if err != nil {
			continue
		}
		if !d.Before(now) && !d.After(cutoff) {
			return d.Format("2006-01-02")
		}
	}
	return models.TBA
}

// LocationIn reports USA when the page mentions it, TBA otherwise
func LocationIn(text string) string {
	if strings.Contains(strings.ToLower(text), "usa") {
		return "USA"
	}
	return models.TBA
}

// ExtractDatesAndLocation fetches homepage for the conference dates and
// location. Dates are not parsed from pages yet and stay TBA
func (s *Scraper) ExtractDatesAndLocation(ctx context.Context, homepage string) (start, end, location string, err error) {
	if homepage == "" {
		return models.TBA, models.TBA, models.TBA, nil
	}
	p, err := s.fetchPage(ctx, homepage)
	if err != nil {
		return models.TBA, models.TBA, models.TBA, err
	}
	return models.TBA, models.TBA, LocationIn(p.raw), nil
}

// Scrape builds both output rows for one conference. Fetch failures are
// logged and leave the affected fields as TBA
func (s *Scraper) Scrape(ctx context.Context, conf models.Conference) (models.CFPEntry, models.DateEntry) {
	cfp := models.CFPEntry{
		Name:        conf.Name,
		CoreRank:    conf.CoreRank,
		CFPDeadline: models.TBA,
		CFPURL:      models.TBA,
	}
	dates := models.DateEntry{
		Name:      conf.Name,
		CoreRank:  conf.CoreRank,
		StartDate: models.TBA,
		EndDate:   models.TBA,
		Location:  models.TBA,
		Homepage:  models.TBA,
	}

	homepage, err := s.FindHomepage(ctx, conf.Name)
	if err != nil {
		s.warn("homepage lookup failed", conf.Name, err)
	}
	if homepage == "" {
		return cfp, dates
	}
	dates.Homepage = homepage

	home, err := s.fetchPage(ctx, homepage)
	if err != nil {
		s.warn("homepage fetch failed", conf.Name, err)
		return cfp, dates
	}
	dates.Location = LocationIn(home.raw)

	cfpURL := CFPLink(home.doc, home.url)
	if cfpURL == "" {
		return cfp, dates
	}
	cfp.CFPURL = cfpURL

	deadline, err := s.ExtractDeadline(ctx, cfpURL)
	if err != nil {
		s.warn("cfp page fetch failed", conf.Name, err)
	}
	cfp.CFPDeadline = deadline

	return cfp, dates
}

func (s *Scraper) warn(msg, conference string, err error) {
	if s.log != nil {
		s.log.Warn(msg, s.log.Args("conference", conference, "error", err))
	}
}

// Run scrapes every conference with a bounded worker pool. Output order
// matches input order
func (s *Scraper) Run(ctx context.Context, confs []models.Conference, progress *models.ScrapeProgress) ([]models.CFPEntry, []models.DateEntry) {
	cfpOut := make([]models.CFPEntry, len(confs))
	datesOut := make([]models.DateEntry, len(confs))

	bar := pb.New(len(confs)).SetWriter(s.cfg.Progress).Start()
	defer bar.Finish()

	var mu sync.Mutex
	if progress != nil {
		progress.Total = len(confs)
	}

	semaphore := make(chan struct{}, s.cfg.Workers)
	var wg sync.WaitGroup

	for i := range confs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			semaphore <- struct{}{}        // Acquire semaphore
			defer func() { <-semaphore }() // Release semaphore

			cfpOut[i], datesOut[i] = s.Scrape(ctx, confs[i])

			mu.Lock()
			if progress != nil {
				progress.Processed++
			}
			mu.Unlock()
			bar.Increment()

			if s.log != nil {
				s.log.Debug("conference scraped", s.log.Args(
					"conference", confs[i].Name,
					"deadline", cfpOut[i].CFPDeadline,
				))
			}
		}(i)
	}

	wg.Wait()
	return cfpOut, datesOut
}

// LoadConferences reads the generator's input list
func LoadConferences(path string) ([]models.Conference, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read conferences: %w", err)
	}
	var confs []models.Conference
	if err := json.Unmarshal(data, &confs); err != nil {
		return nil, fmt.Errorf("parse conferences %s: %w", path, err)
	}
	return confs, nil
}

// WriteOutputs writes cfp.json and confdates.json into dir
func WriteOutputs(dir string, cfp []models.CFPEntry, dates []models.DateEntry) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	if err := writeJSON(filepath.Join(dir, "cfp.json"), cfp); err != nil {
		return err
	}
	return writeJSON(filepath.Join(dir, "confdates.json"), dates)
}

func writeJSON(path string, v any) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
