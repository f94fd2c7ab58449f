package loader

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"
	"github.com/pterm/pterm"

	"github.com/sysconf-tracker/sysconf/internal/client"
	"github.com/sysconf-tracker/sysconf/internal/models"
)

const (
	DefaultCFPPath   = "generated/cfp.json"
	DefaultDatesPath = "generated/confdates.json"
)

// Source says where the two datasets live. BaseURL wins over Dir when set
type Source struct {
	Dir       string
	BaseURL   string
	CFPPath   string
	DatesPath string
}

// Datasets holds both loaded datasets
type Datasets struct {
	CFP   models.Dataset
	Dates models.Dataset
}

// Loader fetches the generated datasets from disk or over HTTP
type Loader struct {
	client *client.Client
	log    *pterm.Logger
}

// New returns a loader. A nil client gets the default options
func New(c *client.Client, log *pterm.Logger) *Loader {
	if c == nil {
		c = client.New(client.Options{})
	}
	return &Loader{client: c, log: log}
}

// Load reads the CFP dataset and then the dates dataset. Either failure
// aborts the load; there is no retry
func (l *Loader) Load(ctx context.Context, src Source) (*Datasets, error) {
	if src.CFPPath == "" {
		src.CFPPath = DefaultCFPPath
	}
	if src.DatesPath == "" {
		src.DatesPath = DefaultDatesPath
	}

	cfp, err := l.loadDataset(ctx, src, src.CFPPath)
	if err != nil {
		return nil, fmt.Errorf("load cfp dataset: %w", err)
	}

	dates, err := l.loadDataset(ctx, src, src.DatesPath)
	if err != nil {
		return nil, fmt.Errorf("load dates dataset: %w", err)
	}

	return &Datasets{CFP: cfp, Dates: dates}, nil
}

func (l *Loader) loadDataset(ctx context.Context, src Source, path string) (models.Dataset, error) {
	raw, location, err := l.readSource(ctx, src, path)
	if err != nil {
		return nil, err
	}

	var ds models.Dataset
	if err := json.Unmarshal(raw, &ds); err != nil {
		return nil, fmt.Errorf("parse %s: %w", location, err)
	}

	if l.log != nil {
		l.log.Debug("dataset loaded", l.log.Args(
			"source", location,
			"records", len(ds),
			"size", humanize.Bytes(uint64(len(raw))),
		))
	}
	return ds, nil
}

func (l *Loader) readSource(ctx context.Context, src Source, path string) ([]byte, string, error) {
	switch {
	case src.BaseURL != "":
		target, err := url.JoinPath(src.BaseURL, path)
		if err != nil {
			return nil, "", fmt.Errorf("build url for %s: %w", path, err)
		}
		body, err := l.client.Fetch(ctx, target, "application/json")
		return body, target, err
	case src.Dir != "":
		location := filepath.Join(src.Dir, filepath.FromSlash(path))
		body, err := os.ReadFile(location)
		return body, location, err
	default:
		return nil, "", errors.New("either a data dir or a base url must be provided")
	}
}
