package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pterm/pterm"

	"github.com/sysconf-tracker/sysconf/internal/client"
	"github.com/sysconf-tracker/sysconf/internal/config"
	"github.com/sysconf-tracker/sysconf/internal/loader"
	"github.com/sysconf-tracker/sysconf/internal/models"
	"github.com/sysconf-tracker/sysconf/internal/scraper"
	"github.com/sysconf-tracker/sysconf/internal/ui"
	"github.com/sysconf-tracker/sysconf/internal/view"
	"github.com/sysconf-tracker/sysconf/internal/web"
)

// printExamples displays usage examples for the program
func printExamples() {
	fmt.Println("\n📋 sysconf Usage Examples 📋")
	fmt.Println("\n1. Show upcoming CFP deadlines for A* conferences, earliest first:")
	fmt.Println("   sysconf -rank \"A*\"")

	fmt.Println("\n2. Show conference dates instead of deadlines:")
	fmt.Println("   sysconf -tab dates")

	fmt.Println("\n3. Serve the board on port 9000 from a published copy of the datasets:")
	fmt.Println("   sysconf -serve -port 9000 -base-url https://example.org/sysconf/")

	fmt.Println("\n4. Regenerate generated/cfp.json and generated/confdates.json:")
	fmt.Println("   sysconf -generate -conferences data/conferences.json")
	os.Exit(0)
}

func main() {
	configPath := flag.String("config", config.DefaultPath, "Path to sysconf.yaml")
	serve := flag.Bool("serve", false, "Run the web server")
	generate := flag.Bool("generate", false, "Scrape conference sites and regenerate the datasets")
	tab := flag.String("tab", string(models.TabCFP), "Tab to show: cfp or dates")
	rank := flag.String("rank", models.RankAll, "core_rank to show, or All")
	sortOrder := flag.String("sort", string(models.SortAsc), "Deadline order on the cfp tab: asc or desc")
	dataDir := flag.String("data-dir", "", "Directory holding generated/ (overrides config)")
	baseURL := flag.String("base-url", "", "Fetch the datasets from this URL instead of disk")
	port := flag.Int("port", 0, "Web server port (overrides config)")
	conferences := flag.String("conferences", "", "Generator input list (overrides config)")
	hyperlinks := flag.Bool("hyperlinks", false, "Print URLs as terminal hyperlinks")
	debug := flag.Bool("debug", false, "Enable debug logging")
	examples := flag.Bool("examples", false, "Show usage examples")
	silence := flag.Bool("silence", false, "Silence the banner")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		pterm.DefaultLogger.Fatal("failed to load config", pterm.DefaultLogger.Args("error", err))
	}
	if *debug {
		cfg.Log.Level = "debug"
	}
	if *dataDir != "" {
		cfg.Data.Dir = *dataDir
	}
	if *baseURL != "" {
		cfg.Data.BaseURL = *baseURL
	}
	if *port != 0 {
		cfg.Server.Port = *port
	}
	if *conferences != "" {
		cfg.Scraper.Conferences = *conferences
	}

	log := ui.NewLogger(cfg.Log.Level, os.Stderr)

	ui.PrintBanner(os.Stdout, *silence || *serve)

	if *examples {
		printExamples()
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	httpClient := client.New(client.Options{
		Timeout:   cfg.Scraper.Timeout,
		UserAgent: cfg.Scraper.UserAgent,
		ProxyURL:  cfg.Scraper.Proxy,
	})

	if *generate {
		if err := runGenerate(ctx, cfg, httpClient, log); err != nil {
			log.Fatal("generate failed", log.Args("error", err))
		}
		return
	}

	data, err := loader.New(httpClient, log).Load(ctx, loader.Source{
		Dir:       cfg.Data.Dir,
		BaseURL:   cfg.Data.BaseURL,
		CFPPath:   cfg.Data.CFPPath,
		DatesPath: cfg.Data.DatesPath,
	})
	if err != nil {
		log.Fatal("failed to load datasets", log.Args("error", err))
	}
	log.Info("datasets loaded", log.Args("cfp", len(data.CFP), "dates", len(data.Dates)))

	if *serve {
		if err := runServer(ctx, cfg, data, log); err != nil {
			log.Fatal("server failed", log.Args("error", err))
		}
		return
	}

	board := view.NewBoard(data.CFP, data.Dates)
	board.SetTab(models.TabMode(*tab))
	board.SetRank(*rank)
	board.SetSortOrder(models.ParseSortOrder(*sortOrder))

	if err := ui.PrintTable(os.Stdout, board.Rows(), ui.TableOptions{Hyperlinks: *hyperlinks}); err != nil {
		log.Fatal("failed to print table", log.Args("error", err))
	}
}

func runGenerate(ctx context.Context, cfg *config.AppConfig, httpClient *client.Client, log *pterm.Logger) error {
	confs, err := scraper.LoadConferences(cfg.Scraper.Conferences)
	if err != nil {
		return err
	}
	log.Info("scraping conferences", log.Args("count", len(confs), "workers", cfg.Scraper.Workers))

	s := scraper.New(httpClient, scraper.Config{
		Workers:   cfg.Scraper.Workers,
		SearchURL: cfg.Scraper.SearchURL,
		Horizon:   time.Duration(cfg.Scraper.HorizonDays) * 24 * time.Hour,
		Homepages: cfg.Scraper.Homepages,
		Progress:  os.Stderr,
	}, log)

	progress := &models.ScrapeProgress{}
	cfp, dates := s.Run(ctx, confs, progress)
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("scrape interrupted after %d of %d conferences: %w", progress.Processed, progress.Total, err)
	}

	if err := scraper.WriteOutputs(cfg.Scraper.OutputDir, cfp, dates); err != nil {
		return err
	}
	log.Info("datasets written", log.Args("dir", cfg.Scraper.OutputDir, "conferences", len(confs)))
	return nil
}

func runServer(ctx context.Context, cfg *config.AppConfig, data *loader.Datasets, log *pterm.Logger) error {
	srv := web.NewHTTPServer(web.Config{
		Addr:     fmt.Sprintf(":%d", cfg.Server.Port),
		Title:    cfg.Server.Title,
		Data:     data,
		LoadedAt: time.Now(),
		Log:      log,
	})

	errCh := make(chan error, 1)
	go func() {
		log.Info(fmt.Sprintf("http listening on http://localhost:%d", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	log.Info("shutting down...")
	return srv.Shutdown(shCtx)
}
