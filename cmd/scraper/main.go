// Command scraper extracts the Udyam registration form fields into JSON.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"

	"github.com/Bahjat/udyam-scraper/internal/model"
	"github.com/Bahjat/udyam-scraper/internal/platform/config"
	"github.com/Bahjat/udyam-scraper/internal/platform/logger"
	"github.com/Bahjat/udyam-scraper/internal/schemacheck"
	"github.com/Bahjat/udyam-scraper/internal/schemafile"
	"github.com/Bahjat/udyam-scraper/internal/scraper"
)

var errStepAndAll = errors.New("--step and --all are mutually exclusive")

type options struct {
	step   int
	all    bool
	output string
	input  string
}

func main() {
	fs := pflag.NewFlagSet("scraper", pflag.ExitOnError)
	config.RegisterFlags(fs)

	var opts options
	fs.IntVar(&opts.step, "step", 0, "Scrape a single step (1 or 2)")
	fs.BoolVar(&opts.all, "all", false, "Scrape both steps (default when --step is not given)")
	fs.StringVarP(&opts.output, "output", "o", "", "Output file (default depends on the step)")
	fs.StringVar(&opts.input, "input", "", "Read a saved copy of the page instead of fetching it")
	_ = fs.Parse(os.Args[1:])

	cfg, err := config.Load(fs)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(os.Stderr, cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, opts, log); err != nil {
		log.Error("scrape failed", "error", err)
		stop()
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config, opts options, log *slog.Logger) error {
	if opts.all && opts.step != 0 {
		return errStepAndAll
	}
	if opts.step != 0 && opts.step != 1 && opts.step != 2 {
		return fmt.Errorf("--step must be 1 or 2, got %d", opts.step)
	}

	table, err := scraper.OpenTable(cfg.FieldsFile)
	if err != nil {
		return err
	}

	fetcher := scraper.NewHTTPClient(scraper.ClientOptions{
		Timeout:              cfg.FetchTimeout,
		AllowPrivateNetworks: cfg.AllowPrivateNetworks,
	})
	engine := scraper.NewEngine(fetcher, scraper.NewAssembler(table, log), cfg.SourceURL)

	output := opts.output
	if output == "" {
		output = schemafile.DefaultName(opts.step)
	}

	log.Info("scrape started", "source", sourceLabel(cfg, opts), "step", opts.step, "output", output)

	var result any
	if opts.step == 0 {
		doc, err := scrapeAll(ctx, engine, cfg, opts)
		if err != nil {
			return err
		}
		report := schemacheck.New(schemacheck.Options{Expectations: table.Expectations()}).Check(*doc)
		logReport(log, report)
		result = doc
	} else {
		step, err := scrapeStep(ctx, engine, cfg, opts)
		if err != nil {
			return err
		}
		result = step
	}

	if err := schemafile.Write(output, result); err != nil {
		return err
	}

	log.Info("schema written", "path", output)
	return nil
}

func scrapeAll(ctx context.Context, engine *scraper.Engine, cfg config.Config, opts options) (*model.ScrapeDocument, error) {
	if opts.input == "" {
		return engine.Scrape(ctx)
	}

	f, err := os.Open(opts.input)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	return engine.ScrapeHTML(f, "", cfg.SourceURL)
}

func scrapeStep(ctx context.Context, engine *scraper.Engine, cfg config.Config, opts options) (*model.StepDocument, error) {
	if opts.input == "" {
		return engine.ScrapeStep(ctx, opts.step)
	}

	doc, err := scrapeAll(ctx, engine, cfg, opts)
	if err != nil {
		return nil, err
	}
	if opts.step == 1 {
		return &doc.Step1, nil
	}
	return &doc.Step2, nil
}

func sourceLabel(cfg config.Config, opts options) string {
	if opts.input != "" {
		return opts.input
	}
	return cfg.SourceURL
}

func logReport(log *slog.Logger, report model.ValidationReport) {
	for _, msg := range report.Errors {
		log.Warn("schema check error", "message", msg)
	}
	for _, msg := range report.Warnings {
		log.Warn("schema check warning", "message", msg)
	}
	log.Info("schema checked", "valid", report.Valid, "errors", len(report.Errors), "warnings", len(report.Warnings))
}
