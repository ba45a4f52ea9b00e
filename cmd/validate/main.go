// Command validate checks a scraped schema file and prints the report.
// It exits non-zero when the document has errors.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/pflag"

	"github.com/Bahjat/udyam-scraper/internal/platform/config"
	"github.com/Bahjat/udyam-scraper/internal/platform/logger"
	"github.com/Bahjat/udyam-scraper/internal/schemacheck"
	"github.com/Bahjat/udyam-scraper/internal/schemafile"
	"github.com/Bahjat/udyam-scraper/internal/scraper"
)

func main() {
	fs := pflag.NewFlagSet("validate", pflag.ExitOnError)
	config.RegisterFlags(fs)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: validate [flags] [FILE]\n\nFILE defaults to %s.\n\n", schemafile.CompleteFile)
		fs.PrintDefaults()
	}
	_ = fs.Parse(os.Args[1:])

	cfg, err := config.Load(fs)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(os.Stderr, cfg.LogLevel)

	path := schemafile.CompleteFile
	if fs.NArg() > 0 {
		path = fs.Arg(0)
	}

	table, err := scraper.OpenTable(cfg.FieldsFile)
	if err != nil {
		log.Error("load field table", "error", err)
		os.Exit(1)
	}

	doc, err := schemafile.Read(path)
	if err != nil {
		log.Error("read schema", "path", path, "error", err)
		os.Exit(1)
	}

	report := schemacheck.New(schemacheck.Options{Expectations: table.Expectations()}).Check(doc)

	out, err := schemafile.Encode(report)
	if err != nil {
		log.Error("encode report", "error", err)
		os.Exit(1)
	}
	_, _ = os.Stdout.Write(out)

	log.Info("schema checked", "path", path, "valid", report.Valid, "errors", len(report.Errors), "warnings", len(report.Warnings))
	if !report.Valid {
		os.Exit(1)
	}
}
