package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"

	"github.com/fiscalpanel/extractito/internal/api"
	"github.com/fiscalpanel/extractito/internal/logger"
	"github.com/fiscalpanel/extractito/internal/service"
	"github.com/fiscalpanel/extractito/internal/writer"
)

const version = "1.0.0"

func main() {
	outputFlag := flag.String("output", "", "Output CSV path (defaults to the input name with .csv)")
	metaFlag := flag.Bool("meta", true, "Include statement metadata comment rows in the CSV")
	serveFlag := flag.Bool("serve", false, "Run the HTTP API instead of converting files")
	addrFlag := flag.String("addr", "", "Listen address for -serve (default :8080, env EXTRACTITO_ADDR)")
	versionFlag := flag.Bool("version", false, "Print version and exit")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, `extractito - bank statement PDF extraction

Turns statement PDFs into validated transaction listings with a
confidence score.

Usage:
  extractito [flags] <statement.pdf> [more.pdf ...]
  extractito -serve [-addr :8080]

Flags:
`)
		flag.PrintDefaults()
	}

	flag.Parse()

	if *versionFlag {
		fmt.Printf("extractito v%s\n", version)
		return
	}

	// Optional .env for local runs; absence is fine.
	_ = godotenv.Load()

	log := logger.New()
	svc := service.New(log)

	if *serveFlag {
		addr := *addrFlag
		if addr == "" {
			addr = os.Getenv("EXTRACTITO_ADDR")
		}
		if addr == "" {
			addr = ":8080"
		}
		log.Info().Str("addr", addr).Msg("starting extraction API")
		if err := api.NewApp(svc, log).Listen(addr); err != nil {
			log.Fatal().Err(err).Msg("server stopped")
		}
		return
	}

	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}

	for _, inputPath := range flag.Args() {
		if err := processFile(svc, inputPath, *outputFlag, *metaFlag); err != nil {
			log.Error().Err(err).Str("file", inputPath).Msg("processing failed")
			os.Exit(1)
		}
	}
}

func processFile(svc *service.Service, inputPath, outputPath string, includeMeta bool) error {
	if ext := strings.ToLower(filepath.Ext(inputPath)); ext != ".pdf" {
		return fmt.Errorf("expected .pdf file, got %q", ext)
	}

	data, err := os.ReadFile(inputPath)
	if err != nil {
		return fmt.Errorf("read input: %w", err)
	}

	result, err := svc.Extract(data, filepath.Base(inputPath))
	if err != nil {
		return err
	}

	fmt.Printf("%s: %d transaction(s), confidence %d\n",
		inputPath, len(result.Transactions), result.Confidence)
	for _, w := range result.Warnings {
		fmt.Printf("  [%s] %s: %s\n", w.Severity, w.Code, w.Message)
	}

	outPath := outputPath
	if outPath == "" {
		outPath = strings.TrimSuffix(inputPath, filepath.Ext(inputPath)) + ".csv"
	}

	w := &writer.CSVWriter{IncludeMeta: includeMeta}
	if err := w.WriteToFile(outPath, &result); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}
	fmt.Printf("  output: %s\n", outPath)
	return nil
}
