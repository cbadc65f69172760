// Command plantrip plans fuel stops for one trip and prints the result.
//
//	plantrip -origin "Chicago, IL" -destination "Denver, CO" -range 300 -reserve 50
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"fuel-stop-planner/internal/app"
	"fuel-stop-planner/internal/config"
	"fuel-stop-planner/internal/domain"
	"fuel-stop-planner/internal/platform/obs"
	"fuel-stop-planner/internal/report"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/kr/pretty"
	"go.uber.org/zap"
)

type options struct {
	origin      string
	destination string
	rangeMiles  float64
	reserve     float64
	format      string
	debug       bool
}

func parseFlags(args []string, stderr io.Writer) (options, error) {
	var o options
	fs := flag.NewFlagSet("plantrip", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&o.origin, "origin", "", "starting address")
	fs.StringVar(&o.destination, "destination", "", "destination address")
	fs.Float64Var(&o.rangeMiles, "range", 0, "range per full tank in miles")
	fs.Float64Var(&o.reserve, "reserve", 0, "reserve buffer in miles")
	fs.StringVar(&o.format, "format", "text", "output format: text, json or csv")
	fs.BoolVar(&o.debug, "debug", false, "dump the full plan to stderr")

	if err := fs.Parse(args); err != nil {
		return o, err
	}
	switch o.format {
	case "text", "json", "csv":
	default:
		return o, fmt.Errorf("unknown -format %q", o.format)
	}
	return o, nil
}

func writePlan(w io.Writer, format string, plan *domain.TripPlan) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(plan)
	case "csv":
		return report.WriteCSV(w, plan)
	default:
		return report.WriteText(w, plan)
	}
}

func main() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("load .env: %v", err)
	}

	opts, err := parseFlags(os.Args[1:], os.Stderr)
	if err != nil {
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	level := cfg.LogLevel
	if !opts.debug {
		level = "warn"
	}
	logger, err := obs.NewLogger(level, "console")
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = logger.Sync() }()
	zap.ReplaceGlobals(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	planner, cleanup, err := app.BuildPlanner(ctx, cfg, nil, logger)
	if err != nil {
		logger.Fatal("build planner", zap.Error(err))
	}
	defer cleanup()

	plan, err := planner.PlanTrip(ctx, domain.TripParameters{
		Origin:       opts.origin,
		Destination:  opts.destination,
		RangeMiles:   opts.rangeMiles,
		ReserveMiles: opts.reserve,
	})
	if err != nil {
		logger.Debug("plan trip failed", zap.Error(err))
		fmt.Fprintln(os.Stderr, domain.UserMessage(err))
		cleanup()
		os.Exit(1)
	}

	if opts.debug {
		fmt.Fprintf(os.Stderr, "%# v\n", pretty.Formatter(plan))
	}

	if err := writePlan(os.Stdout, opts.format, plan); err != nil {
		logger.Fatal("write output", zap.Error(err))
	}
}
