// Command engine aggregates job postings from several sources.
//
// Modes:
//
//	engine search [-keywords go,backend] [-sources hnjobs,...] [-json]
//	engine parse  -url https://company.com/careers/senior-engineer
//	engine serve  [-config config/config.yml]
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"jobboard-engine/internal/config"
	"jobboard-engine/internal/logging"
	"jobboard-engine/internal/server"
	"jobboard-engine/internal/service"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	mode := "search"
	if len(args) > 0 && !strings.HasPrefix(args[0], "-") {
		mode = args[0]
		args = args[1:]
	}

	fs := flag.NewFlagSet("engine", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var (
		cfgPath  = fs.String("config", "", "path to a YAML config file")
		urlFlag  = fs.String("url", "", "job posting URL (parse mode)")
		jsonOut  = fs.Bool("json", false, "emit one JSON event per line (search mode)")
		keywords = fs.String("keywords", "", "comma-separated keyword filter")
		sources  = fs.String("sources", "", "comma-separated source keys; empty means all enabled")
		location = fs.String("location", "", "location filter, aliases understood")
		remote   = fs.Bool("remote", false, "remote-friendly postings only")
		tags     = fs.String("tags", "", "comma-separated required tags")
		maxPages = fs.Int("max-pages", 0, "pages per source, 0 uses the configured default")
		limit    = fs.Int("limit", 0, "postings per source, 0 uses the configured default")
	)
	if err := fs.Parse(args); err != nil {
		return 2
	}

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		fmt.Fprintf(stderr, "config: %v\n", err)
		return 2
	}
	log, err := logging.New(cfg.Logging.Development)
	if err != nil {
		fmt.Fprintf(stderr, "logging: %v\n", err)
		return 2
	}
	defer log.Sync() //nolint:errcheck

	svc := service.New(cfg, log)
	defer svc.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	switch mode {
	case "parse":
		return runParse(ctx, svc, *urlFlag, stdout)
	case "search":
		q := service.Query{
			Keywords:       splitCSV(*keywords),
			Sources:        splitCSV(*sources),
			Location:       *location,
			RemoteOnly:     *remote,
			Tags:           splitCSV(*tags),
			MaxPages:       *maxPages,
			PerSourceLimit: *limit,
		}
		return runSearch(ctx, svc, q, *jsonOut, stdout, stderr)
	case "serve":
		srv := server.New(svc, cfg, log)
		if err := srv.Start(ctx, cfg.Server.Port); err != nil {
			fmt.Fprintf(stderr, "serve: %v\n", err)
			return 1
		}
		return 0
	default:
		fmt.Fprintf(stderr, "unknown mode %q (want search, parse, or serve)\n", mode)
		return 2
	}
}

func splitCSV(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
