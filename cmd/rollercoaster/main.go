// Command rollercoaster analyzes music tracks into energy curves and
// structural metadata for the rollercoaster visualization.
//
// Usage:
//
//	rollercoaster [flags] track.mp3    analyze one file and write CSVs
//	rollercoaster -serve [-port 8080]  run the HTTP analysis service
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/mr-spaghetti-code/three-music-rollercoaster/analyzer"
	"github.com/mr-spaghetti-code/three-music-rollercoaster/export"
	"github.com/mr-spaghetti-code/three-music-rollercoaster/logging"
	"github.com/mr-spaghetti-code/three-music-rollercoaster/server"
)

func main() {
	var (
		serve   = flag.Bool("serve", false, "run the HTTP analysis service instead of analyzing a file")
		port    = flag.Int("port", 8080, "HTTP port for -serve")
		outDir  = flag.String("out", ".", "directory for CSV output")
		asJSON  = flag.Bool("json", false, "print the full bundle as JSON to stdout instead of CSVs")
		verbose = flag.Bool("verbose", false, "enable debug logging")
	)
	flag.Parse()

	logger := logging.NewDefaultLogger()
	if *verbose {
		logger.SetLevel(logging.DebugLevel)
	}
	logging.SetGlobalLogger(logger)

	if *serve {
		runServer(*port)
		return
	}

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: rollercoaster [flags] <track.mp3|track.wav>")
		flag.PrintDefaults()
		os.Exit(2)
	}

	if err := runAnalyze(flag.Arg(0), *outDir, *asJSON); err != nil {
		logging.Error(err, "analysis failed")
		os.Exit(1)
	}
}

func runAnalyze(path, outDir string, asJSON bool) error {
	bundle, err := analyzer.New(nil, nil).AnalyzeFile(path)
	if err != nil {
		return err
	}

	if asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(bundle)
	}

	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return export.NewWriter().WriteBundle(outDir, base, bundle)
}

func runServer(port int) {
	cfg := server.DefaultConfig()
	cfg.Port = port

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := server.NewServer(cfg, nil).Run(ctx); err != nil {
		logging.Error(err, "server exited")
		os.Exit(1)
	}
}
