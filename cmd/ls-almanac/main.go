// Command ls-almanac computes apparent places of navigational stars, the Sun,
// the Moon and the planets for an observer, as a terminal UI, a headless
// report or an HTTP API.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/term"

	"github.com/litescript/ls-almanac/internal/api"
	"github.com/litescript/ls-almanac/internal/catalog"
	"github.com/litescript/ls-almanac/internal/engine"
	"github.com/litescript/ls-almanac/internal/logging"
	"github.com/litescript/ls-almanac/internal/report"
	"github.com/litescript/ls-almanac/internal/state"
	"github.com/litescript/ls-almanac/internal/ui"
	"github.com/litescript/ls-almanac/internal/version"
)

// CLI flags for headless mode
var (
	summaryMode   bool
	watchInterval time.Duration
	snapshotPath  string
	eventsMode    bool
	beepMode      bool
)

const (
	defaultRefresh = 1 * time.Second
	minRefresh     = 100 * time.Millisecond
	maxRefresh     = 5 * time.Minute
)

// Environment fallbacks for the observer.
const (
	envLat  = "ALMANAC_LAT"
	envLon  = "ALMANAC_LON"
	envElev = "ALMANAC_ELEV"
)

func main() {
	catalogPath := flag.String("catalog", "", "Star catalog file (CSV, TSV or JSON lines); built-in list if empty")
	lat := flag.Float64("lat", 0, "Observer latitude in degrees, north positive")
	lon := flag.Float64("lon", 0, "Observer longitude in degrees, east positive")
	elev := flag.Float64("elev", 0, "Observer elevation in meters")
	at := flag.String("time", "", "Sky time (RFC 3339); live clock if empty")
	serveAddr := flag.String("serve", "", "Serve the HTTP API on this address (e.g. :8080)")
	refresh := flag.Duration("refresh", defaultRefresh, "TUI refresh interval (e.g., 1s, 1m)")
	logLevel := flag.String("log-level", "info", "Log level (debug, info, warn, error)")
	logFile := flag.String("log-file", "", "Write logs to this file in TUI mode")
	showVersion := flag.Bool("version", false, "Print version and exit")
	flag.BoolVar(&summaryMode, "summary", false, "Print text summary instead of TUI")
	flag.DurationVar(&watchInterval, "watch", 0, "Repeat headless output at interval (e.g., 30s)")
	flag.StringVar(&snapshotPath, "snapshot-path", "", "Export JSON snapshot to file (use - for stdout)")
	flag.BoolVar(&eventsMode, "events", false, "Show rise/set events between watch refreshes")
	flag.BoolVar(&beepMode, "beep", false, "Beep on rise/set events (TTY only)")
	flag.Parse()

	if *showVersion {
		fmt.Printf("ls-almanac v%s\n", version.Version)
		return
	}

	if *refresh < minRefresh {
		*refresh = minRefresh
	} else if *refresh > maxRefresh {
		*refresh = maxRefresh
	}

	logger := logging.New(logging.ParseLevel(*logLevel))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics, err := engine.NewMetrics(reg)
	if err != nil {
		fatal("metrics: %v", err)
	}

	eng := engine.New(engine.WithLogger(logger), engine.WithMetrics(metrics))
	if *catalogPath == "" {
		eng.SetCatalog(catalog.Default())
	} else if n, err := eng.LoadCatalog(*catalogPath); err != nil {
		logger.Error("Catalog %s: %v", *catalogPath, err)
	} else {
		logger.Info("Loaded %d stars from %s", n, *catalogPath)
	}

	skyTime := time.Now().UTC()
	if *at != "" {
		skyTime, err = time.Parse(time.RFC3339, *at)
		if err != nil {
			fatal("invalid -time: %v", err)
		}
	}

	site, haveSite, err := observerFromFlags(*lat, *lon, *elev)
	if err != nil {
		fatal("%v", err)
	}
	if haveSite {
		site.Time = skyTime
		if err := eng.SetObserver(site); err != nil {
			fatal("observer: %v", err)
		}
	}

	if *serveAddr != "" {
		srv := api.NewServer(eng, logger, reg)
		logger.Info("Serving API on %s", *serveAddr)
		if err := srv.Run(ctx, *serveAddr); err != nil {
			fatal("serve: %v", err)
		}
		return
	}

	if !haveSite {
		fatal("observer required: set -lat and -lon (or %s and %s)", envLat, envLon)
	}

	stateCfg := state.DefaultConfig()
	stateCfg.RefreshInterval = *refresh
	stateMgr := state.NewManager(stateCfg)

	headless := summaryMode || snapshotPath != "" || eventsMode
	if headless {
		runHeadless(ctx, eng, stateMgr, *at == "", logger)
		return
	}

	// Keep logs off the alternate screen
	if *logFile != "" {
		f, err := os.OpenFile(*logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			fatal("log file: %v", err)
		}
		defer f.Close()
		logger.SetOutput(f)
	} else {
		logger.SetOutput(io.Discard)
	}

	p := tea.NewProgram(ui.New(eng, stateMgr), tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		fmt.Fprintf(os.Stderr, "Error running TUI: %v\n", err)
		os.Exit(1)
	}
}

// observerFromFlags resolves the observer from explicit flags, falling back
// to the environment. ok is false when no latitude/longitude was given.
func observerFromFlags(lat, lon, elev float64) (engine.Snapshot, bool, error) {
	set := map[string]bool{}
	flag.Visit(func(f *flag.Flag) { set[f.Name] = true })

	resolve := func(name, env string, v float64) (float64, bool, error) {
		if set[name] {
			return v, true, nil
		}
		s, ok := os.LookupEnv(env)
		if !ok || s == "" {
			return v, false, nil
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, false, fmt.Errorf("%s: %w", env, err)
		}
		return f, true, nil
	}

	latV, haveLat, err := resolve("lat", envLat, lat)
	if err != nil {
		return engine.Snapshot{}, false, err
	}
	lonV, haveLon, err := resolve("lon", envLon, lon)
	if err != nil {
		return engine.Snapshot{}, false, err
	}
	elevV, _, err := resolve("elev", envElev, elev)
	if err != nil {
		return engine.Snapshot{}, false, err
	}

	if !haveLat || !haveLon {
		return engine.Snapshot{}, false, nil
	}
	return engine.Snapshot{LatDeg: latV, LonDeg: lonV, ElevM: elevV}, true, nil
}

// runHeadless handles all headless modes without starting TUI.
func runHeadless(ctx context.Context, eng *engine.Engine, stateMgr *state.Manager, live bool, logger *logging.Logger) {
	isTTY := term.IsTerminal(int(os.Stdout.Fd()))
	var seen uint64

	outputOnce := func() error {
		if live {
			if err := eng.Advance(time.Now().UTC()); err != nil {
				return err
			}
		}

		start := time.Now()
		sky, err := report.BuildSnapshot(eng, time.Now().UTC())
		stateMgr.Update(sky, time.Since(start), err)
		if err != nil {
			return err
		}
		logger.Debug("Sky computed in %v", time.Since(start))

		if snapshotPath != "" {
			if err := writeSnapshot(sky, snapshotPath); err != nil {
				return err
			}
		}

		if summaryMode {
			report.WriteSummaryTable(os.Stdout, sky)
		}

		snap := stateMgr.Snapshot()
		if eventsMode {
			fmt.Println()
			writeEvents(os.Stdout, stateMgr.RecentEvents(10))
		}
		if beepMode && isTTY && snap.EventCount > seen {
			fmt.Print("\a")
		}
		seen = snap.EventCount
		return nil
	}

	if watchInterval == 0 {
		if err := outputOnce(); err != nil {
			fatal("%v", err)
		}
		return
	}

	if err := outputOnce(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}

	ticker := time.NewTicker(watchInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			fmt.Println()
			if err := outputOnce(); err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			}
		}
	}
}

func writeSnapshot(sky *report.SkySnapshot, path string) error {
	if path == "-" {
		if err := sky.WriteJSON(os.Stdout); err != nil {
			return fmt.Errorf("write JSON to stdout: %w", err)
		}
		return nil
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create snapshot file: %w", err)
	}
	defer f.Close()
	if err := sky.WriteJSON(f); err != nil {
		return fmt.Errorf("write JSON to file: %w", err)
	}
	return nil
}

func writeEvents(w io.Writer, events []state.Event) {
	if len(events) == 0 {
		fmt.Fprintln(w, "No rise/set events yet")
		return
	}
	for _, e := range events {
		fmt.Fprintf(w, "%s  %-4s  %-14s az %5.1f°\n",
			e.Timestamp.Format("2006-01-02 15:04:05"), e.Type, e.Object, e.Azimuth)
	}
}

func fatal(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}
