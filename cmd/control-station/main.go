// Command control-station runs the satellite command-and-control station:
// the security monitor, the subsystem actors, the uplink inbox, and the
// observability surface, all wired over the named-channel directory.
package main

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/signalsfoundry/satellite-control-sim/bus"
	"github.com/signalsfoundry/satellite-control-sim/internal/actor"
	"github.com/signalsfoundry/satellite-control-sim/internal/config"
	"github.com/signalsfoundry/satellite-control-sim/internal/logging"
	"github.com/signalsfoundry/satellite-control-sim/internal/observability"
	"github.com/signalsfoundry/satellite-control-sim/internal/program"
	"github.com/signalsfoundry/satellite-control-sim/internal/simclock"
	"github.com/signalsfoundry/satellite-control-sim/internal/subsys/drawer"
	"github.com/signalsfoundry/satellite-control-sim/internal/subsys/optics"
	"github.com/signalsfoundry/satellite-control-sim/internal/subsys/orbit"
	"github.com/signalsfoundry/satellite-control-sim/internal/uplink"
	"github.com/signalsfoundry/satellite-control-sim/model"
	"github.com/signalsfoundry/satellite-control-sim/monitor"
	"github.com/signalsfoundry/satellite-control-sim/satellite"
	"github.com/signalsfoundry/satellite-control-sim/sched"
	"github.com/signalsfoundry/satellite-control-sim/zone"
)

func main() {
	var (
		configPath string
		demo       bool
		warp       float64
	)

	root := &cobra.Command{
		Use:           "control-station",
		Short:         "Satellite command-and-control station",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(configPath, demo, warp)
		},
	}
	root.Flags().StringVarP(&configPath, "config", "c", "", "path to YAML config (defaults used when empty)")
	root.Flags().BoolVar(&demo, "demo", false, "schedule a canned demonstration command sequence at startup")
	root.Flags().Float64Var(&warp, "warp", 1, "simulation time compression factor for orbital propagation")

	if err := root.Execute(); err != nil {
		os.Stderr.WriteString("control-station: " + err.Error() + "\n")
		os.Exit(1)
	}
}

func run(configPath string, demo bool, warp float64) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	log := logging.New(logging.Config{Level: cfg.Log.Level, Format: cfg.Log.Format})
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	shutdownTracing, err := observability.InitTracing(ctx, observability.TracingConfigFromEnv(), log)
	if err != nil {
		return err
	}
	defer observability.ShutdownWithTimeout(context.Background(), shutdownTracing, log)

	collector, err := observability.NewMonitorCollector(nil)
	if err != nil {
		return err
	}

	dir := bus.NewDirectory()

	tracker := satellite.NewFromTLE(cfg.TLE.Line1, cfg.TLE.Line2)

	clock := simclock.New(time.Now(), warp)
	clockDone := clock.Run(ctx)

	mon := monitor.New(cfg.Channels.Monitor, cfg.Channels.Drawer, dir, log,
		monitor.WithRecorder(collector),
		monitor.WithRules(rulesFromConfig(cfg.Rules)),
	)
	sink := drawer.NewSink(cfg.Channels.Drawer, log)

	processes, err := buildProcesses(cfg, dir, mon, sink, tracker, clock, log)
	if err != nil {
		return err
	}

	if err := preloadZones(ctx, cfg, dir, log); err != nil {
		return err
	}

	var dones []<-chan struct{}
	for _, p := range processes {
		dones = append(dones, p.Run(ctx))
	}

	statusSrv := serveStatus(cfg.Metrics.Addr, collector, mon, sink, log)

	if cfg.Uplink.InboxDir != "" {
		if err := os.MkdirAll(cfg.Uplink.InboxDir, 0o755); err != nil {
			return err
		}
		watcher := uplink.NewWatcher(cfg.Uplink.InboxDir, func(path string) {
			runProgramFile(ctx, cfg, dir, path, log)
		}, log)
		go func() {
			if err := watcher.Run(ctx); err != nil {
				log.Error(ctx, "uplink watcher exited", logging.String("error", err.Error()))
			}
		}()
	}

	if demo {
		scheduleDemo(ctx, cfg, dir, log)
	}

	log.Info(ctx, "control station running",
		logging.String("metrics_addr", cfg.Metrics.Addr),
		logging.String("inbox", cfg.Uplink.InboxDir))

	<-ctx.Done()
	log.Info(ctx, "shutting down control station")

	for _, p := range processes {
		p.Stop()
	}
	for _, done := range dones {
		<-done
	}
	<-clockDone

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if statusSrv != nil {
		_ = statusSrv.Shutdown(shutdownCtx)
	}
	return nil
}

// buildProcesses registers every subsystem actor in the directory. Creation
// order does not matter; no event flows before Run.
func buildProcesses(cfg config.Config, dir *bus.Directory, mon *monitor.Monitor, sink *drawer.Sink, tracker *satellite.Tracker, clock *simclock.Clock, log logging.Logger) ([]*actor.Process, error) {
	specs := []struct {
		name    string
		handler actor.Handler
	}{
		{cfg.Channels.Monitor, mon},
		{cfg.Channels.Drawer, sink},
		{cfg.Channels.Orbit, orbit.NewControl(cfg.Channels.Orbit, cfg.Channels.Monitor, cfg.Channels.Satellite, dir, log)},
		{cfg.Channels.Optics, optics.NewControl(cfg.Channels.Optics, cfg.Channels.Monitor, dir, tracker, log).WithClock(clock.Now)},
		{cfg.Channels.Satellite, satellite.NewActor(cfg.Channels.Satellite, tracker, log).WithClock(clock.Now)},
	}

	processes := make([]*actor.Process, 0, len(specs))
	for _, s := range specs {
		p, err := actor.New(s.name, dir, s.handler, log)
		if err != nil {
			return nil, err
		}
		processes = append(processes, p)
	}
	return processes, nil
}

// preloadZones validates configured zones and submits them through the
// monitor's own channel, so startup zones follow the exact same mediated
// path as runtime ones.
func preloadZones(ctx context.Context, cfg config.Config, dir *bus.Directory, log logging.Logger) error {
	if len(cfg.Zones) == 0 {
		return nil
	}
	mb := dir.Resolve(cfg.Channels.Monitor)

	for _, zc := range cfg.Zones {
		z, err := zone.New(zc.ID, zc.LatBotLeft, zc.LonBotLeft, zc.LatTopRight, zc.LonTopRight, zc.Description, zc.Severity)
		if err != nil {
			return err
		}
		mb.Send(model.Event{
			Source:      "config",
			Destination: cfg.Channels.Monitor,
			Operation:   model.OpAddRestrictedZone,
			Parameters:  z,
		})
	}
	log.Info(ctx, "configured restricted zones submitted", logging.Int("zones", len(cfg.Zones)))
	return nil
}

func rulesFromConfig(rcs []config.RuleConfig) []monitor.Rule {
	if len(rcs) == 0 {
		return monitor.AllowAll()
	}
	rules := make([]monitor.Rule, 0, len(rcs))
	for _, rc := range rcs {
		rules = append(rules, monitor.Rule{
			Source:      monitor.ParsePattern(rc.Source),
			Destination: monitor.ParsePattern(rc.Destination),
			Operation:   monitor.ParsePattern(rc.Operation),
		})
	}
	return rules
}

// runProgramFile executes one uplinked program under the configured uplink
// identity.
func runProgramFile(ctx context.Context, cfg config.Config, dir *bus.Directory, path string, log logging.Logger) {
	f, err := os.Open(path)
	if err != nil {
		log.Error(ctx, "cannot open uplinked program", logging.String("path", path), logging.String("error", err.Error()))
		return
	}
	defer f.Close()

	commands, err := program.Parse(f)
	if err != nil {
		log.Error(ctx, "uplinked program rejected", logging.String("path", path), logging.String("error", err.Error()))
		return
	}

	in := program.NewInterpreter(cfg.Uplink.User, model.Role(cfg.Uplink.Role), dir,
		cfg.Channels.Monitor, cfg.Channels.Orbit, cfg.Channels.Optics, log)
	in.Run(ctx, commands)
}

// scheduleDemo queues the canned demonstration sequence: draw a zone, take
// photos, retarget the orbit, then clear the zone.
func scheduleDemo(ctx context.Context, cfg config.Config, dir *bus.Directory, log logging.Logger) {
	in := program.NewInterpreter("demo", model.RoleAdmin, dir,
		cfg.Channels.Monitor, cfg.Channels.Orbit, cfg.Channels.Optics, log)

	submit := func(text string) func() {
		return func() {
			commands, err := program.Parse(strings.NewReader(text))
			if err != nil {
				log.Error(ctx, "demo program invalid", logging.String("error", err.Error()))
				return
			}
			in.Run(ctx, commands)
		}
	}

	s := sched.New(log)
	s.Add(1*time.Second, submit("ADD ZONE 1 50 30 60 40"))
	s.Add(3*time.Second, submit("MAKE PHOTO"))
	s.Add(6*time.Second, submit("MAKE PHOTO"))
	s.Add(9*time.Second, submit("ORBIT 400000 0.5 0.9"))
	s.Add(12*time.Second, submit("REMOVE ZONE 1"))
	s.Start(ctx)
}

// serveStatus exposes /metrics and a JSON /statusz on the same listener.
func serveStatus(addr string, collector *observability.MonitorCollector, mon *monitor.Monitor, sink *drawer.Sink, log logging.Logger) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", collector.Handler())
	mux.HandleFunc("/statusz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"violations":   mon.ViolationStats(),
			"zone_count":   mon.RestrictedZoneCount(),
			"zone_ids":     mon.ZoneIDs(),
			"photo_points": sink.PhotoCount(),
			"zones_drawn":  sink.ZoneIDs(),
		})
	})

	srv := &http.Server{Addr: addr, Handler: mux}
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Warn(context.Background(), "status server exited", logging.String("error", err.Error()))
		}
	}()

	log.Info(context.Background(), "serving /metrics and /statusz", logging.String("addr", addr))
	return srv
}
