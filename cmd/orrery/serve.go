package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"cosmossdk.io/log"
	"github.com/gdamore/tcell/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/oxygene76/orrery/pkg/orrery/simulation"
	"github.com/oxygene76/orrery/pkg/orrery/stream"
	"github.com/oxygene76/orrery/pkg/server"
	"github.com/oxygene76/orrery/pkg/utils"
	"github.com/oxygene76/orrery/pkg/viewer"
)

// serveCmd runs the frame loop behind the HTTP API
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the simulation and serve it over HTTP and WebSocket",
	RunE: func(cmd *cobra.Command, args []string) error {
		if port, _ := cmd.Flags().GetInt("port"); port > 0 {
			config.Server.Port = port
		}
		if cmd.Flags().Changed("redis") {
			config.Redis.Enabled, _ = cmd.Flags().GetBool("redis")
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		return runServe(ctx, config, fmt.Sprintf(":%d", config.Server.Port), logger)
	},
}

// runServe runs the frame loop, the HTTP server and the optional Redis
// listener until ctx is cancelled or one of them fails. It returns only
// after every one of them has stopped and the sinks are closed.
func runServe(ctx context.Context, cfg *utils.Config, addr string, logger log.Logger) error {
	sim, err := newSimulation(cfg)
	if err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	metrics := simulation.NewMetrics(reg)

	hub := stream.NewHub(logger, stream.WithCommandApplier(sim))
	runner := simulation.NewRunner(sim, cfg.Runner.TickRate, logger, metrics,
		stream.NewThrottled(hub, cfg.Server.StreamRate))

	if cfg.Output.FramesPath != "" {
		w, err := stream.CreateJSONLFile(cfg.Output.FramesPath)
		if err != nil {
			return fmt.Errorf("failed to create frame log: %w", err)
		}
		runner.AddSink(w)
	}

	var listener *stream.RedisControlListener
	if cfg.Redis.Enabled {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer client.Close()
		if err := client.Ping(ctx).Err(); err != nil {
			_ = runner.Close()
			return fmt.Errorf("failed to connect to redis at %s: %w", cfg.Redis.Addr, err)
		}
		logger.Info("connected to redis", "addr", cfg.Redis.Addr)

		runner.AddSink(stream.NewRedisPublisher(client, cfg.Redis.FrameChannel, cfg.Redis.PublishRate))
		if cfg.Redis.ControlChannel != "" {
			listener = stream.NewRedisControlListener(client, cfg.Redis.ControlChannel, sim, logger)
		}
	}

	srv := server.New(sim, hub, reg, logger, server.WithAllowedOrigins(cfg.Server.AllowedOrigins...))

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return runner.Run(gctx) })
	g.Go(func() error { return srv.ListenAndServe(gctx, addr) })
	if listener != nil {
		g.Go(func() error { return listener.Run(gctx) })
	}

	err = g.Wait()
	logger.Info("shut down", "err", err)
	return err
}

// watchCmd shows the simulation in the terminal
var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch the orrery in the terminal",
	Long: `Watch draws a top-down map of the orrery in the terminal.

Keys: space pause, +/- scale, ]/[ speed, r reverse, s skybox,
0-9 select a body, esc clear selection, q quit.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		sim, err := newSimulation(config)
		if err != nil {
			return err
		}

		screen, err := tcell.NewScreen()
		if err != nil {
			return err
		}
		if err := screen.Init(); err != nil {
			return err
		}

		// the screen owns the terminal, so log lines would corrupt it
		quiet := log.NewNopLogger()
		v := viewer.New(screen, sim, sim.BodyInfos(), quiet)
		runner := simulation.NewRunner(sim, config.Runner.TickRate, quiet, nil, v)

		runCtx, cancel := context.WithCancel(ctx)
		done := make(chan error, 1)
		go func() { done <- runner.Run(runCtx) }()

		err = v.Run(runCtx)
		cancel()
		if rerr := <-done; err == nil {
			err = rerr
		}
		return err
	},
}

func init() {
	serveCmd.Flags().Int("port", 0, "HTTP port (default server.port)")
	serveCmd.Flags().Bool("redis", false, "publish frames and accept commands over redis")
}
