package main

import (
	"context"
	"net/mail"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/pkg/errors"
	"github.com/urfave/cli/v3"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/hunt-ops/hunt-manager/global"
	"github.com/hunt-ops/hunt-manager/pkg/blob"
	"github.com/hunt-ops/hunt-manager/pkg/store/sqlite"
	"github.com/hunt-ops/hunt-manager/server"
)

var (
	Version = "dev"
	Commit  = ""
	Date    = ""
	BuiltBy = ""
)

func main() {
	cmd := &cli.Command{
		Name:  "Hunt-Manager",
		Usage: "Scavenger hunt sessions and their photographic evidence, anywhere at any time",
		Flags: []cli.Flag{
			cli.VersionFlag,
			cli.HelpFlag,
			&cli.IntFlag{
				Name:     "port",
				Aliases:  []string{"p"},
				Sources:  cli.EnvVars("PORT"),
				Category: "global",
				Value:    8080,
				Usage:    "Define the API server port to listen on.",
			},
			&cli.StringFlag{
				Name:        "dir",
				Aliases:     []string{"d"},
				Sources:     cli.EnvVars("DIR"),
				Category:    "global",
				Value:       "/tmp/hunt-manager",
				Destination: &global.Conf.Directory,
				Usage:       "Define the volume to read/write the database and photo blobs to.",
			},
			&cli.StringFlag{
				Name:     "log-level",
				Sources:  cli.EnvVars("LOG_LEVEL"),
				Category: "global",
				Value:    "info",
				Action: func(_ context.Context, _ *cli.Command, lvl string) error {
					_, err := zapcore.ParseLevel(lvl)
					return err
				},
				Destination: &global.Conf.LogLevel,
				Usage:       "Use to specify the level of logging.",
			},
			&cli.BoolFlag{
				Name:        "tracing",
				Sources:     cli.EnvVars("TRACING"),
				Category:    "otel",
				Destination: &global.Conf.Otel.Tracing,
				Usage:       "If set, turns on the OpenTelemetry SDK (traces, metrics, logs over OTLP).",
			},
			&cli.StringFlag{
				Name:        "otel.service-name",
				Sources:     cli.EnvVars("OTEL_SERVICE_NAME"),
				Category:    "otel",
				Destination: &global.Conf.Otel.ServiceName,
				Usage:       "Override the service name attached to telemetry.",
			},
			&cli.StringFlag{
				Name:        "etcd.endpoint",
				Sources:     cli.EnvVars("ETCD_ENDPOINT"),
				Category:    "lock",
				Destination: &global.Conf.Etcd.Endpoint,
				Usage:       "Define the etcd endpoint to reach for distributed locks. Locks are process-local when unset.",
			},
			&cli.StringFlag{
				Name:        "etcd.username",
				Sources:     cli.EnvVars("ETCD_USERNAME"),
				Category:    "lock",
				Destination: &global.Conf.Etcd.Username,
				Usage:       "If lock is etcd, define the username to use to connect to the etcd cluster.",
				Action: func(_ context.Context, cmd *cli.Command, _ string) error {
					if cmd.String("etcd.endpoint") == "" {
						return errors.New("must configure an etcd endpoint along credentials")
					}
					return nil
				},
			},
			&cli.StringFlag{
				Name:        "etcd.password",
				Sources:     cli.EnvVars("ETCD_PASSWORD"),
				Category:    "lock",
				Destination: &global.Conf.Etcd.Password,
				Usage:       "If lock is etcd, define the password to use to connect to the etcd cluster.",
				Action: func(_ context.Context, cmd *cli.Command, _ string) error {
					if cmd.String("etcd.endpoint") == "" {
						return errors.New("must configure an etcd endpoint along credentials")
					}
					return nil
				},
			},
		},
		Action: run,
		Authors: []any{
			mail.Address{
				Name: "hunt-ops",
			},
		},
		Version: Version,
		Metadata: map[string]any{
			"version": Version,
			"commit":  Commit,
			"date":    Date,
			"builtBy": BuiltBy,
		},
	}

	ctx := context.Background()
	if err := cmd.Run(ctx, os.Args); err != nil {
		global.Log().Error(ctx, "fatal error",
			zap.Error(err),
		)
		os.Exit(1)
	}
}

func run(ctx context.Context, cmd *cli.Command) (err error) {
	// Pre-flight global configuration
	global.Version = Version

	port := cmd.Int("port")

	// Set up OpenTelemetry
	otelShutdown, err := global.SetupOTelSDK(ctx)
	if err != nil {
		return err
	}
	// Handle shutdown properly so nothing leaks
	defer func() {
		err = multierr.Append(err, otelShutdown(context.WithoutCancel(ctx)))
	}()

	logger := global.Log()
	logger.Info(ctx, "starting API server",
		zap.Int("port", int(port)),
		zap.String("directory", global.Conf.Directory),
	)

	// Create context that listens for the interrupt signal from the OS
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Open the photo blob store and the record store
	blobs, err := blob.NewLocal(filepath.Join(global.Conf.Directory, "photos"))
	if err != nil {
		return errors.Wrap(err, "opening photo blob store")
	}
	st, err := sqlite.Open(filepath.Join(global.Conf.Directory, "hunt-manager.db"))
	if err != nil {
		return errors.Wrap(err, "opening record store")
	}
	defer func() {
		err = multierr.Append(err, st.Close())
	}()

	// Launch API server
	srv := server.NewServer(server.Options{
		Port: int(port),
	}, st, blobs)
	if err := srv.Run(ctx); err != nil {
		return err
	}

	// Listen for the interrupt signal
	<-ctx.Done()

	// Restore default behavior on the interrupt signal
	stop()
	logger.Info(ctx, "shutting down gracefully")

	sctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(sctx); err != nil {
		logger.Error(sctx, "shutting down http server",
			zap.Error(err),
		)
	}

	if edp := cmd.String("etcd.endpoint"); edp != "" {
		if err := global.GetEtcdManager().Close(sctx); err != nil {
			logger.Error(sctx, "closing connection to etcd",
				zap.Error(err),
			)
		}
	}

	return nil
}
