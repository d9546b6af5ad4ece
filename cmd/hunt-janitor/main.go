package main

import (
	"context"
	"net/mail"
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"
	"github.com/urfave/cli/v3"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/hunt-ops/hunt-manager/global"
	"github.com/hunt-ops/hunt-manager/pkg/store/sqlite"
)

var (
	Version = "dev"
	Commit  = ""
	Date    = ""
	BuiltBy = ""
)

func main() {
	cmd := &cli.Command{
		Name:  "Hunt-Janitor",
		Usage: "Hunt-Janitor is an utility that reclaims photo blobs no submission references anymore.",
		Flags: []cli.Flag{
			cli.VersionFlag,
			cli.HelpFlag,
			&cli.StringFlag{
				Name:        "dir",
				Aliases:     []string{"d"},
				Sources:     cli.EnvVars("DIR"),
				Value:       "/tmp/hunt-manager",
				Destination: &global.Conf.Directory,
				Usage:       "The hunt-manager data directory to sweep.",
			},
			&cli.DurationFlag{
				Name:    "grace",
				Sources: cli.EnvVars("GRACE"),
				Value:   time.Hour,
				Usage:   "Leave blobs younger than this alone, they may be mid-upload.",
			},
			&cli.BoolFlag{
				Name:    "dry-run",
				Sources: cli.EnvVars("DRY_RUN"),
				Usage:   "If set, report orphans without deleting them.",
			},
			&cli.StringFlag{
				Name:    "log-level",
				Sources: cli.EnvVars("LOG_LEVEL"),
				Value:   "info",
				Action: func(_ context.Context, _ *cli.Command, lvl string) error {
					_, err := zapcore.ParseLevel(lvl)
					return err
				},
				Destination: &global.Conf.LogLevel,
				Usage:       "Use to specify the level of logging.",
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
	logger := global.Log()

	grace := cmd.Duration("grace")
	dryRun := cmd.Bool("dry-run")

	st, err := sqlite.Open(filepath.Join(global.Conf.Directory, "hunt-manager.db"))
	if err != nil {
		return errors.Wrap(err, "opening record store")
	}
	defer func() {
		err = multierr.Append(err, st.Close())
	}()

	// Every ref a submission currently points at is off limits.
	refs, err := st.ListPhotoRefs(ctx)
	if err != nil {
		return err
	}
	referenced := make(map[string]struct{}, len(refs))
	for _, ref := range refs {
		referenced[ref] = struct{}{}
	}

	photosDir := filepath.Join(global.Conf.Directory, "photos")
	entries, err := os.ReadDir(photosDir)
	if err != nil {
		if os.IsNotExist(err) {
			logger.Info(ctx, "no photos directory, nothing to janitor")
			return nil
		}
		return errors.Wrap(err, "reading photos directory")
	}

	janitored := 0
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if _, ok := referenced[entry.Name()]; ok {
			continue
		}

		// Young orphans may be a store-then-record sequence in flight.
		info, err := entry.Info()
		if err != nil {
			logger.Error(ctx, "reading blob info",
				zap.String("photo_ref", entry.Name()),
				zap.Error(err),
			)
			continue
		}
		if time.Since(info.ModTime()) < grace {
			continue
		}

		logger.Info(ctx, "janitoring orphan blob",
			zap.String("photo_ref", entry.Name()),
			zap.Bool("dry_run", dryRun),
		)
		if !dryRun {
			if err := os.Remove(filepath.Join(photosDir, entry.Name())); err != nil {
				logger.Error(ctx, "deleting orphan blob",
					zap.String("photo_ref", entry.Name()),
					zap.Error(err),
				)
				continue
			}
		}
		janitored++
	}

	logger.Info(ctx, "janitor done",
		zap.Int("orphans", janitored),
	)
	return nil
}
