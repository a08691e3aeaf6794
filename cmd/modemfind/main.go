package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v3"

	"github.com/starford/modemfind/internal"
	"github.com/starford/modemfind/internal/apperr"
	"github.com/starford/modemfind/internal/sysfs"
)

// Exit codes.
const (
	exitNotFound = 1
	exitFailure  = 2
)

// configFromCommand builds the configuration from flags and arguments.
//
// Arguments are ROOT followed by the filter chain. With ROOT alone the chain
// is empty and ROOT itself is queried.
func configFromCommand(cmd *cli.Command) (*internal.Config, error) {
	cfg := internal.NewDefaultConfig()

	level, err := parseLevel(cmd.String("log-level"))
	if err != nil {
		return nil, err
	}
	cfg.App.LogLevel = level
	cfg.App.Format = cmd.String("format")

	if args := cmd.Args().Slice(); len(args) > 0 {
		cfg.Discovery.Root = args[0]
		cfg.Discovery.Filters = args[1:]
	}
	cfg.Discovery.Depth = int(cmd.Int("depth"))
	cfg.Discovery.Model = cmd.String("model")
	cfg.Discovery.VendorID = strings.ToLower(cmd.String("vid"))
	cfg.Discovery.ModelID = strings.ToLower(cmd.String("pid"))
	cfg.Discovery.Catalog = cmd.String("catalog")

	if q := cmd.String("query-cmd"); q != "" {
		cfg.Query.Command = strings.Fields(q)
	}
	cfg.Query.Timeout = cmd.Duration("query-timeout")

	if cmd.IsSet("watch-dir") {
		cfg.Watch.Dir = cmd.String("watch-dir")
	}
	if cmd.IsSet("debounce") {
		cfg.Watch.Debounce = cmd.Duration("debounce")
	}

	return cfg, nil
}

func parseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("invalid log level %q: %w", s, err)
	}
	return level, nil
}

// action adapts an internal entry point to a cli action.
func action(run func(context.Context, ...internal.Option) error) cli.ActionFunc {
	return func(ctx context.Context, cmd *cli.Command) error {
		cfg, err := configFromCommand(cmd)
		if err != nil {
			return err
		}
		return run(ctx, internal.WithConfig(cfg))
	}
}

func newCommand() *cli.Command {
	flags := []cli.Flag{
		&cli.IntFlag{
			Name:    "depth",
			Aliases: []string{"d"},
			Usage:   "Maximum directory depth to search below ROOT",
			Value:   sysfs.DefaultDepth,
			Sources: cli.EnvVars("MODEMFIND_DEPTH"),
		},
		&cli.StringFlag{
			Name:    "model",
			Aliases: []string{"m"},
			Usage:   "Catalog model to look for (see the models command)",
			Value:   "SIM7600",
			Sources: cli.EnvVars("MODEMFIND_MODEL"),
		},
		&cli.StringFlag{
			Name:    "vid",
			Usage:   "USB vendor ID (hex); with --pid, overrides --model",
			Sources: cli.EnvVars("MODEMFIND_VID"),
		},
		&cli.StringFlag{
			Name:    "pid",
			Usage:   "USB model ID (hex); with --vid, overrides --model",
			Sources: cli.EnvVars("MODEMFIND_PID"),
		},
		&cli.StringFlag{
			Name:    "catalog",
			Usage:   "YAML file replacing the builtin model catalog",
			Sources: cli.EnvVars("MODEMFIND_CATALOG"),
		},
		&cli.StringFlag{
			Name:    "format",
			Aliases: []string{"f"},
			Usage:   "Output format: env or plain",
			Value:   internal.FormatEnv,
			Sources: cli.EnvVars("MODEMFIND_FORMAT"),
		},
		&cli.StringFlag{
			Name:    "query-cmd",
			Usage:   "Property query command; {path} is replaced by the device path",
			Sources: cli.EnvVars("MODEMFIND_QUERY_CMD"),
		},
		&cli.DurationFlag{
			Name:    "query-timeout",
			Usage:   "Per-device query timeout (0 waits forever)",
			Sources: cli.EnvVars("MODEMFIND_QUERY_TIMEOUT"),
		},
		&cli.StringFlag{
			Name:    "log-level",
			Usage:   "Log level: debug, info, warn or error",
			Value:   "warn",
			Sources: cli.EnvVars("MODEMFIND_LOG_LEVEL"),
		},
	}

	return &cli.Command{
		Name:      "modemfind",
		Usage:     "Locate a USB cellular modem and report its serial interface range",
		ArgsUsage: "[ROOT [FILTER...]]",
		Flags:     flags,
		Action:    action(internal.Run),
		Commands: []*cli.Command{
			{
				Name:      "watch",
				Usage:     "Report the interface range every time it changes",
				ArgsUsage: "[ROOT [FILTER...]]",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "watch-dir",
						Usage:   "Directory whose serial device nodes trigger a rescan",
						Value:   "/dev",
						Sources: cli.EnvVars("MODEMFIND_WATCH_DIR"),
					},
					&cli.DurationFlag{
						Name:    "debounce",
						Usage:   "Quiet period after device node events before rescanning",
						Sources: cli.EnvVars("MODEMFIND_DEBOUNCE"),
					},
				},
				Action: action(internal.Watch),
			},
			{
				Name:   "models",
				Usage:  "List the known modem models",
				Action: action(internal.Models),
			},
		},
	}
}

func main() {
	if err := newCommand().Run(context.Background(), os.Args); err != nil {
		if errors.Is(err, apperr.ErrDeviceNotFound) {
			os.Exit(exitNotFound)
		}
		slog.Error("application error", slog.String("error", err.Error()))
		os.Exit(exitFailure)
	}
}
