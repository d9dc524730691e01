package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v3"

	"github.com/starford/docmirror/internal"
	"github.com/starford/docmirror/internal/apperr"
	pkgconfig "github.com/starford/docmirror/pkg/config"
)

// errUsage marks an invocation that selected nothing to do.
var errUsage = errors.New("usage")

func selectedSources(cmd *cli.Command) []string {
	if cmd.Bool("all") {
		return internal.SourceNames
	}
	var names []string
	for _, name := range internal.SourceNames {
		if cmd.Bool(name) {
			names = append(names, name)
		}
	}
	return names
}

func run(ctx context.Context, cmd *cli.Command) error {
	// The env file is loaded before the config so ${VAR} references resolve.
	if err := pkgconfig.LoadEnv(cmd.String("env-file")); err != nil {
		return err
	}

	configPath := cmd.String("config")

	cfg := internal.NewDefaultConfig()
	if err := pkgconfig.LoadWithDefaults(configPath, cfg); err != nil {
		return fmt.Errorf("failed to parse config: %w", err)
	}

	sources := selectedSources(cmd)
	status := cmd.Bool("status")
	if !status && len(sources) == 0 {
		_ = cli.ShowAppHelp(cmd)
		return errUsage
	}

	opts := []internal.Option{
		internal.WithConfig(cfg),
		internal.WithSources(sources...),
		internal.WithForce(cmd.Bool("force")),
		internal.WithStatus(status),
		internal.WithVerbose(cmd.Bool("verbose")),
	}

	if err := internal.Run(ctx, opts...); err != nil {
		if errors.Is(err, apperr.ErrSyncFailed) {
			return err
		}
		return fmt.Errorf("app run error: %w", err)
	}

	return nil
}

func newCommand() *cli.Command {
	return &cli.Command{
		Name:   "docmirror",
		Usage:  "Mirror Notion, Miro and Figma documentation into a Markdown vault",
		Action: run,
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "all", Aliases: []string{"a"}, Usage: "Sync every source"},
			&cli.BoolFlag{Name: "notion", Aliases: []string{"n"}, Usage: "Sync the Notion page tree"},
			&cli.BoolFlag{Name: "miro", Aliases: []string{"m"}, Usage: "Sync the Miro board"},
			&cli.BoolFlag{Name: "figma", Aliases: []string{"f"}, Usage: "Sync the Figma file"},
			&cli.BoolFlag{Name: "force", Usage: "Sync even when the cached copy is fresh"},
			&cli.BoolFlag{Name: "status", Aliases: []string{"s"}, Usage: "Show cache status and exit"},
			&cli.BoolFlag{Name: "verbose", Aliases: []string{"v"}, Usage: "Enable debug logging"},
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "Path to config file",
				DefaultText: "config/config.yaml",
				Value:       "config/config.yaml",
				Sources:     cli.EnvVars("APP_CONFIG_FILE"),
			},
			&cli.StringFlag{
				Name:  "env-file",
				Usage: "Path to a dotenv file with API tokens",
				Value: ".env",
			},
		},
	}
}

func main() {
	cmd := newCommand()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cmd.Run(ctx, os.Args); err != nil {
		if !errors.Is(err, errUsage) && !errors.Is(err, apperr.ErrSyncFailed) {
			slog.Error("application error", slog.String("error", err.Error()))
		}
		stop()
		os.Exit(1)
	}
}
