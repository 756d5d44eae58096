package main

import (
	"fmt"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/urfave/cli/v2"

	"github.com/palemoky/kash-scorekeeper/internal/config"
	"github.com/palemoky/kash-scorekeeper/internal/logger"
	"github.com/palemoky/kash-scorekeeper/internal/ui"
)

func main() {
	app := &cli.App{
		Name:  "kash",
		Usage: "keep score for a three-player game of Kash in the terminal",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "config",
				Usage: "optional config file; game.losing_score is read from it",
			},
			&cli.IntFlag{
				Name:    "losing-score",
				Aliases: []string{"l"},
				Usage:   "score at which a player loses (overrides the config file)",
			},
			&cli.StringFlag{
				Name:  "log-level",
				Value: "info",
				Usage: "debug, info, warn or error; logs go to ~/.kash/debug.log",
			},
		},
		Action: run,
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(c *cli.Context) error {
	if err := logger.InitFile(c.String("log-level")); err != nil {
		return fmt.Errorf("init log file: %w", err)
	}
	defer logger.Close()

	cfg := config.Default()
	if path := c.String("config"); path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = loaded
	}

	losing := cfg.Game.LosingScore
	if c.IsSet("losing-score") {
		losing = c.Int("losing-score")
	}

	slog.Info("🎲 终端记分器启动", "losing_score", losing, "log", logger.GetLogPath())

	p := tea.NewProgram(ui.NewScorekeeper(losing), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run scorekeeper: %w", err)
	}
	return nil
}
