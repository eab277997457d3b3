package main

import (
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/csheth/emotionscope/internal/analyzer"
	"github.com/csheth/emotionscope/internal/config"
	"github.com/csheth/emotionscope/internal/emotion"
	"github.com/csheth/emotionscope/internal/logging"
	"github.com/csheth/emotionscope/internal/termchart"
	"github.com/csheth/emotionscope/internal/tui"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string
	root := &cobra.Command{
		Use:           "emotionscope [audio-file]",
		Short:         "Analyze the emotional arc of a recording",
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath, cmd.Flags())
			if err != nil {
				return err
			}
			log, err := logging.New(cfg.Log.Dir, cfg.Log.Level)
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()
			return runTUI(cfg, log, args)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&configPath, "config", "", "path to a YAML config file")
	flags.String("backend", "", "analysis backend URL (default http://localhost:5000)")
	flags.Duration("timeout", 0, "per-request timeout, 0 waits indefinitely (default 5m)")
	flags.Int64("max-bytes", 0, "largest upload accepted, in bytes (default 50MB)")
	flags.String("log-dir", "", "directory for emotionscope.log")
	flags.String("log-level", "", "debug, info, warn or error (default info)")
	flags.String("scale", "", "YAML file describing a custom emotion scale")
	root.Flags().Bool("no-alt-screen", false, "disable the alternate screen buffer")

	root.AddCommand(newReportCmd(&configPath), newHealthCmd(&configPath))
	return root
}

func runTUI(cfg config.Config, log *zap.SugaredLogger, args []string) error {
	scale, err := loadScale(cfg.Scale.Path)
	if err != nil {
		return err
	}
	client, err := analyzer.New(analyzer.Config{BaseURL: cfg.Backend.URL, Timeout: cfg.Backend.Timeout})
	if err != nil {
		return err
	}

	initial := ""
	if len(args) == 1 {
		if initial, err = filepath.Abs(args[0]); err != nil {
			return fmt.Errorf("resolve audio path: %w", err)
		}
	}
	log.Infow("starting",
		"backend", client.BaseURL(),
		"timeout", cfg.Backend.Timeout,
		"max_upload_bytes", cfg.Upload.MaxBytes,
	)

	opts := []tea.ProgramOption{}
	if cfg.UI.AltScreen {
		opts = append(opts, tea.WithAltScreen())
	}
	program := tea.NewProgram(
		tui.New(tui.Config{
			Backend:        client,
			BackendURL:     client.BaseURL(),
			Scale:          scale,
			Charts:         termchart.New(),
			Logger:         log,
			MaxUploadBytes: cfg.Upload.MaxBytes,
			InitialPath:    initial,
		}),
		opts...,
	)
	if _, err := program.Run(); err != nil {
		log.Errorw("program error", "error", err)
		return fmt.Errorf("program error: %w", err)
	}
	return nil
}

func loadScale(path string) (*emotion.Scale, error) {
	if path == "" {
		return emotion.Default(), nil
	}
	scale, err := emotion.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load scale: %w", err)
	}
	return scale, nil
}
