package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/csheth/emotionscope/internal/analysis"
	"github.com/csheth/emotionscope/internal/analyzer"
	"github.com/csheth/emotionscope/internal/config"
	"github.com/csheth/emotionscope/internal/logging"
	"github.com/csheth/emotionscope/internal/render"
	"github.com/csheth/emotionscope/internal/report"
	"github.com/csheth/emotionscope/internal/termchart"
)

var headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("81"))

func newReportCmd(configPath *string) *cobra.Command {
	var (
		fromJSON string
		width    int
	)
	cmd := &cobra.Command{
		Use:   "report [audio-file]",
		Short: "Print the analysis of a recording without the interactive UI",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if (len(args) == 1) == (fromJSON != "") {
				return errors.New("give exactly one of an audio file or --from-json")
			}
			cfg, err := config.Load(*configPath, cmd.Flags())
			if err != nil {
				return err
			}
			log, err := logging.Stderr(cfg.Log.Level)
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()

			scale, err := loadScale(cfg.Scale.Path)
			if err != nil {
				return err
			}

			var result analysis.Result
			if fromJSON != "" {
				raw, err := os.ReadFile(fromJSON)
				if err != nil {
					return fmt.Errorf("read response: %w", err)
				}
				if result, err = analyzer.DecodeResponse(raw); err != nil {
					return fmt.Errorf("%s: %w", analyzer.UserMessage(err), err)
				}
			} else {
				if err := analyzer.CheckFile(args[0], cfg.Upload.MaxBytes); err != nil {
					return err
				}
				client, err := analyzer.New(analyzer.Config{BaseURL: cfg.Backend.URL, Timeout: cfg.Backend.Timeout})
				if err != nil {
					return err
				}
				ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
				defer stop()
				log.Infow("uploading", "path", args[0], "backend", client.BaseURL())
				if result, err = client.Analyze(ctx, "", args[0]); err != nil {
					log.Errorw("analysis failed", "error", err)
					return errors.New(analyzer.UserMessage(err))
				}
			}

			view := report.Build(scale, result)
			adapter := render.New(termchart.New(), scale)
			defer adapter.Close()
			frame, err := adapter.Render(view, render.Options{Width: width, Focus: -1})
			if err != nil {
				return err
			}
			writeReport(cmd.OutOrStdout(), frame)
			return nil
		},
	}
	cmd.Flags().StringVar(&fromJSON, "from-json", "", "render a saved /analyze response instead of uploading")
	cmd.Flags().IntVar(&width, "width", 100, "output width in columns")
	return cmd
}

func writeReport(w io.Writer, frame render.Frame) {
	sections := []string{
		frame.Stats,
		frame.Breakdown,
		frame.Timeline,
		headerStyle.Render("Emotion Summary") + "\n" + frame.Cards,
		headerStyle.Render("Detailed Timeline") + "\n" + frame.List,
	}
	var kept []string
	for _, s := range sections {
		if strings.TrimSpace(s) != "" {
			kept = append(kept, s)
		}
	}
	fmt.Fprintln(w, strings.Join(kept, "\n\n"))
}
