package main

import (
	"context"
	"fmt"
	"os"

	"github.com/alecthomas/kong"
	tea "github.com/charmbracelet/bubbletea"
	ffmpeg "github.com/csnewman/ffmpeg-go"
	"github.com/sirupsen/logrus"

	"github.com/daialabs/callaudit/internal/analyzer"
	"github.com/daialabs/callaudit/internal/cli"
	"github.com/daialabs/callaudit/internal/config"
	"github.com/daialabs/callaudit/internal/diarize"
	"github.com/daialabs/callaudit/internal/report"
	"github.com/daialabs/callaudit/internal/sentiment"
	"github.com/daialabs/callaudit/internal/transcribe"
	"github.com/daialabs/callaudit/internal/ui"
)

var (
	version = "0.1.0"
)

// CLI defines the command-line interface
type CLI struct {
	Version bool     `short:"v" help:"Show version information"`
	Config  string   `short:"c" type:"path" help:"Path to YAML config file (optional)"`
	Report  bool     `short:"r" help:"Write a markdown report next to each input file"`
	JSON    bool     `short:"j" help:"Write the full JSON result next to each input file"`
	Files   []string `arg:"" name:"files" help:"Call recordings to analyze" type:"existingfile" optional:""`
}

func main() {
	// Suppress FFmpeg info/verbose logging to keep the TUI clean
	ffmpeg.AVLogSetLevel(ffmpeg.AVLogError)

	cliArgs := &CLI{}
	ctx := kong.Parse(cliArgs,
		kong.Name("callaudit"),
		kong.Description("Call recording speaker and role analyzer"),
		kong.UsageOnError(),
		kong.Vars{
			"version": version,
		},
		kong.Help(cli.StyledHelpPrinter(kong.HelpOptions{Compact: true})),
	)

	// Handle version flag
	if cliArgs.Version {
		cli.PrintVersion(version)
		os.Exit(0)
	}

	// Validate input
	if len(cliArgs.Files) == 0 {
		cli.PrintError("No input files specified")
		ctx.PrintUsage(false)
		os.Exit(1)
	}

	cfg, err := config.Load(cliArgs.Config)
	if err != nil {
		cli.PrintError(err.Error())
		os.Exit(1)
	}

	if cfg.Services.Transcription.URL == "" {
		cli.PrintError("No transcription service configured (services.transcription.url)")
		os.Exit(1)
	}

	log, logFile := newLogger(cfg.Logging)
	if logFile != nil {
		defer logFile.Close()
	}

	var classifier sentiment.Classifier
	if cfg.Services.Sentiment.URL != "" {
		classifier = sentiment.NewHTTPClient(cfg.Services.Sentiment.URL)
	} else {
		log.Warn("no sentiment service configured, skipping classification")
	}

	// Create the Bubbletea UI model
	model := ui.NewModel(cliArgs.Files)

	// Start the TUI
	p := tea.NewProgram(model, tea.WithAltScreen())

	// Analyze in background
	go func() {
		for i, inputPath := range cliArgs.Files {
			fileIndex := i

			p.Send(ui.FileStartMsg{
				FileIndex: fileIndex,
				FileName:  inputPath,
			})

			a := analyzer.New(analyzer.Options{
				Transcriber: transcribe.NewHTTPClient(cfg.Services.Transcription.URL),
				Classifier:  classifier,
				Diarizer:    diarize.New(cfg.Diarizer),
				Roles:       cfg.Roles,
				Balance:     cfg.Balance,
				Logger:      log,
				OnStage: func(stage string) {
					p.Send(ui.StageMsg{FileIndex: fileIndex, Stage: stage})
				},
			})

			result, err := a.Process(context.Background(), inputPath)
			if err != nil {
				log.WithField("file", inputPath).WithError(err).Error("analysis failed")
				p.Send(ui.FileCompleteMsg{
					FileIndex: fileIndex,
					Error:     err,
				})
				continue
			}

			if cliArgs.Report {
				if path, err := report.WriteMarkdown(inputPath, result); err != nil {
					log.WithError(err).Error("failed to write markdown report")
				} else {
					log.WithField("path", path).Info("markdown report written")
				}
			}
			if cliArgs.JSON {
				if path, err := report.WriteJSON(inputPath, result); err != nil {
					log.WithError(err).Error("failed to write JSON result")
				} else {
					log.WithField("path", path).Info("JSON result written")
				}
			}

			p.Send(ui.FileCompleteMsg{
				FileIndex: fileIndex,
				Result:    result,
			})
		}

		p.Send(ui.AllCompleteMsg{})
	}()

	// Run the program
	if _, err := p.Run(); err != nil {
		cli.PrintError(fmt.Sprintf("UI error: %v", err))
		os.Exit(1)
	}
}

// newLogger builds the logrus logger from config. The TUI owns stdout, so
// logs go to the configured file; on open failure they are discarded.
func newLogger(cfg config.Logging) (*logrus.Logger, *os.File) {
	log := logrus.New()

	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	log.SetLevel(level)

	f, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		log.SetOutput(os.Stderr)
		return log, nil
	}
	log.SetOutput(f)
	return log, f
}
