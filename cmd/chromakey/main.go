// Package main provides the CLI entry point for chromakey.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/ideamans/go-l10n"
	"github.com/urfave/cli/v2"

	"github.com/user/chromakey/pkg/adapters/filesink"
	"github.com/user/chromakey/pkg/adapters/ggrenderer"
	"github.com/user/chromakey/pkg/adapters/logger"
	"github.com/user/chromakey/pkg/adapters/nullsink"
	"github.com/user/chromakey/pkg/adapters/osfilesystem"
	"github.com/user/chromakey/pkg/codec"
	"github.com/user/chromakey/pkg/config"
	"github.com/user/chromakey/pkg/framework"
	"github.com/user/chromakey/pkg/orchestrator"
	"github.com/user/chromakey/pkg/ports"
	"github.com/user/chromakey/pkg/stages/key"
	"github.com/user/chromakey/pkg/stages/load"
	"github.com/user/chromakey/pkg/stages/rawout"
	"github.com/user/chromakey/pkg/summarizer"
)

var version = "dev"

// Flag categories
const (
	categoryKeying   = "Keying"
	categoryDecoding = "Decoding"
	categoryDebug    = "Debug"
	categoryLogging  = "Logging"
)

func main() {
	os.Exit(run(os.Args, os.Stdout, os.Stderr))
}

// run executes the CLI and returns the process exit code. Any failure is
// reported as a single line on stderr.
func run(args []string, stdout, stderr io.Writer) int {
	app := newApp(stdout, stderr)
	if err := app.Run(args); err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	return 0
}

func newApp(stdout, stderr io.Writer) *cli.App {
	return &cli.App{
		Name:      "chromakey",
		Usage:     l10n.T("Key out a color from the first frame of an image or video"),
		UsageText: l10n.T("chromakey [flags] <input-image-path> <output-raw-path>"),
		Description: l10n.T("chromakey decodes the first frame of the input, removes the key color " +
			"through a buffer, format, chromakey and buffersink filter chain, and writes the raw planes of the result."),
		Version:         version,
		Writer:          stdout,
		ErrWriter:       stderr,
		HideHelpCommand: true,
		Flags:           flags(),
		Action: func(c *cli.Context) error {
			return keyCommand(c, stdout, stderr)
		},
		Commands: []*cli.Command{
			{
				Name:  "version",
				Usage: l10n.T("Show version information"),
				Action: func(c *cli.Context) error {
					fmt.Fprintln(stdout, l10n.F("chromakey (Go) version %s", version))
					return nil
				},
			},
		},
	}
}

func flags() []cli.Flag {
	defaults := config.Defaults()
	return []cli.Flag{
		// Keying
		&cli.StringFlag{
			Name:     "pix-fmt",
			Value:    defaults.PixelFormat,
			Usage:    l10n.T("Pixel format the frame is converted to before keying"),
			Category: l10n.T(categoryKeying),
		},
		&cli.StringFlag{
			Name:     "color",
			Value:    defaults.Color,
			Usage:    l10n.T("Key color (name, 0xRRGGBB or #RRGGBB)"),
			Category: l10n.T(categoryKeying),
		},
		&cli.Float64Flag{
			Name:     "similarity",
			Value:    defaults.Similarity,
			Usage:    l10n.T("Similarity to the key color (0.00001-1)"),
			Category: l10n.T(categoryKeying),
		},
		&cli.Float64Flag{
			Name:     "blend",
			Value:    defaults.Blend,
			Usage:    l10n.T("Blend of the alpha edge (0-1, 0 = hard edge)"),
			Category: l10n.T(categoryKeying),
		},
		&cli.BoolFlag{
			Name:     "yuv",
			Usage:    l10n.T("Interpret the key color as YUV instead of RGB"),
			Category: l10n.T(categoryKeying),
		},
		&cli.StringFlag{
			Name:     "time-base",
			Value:    defaults.TimeBase,
			Usage:    l10n.T("Time base of the filter graph source"),
			Category: l10n.T(categoryKeying),
		},

		// Decoding
		&cli.IntFlag{
			Name:     "max-packets",
			Value:    defaults.MaxPackets,
			Usage:    l10n.T("Packets to read before giving up on a frame"),
			Category: l10n.T(categoryDecoding),
		},
		&cli.StringFlag{
			Name:     "ffmpeg",
			Usage:    l10n.T("Path to the ffmpeg executable for H.264, HEVC and AV1 streams"),
			Category: l10n.T(categoryDecoding),
		},
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   l10n.T("Configuration file (YAML or TOML)"),
		},

		// Debug
		&cli.BoolFlag{
			Name:     "debug",
			Aliases:  []string{"d"},
			Usage:    l10n.T("Enable debug output"),
			Category: l10n.T(categoryDebug),
		},
		&cli.StringFlag{
			Name:     "debug-dir",
			Value:    defaults.DebugDir,
			Usage:    l10n.T("Directory for debug output"),
			Category: l10n.T(categoryDebug),
		},
		&cli.StringFlag{
			Name:     "summary",
			Usage:    l10n.T("Output execution summary to file (Markdown format)"),
			Category: l10n.T(categoryDebug),
		},

		// Logging
		&cli.StringFlag{
			Name:     "log-level",
			Aliases:  []string{"l"},
			Value:    defaults.LogLevel,
			Usage:    l10n.T("Log level (debug, info, warn, error)"),
			Category: l10n.T(categoryLogging),
		},
		&cli.BoolFlag{
			Name:     "quiet",
			Aliases:  []string{"q"},
			Usage:    l10n.T("Suppress all log output"),
			Category: l10n.T(categoryLogging),
		},
	}
}

// keyCommand runs the pipeline for the two positional arguments.
func keyCommand(c *cli.Context, stdout, stderr io.Writer) error {
	if c.NArg() != 2 {
		return errors.New(l10n.T("usage: chromakey [flags] <input-image-path> <output-raw-path>"))
	}
	input, output := c.Args().Get(0), c.Args().Get(1)

	cfg, err := buildConfig(c)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	// Create logger
	var log ports.Logger
	if c.Bool("quiet") {
		log = logger.NewNoop()
	} else {
		level, _ := ports.ParseLogLevel(cfg.LogLevel)
		if stdout == os.Stdout && stderr == os.Stderr {
			log = logger.NewConsole(level)
		} else {
			log = logger.NewConsoleWriters(level, stdout, stderr)
		}
	}

	// Setup context with cancellation
	ctx, cancel := context.WithCancel(c.Context)
	defer cancel()

	// Handle signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case <-sigCh:
			log.Warn(l10n.T("Interrupted, shutting down..."))
			cancel()
		case <-ctx.Done():
		}
	}()

	// Register containers, decoders and filters
	if cfg.FFmpegPath != "" {
		codec.SetFFmpegPath(cfg.FFmpegPath)
	}
	framework.Init()

	// Create adapters
	fs := osfilesystem.New()

	// Create debug sink
	var sink ports.DebugSink
	var debugDir string
	if cfg.Debug {
		if err := fs.MkdirAll(cfg.DebugDir); err != nil {
			return fmt.Errorf("create debug directory: %w", err)
		}
		fileSink := filesink.New(cfg.DebugDir, fs, ggrenderer.New())
		debugDir = fileSink.Dir()
		sink = fileSink
	} else {
		sink = nullsink.New()
	}

	// Create stages and orchestrator
	orch := orchestrator.New(
		load.New(log),
		key.New(log),
		rawout.New(log),
		fs,
		sink,
		log,
	)

	orchConfig := cfg.ToOrchestratorConfig(input, output)
	result, runErr := orch.Run(ctx, orchConfig)

	if debugDir != "" {
		log.Info(l10n.F("Debug output saved to %s", debugDir))
	}
	if path := c.String("summary"); path != "" {
		writer := summarizer.NewWriter(summarizer.NewMarkdownFormatter(
			summarizer.WithTranslator(l10n.T),
			summarizer.WithVersion(version),
		), fs)
		if err := writer.Write(path, summaryFromResult(result, orchConfig)); err != nil {
			log.Warn(l10n.F("Failed to write summary: %s", err))
		} else {
			log.Info(l10n.F("Summary saved to %s", path))
		}
	}

	return runErr
}

// buildConfig starts from the defaults or the --config file and applies
// the flags the user set explicitly.
func buildConfig(c *cli.Context) (config.Config, error) {
	cfg := config.Defaults()
	if path := c.String("config"); path != "" {
		loaded, err := config.LoadFromFile(path)
		if err != nil {
			return cfg, err
		}
		cfg = loaded
	}

	if c.IsSet("pix-fmt") {
		cfg.PixelFormat = c.String("pix-fmt")
	}
	if c.IsSet("color") {
		cfg.Color = c.String("color")
	}
	if c.IsSet("similarity") {
		cfg.Similarity = c.Float64("similarity")
	}
	if c.IsSet("blend") {
		cfg.Blend = c.Float64("blend")
	}
	if c.IsSet("yuv") {
		cfg.YUV = c.Bool("yuv")
	}
	if c.IsSet("time-base") {
		cfg.TimeBase = c.String("time-base")
	}
	if c.IsSet("max-packets") {
		cfg.MaxPackets = c.Int("max-packets")
	}
	if c.IsSet("ffmpeg") {
		cfg.FFmpegPath = c.String("ffmpeg")
	}
	if c.IsSet("debug") {
		cfg.Debug = c.Bool("debug")
	}
	if c.IsSet("debug-dir") {
		cfg.DebugDir = c.String("debug-dir")
	}
	if c.IsSet("log-level") {
		cfg.LogLevel = c.String("log-level")
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}
