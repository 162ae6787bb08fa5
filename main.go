// Command dragonfly converts an equirectangular (360°) image or video into
// a rectilinear fly-around video in two phases: extract renders one frame
// per camera orientation via ffmpeg's v360 filter, encode assembles the
// rendered frames into the final video.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/schollz/progressbar/v3"
	"go.uber.org/zap"

	"dragonfly/command"
	"dragonfly/command/encode"
	"dragonfly/command/extract"
	"dragonfly/config"
	"dragonfly/encoder"
	"dragonfly/extractor"
	"dragonfly/ffprobe"
	"dragonfly/logging"
	"dragonfly/models"
	"dragonfly/session"
	"dragonfly/sweep"
)

// Exit codes follow sysexits.h where one applies.
const (
	exitOK          = 0
	exitError       = 1
	exitUsage       = 64 // bad arguments, or no saved session to encode from
	exitUnavailable = 69 // required external tool missing
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	// A .env file is optional; absence is not an error.
	_ = godotenv.Load()

	if len(args) < 1 {
		printTopUsage()
		return exitUsage
	}
	if args[0] == "-h" || args[0] == "--help" || args[0] == "help" {
		printTopUsage()
		return exitOK
	}

	sub := args[0]
	switch sub {
	case config.CmdExtract, config.CmdEncode, config.CmdRun:
	default:
		fmt.Fprintf(os.Stderr, "dragonfly: unknown command %q\n\n", sub)
		printTopUsage()
		return exitUsage
	}

	// Step 1: Load configuration (CLI flags > config file > env > defaults)
	cfg, err := config.Load(sub, args[1:])
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		fmt.Fprintf(os.Stderr, "dragonfly: %v\n", err)
		return exitUsage
	}

	// Step 2: Handle dry-run mode. The configuration is shown even when it
	// would not validate, so the user can see what is wrong.
	if cfg.DryRun {
		cfg.PrintConfig(sub)
		if err := cfg.Validate(sub); err != nil {
			fmt.Fprintf(os.Stderr, "dragonfly: %v\n", err)
			return exitUsage
		}
		printDryRunCommands(sub, cfg)
		fmt.Println("\n✓ Configuration is valid. No processes were spawned.")
		return exitOK
	}

	if err := cfg.Validate(sub); err != nil {
		fmt.Fprintf(os.Stderr, "dragonfly: %v\n", err)
		return exitUsage
	}

	log, err := logging.New(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "dragonfly: %v\n", err)
		return exitUsage
	}
	defer log.Sync()

	// Step 3: Fail fast when a required external binary is missing
	if code := checkTools(sub, cfg); code != exitOK {
		return code
	}

	// Step 4: Set up context with cancellation for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		fmt.Fprintln(os.Stderr, "\ninterrupt received, stopping")
		cancel()
	}()

	// Step 5: Run the requested phase(s)
	store := session.NewFileStore()

	switch sub {
	case config.CmdExtract:
		if _, err := extractPhase(ctx, cfg, store, log, ""); err != nil {
			fmt.Fprintf(os.Stderr, "dragonfly: %v\n", err)
			return exitError
		}

	case config.CmdEncode:
		if err := encodePhase(ctx, cfg, store, log, ""); err != nil {
			if errors.Is(err, session.ErrNotFound) {
				fmt.Fprintln(os.Stderr, `dragonfly: no saved extraction found; run "dragonfly extract" first or pass -frames-dir`)
				return exitUsage
			}
			fmt.Fprintf(os.Stderr, "dragonfly: %v\n", err)
			return exitError
		}

	case config.CmdRun:
		framesDir, err := extractPhase(ctx, cfg, store, log, "[1/2] ")
		if err != nil {
			fmt.Fprintf(os.Stderr, "dragonfly: %v\n", err)
			return exitError
		}
		runCfg := cfg.Copy()
		runCfg.FramesDir = framesDir
		if err := encodePhase(ctx, runCfg, store, log, "[2/2] "); err != nil {
			fmt.Fprintf(os.Stderr, "dragonfly: %v\n", err)
			return exitError
		}
	}

	return exitOK
}

// printDryRunCommands shows the ffmpeg invocations a real run would spawn.
// The extract preview omits the pinned output size, which depends on the
// probed source resolution.
func printDryRunCommands(sub string, cfg *config.Config) {
	framesDir := cfg.FramesDir
	if framesDir == "" {
		framesDir = filepath.Join(os.TempDir(), "dragonfly-<uuid>")
	}

	if sub == config.CmdExtract || sub == config.CmdRun {
		interp, err := models.ParseInterpolation(cfg.Interpolation)
		if err != nil {
			return
		}
		jobs, err := sweep.NewPlanner(cfg.FrameCount).PlanJobs(framesDir)
		if err != nil || len(jobs) == 0 {
			return
		}
		builder := extract.NewBuilder(jobs[0], cfg.Input).
			SetInputFOV(cfg.InputHFOV, cfg.InputVFOV).
			SetOutputFOV(cfg.OutputHFOV, cfg.OutputVFOV).
			SetInterpolation(interp)
		fmt.Printf("\nExtract command (frame 0 of %d):\n  %s\n", len(jobs), builder.String())
	}

	if sub == config.CmdEncode || sub == config.CmdRun {
		builder := encode.NewBuilder(framesDir, cfg.Output).
			SetFrameCount(cfg.FrameCount).
			SetLength(cfg.Length).
			SetFPS(cfg.FPS).
			SetScale(cfg.Scale)
		fmt.Printf("\nEncode command (assuming %d frames on disk):\n  %s\n", cfg.FrameCount, builder.String())
	}
}

func checkTools(sub string, cfg *config.Config) int {
	required := []string{cfg.FFmpegPath}
	if sub == config.CmdExtract || sub == config.CmdRun {
		required = append(required, cfg.FFprobePath)
	}

	for _, bin := range required {
		if _, err := exec.LookPath(bin); err != nil {
			fmt.Fprintf(os.Stderr, "dragonfly: %q not found, please install it from https://ffmpeg.org/\n", bin)
			return exitUnavailable
		}
	}
	return exitOK
}

// extractPhase probes the source, plans the yaw sweep and drives the
// rendering pool. It returns the frames directory it wrote into.
func extractPhase(ctx context.Context, cfg *config.Config, store session.Store, log *zap.Logger, phase string) (string, error) {
	framesDir := cfg.FramesDir
	if framesDir == "" {
		framesDir = filepath.Join(os.TempDir(), "dragonfly-"+uuid.NewString())
	}
	if err := os.MkdirAll(framesDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create frames directory: %w", err)
	}

	res, err := ffprobe.Probe(ctx, cfg.FFprobePath, cfg.Input)
	if err != nil {
		return "", err
	}
	log.Debug("probed source",
		zap.String("input", cfg.Input),
		zap.String("resolution", res.String()),
	)

	planner := sweep.NewPlanner(cfg.FrameCount).
		SetInputFOV(cfg.InputHFOV, cfg.InputVFOV).
		SetOutputFOV(cfg.OutputHFOV, cfg.OutputVFOV)

	outRes, err := planner.OutputResolution(res)
	if err != nil {
		return "", err
	}

	jobs, err := planner.PlanJobs(framesDir)
	if err != nil {
		return "", err
	}

	interp, err := models.ParseInterpolation(cfg.Interpolation)
	if err != nil {
		return "", err
	}

	fmt.Printf("%sExtracting %d frames from %s (%s → %s)\n", phase, len(jobs), cfg.Input, res, outRes)
	bar := progressbar.NewOptions(len(jobs),
		progressbar.OptionSetDescription("extracting"),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
	)

	sched := extractor.NewScheduler(cfg.MaxConcurrency, command.ExecRunner{}, log).
		SetFrameTimeout(cfg.FrameTimeout).
		SetFFmpegPath(cfg.FFmpegPath)

	build := func(job *models.FrameJob) command.Command {
		return extract.NewBuilder(job, cfg.Input).
			SetInputFOV(cfg.InputHFOV, cfg.InputVFOV).
			SetOutputFOV(cfg.OutputHFOV, cfg.OutputVFOV).
			SetInterpolation(interp).
			SetOutputSize(outRes.Width, outRes.Height)
	}

	err = sched.Extract(ctx, framesDir, jobs, build, func(done, total int) {
		_ = bar.Set(done)
	})
	_ = bar.Finish()
	if err != nil {
		return "", err
	}

	fmt.Printf("  ✓ Extracted %d frames to %s\n", len(jobs), framesDir)

	// A failed save only costs the convenience handoff for a later
	// encode-only invocation; the extraction itself already succeeded.
	if err := store.Save(framesDir); err != nil {
		log.Warn("failed to save session", zap.Error(err))
	}

	return framesDir, nil
}

// encodePhase resolves the frames directory (explicit flag or saved
// session) and drives the single encoding process.
func encodePhase(ctx context.Context, cfg *config.Config, store session.Store, log *zap.Logger, phase string) error {
	framesDir := cfg.FramesDir
	if framesDir == "" {
		var err error
		framesDir, err = store.Load()
		if err != nil {
			return err
		}
		log.Debug("loaded session", zap.String("frames_dir", framesDir))
	}

	fmt.Printf("%sEncoding frames from %s to %s\n", phase, framesDir, cfg.Output)
	spinner := progressbar.NewOptions(-1,
		progressbar.OptionSetDescription("encoding"),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionClearOnFinish(),
	)
	done := make(chan struct{})
	go func() {
		for {
			select {
			case <-done:
				return
			case <-time.After(120 * time.Millisecond):
				_ = spinner.Add(1)
			}
		}
	}()

	driver := encoder.NewDriver(command.ExecRunner{}, log).SetFFmpegPath(cfg.FFmpegPath)
	err := driver.Encode(ctx, encoder.Request{
		FramesDir:  framesDir,
		OutputPath: cfg.Output,
		Length:     cfg.Length,
		FPS:        cfg.FPS,
		Scale:      cfg.Scale,
	})
	close(done)
	_ = spinner.Finish()
	if err != nil {
		return err
	}

	fmt.Printf("  ✓ Wrote %s\n", cfg.Output)
	return nil
}

func printTopUsage() {
	fmt.Fprintf(os.Stderr, `dragonfly - turn a 360° image or video into a fly-around video

USAGE:
  dragonfly <command> [OPTIONS]

COMMANDS:
  extract   Render rectilinear frames from the source (one per yaw step)
  encode    Assemble extracted frames into the final video
  run       Extract and encode in one invocation

Run "dragonfly <command> -h" for command options.

The frames directory of the last extract run is remembered in the OS temp
directory, so a plain "dragonfly encode" continues the last session.
`)
}
