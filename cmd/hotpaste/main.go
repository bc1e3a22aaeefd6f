// Command hotpaste routes the current clipboard content into a destination
// application. It runs one trigger per invocation so it can be bound to a
// global hotkey by the desktop environment, or stays resident with --watch
// and fires on clipboard changes.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"go.uber.org/automaxprocs/maxprocs"
	"go.uber.org/zap"

	hotpaste "github.com/alnah/go-hotpaste"
	"github.com/alnah/go-hotpaste/internal/config"
)

// Version is set at build time via ldflags.
var Version = "dev"

// Exit codes.
const (
	exitSuccess = 0
	exitFailure = 1
	exitUsage   = 2
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	flags, err := parseFlags(args)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return exitUsage
	}

	if flags.version {
		fmt.Printf("hotpaste %s\n", Version)
		return exitSuccess
	}

	// Error ignored: maxprocs.Set only fails if GOMAXPROCS env is invalid,
	// in which case Go runtime defaults apply and the program continues.
	_, _ = maxprocs.Set(maxprocs.Logger(func(string, ...interface{}) {}))

	warnUnknownEnvVars()
	env := loadEnvConfig()

	cfg, err := resolveConfig(flags, env)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return exitUsage
	}

	log, err := buildLogger(flags.verbose)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return exitFailure
	}
	defer func() { _ = log.Sync() }()

	target, err := resolveTarget(flags, env)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return exitUsage
	}

	converter := hotpaste.NewPandocConverter(cfg.PandocPath)
	ctx := context.Background()

	if flags.check {
		if err := converter.Check(ctx); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return exitFailure
		}
		fmt.Println("pandoc OK")
		return exitSuccess
	}

	svc := hotpaste.New(
		hotpaste.WithLogger(log),
		hotpaste.WithConverter(converter),
		hotpaste.WithNotifier(buildNotifier(flags, cfg, log)),
		hotpaste.WithTimeout(time.Duration(cfg.Timeout)),
		hotpaste.WithReferenceDoc(cfg.ReferenceDocx),
		hotpaste.WithSaveDir(cfg.SaveDir),
		hotpaste.WithTempDir(cfg.TempDir),
		hotpaste.WithKeepFile(cfg.KeepFile),
		hotpaste.WithExcelEnabled(cfg.EnableExcel, cfg.ExcelKeepFormat),
		hotpaste.WithAutoOpen(cfg.AutoOpenOnNoApp),
	)

	detector := hotpaste.StaticDetector(target)

	if flags.watch {
		return watch(ctx, svc, detector, cfg, flags.interval, log)
	}

	if outcome := svc.Trigger(ctx, detector.Detect()); !outcome.OK {
		return exitFailure
	}
	return exitSuccess
}

// watch polls the clipboard and fires a trigger whenever its text changes,
// debounced through the shared application state.
func watch(ctx context.Context, svc *hotpaste.Service, detector hotpaste.Detector, cfg config.Config, interval time.Duration, log *zap.Logger) int {
	state := hotpaste.NewAppState(cfg.Hotkey, time.Duration(cfg.Debounce))
	reader := hotpaste.NewSystemClipboard()

	log.Info("watching clipboard", zap.Duration("interval", interval))

	var last string
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for range ticker.C {
		text, err := reader.Text()
		if err != nil {
			log.Warn("clipboard poll failed", zap.Error(err))
			continue
		}
		if text == last || text == "" {
			continue
		}
		last = text

		if !state.Arm(time.Now()) {
			continue
		}
		svc.Trigger(ctx, detector.Detect())
	}
	return exitSuccess
}

// resolveConfig layers defaults, the config file, environment variables,
// and flags, in increasing precedence.
func resolveConfig(flags *cliFlags, env *envConfig) (config.Config, error) {
	path := flags.config
	if path == "" {
		path = env.ConfigPath
	}

	cfg := config.Default()
	if path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return config.Config{}, err
		}
		cfg = loaded
	}

	if env.Pandoc != "" {
		cfg.PandocPath = env.Pandoc
	}
	if env.SaveDir != "" {
		cfg.SaveDir = env.SaveDir
	}
	if env.Timeout > 0 {
		cfg.Timeout = config.Duration(env.Timeout)
	}
	if flags.pandoc != "" {
		cfg.PandocPath = flags.pandoc
	}
	if flags.saveDir != "" {
		cfg.SaveDir = flags.saveDir
	}
	if flags.referenceDoc != "" {
		cfg.ReferenceDocx = flags.referenceDoc
	}
	if flags.timeout > 0 {
		cfg.Timeout = config.Duration(flags.timeout)
	}
	if flags.keepFile {
		cfg.KeepFile = true
	}

	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

// resolveTarget picks the destination app from the flag, then the
// environment.
func resolveTarget(flags *cliFlags, env *envConfig) (hotpaste.Target, error) {
	name := flags.target
	if name == "none" && env.Target != "" {
		name = env.Target
	}
	target, err := hotpaste.ParseTarget(name)
	if err != nil {
		return hotpaste.TargetNone, errors.New("target must be one of: word, wps, excel, wps_excel, none")
	}
	return target, nil
}

// buildLogger returns a development logger in verbose mode, otherwise a
// production logger writing to stderr.
func buildLogger(verbose bool) (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	cfg := zap.NewProductionConfig()
	cfg.OutputPaths = []string{"stderr"}
	return cfg.Build()
}

// buildNotifier sends outcomes to the console unless notifications are
// disabled, in which case they go to the log only.
func buildNotifier(flags *cliFlags, cfg config.Config, log *zap.Logger) hotpaste.Notifier {
	if flags.quiet || !cfg.Notify {
		return nil // Service falls back to the log notifier.
	}
	return consoleNotifier{}
}

// consoleNotifier prints outcomes to stdout/stderr.
type consoleNotifier struct{}

func (consoleNotifier) Notify(o hotpaste.WorkflowOutcome) {
	if o.OK {
		fmt.Printf("%s: %s\n", o.Title, o.Message)
		return
	}
	fmt.Fprintf(os.Stderr, "%s: %s\n", o.Title, o.Message)
}
