package main

import (
	"fmt"
	"time"

	flag "github.com/spf13/pflag"
)

// cliFlags holds all command-line options.
type cliFlags struct {
	config       string
	target       string
	pandoc       string
	saveDir      string
	referenceDoc string
	timeout      time.Duration
	keepFile     bool
	watch        bool
	interval     time.Duration
	check        bool
	quiet        bool
	verbose      bool
	version      bool
}

// parseFlags parses args (excluding the program name) into cliFlags.
func parseFlags(args []string) (*cliFlags, error) {
	flags := &cliFlags{}
	fs := flag.NewFlagSet("hotpaste", flag.ContinueOnError)

	fs.StringVarP(&flags.config, "config", "c", "", "config file path (YAML)")
	fs.StringVarP(&flags.target, "target", "t", "none", "destination app: word, wps, excel, wps_excel, none")
	fs.StringVar(&flags.pandoc, "pandoc", "", "pandoc executable path (overrides config)")
	fs.StringVar(&flags.saveDir, "save-dir", "", "directory for generated documents (overrides config)")
	fs.StringVar(&flags.referenceDoc, "reference-doc", "", "pandoc reference DOCX template")
	fs.DurationVar(&flags.timeout, "timeout", 0, "conversion timeout (overrides config)")
	fs.BoolVar(&flags.keepFile, "keep-file", false, "also save converted documents to the save directory")
	fs.BoolVarP(&flags.watch, "watch", "w", false, "keep running and fire on clipboard changes")
	fs.DurationVar(&flags.interval, "interval", 500*time.Millisecond, "clipboard poll interval in watch mode")
	fs.BoolVar(&flags.check, "check", false, "verify the pandoc installation and exit")
	fs.BoolVarP(&flags.quiet, "quiet", "q", false, "suppress console notifications")
	fs.BoolVarP(&flags.verbose, "verbose", "v", false, "verbose logging to stderr")
	fs.BoolVar(&flags.version, "version", false, "print version and exit")

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("parsing flags: %w", err)
	}
	return flags, nil
}
