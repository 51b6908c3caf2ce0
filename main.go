package main

import (
	"errors"
	"flag"
	"io"
	"os"
	"time"

	"grimm.is/nftapply/cmd"
	"grimm.is/nftapply/internal/apply"
	"grimm.is/nftapply/internal/brand"
	"grimm.is/nftapply/internal/config"
	"grimm.is/nftapply/internal/i18n"
)

var printer = i18n.NewCLIPrinter()

func main() {
	os.Exit(run(os.Args[1:]))
}

// run parses the command line, layers the configuration and dispatches.
// It returns the process exit code; errors from the workflow are printed
// as one marked line on stderr so wrappers can scrape them.
func run(args []string) int {
	var (
		sourceFile  string
		destFile    string
		backupDir   string
		timeoutSecs int
		configFile  string
		checkOnly   bool
		verbose     bool
		showHelp    bool
		showVersion bool
	)

	fs := flag.NewFlagSet(brand.LowerName, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.Usage = func() {}

	fs.StringVar(&sourceFile, "source-file", brand.DefaultSourceFile, "Candidate ruleset file")
	fs.StringVar(&sourceFile, "s", brand.DefaultSourceFile, "Candidate ruleset file (short)")
	fs.StringVar(&destFile, "destination-file", brand.DefaultDestinationFile, "Installed ruleset file")
	fs.StringVar(&destFile, "d", brand.DefaultDestinationFile, "Installed ruleset file (short)")
	fs.StringVar(&backupDir, "backup-dir", brand.DefaultBackupDir, "Snapshot and archive directory")
	fs.StringVar(&backupDir, "b", brand.DefaultBackupDir, "Snapshot and archive directory (short)")
	fs.IntVar(&timeoutSecs, "timeout", int(config.DefaultTimeout/time.Second), "Activation and confirmation window in seconds")
	fs.IntVar(&timeoutSecs, "t", int(config.DefaultTimeout/time.Second), "Timeout in seconds (short)")
	fs.StringVar(&configFile, "config", "", "Tool defaults file (HCL)")
	fs.StringVar(&configFile, "c", "", "Tool defaults file (short)")
	fs.BoolVar(&checkOnly, "check", false, "Validate the candidate and exit")
	fs.BoolVar(&checkOnly, "n", false, "Validate the candidate and exit (short)")
	fs.BoolVar(&verbose, "verbose", false, "Enable debug logging")
	fs.BoolVar(&verbose, "v", false, "Enable debug logging (short)")
	fs.BoolVar(&showHelp, "help", false, "Show help")
	fs.BoolVar(&showHelp, "h", false, "Show help (short)")
	fs.BoolVar(&showVersion, "version", false, "Show version")
	fs.BoolVar(&showVersion, "V", false, "Show version (short)")

	if err := fs.Parse(args); err != nil {
		printer.Fprintf(os.Stderr, "E: %v\n", err)
		printUsage(os.Stderr)
		return apply.ExitUsage
	}

	if showHelp {
		printUsage(os.Stdout)
		return apply.ExitUsage
	}
	if showVersion {
		printer.Printf("%s version %s\n", brand.Name, brand.Version)
		printer.Printf("Build: %s\n", brand.BuildTime)
		return apply.ExitUsage
	}
	if fs.NArg() > 0 {
		printer.Fprintf(os.Stderr, "E: unexpected argument %q\n", fs.Arg(0))
		printUsage(os.Stderr)
		return apply.ExitUsage
	}

	cfg := config.Defaults()
	if err := layerConfigFile(&cfg, configFile); err != nil {
		printer.Fprintf(os.Stderr, "E: %v\n", err)
		return apply.ExitFailure
	}

	// Explicit flags win over the defaults file.
	fs.Visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "source-file", "s":
			cfg.SourceFile = sourceFile
		case "destination-file", "d":
			cfg.DestinationFile = destFile
		case "backup-dir", "b":
			cfg.BackupDir = backupDir
		case "timeout", "t":
			cfg.Timeout = time.Duration(timeoutSecs) * time.Second
		}
	})

	if err := cfg.Validate(); err != nil {
		printer.Fprintf(os.Stderr, "E: %v\n", err)
		printUsage(os.Stderr)
		return apply.ExitUsage
	}

	var err error
	if checkOnly {
		err = cmd.RunCheck(cfg, verbose)
	} else {
		err = cmd.RunApply(cfg, verbose)
	}
	if err != nil {
		printer.Fprintf(os.Stderr, "E: %v\n", err)
		return apply.ExitCode(err)
	}
	return apply.ExitOK
}

// layerConfigFile merges the optional defaults file into cfg. A missing
// file is only an error when the operator named one with -c; the default
// path is allowed to be absent.
func layerConfigFile(cfg *config.Run, explicit string) error {
	path := explicit
	if path == "" {
		path = brand.GetConfigFile()
	}
	f, err := config.LoadFile(path)
	if err != nil {
		if explicit == "" && errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	f.ApplyTo(cfg)
	return nil
}

func printUsage(w io.Writer) {
	printer.Fprintf(w, `%s - %s

Usage:
  %s [options]

Checks the candidate ruleset, snapshots the live ruleset, activates the
candidate, and rolls back to the snapshot unless you confirm with "y"
within the timeout. On confirmation the candidate is archived and
installed as the new destination file.

Options:
  -s, --source-file <file>       Candidate ruleset (default %s)
  -d, --destination-file <file>  Installed ruleset (default %s)
  -b, --backup-dir <dir>         Snapshot and archive directory (default %s)
  -t, --timeout <seconds>        Activation and confirmation window (default %d)
  -c, --config <file>            Tool defaults file (default %s)
  -n, --check                    Validate the candidate and exit
  -v, --verbose                  Enable debug logging
  -h, --help                     Show this help
  -V, --version                  Show version

Exit Codes:
  0  candidate confirmed and committed
  2  help, version, or usage error
  3  not running as root
  4  destination file not readable
  5  source file not readable
  6  candidate failed the syntax check
  7  activation failed or timed out (rolled back)
  8  confirmation denied or timed out (rolled back)

Examples:
  %s                              # Apply the default candidate
  %s -s /tmp/new.nft -t 30        # Custom candidate, 30s window
  %s -n -s /tmp/new.nft           # Syntax check only
`,
		brand.Name, brand.Description,
		brand.LowerName,
		brand.DefaultSourceFile, brand.DefaultDestinationFile, brand.DefaultBackupDir,
		int(config.DefaultTimeout/time.Second), brand.DefaultConfigFile,
		brand.LowerName, brand.LowerName, brand.LowerName)
}
