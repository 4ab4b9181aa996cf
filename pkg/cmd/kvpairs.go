package cmd

import (
	"io"
	"os"

	"github.com/kvpairs"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var Version = "0.1.0"

const unset = "-"

type Flags struct {
	Paths    kvpairs.StandardPaths
	Config   string
	LogLevel string
}

// Shared state of a command invocation. The configuration is only
// available once the root pre-run has loaded it.
type app struct {
	fs   afero.Fs
	conf *kvpairs.Configuration

	stdout io.Writer
	stderr io.Writer
}

func Run() error {
	return NewCommand(afero.NewOsFs(), os.Stdout, os.Stderr).Execute()
}

func NewCommand(fs afero.Fs, stdout, stderr io.Writer) *cobra.Command {
	a := &app{fs: fs, stdout: stdout, stderr: stderr}
	var f Flags

	com := &cobra.Command{
		Use:           "kvpairs",
		Short:         "Parse key/value list documents",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// 1. bind the paths. Overrides defaults.
			kvpairs.BindStandardPaths(&f.Paths)
			// 2. load the settings
			c, err := kvpairs.LoadSettings(a.fs, f.Config, &f.Paths)
			if err != nil {
				return err
			}
			a.conf = c

			level := c.Settings.LogLevel
			if cmd.Flags().Changed("log-level") {
				level = f.LogLevel
			}
			return setupLogging(a.stderr, level)
		},
	}
	com.SetOut(stdout)
	com.SetErr(stderr)

	// This set of flags propagates
	fl := com.PersistentFlags()

	stdpaths := &f.Paths
	pathFlags := pflag.NewFlagSet("Standard Paths", pflag.ExitOnError)
	pathFlags.StringVar(&stdpaths.APPNAME, "stdpath.app", unset, "App name")
	pathFlags.StringVar(&stdpaths.CONFIG_HOME, "stdpath.config", unset, "Configuration directory")
	pathFlags.StringVar(&stdpaths.STATE_HOME, "stdpath.state", unset, "State directory")
	pathFlags.StringVar(&stdpaths.DATA_HOME, "stdpath.data", unset, "Data directory")
	fl.AddFlagSet(pathFlags)

	cfgFlags := pflag.NewFlagSet("Configuration", pflag.ExitOnError)
	cfgFlags.StringVar(&f.Config, "config", "", "Path to settings file")
	cfgFlags.StringVar(&f.LogLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	fl.AddFlagSet(cfgFlags)

	com.AddCommand(documentCommands(a)...)
	com.AddCommand(
		parseCommand(a),
		checkCommand(a),
		formatCommand(a),
	)
	return com
}

func setupLogging(w io.Writer, level string) error {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return err
	}
	zerolog.SetGlobalLevel(lvl)
	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: w, NoColor: true}).
		With().
		Timestamp().
		Logger()
	return nil
}
