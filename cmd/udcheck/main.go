package main

import (
	"fmt"
	"io"
	"os"

	"github.com/czcorpus/cnc-gokit/logging"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"

	"github.com/revelaction/udcheck/cnf"
)

const confKey = "conf"

// UI contains the output streams for the application.
// Used for injecting buffers during testing.
type UI struct {
	Out io.Writer
	Err io.Writer
}

// ArgumentError reports missing or invalid command arguments.
type ArgumentError struct {
	Command string
	Reason  string
}

func (e *ArgumentError) Error() string {
	return fmt.Sprintf("%s: %s", e.Command, e.Reason)
}

func argumentError(c *cli.Context, format string, a ...any) error {
	return &ArgumentError{Command: c.Command.Name, Reason: fmt.Sprintf(format, a...)}
}

func main() {
	ui := UI{Out: os.Stdout, Err: os.Stderr}

	if err := newApp(ui).Run(os.Args); err != nil {
		fprintErr(ui.Err, err)
		os.Exit(1)
	}
}

func fprintErr(w io.Writer, err error) {
	_, _ = fmt.Fprintf(w, "udcheck: %v\n", err)
}

func newApp(ui UI) *cli.App {
	return &cli.App{
		Name:            "udcheck",
		Usage:           "find annotation inconsistencies in dependency treebanks",
		Writer:          ui.Out,
		ErrWriter:       ui.Err,
		HideHelpCommand: true,
		Metadata:        map[string]any{},
		// errors are printed once by main
		ExitErrHandler: func(*cli.Context, error) {},
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "JSON configuration file",
				EnvVars: []string{"UDCHECK_CONFIG"},
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "debug, info, warn or error",
			},
			&cli.StringFlag{
				Name:  "log-file",
				Usage: "write the log to a file instead of stderr",
			},
		},
		Before: setupConf,
		Commands: []*cli.Command{
			analyzeCmd(ui),
			correctCmd(ui),
			transferCmd(ui),
			compareCmd(ui),
			statCmd(ui),
			sizeCmd(ui),
			sentenceCmd(ui),
			annotateCmd(ui),
			lsCmd(ui),
			importLedgerCmd(ui),
			exportLedgerCmd(ui),
			bashCmd(ui),
			completeCmd(ui),
			versionCmd(ui),
		},
	}
}

// setupConf loads the configuration, applies the global flags and sets up
// the logger.
func setupConf(c *cli.Context) error {
	conf := cnf.Default()
	if path := c.String("config"); path != "" {
		var err error
		conf, err = cnf.LoadConfig(path)
		if err != nil {
			return err
		}
	}

	if c.IsSet("log-level") {
		conf.LogLevel = logging.LogLevel(c.String("log-level"))
	}
	if c.IsSet("log-file") {
		conf.LogFile = c.String("log-file")
	}
	if conf.LogLevel == "" {
		conf.LogLevel = "info"
	}

	logging.SetupLogging(conf.LogFile, conf.LogLevel)

	if err := cnf.ValidateAndDefaults(conf); err != nil {
		return err
	}

	log.Debug().Str("config", conf.GetSourcePath()).Msg("configuration loaded")

	c.App.Metadata[confKey] = conf
	return nil
}

func confOf(c *cli.Context) *cnf.Conf {
	if conf, ok := c.App.Metadata[confKey].(*cnf.Conf); ok {
		return conf
	}
	return cnf.Default()
}
