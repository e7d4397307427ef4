package cnf

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/czcorpus/cnc-gokit/fs"
	"github.com/czcorpus/cnc-gokit/logging"
	"github.com/rs/zerolog/log"

	"github.com/revelaction/udcheck/conll"
	"github.com/revelaction/udcheck/consistency"
)

const (
	dfltLogLevel   = "info"
	dfltLayout     = "ud"
	dfltLedgerPath = "ledgers"
)

var layouts = map[string]conll.Layout{
	"ud":      conll.LayoutUD,
	"shifted": conll.LayoutShifted,
}

// Conf is the configuration of udcheck. Command line flags override it.
type Conf struct {
	LogFile  string           `json:"logFile"`
	LogLevel logging.LogLevel `json:"logLevel"`

	// Analysis holds the heuristics of the analyze command.
	Analysis consistency.Options `json:"analysis"`

	// Layout is the column layout of the treebank files, "ud" or "shifted".
	Layout string `json:"layout"`

	// Jobs is the number of files analyzed in parallel.
	Jobs int `json:"jobs"`

	// LedgerPath is a directory of ledger files or a SQLite database.
	LedgerPath string `json:"ledgerPath"`

	// ReferencePath is the directory of the correct command's treebanks.
	ReferencePath string `json:"referencePath"`

	srcPath string
}

// Default returns the configuration used without a config file.
func Default() *Conf {
	return &Conf{
		LogLevel:   dfltLogLevel,
		Analysis:   consistency.DefaultOptions(),
		Layout:     dfltLayout,
		Jobs:       runtime.NumCPU(),
		LedgerPath: dfltLedgerPath,
	}
}

func (conf *Conf) IsDebugMode() bool {
	return conf.LogLevel == "debug"
}

// ConllLayout returns the column layout. Call ValidateAndDefaults first.
func (conf *Conf) ConllLayout() conll.Layout {
	return layouts[conf.Layout]
}

// GetSourcePath returns an absolute path of a file
// the config was loaded from.
func (conf *Conf) GetSourcePath() string {
	if conf.srcPath == "" || filepath.IsAbs(conf.srcPath) {
		return conf.srcPath
	}
	cwd, err := os.Getwd()
	if err != nil {
		cwd = "[failed to get working dir]"
	}
	return filepath.Join(cwd, conf.srcPath)
}

// LoadConfig reads a JSON config file. Analysis options missing in the file
// keep their default values.
func LoadConfig(path string) (*Conf, error) {
	if path == "" {
		return nil, fmt.Errorf("cannot load config - path not specified")
	}
	rawData, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot load config: %w", err)
	}

	conf := &Conf{Analysis: consistency.DefaultOptions()}
	conf.srcPath = path
	if err := json.Unmarshal(rawData, conf); err != nil {
		return nil, fmt.Errorf("cannot load config %s: %w", path, err)
	}
	return conf, nil
}

// ValidateAndDefaults fills in missing values and checks the configuration.
func ValidateAndDefaults(conf *Conf) error {
	if conf.LogLevel == "" {
		conf.LogLevel = dfltLogLevel
		log.Warn().Msgf("logLevel not specified, using default: %s", dfltLogLevel)
	}

	if conf.Layout == "" {
		conf.Layout = dfltLayout
		log.Warn().Msgf("layout not specified, using default: %s", dfltLayout)
	}
	if _, ok := layouts[conf.Layout]; !ok {
		return fmt.Errorf("invalid layout %q, allowed values are ud, shifted", conf.Layout)
	}

	if conf.Jobs < 0 {
		return fmt.Errorf("invalid number of jobs: %d", conf.Jobs)
	}
	if conf.Jobs == 0 {
		conf.Jobs = runtime.NumCPU()
		log.Warn().Int("jobs", conf.Jobs).Msg("jobs not specified, using the number of CPUs")
	}

	if conf.LedgerPath == "" {
		conf.LedgerPath = dfltLedgerPath
		log.Warn().Str("ledgerPath", dfltLedgerPath).Msg("ledgerPath not specified, using default")
	}

	if conf.ReferencePath != "" {
		isDir, err := fs.IsDir(conf.ReferencePath)
		if err != nil {
			return fmt.Errorf("failed to check referencePath: %w", err)
		}
		if !isDir {
			return fmt.Errorf("referencePath %s is not a directory", conf.ReferencePath)
		}
	}

	return nil
}
