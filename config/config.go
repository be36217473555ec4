package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	ConfigDebug                        = "debug"
	ConfigDataPath                     = "data-path"
	ConfigLeagueFile                   = "league-file"
	ConfigSeason                       = "season"
	ConfigScoring                      = "scoring"
	ConfigTeams                        = "teams"
	ConfigFirstPick                    = "first-pick"
	ConfigDraftOrder                   = "draft-order"
	ConfigFlexPolicy                   = "flex"
	ConfigStartersQB                   = "starters-qb"
	ConfigStartersRB                   = "starters-rb"
	ConfigStartersWR                   = "starters-wr"
	ConfigStartersTE                   = "starters-te"
	ConfigStartersFlex                 = "starters-flex"
	ConfigStartersK                    = "starters-k"
	ConfigStartersDST                  = "starters-dst"
	ConfigProjectionsFile              = "projections-file"
	ConfigProjectionsEncoding          = "projections-encoding"
	ConfigProjectionsDB                = "projections-db"
	ConfigValueModelFile               = "value-model-file"
	ConfigMaxCombinationMemoryFraction = "max-combination-memory-fraction"
	ConfigCandidates                   = "candidates"
	ConfigSimDrafts                    = "sim-drafts"
	ConfigSimThreads                   = "sim-threads"
	ConfigSimLogFile                   = "sim-log-file"
	ConfigCPUProfile                   = "cpu-profile"
	ConfigMemProfile                   = "mem-profile"
)

type Config struct {
	sync.Mutex
	viper.Viper
	args []string
}

// DefaultConfig returns a configuration with only defaults applied. It is
// mostly useful for tests.
func DefaultConfig() *Config {
	c := &Config{Viper: *viper.New()}
	c.setDefaults()
	return c
}

func (c *Config) setDefaults() {
	c.SetDefault(ConfigDebug, false)
	c.SetDefault(ConfigDataPath, "./data")
	c.SetDefault(ConfigSeason, 2021)
	c.SetDefault(ConfigScoring, "PPR")
	c.SetDefault(ConfigTeams, 12)
	c.SetDefault(ConfigFirstPick, 3)
	c.SetDefault(ConfigDraftOrder, "snake")
	c.SetDefault(ConfigFlexPolicy, "Standard")
	c.SetDefault(ConfigStartersQB, 1)
	c.SetDefault(ConfigStartersRB, 2)
	c.SetDefault(ConfigStartersWR, 2)
	c.SetDefault(ConfigStartersTE, 1)
	c.SetDefault(ConfigStartersFlex, 1)
	c.SetDefault(ConfigStartersK, 1)
	c.SetDefault(ConfigStartersDST, 1)
	c.SetDefault(ConfigProjectionsEncoding, "utf8")
	c.SetDefault(ConfigMaxCombinationMemoryFraction, 0.25)
	c.SetDefault(ConfigCandidates, 10)
	c.SetDefault(ConfigSimDrafts, 100)
	c.SetDefault(ConfigSimThreads, 4)
}

// Load reads configuration from (in increasing priority) defaults, an
// optional config.yaml in the working directory, a .env file, environment
// variables prefixed with FFDRAFT_, and command-line flags. Flag parsing
// stops at the first argument that is not a flag; that argument and
// everything after it are available from Args.
func (c *Config) Load(args []string) error {
	c.Viper = *viper.New()
	c.setDefaults()

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Warn().Err(err).Msg("could-not-load-dotenv")
	}
	c.SetEnvPrefix("ffdraft")
	c.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	c.AutomaticEnv()

	c.SetConfigName("config")
	c.SetConfigType("yaml")
	c.AddConfigPath(".")
	if err := c.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return err
		}
	}

	fs := c.flagSet()
	if err := fs.Parse(args); err != nil {
		return err
	}
	c.args = fs.Args()
	return c.BindPFlags(fs)
}

// Args returns the arguments left over after flag parsing.
func (c *Config) Args() []string {
	return c.args
}

// flagSet defines one flag per configuration key. Flag defaults mirror the
// configured defaults; viper only prefers a flag over the environment or
// config file when it was actually set.
func (c *Config) flagSet() *pflag.FlagSet {
	fs := pflag.NewFlagSet("ffdraft", pflag.ContinueOnError)
	fs.SetInterspersed(false)

	fs.Bool(ConfigDebug, c.GetBool(ConfigDebug), "turn on debug logging")
	fs.String(ConfigDataPath, c.GetString(ConfigDataPath), "directory holding projections and value models")
	fs.String(ConfigLeagueFile, "", "YAML league file")
	fs.Int(ConfigSeason, c.GetInt(ConfigSeason), "season whose projections are loaded")
	fs.String(ConfigScoring, c.GetString(ConfigScoring), "scoring mode: PPR, Half-PPR or Standard")
	fs.Int(ConfigTeams, c.GetInt(ConfigTeams), "number of teams in the league")
	fs.Int(ConfigFirstPick, c.GetInt(ConfigFirstPick), "the participant's slot in round one")
	fs.String(ConfigDraftOrder, c.GetString(ConfigDraftOrder), "snake or custom")
	fs.String(ConfigFlexPolicy, c.GetString(ConfigFlexPolicy), "flex policy: none, standard, rb/wr, superflex or a position list")

	for _, key := range []string{ConfigStartersQB, ConfigStartersRB, ConfigStartersWR,
		ConfigStartersTE, ConfigStartersFlex, ConfigStartersK, ConfigStartersDST} {
		fs.Int(key, c.GetInt(key), "starting lineup slots")
	}

	fs.String(ConfigProjectionsFile, "", "projections CSV, overriding the per-season default")
	fs.String(ConfigProjectionsEncoding, c.GetString(ConfigProjectionsEncoding), "projections CSV encoding: utf8, latin1 or windows-1252")
	fs.String(ConfigProjectionsDB, "", "SQLite projections database, used instead of the CSV")
	fs.String(ConfigValueModelFile, "", "value model YAML, overriding the per-scoring default")
	fs.Float64(ConfigMaxCombinationMemoryFraction, c.GetFloat64(ConfigMaxCombinationMemoryFraction),
		"largest share of system memory a combination table may use")
	fs.Int(ConfigCandidates, c.GetInt(ConfigCandidates), "candidates shown per pick")
	fs.Int(ConfigSimDrafts, c.GetInt(ConfigSimDrafts), "mock drafts per simulation")
	fs.Int(ConfigSimThreads, c.GetInt(ConfigSimThreads), "simulation worker goroutines")
	fs.String(ConfigSimLogFile, "", "write each simulated draft to this YAML file")
	fs.String(ConfigCPUProfile, "", "write a CPU profile to this file")
	fs.String(ConfigMemProfile, "", "write a heap profile to this file on exit")
	return fs
}

// AdjustRelativePaths makes the data path absolute, relative to basepath,
// if it is not already.
func (c *Config) AdjustRelativePaths(basepath string) {
	dp := c.GetString(ConfigDataPath)
	if dp == "" || filepath.IsAbs(dp) {
		return
	}
	c.Set(ConfigDataPath, filepath.Join(basepath, dp))
}

// ProjectionsFile returns the configured projections file, or the default
// location for the season under the data path.
func (c *Config) ProjectionsFile(season int) string {
	if f := c.GetString(ConfigProjectionsFile); f != "" {
		return f
	}
	return filepath.Join(c.GetString(ConfigDataPath),
		fmt.Sprint(season), "season_projections.csv")
}

// ValueModelFile returns the configured replacement-value model file, or the
// default one for a scoring mode. The scoring mode should already be
// normalized, since it names the file.
func (c *Config) ValueModelFile(scoring string) string {
	if f := c.GetString(ConfigValueModelFile); f != "" {
		return f
	}
	return filepath.Join(c.GetString(ConfigDataPath), "war_models", scoring+".yaml")
}

// SanitizedSettings returns the settings map with nothing secret in it.
// There are no secrets yet, but this is what should be logged.
func (c *Config) SanitizedSettings() map[string]any {
	return c.AllSettings()
}
