package cmd

import (
	"fmt"
	"io"
	"io/ioutil"
	"os"
	"path/filepath"

	"github.com/hashicorp/hcl"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"
)

var (
	gluesqlCmd = &cobra.Command{
		Use:               "gluesql",
		Short:             "A SQL database",
		Long:              "GlueSQL is a SQL database with pluggable key value storage.",
		PersistentPreRunE: gluesqlPreRun,
		PersistentPostRun: gluesqlPostRun,
		SilenceUsage:      true,
	}

	logFile   = "gluesql.log"
	logLevel  = "info"
	logStderr = false
	logWriter io.WriteCloser

	configFile = "gluesql.hcl"
	noConfig   = false

	cfgVars   = map[string]*pflag.Flag{}
	cfg       = map[string]interface{}{}
	usedFlags = map[string]struct{}{}
)

func init() {
	log.SetFormatter(&log.TextFormatter{
		DisableLevelTruncation: true,
	})

	fs := gluesqlCmd.PersistentFlags()

	fs.StringVar(&logFile, "log-file", logFile, "`file` to use for logging")
	cfgVars["log-file"] = fs.Lookup("log-file")

	fs.StringVar(&logLevel, "log-level", logLevel,
		"log level: trace, debug, info, warn, error, fatal, or panic")
	cfgVars["log-level"] = fs.Lookup("log-level")

	fs.BoolVarP(&logStderr, "log-stderr", "s", logStderr, "log to standard error")

	fs.StringVar(&configFile, "config-file", configFile, "`file` to load config from")
	fs.BoolVar(&noConfig, "no-config", noConfig, "don't load config file")

	initStoreFlags(fs)
}

func Execute() error {
	return gluesqlCmd.Execute()
}

func gluesqlPreRun(cmd *cobra.Command, args []string) error {
	cmd.Flags().Visit(
		func(flg *pflag.Flag) {
			usedFlags[flg.Name] = struct{}{}
		})

	if configFile != "" && !noConfig {
		err := loadConfig(configFile)
		if err != nil && !(os.IsNotExist(err) && !isUsed("config-file")) {
			return fmt.Errorf("gluesql: %s", err)
		}
	}

	if !logStderr && logFile != "" {
		var err error
		logWriter, err = os.OpenFile(logFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0666)
		if err != nil {
			logWriter = nil
			return fmt.Errorf("gluesql: %s", err)
		}
		log.SetOutput(logWriter)
	}

	ll, err := log.ParseLevel(logLevel)
	if err != nil {
		return fmt.Errorf("gluesql: %s", err)
	}
	log.SetLevel(ll)

	log.WithField("pid", os.Getpid()).Info("gluesql starting")
	return nil
}

func gluesqlPostRun(cmd *cobra.Command, args []string) {
	log.WithField("pid", os.Getpid()).Info("gluesql done")

	if logWriter != nil {
		logWriter.Close()
	}
}

func isUsed(name string) bool {
	_, ok := usedFlags[name]
	return ok
}

func decodeConfig(filename string, b []byte, cfg map[string]interface{}) error {
	switch filepath.Ext(filename) {
	case ".yaml", ".yml":
		return yaml.Unmarshal(b, &cfg)
	}
	return hcl.Decode(&cfg, string(b))
}

// loadConfig sets each flag named in the config file, unless it was given on the command
// line.
func loadConfig(filename string) error {
	b, err := ioutil.ReadFile(filename)
	if err != nil {
		return err
	}

	err = decodeConfig(filename, b, cfg)
	if err != nil {
		return fmt.Errorf("%s: %s", filename, err)
	}

	for name, val := range cfg {
		flg, ok := cfgVars[name]
		if !ok {
			return fmt.Errorf("%s is not a config variable", name)
		}
		if isUsed(flg.Name) {
			continue
		}
		err := flg.Value.Set(fmt.Sprintf("%v", val))
		if err != nil {
			return fmt.Errorf("%s: %s", name, err)
		}
	}

	return nil
}
