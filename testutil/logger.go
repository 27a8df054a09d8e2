package testutil

import (
	"flag"
	"os"

	log "github.com/sirupsen/logrus"
)

var (
	logLevel  = flag.String("log-level", "info", "log level for storage backends under test")
	logStderr = flag.Bool("log-stderr", false, "log storage backends to standard error")
)

// SetupLogger returns a new logger for a storage backend under test. It writes to file unless
// -log-stderr was given.
func SetupLogger(file string) *log.Logger {
	ll, err := log.ParseLevel(*logLevel)
	if err != nil {
		panic(err)
	}

	logger := log.New()
	logger.SetLevel(ll)
	if !*logStderr {
		w, err := os.OpenFile(file, os.O_TRUNC|os.O_CREATE|os.O_WRONLY, 0666)
		if err != nil {
			panic(err)
		}
		logger.SetOutput(w)
	}

	logger.WithFields(log.Fields{
		"pid":  os.Getpid(),
		"file": file,
	}).Info("gluesql tests starting")
	return logger
}
