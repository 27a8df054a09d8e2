package cmd

import (
	"fmt"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/pflag"

	"github.com/cl-kim/gluesql/storage/kv"
	"github.com/cl-kim/gluesql/storage/kvstore"
)

var (
	store   = "memory"
	dataDir = "testdata"
)

func initStoreFlags(fs *pflag.FlagSet) {
	fs.StringVar(&store, "store", store, "storage to use: memory, bbolt, badger, or pebble")
	cfgVars["store"] = fs.Lookup("store")

	fs.StringVar(&dataDir, "data", dataDir, "`directory` containing the database")
	cfgVars["data"] = fs.Lookup("data")
}

func openStore() (*kvstore.Store, error) {
	kvst, err := kv.Open(store, dataDir, log.StandardLogger())
	if err != nil {
		return nil, fmt.Errorf("gluesql: %s", err)
	}
	return kvstore.New(kvst), nil
}
