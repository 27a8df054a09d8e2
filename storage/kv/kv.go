package kv

import (
	"fmt"

	log "github.com/sirupsen/logrus"
)

// Iterator walks the keys of a KV in order. Item calls fn with the current key and value and
// then advances, even when fn returns an error; it returns io.EOF when there are no more
// keys. The key and value passed to fn are only valid during the call.
type Iterator interface {
	Item(fn func(key, val []byte) error) error
	Close()
}

// Updater is a set of changes which are applied atomically by Commit. Get sees the changes
// already made by the Updater.
type Updater interface {
	Get(key []byte, fn func(val []byte) error) error
	Set(key, val []byte) error
	Delete(key []byte) error
	Commit() error
	Rollback()
}

// KV is an ordered, byte keyed store. Only one Updater may be open at a time; readers may be
// open at the same time as an Updater, but must not be open while it commits.
type KV interface {
	// Iterate returns the keys from minKey through maxKey inclusive; a nil maxKey has no
	// upper bound.
	Iterate(minKey, maxKey []byte) (Iterator, error)
	// Get calls fn with the value of key; it returns io.EOF if key is not found.
	Get(key []byte, fn func(val []byte) error) error
	Update() (Updater, error)
	Close() error
}

// Open returns the KV named by name: memory, bbolt, badger, or pebble. dataDir is ignored
// for memory.
func Open(name, dataDir string, logger *log.Logger) (KV, error) {
	log.WithFields(log.Fields{
		"kv":   name,
		"data": dataDir,
	}).Info("opening kv")

	switch name {
	case "memory":
		return MakeBTreeKV()
	case "bbolt":
		return MakeBBoltKV(dataDir)
	case "badger":
		return MakeBadgerKV(dataDir, logger)
	case "pebble":
		return MakePebbleKV(dataDir, logger)
	}
	return nil, fmt.Errorf("kv: unknown store: %s", name)
}

func pastMax(maxKey, key []byte) bool {
	return maxKey != nil && string(maxKey) < string(key)
}
