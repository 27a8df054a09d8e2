package testutil

import (
	"os"
	"path/filepath"
)

// CleanDir empties dirname, leaving the entries named in keeps. A missing directory is
// already clean.
func CleanDir(dirname string, keeps ...string) error {
	entries, err := os.ReadDir(dirname)
	if os.IsNotExist(err) {
		return nil
	} else if err != nil {
		return err
	}

	skip := map[string]bool{}
	for _, k := range keeps {
		skip[k] = true
	}
	for _, e := range entries {
		if skip[e.Name()] {
			continue
		}
		err = os.RemoveAll(filepath.Join(dirname, e.Name()))
		if err != nil {
			return err
		}
	}
	return nil
}
