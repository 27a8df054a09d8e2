package kv_test

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"testing"

	"github.com/cl-kim/gluesql/storage/kv"
	"github.com/cl-kim/gluesql/testutil"
)

const (
	iterateCmd = iota
	getCmd
	updaterCmd
	setCmd
	deleteCmd
	commitCmd
	rollbackCmd
)

type keyVal struct {
	key string
	val string
}

type kvCmd struct {
	pos     testutil.Pos
	cmd     int
	fail    bool
	key     string
	maxKey  string
	val     string
	keyVals []keyVal
}

func here() testutil.Pos {
	return testutil.Here()
}

func runKVTest(t *testing.T, st kv.KV, cmds []kvCmd) {
	t.Helper()

	var updater kv.Updater
	for _, cmd := range cmds {
		switch cmd.cmd {
		case iterateCmd:
			var maxKey []byte
			if cmd.maxKey != "" {
				maxKey = []byte(cmd.maxKey)
			}
			it, err := st.Iterate([]byte(cmd.key), maxKey)
			if err != nil {
				t.Errorf("%sIterate() failed with %s", cmd.pos, err)
				break
			}

			var got []keyVal
			for {
				err := it.Item(
					func(key, val []byte) error {
						got = append(got, keyVal{string(key), string(val)})
						return nil
					})
				if err == io.EOF {
					break
				} else if err != nil {
					t.Errorf("%sIterate() failed with %s", cmd.pos, err)
					break
				}
			}
			it.Close()
			if !testutil.DeepEqual(got, cmd.keyVals) {
				t.Errorf("%sIterate() got %v want %v", cmd.pos, got, cmd.keyVals)
			}

		case getCmd:
			get := st.Get
			if updater != nil {
				get = updater.Get
			}
			var val string
			err := get([]byte(cmd.key),
				func(v []byte) error {
					val = string(v)
					return nil
				})
			if cmd.fail {
				if err != io.EOF {
					t.Errorf("%sGet(%s) got %v want io.EOF", cmd.pos, cmd.key, err)
				}
			} else if err != nil {
				t.Errorf("%sGet(%s) failed with %s", cmd.pos, cmd.key, err)
			} else if val != cmd.val {
				t.Errorf("%sGet(%s) got %s want %s", cmd.pos, cmd.key, val, cmd.val)
			}

		case updaterCmd:
			if updater != nil {
				panic("updater: updater is not nil")
			}

			var err error
			updater, err = st.Update()
			if err != nil {
				t.Fatalf("%sUpdate() failed with %s", cmd.pos, err)
			}

		case setCmd:
			if updater == nil {
				panic("set: updater is nil")
			}
			err := updater.Set([]byte(cmd.key), []byte(cmd.val))
			if err != nil {
				t.Errorf("%sSet(%s) failed with %s", cmd.pos, cmd.key, err)
			}

		case deleteCmd:
			if updater == nil {
				panic("delete: updater is nil")
			}
			err := updater.Delete([]byte(cmd.key))
			if err != nil {
				t.Errorf("%sDelete(%s) failed with %s", cmd.pos, cmd.key, err)
			}

		case commitCmd:
			if updater == nil {
				panic("commit: updater is nil")
			}
			err := updater.Commit()
			if err != nil {
				t.Errorf("%sCommit() failed with %s", cmd.pos, err)
			}
			updater = nil

		case rollbackCmd:
			if updater == nil {
				panic("rollback: updater is nil")
			}
			updater.Rollback()
			updater = nil

		default:
			panic(fmt.Sprintf("unexpected command: %d", cmd.cmd))
		}
	}
}

func testKV(t *testing.T, st kv.KV) {
	t.Helper()

	runKVTest(t, st,
		[]kvCmd{
			{pos: here(), cmd: iterateCmd, key: "A"},
			{pos: here(), cmd: getCmd, key: "Aaaa", fail: true},
			{pos: here(), cmd: updaterCmd},
			{pos: here(), cmd: setCmd, key: "Aaaa", val: "aaa@2"},
			{pos: here(), cmd: setCmd, key: "Accc", val: "ccc@2"},
			{pos: here(), cmd: setCmd, key: "Abbb", val: "bbb@2"},
			{pos: here(), cmd: setCmd, key: "Baaa", val: "aaa@2"},
			{pos: here(), cmd: getCmd, key: "Abbb", val: "bbb@2"},
			{pos: here(), cmd: commitCmd},

			{pos: here(), cmd: iterateCmd, key: "A", maxKey: "Azzz",
				keyVals: []keyVal{
					{"Aaaa", "aaa@2"},
					{"Abbb", "bbb@2"},
					{"Accc", "ccc@2"},
				},
			},
			{pos: here(), cmd: iterateCmd, key: "Abbb", maxKey: "Accc",
				keyVals: []keyVal{
					{"Abbb", "bbb@2"},
					{"Accc", "ccc@2"},
				},
			},
			{pos: here(), cmd: iterateCmd, key: "Ab",
				keyVals: []keyVal{
					{"Abbb", "bbb@2"},
					{"Accc", "ccc@2"},
					{"Baaa", "aaa@2"},
				},
			},
			{pos: here(), cmd: getCmd, key: "Accc", val: "ccc@2"},

			{pos: here(), cmd: updaterCmd},
			{pos: here(), cmd: setCmd, key: "Abbb", val: "bbb@3"},
			{pos: here(), cmd: setCmd, key: "Addd", val: "ddd@3"},
			{pos: here(), cmd: deleteCmd, key: "Aaaa"},
			{pos: here(), cmd: getCmd, key: "Aaaa", fail: true},
			{pos: here(), cmd: commitCmd},

			{pos: here(), cmd: iterateCmd, key: "A", maxKey: "Azzz",
				keyVals: []keyVal{
					{"Abbb", "bbb@3"},
					{"Accc", "ccc@2"},
					{"Addd", "ddd@3"},
				},
			},

			{pos: here(), cmd: updaterCmd},
			{pos: here(), cmd: setCmd, key: "Abbb", val: "bbb@4"},
			{pos: here(), cmd: deleteCmd, key: "Accc"},
			{pos: here(), cmd: rollbackCmd},

			{pos: here(), cmd: iterateCmd, key: "A", maxKey: "Azzz",
				keyVals: []keyVal{
					{"Abbb", "bbb@3"},
					{"Accc", "ccc@2"},
					{"Addd", "ddd@3"},
				},
			},
			{pos: here(), cmd: getCmd, key: "Abbb", val: "bbb@3"},
		})

	testIterateErrors(t, st)

	err := st.Close()
	if err != nil {
		t.Errorf("Close() failed with %s", err)
	}
}

// testIterateErrors checks that an iterator advances past an item whose callback fails.
func testIterateErrors(t *testing.T, st kv.KV) {
	t.Helper()

	it, err := st.Iterate([]byte("A"), []byte("Azzz"))
	if err != nil {
		t.Fatalf("Iterate() failed with %s", err)
	}
	defer it.Close()

	errItem := errors.New("item failed")
	err = it.Item(
		func(key, val []byte) error {
			return errItem
		})
	if err != errItem {
		t.Errorf("Item() got %v want %s", err, errItem)
	}

	var key string
	err = it.Item(
		func(k, val []byte) error {
			key = string(k)
			return nil
		})
	if err != nil {
		t.Errorf("Item() failed with %s", err)
	} else if key != "Accc" {
		t.Errorf("Item() got %s want Accc", key)
	}
}

func TestBTreeKV(t *testing.T) {
	st, err := kv.MakeBTreeKV()
	if err != nil {
		t.Fatal(err)
	}

	testKV(t, st)
}

func TestBBoltKV(t *testing.T) {
	err := testutil.CleanDir("testdata", ".gitignore")
	if err != nil {
		t.Fatal(err)
	}

	st, err := kv.MakeBBoltKV(filepath.Join("testdata", "bbolt"))
	if err != nil {
		t.Fatal(err)
	}

	testKV(t, st)
}

func TestBadgerKV(t *testing.T) {
	err := testutil.CleanDir("testdata", ".gitignore")
	if err != nil {
		t.Fatal(err)
	}

	st, err := kv.MakeBadgerKV(filepath.Join("testdata", "badger"),
		testutil.SetupLogger(filepath.Join("testdata", "badger_kv.log")))
	if err != nil {
		t.Fatal(err)
	}

	testKV(t, st)
}

func TestPebbleKV(t *testing.T) {
	err := testutil.CleanDir("testdata", ".gitignore")
	if err != nil {
		t.Fatal(err)
	}

	st, err := kv.MakePebbleKV(filepath.Join("testdata", "pebble"),
		testutil.SetupLogger(filepath.Join("testdata", "pebble_kv.log")))
	if err != nil {
		t.Fatal(err)
	}

	testKV(t, st)
}

func TestOpen(t *testing.T) {
	st, err := kv.Open("memory", "", nil)
	if err != nil {
		t.Fatalf("Open(memory) failed with %s", err)
	}
	st.Close()

	_, err = kv.Open("unknown", "", nil)
	if err == nil {
		t.Errorf("Open(unknown) did not fail")
	}
}
