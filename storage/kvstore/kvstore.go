package kvstore

import (
	"encoding/binary"
	"fmt"
	"io"

	log "github.com/sirupsen/logrus"

	"github.com/cl-kim/gluesql/sql"
	"github.com/cl-kim/gluesql/storage"
	"github.com/cl-kim/gluesql/storage/encode"
	"github.com/cl-kim/gluesql/storage/kv"
)

// Keys are a one byte kind followed by the table name:
//
//	's' table                      the schema of the table
//	'q' table                      the last row sequence number used by the table
//	'd' table 0 sequence           a row; sequence is 8 bytes big endian
const (
	schemaKind   = 's'
	sequenceKind = 'q'
	dataKind     = 'd'
)

type Store struct {
	kv kv.KV
}

type scan struct {
	tblname sql.Identifier
	it      kv.Iterator
}

var (
	_ storage.StoreMut = &Store{}
)

func New(kv kv.KV) *Store {
	return &Store{
		kv: kv,
	}
}

func tableKey(kind byte, tblname sql.Identifier) []byte {
	return append([]byte{kind}, string(tblname)...)
}

func encodeUint64(buf []byte, u uint64) []byte {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], u)
	return append(buf, b[:]...)
}

func dataPrefix(tblname sql.Identifier) []byte {
	return append(tableKey(dataKind, tblname), 0)
}

func rowKey(tblname sql.Identifier, seq uint64) []byte {
	return encodeUint64(dataPrefix(tblname), seq)
}

func maxRowKey(tblname sql.Identifier) []byte {
	return rowKey(tblname, ^uint64(0))
}

func (st *Store) Close() error {
	return st.kv.Close()
}

func (st *Store) FetchSchema(tblname sql.Identifier) (*sql.Schema, error) {
	var sch *sql.Schema
	err := st.kv.Get(tableKey(schemaKind, tblname),
		func(val []byte) error {
			var err error
			sch, err = encode.DecodeSchema(val)
			return err
		})
	if err == io.EOF {
		return nil, fmt.Errorf("%w: %s", storage.ErrTableNotFound, tblname)
	} else if err != nil {
		return nil, fmt.Errorf("kvstore: schema %s: %w", tblname, err)
	}
	return sch, nil
}

func (st *Store) ScanData(tblname sql.Identifier) (storage.Scan, error) {
	_, err := st.FetchSchema(tblname)
	if err != nil {
		return nil, err
	}

	it, err := st.kv.Iterate(dataPrefix(tblname), maxRowKey(tblname))
	if err != nil {
		return nil, err
	}
	return &scan{
		tblname: tblname,
		it:      it,
	}, nil
}

func (s *scan) Next() (storage.Key, sql.Row, error) {
	var key storage.Key
	var row sql.Row
	err := s.it.Item(
		func(k, val []byte) error {
			key = append(storage.Key(nil), k...)

			var err error
			row, err = encode.DecodeRow(val)
			if err != nil {
				return fmt.Errorf("kvstore: %s: row %s: %w", s.tblname, key, err)
			}
			return nil
		})
	if err != nil {
		return nil, nil, err
	}
	return key, row, nil
}

func (s *scan) Close() error {
	s.it.Close()
	return nil
}

func (st *Store) update(fn func(upd kv.Updater) error) error {
	upd, err := st.kv.Update()
	if err != nil {
		return err
	}

	err = fn(upd)
	if err != nil {
		upd.Rollback()
		return err
	}
	return upd.Commit()
}

func (st *Store) InsertSchema(sch *sql.Schema) error {
	log.WithField("table", sch.Table).Info("kvstore: insert schema")

	return st.update(
		func(upd kv.Updater) error {
			return upd.Set(tableKey(schemaKind, sch.Table), encode.EncodeSchema(sch))
		})
}

func (st *Store) dataKeys(tblname sql.Identifier) ([][]byte, error) {
	it, err := st.kv.Iterate(dataPrefix(tblname), maxRowKey(tblname))
	if err != nil {
		return nil, err
	}
	defer it.Close()

	var keys [][]byte
	for {
		err = it.Item(
			func(key, val []byte) error {
				keys = append(keys, append([]byte(nil), key...))
				return nil
			})
		if err == io.EOF {
			return keys, nil
		} else if err != nil {
			return nil, err
		}
	}
}

func (st *Store) DeleteSchema(tblname sql.Identifier) error {
	log.WithField("table", tblname).Info("kvstore: delete schema")

	keys, err := st.dataKeys(tblname)
	if err != nil {
		return err
	}

	return st.update(
		func(upd kv.Updater) error {
			for _, key := range keys {
				err := upd.Delete(key)
				if err != nil {
					return err
				}
			}
			err := upd.Delete(tableKey(sequenceKind, tblname))
			if err != nil {
				return err
			}
			return upd.Delete(tableKey(schemaKind, tblname))
		})
}

func (st *Store) InsertData(tblname sql.Identifier, rows []sql.Row) error {
	return st.update(
		func(upd kv.Updater) error {
			var seq uint64
			seqKey := tableKey(sequenceKind, tblname)
			err := upd.Get(seqKey,
				func(val []byte) error {
					if len(val) != 8 {
						return fmt.Errorf("kvstore: %s: bad sequence: %v", tblname, val)
					}
					seq = binary.BigEndian.Uint64(val)
					return nil
				})
			if err != nil && err != io.EOF {
				return err
			}

			for _, row := range rows {
				seq += 1
				err = upd.Set(rowKey(tblname, seq), encode.EncodeRow(row))
				if err != nil {
					return err
				}
			}
			return upd.Set(seqKey, encodeUint64(nil, seq))
		})
}

func (st *Store) UpdateData(tblname sql.Identifier, rows []storage.KeyRow) error {
	return st.update(
		func(upd kv.Updater) error {
			for _, kr := range rows {
				err := upd.Set(kr.Key, encode.EncodeRow(kr.Row))
				if err != nil {
					return err
				}
			}
			return nil
		})
}

func (st *Store) DeleteData(tblname sql.Identifier, keys []storage.Key) error {
	return st.update(
		func(upd kv.Updater) error {
			for _, key := range keys {
				err := upd.Delete(key)
				if err != nil {
					return err
				}
			}
			return nil
		})
}
