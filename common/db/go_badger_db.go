// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package db

import (
	"path"

	"github.com/33cn/blindescrow/types"
	"github.com/dgraph-io/badger"
	log "github.com/inconshreveable/log15"
)

var blog = log.New("module", "db.gobadgerdb")

func init() {
	dbCreator := func(name string, dir string, cache int) (DB, error) {
		return NewGoBadgerDB(name, dir, cache)
	}
	registerDBCreator(GoBadgerDBBackendStr, dbCreator, false)
}

//GoBadgerDB badger
type GoBadgerDB struct {
	db *badger.DB
}

//NewGoBadgerDB new
func NewGoBadgerDB(name string, dir string, cache int) (*GoBadgerDB, error) {
	opts := badger.DefaultOptions(path.Join(dir, name))
	db, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}
	return &GoBadgerDB{db: db}, nil
}

//Get get
func (db *GoBadgerDB) Get(key []byte) ([]byte, error) {
	var val []byte
	err := db.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key)
		if err != nil {
			return err
		}
		val, err = item.ValueCopy(nil)
		return err
	})
	if err == badger.ErrKeyNotFound {
		return nil, types.ErrNotFound
	}
	if err != nil {
		blog.Error("Get", "error", err)
		return nil, err
	}
	return val, nil
}

//Set set
func (db *GoBadgerDB) Set(key []byte, value []byte) error {
	err := db.db.Update(func(txn *badger.Txn) error {
		return txn.Set(key, value)
	})
	if err != nil {
		blog.Error("Set", "error", err)
	}
	return err
}

//SetSync 同步set，badger的Update已经落盘
func (db *GoBadgerDB) SetSync(key []byte, value []byte) error {
	return db.Set(key, value)
}

//Delete delete
func (db *GoBadgerDB) Delete(key []byte) error {
	err := db.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(key)
	})
	if err != nil {
		blog.Error("Delete", "error", err)
	}
	return err
}

//DeleteSync 同步delete
func (db *GoBadgerDB) DeleteSync(key []byte) error {
	return db.Delete(key)
}

//Close close
func (db *GoBadgerDB) Close() {
	db.db.Close()
}

//Print 打印数据库内容，调试用
func (db *GoBadgerDB) Print() {
	err := db.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchSize = 10
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			item := it.Item()
			k := item.Key()
			v, err := item.ValueCopy(nil)
			if err != nil {
				return err
			}
			blog.Info("Print", "key", string(k), "value", string(v))
		}
		return nil
	})
	if err != nil {
		blog.Error("Print", "error", err)
	}
}

//Stats stats
func (db *GoBadgerDB) Stats() map[string]string {
	//TODO
	return nil
}

//Iterator 按前缀迭代，一次性读出匹配的kv
func (db *GoBadgerDB) Iterator(prefix []byte) Iterator {
	var pairs []kv
	err := db.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			item := it.Item()
			value, err := item.ValueCopy(nil)
			if err != nil {
				return err
			}
			pairs = append(pairs, kv{copyBytes(item.Key()), value})
		}
		return nil
	})
	if err != nil {
		blog.Error("Iterator", "error", err)
	}
	return &goBadgerDBIt{index: -1, pairs: pairs}
}

type goBadgerDBIt struct {
	index int
	pairs []kv
}

func (dbit *goBadgerDBIt) Next() bool {
	dbit.index++
	return dbit.index < len(dbit.pairs)
}

func (dbit *goBadgerDBIt) Key() []byte {
	return dbit.pairs[dbit.index].k
}

func (dbit *goBadgerDBIt) Value() []byte {
	return dbit.pairs[dbit.index].v
}

func (dbit *goBadgerDBIt) Close() {
}

//--------------------------------------------------------------------------------

//GoBadgerDBBatch batch
type GoBadgerDBBatch struct {
	db    *GoBadgerDB
	batch *badger.Txn
}

//NewBatch new
func (db *GoBadgerDB) NewBatch(sync bool) Batch {
	batch := db.db.NewTransaction(true)
	return &GoBadgerDBBatch{db, batch}
}

//Set set
func (mBatch *GoBadgerDBBatch) Set(key, value []byte) {
	if err := mBatch.batch.Set(key, value); err != nil {
		blog.Error("Batch.Set", "error", err)
	}
}

//Delete delete
func (mBatch *GoBadgerDBBatch) Delete(key []byte) {
	if err := mBatch.batch.Delete(key); err != nil {
		blog.Error("Batch.Delete", "error", err)
	}
}

//Write write
func (mBatch *GoBadgerDBBatch) Write() error {
	defer mBatch.batch.Discard()
	return mBatch.batch.Commit()
}
