// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package db

import (
	"sort"
	"strings"
	"sync"

	"github.com/33cn/blindescrow/types"
	log "github.com/inconshreveable/log15"
)

var mlog = log.New("module", "db.memdb")

// memdb 无需区分同步与异步操作

func init() {
	dbCreator := func(name string, dir string, cache int) (DB, error) {
		return NewGoMemDB(name, dir, cache)
	}
	registerDBCreator(MemDBBackendStr, dbCreator, false)
}

//GoMemDB 内存数据库，测试用
type GoMemDB struct {
	db   map[string][]byte
	lock sync.RWMutex
}

//NewGoMemDB 创建内存数据库
func NewGoMemDB(name string, dir string, cache int) (*GoMemDB, error) {
	return &GoMemDB{
		db: make(map[string][]byte),
	}, nil
}

//Get get
func (db *GoMemDB) Get(key []byte) ([]byte, error) {
	db.lock.RLock()
	defer db.lock.RUnlock()

	if entry, ok := db.db[string(key)]; ok {
		return copyBytes(entry), nil
	}
	return nil, types.ErrNotFound
}

//Set set
func (db *GoMemDB) Set(key []byte, value []byte) error {
	db.lock.Lock()
	defer db.lock.Unlock()

	db.db[string(key)] = copyBytes(value)
	return nil
}

//SetSync 同步set
func (db *GoMemDB) SetSync(key []byte, value []byte) error {
	return db.Set(key, value)
}

//Delete delete
func (db *GoMemDB) Delete(key []byte) error {
	db.lock.Lock()
	defer db.lock.Unlock()

	delete(db.db, string(key))
	return nil
}

//DeleteSync 同步delete
func (db *GoMemDB) DeleteSync(key []byte) error {
	return db.Delete(key)
}

//Close close
func (db *GoMemDB) Close() {
}

//Print 打印数据库内容，调试用
func (db *GoMemDB) Print() {
	db.lock.RLock()
	defer db.lock.RUnlock()
	for key, value := range db.db {
		mlog.Info("Print", "key", key, "value", string(value))
	}
}

//Stats stats
func (db *GoMemDB) Stats() map[string]string {
	//TODO
	return nil
}

//Iterator 按前缀迭代，key有序
func (db *GoMemDB) Iterator(prefix []byte) Iterator {
	db.lock.RLock()
	defer db.lock.RUnlock()

	var keys []string
	for k := range db.db {
		if strings.HasPrefix(k, string(prefix)) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return &goMemDBIt{index: -1, keys: keys, goMemDb: db}
}

type goMemDBIt struct {
	index   int
	keys    []string
	goMemDb *GoMemDB
}

func (dbit *goMemDBIt) Next() bool {
	dbit.index++
	return dbit.index < len(dbit.keys)
}

func (dbit *goMemDBIt) Key() []byte {
	return []byte(dbit.keys[dbit.index])
}

func (dbit *goMemDBIt) Value() []byte {
	value, err := dbit.goMemDb.Get([]byte(dbit.keys[dbit.index]))
	if err != nil {
		return nil
	}
	return value
}

func (dbit *goMemDBIt) Close() {
}

func copyBytes(b []byte) (copiedBytes []byte) {
	if b == nil {
		return nil
	}
	copiedBytes = make([]byte, len(b))
	copy(copiedBytes, b)
	return copiedBytes
}

type kv struct{ k, v []byte }

type memBatch struct {
	db     *GoMemDB
	writes []kv
}

//NewBatch new
func (db *GoMemDB) NewBatch(sync bool) Batch {
	return &memBatch{db: db}
}

func (b *memBatch) Set(key, value []byte) {
	b.writes = append(b.writes, kv{copyBytes(key), copyBytes(value)})
}

func (b *memBatch) Delete(key []byte) {
	b.writes = append(b.writes, kv{copyBytes(key), nil})
}

func (b *memBatch) Write() error {
	for _, kv := range b.writes {
		if kv.v == nil {
			if err := b.db.Delete(kv.k); err != nil {
				return err
			}
		} else if err := b.db.Set(kv.k, kv.v); err != nil {
			return err
		}
	}
	return nil
}
