// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package escrow

//database operation for escrow entries

import (
	"math/big"

	"github.com/33cn/blindescrow/common"
	dbm "github.com/33cn/blindescrow/common/db"
	"github.com/33cn/blindescrow/types"
	lru "github.com/hashicorp/golang-lru"
)

//Key signature to save key
func Key(sig *big.Int) (key []byte) {
	key = append(key, []byte("mavl-"+types.EscrowX+"-")...)
	key = append(key, []byte(common.ToHex(sig.Bytes()))...)
	return key
}

//entryDB 记录的读写，前面挂一层lru读缓存
//记录只会从未使用变为已使用，不会删除，缓存随写入更新
type entryDB struct {
	db    dbm.KV
	cache *lru.Cache
}

func newEntryDB(db dbm.KV) *entryDB {
	cache, _ := lru.New(10240)
	return &entryDB{db: db, cache: cache}
}

func (edb *entryDB) getEntry(sig *big.Int) (*types.Entry, error) {
	skey := string(Key(sig))
	if value, ok := edb.cache.Get(skey); ok {
		entry := value.(types.Entry)
		return &entry, nil
	}
	value, err := edb.db.Get([]byte(skey))
	if err != nil {
		return nil, err
	}
	var entry types.Entry
	if err := types.Decode(value, &entry); err != nil {
		panic(err) //数据库已经损坏
	}
	edb.cache.Add(skey, entry)
	return &entry, nil
}

func (edb *entryDB) saveEntry(sig *big.Int, entry *types.Entry) error {
	skey := string(Key(sig))
	if err := edb.db.Set([]byte(skey), types.Encode(entry)); err != nil {
		return err
	}
	edb.cache.Add(skey, *entry)
	return nil
}
