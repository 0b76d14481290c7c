// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package account 实现escrow资金池的资产操作
*/
package account

//1. load from db
//2. save to db
//3. Escrow 锁定资金到资金池
//4. Release 从资金池释放给收款地址

import (
	"github.com/33cn/blindescrow/common/address"
	dbm "github.com/33cn/blindescrow/common/db"
	"github.com/33cn/blindescrow/types"
	log "github.com/inconshreveable/log15"
)

var alog = log.New("module", "account")

// DB for account
type DB struct {
	db               dbm.KV
	accountKeyPrefix []byte
	poolAddr         string
}

//NewEscrowAccount escrow资金池账户，poolAddr由合约名推导，进程内唯一
func NewEscrowAccount(db dbm.KV) *DB {
	prefix := "mavl-" + types.EscrowX + "-acc-"
	acc := &DB{
		accountKeyPrefix: []byte(prefix),
		poolAddr:         address.ExecAddress(types.EscrowX),
	}
	acc.SetDB(db)
	return acc
}

//SetDB set db
func (acc *DB) SetDB(db dbm.KV) *DB {
	acc.db = db
	return acc
}

//PoolAddr 资金池地址
func (acc *DB) PoolAddr() string {
	return acc.poolAddr
}

//LoadAccount 从数据库加载账户，没有记录返回零余额账户
func (acc *DB) LoadAccount(addr string) *types.Account {
	value, err := acc.db.Get(acc.accountKey(addr))
	if err != nil {
		return &types.Account{Addr: addr}
	}
	var acc1 types.Account
	err = types.Decode(value, &acc1)
	if err != nil {
		panic(err) //数据库已经损坏
	}
	return &acc1
}

//SaveAccount 保存账户到数据库
func (acc *DB) SaveAccount(acc1 *types.Account) {
	value := types.Encode(acc1)
	err := acc.db.Set(acc.accountKey(acc1.Addr), value)
	if err != nil {
		panic(err)
	}
}

//Escrow 锁定一笔资金到资金池的冻结余额
func (acc *DB) Escrow(amount int64) error {
	if !types.CheckAmount(amount) {
		return types.ErrAmount
	}
	pool := acc.LoadAccount(acc.poolAddr)
	pool.Frozen += amount
	acc.SaveAccount(pool)
	return nil
}

//Release 从资金池释放一笔资金给收款地址
//收款地址非法或者池内冻结资金不足时失败，资金不动
func (acc *DB) Release(amount int64, recipient string) error {
	if !types.CheckAmount(amount) {
		return types.ErrAmount
	}
	if err := address.CheckAddress(recipient); err != nil {
		alog.Error("Release", "recipient", recipient, "err", err)
		return types.ErrInvalidAddress
	}
	if recipient == acc.poolAddr {
		return types.ErrInvalidAddress
	}
	pool := acc.LoadAccount(acc.poolAddr)
	if pool.Frozen-amount < 0 {
		alog.Error("Release", "frozen", pool.Frozen, "amount", amount)
		return types.ErrNoBalance
	}
	accTo := acc.LoadAccount(recipient)
	pool.Frozen -= amount
	accTo.Balance += amount
	acc.SaveAccount(pool)
	acc.SaveAccount(accTo)
	return nil
}

func (acc *DB) accountKey(address string) (key []byte) {
	key = make([]byte, 0, len(acc.accountKeyPrefix)+len(address))
	key = append(key, acc.accountKeyPrefix...)
	key = append(key, []byte(address)...)
	return key
}
