// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package escrow 盲签名托管台账

主要提供两种操作：
Deposit -> 存入一个托管单位，对盲化摘要签名并登记key
Redeem  -> 出示标识和去盲化签名，一个key只能兑付一次
*/
package escrow

import (
	"math/big"
	"sync"

	"github.com/33cn/blindescrow/account"
	"github.com/33cn/blindescrow/common/crypto/rsablind"
	dbm "github.com/33cn/blindescrow/common/db"
	"github.com/33cn/blindescrow/types"
	log "github.com/inconshreveable/log15"
)

var elog = log.New("module", "execs.escrow")

//Vault 资金托管的外部协作方，台账只负责记账，资金进出由它完成
type Vault interface {
	Escrow(amount int64) error
	Release(amount int64, recipient string) error
}

//Ledger 托管台账，key到使用状态的映射加上一个固定的托管单位
//Deposit/Redeem在内部mutex上串行执行，同一个key并发兑付
//只会成功一次，不会出现双重支付
type Ledger struct {
	mu    sync.Mutex
	key   *rsablind.KeyPair
	vault Vault
	edb   *entryDB
	unit  int64
}

//New 创建台账，密钥对、资金方和底层存储全部外部注入
func New(kp *rsablind.KeyPair, vault Vault, statedb dbm.KV, unit int64) (*Ledger, error) {
	if !types.CheckAmount(unit) {
		return nil, types.ErrAmount
	}
	return &Ledger{
		key:   kp,
		vault: vault,
		edb:   newEntryDB(statedb),
		unit:  unit,
	}, nil
}

//NewFromConfig 按配置创建台账，资金方用escrow资金池账户
func NewFromConfig(cfg *types.Config, statedb dbm.KV) (*Ledger, error) {
	if cfg.Key == nil {
		return nil, types.ErrInvalidKeyPair
	}
	kp, err := rsablind.KeyPairFromHex(cfg.Key.Modulus, cfg.Key.PublicExponent, cfg.Key.PrivateExponent)
	if err != nil {
		return nil, err
	}
	return New(kp, account.NewEscrowAccount(statedb), statedb, cfg.EscrowUnit)
}

//Unit 托管单位
func (l *Ledger) Unit() int64 {
	return l.unit
}

//Deposit 存入value，对盲化（或明文）摘要签名，返回签名key
//value必须等于托管单位。同一个key允许重复存入而不新建记录，
//多笔存入只能兑付一次，这是有意保留的使用限制
func (l *Ledger) Deposit(blindedDigest *big.Int, value int64) (*big.Int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if value != l.unit {
		elog.Error("Deposit", "value", value, "unit", l.unit, "err", types.ErrWrongValue)
		return nil, types.ErrWrongValue
	}
	sig := l.key.Sign(blindedDigest)
	entry, err := l.edb.getEntry(sig)
	if err != nil && err != types.ErrNotFound {
		return nil, err
	}
	if entry != nil && entry.Used {
		elog.Error("Deposit", "key", string(Key(sig)), "err", types.ErrKeyAlreadyConsumed)
		return nil, types.ErrKeyAlreadyConsumed
	}
	if err := l.vault.Escrow(value); err != nil {
		elog.Error("Deposit.Escrow", "value", value, "err", err)
		return nil, err
	}
	if entry == nil {
		if err := l.edb.saveEntry(sig, &types.Entry{Used: false}); err != nil {
			return nil, err
		}
	}
	return sig, nil
}

//Redeem 出示标识和签名key兑付一个托管单位，打给recipient
//先置位used再付款；付款失败返回ErrPayoutFailed且不回滚used，
//这笔资金会留在池内无法再兑付，沿用原设计的单向状态转移
func (l *Ledger) Redeem(identifier []byte, key *big.Int, recipient string) (int64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	entry, err := l.edb.getEntry(key)
	if err == types.ErrNotFound {
		elog.Error("Redeem", "key", string(Key(key)), "err", types.ErrUnknownKey)
		return 0, types.ErrUnknownKey
	}
	if err != nil {
		return 0, err
	}
	if entry.Used {
		elog.Error("Redeem", "key", string(Key(key)), "err", types.ErrKeyAlreadyUsed)
		return 0, types.ErrKeyAlreadyUsed
	}
	digest := l.key.Hash(identifier)
	if !l.key.Verify(digest, key) {
		elog.Error("Redeem", "key", string(Key(key)), "err", types.ErrSignatureMismatch)
		return 0, types.ErrSignatureMismatch
	}
	entry.Used = true
	if err := l.edb.saveEntry(key, entry); err != nil {
		return 0, err
	}
	if err := l.vault.Release(l.unit, recipient); err != nil {
		elog.Error("Redeem.Release", "key", string(Key(key)), "recipient", recipient, "err", err)
		return 0, types.ErrPayoutFailed
	}
	return l.unit, nil
}
