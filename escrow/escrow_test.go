// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package escrow

import (
	"math/big"
	"sync"
	"testing"

	"github.com/33cn/blindescrow/account"
	"github.com/33cn/blindescrow/common"
	"github.com/33cn/blindescrow/common/address"
	"github.com/33cn/blindescrow/common/crypto/rsablind"
	dbm "github.com/33cn/blindescrow/common/db"
	clog "github.com/33cn/blindescrow/common/log"
	"github.com/33cn/blindescrow/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	clog.SetLogLevel("error")
}

var (
	recipient  = address.PubKeyToAddress(common.Sha256([]byte("withdrawer pubkey"))).String()
	identifier = []byte("identifier-0001")
)

func testLedger(t *testing.T) (*Ledger, *account.DB) {
	kp, err := rsablind.NewKeyPair(big.NewInt(3233), big.NewInt(17), big.NewInt(2753))
	require.NoError(t, err)
	statedb, err := dbm.NewGoMemDB("gomemdb", "test", 128)
	require.NoError(t, err)
	acc := account.NewEscrowAccount(statedb)
	ledger, err := New(kp, acc, statedb, types.DefaultEscrowUnit)
	require.NoError(t, err)
	return ledger, acc
}

//完整的盲签名流程：本地盲化 -> 存入 -> 去盲化 -> 兑付
func TestDepositRedeemBlindFlow(t *testing.T) {
	ledger, acc := testLedger(t)
	n, e := ledger.GetPublicKey()
	pub, err := rsablind.NewPublicKey(n, e)
	require.NoError(t, err)

	h := pub.Hash(identifier)
	r := big.NewInt(5)
	blinded, err := pub.Blind(h, r)
	require.NoError(t, err)

	blindKey, err := ledger.Deposit(blinded, ledger.Unit())
	require.NoError(t, err)
	key, err := pub.Unblind(blindKey, r)
	require.NoError(t, err)

	assert.False(t, ledger.IsUsed(key))
	assert.Equal(t, ledger.Unit(), acc.LoadAccount(acc.PoolAddr()).GetFrozen())

	value, err := ledger.Redeem(identifier, key, recipient)
	require.NoError(t, err)
	assert.Equal(t, ledger.Unit(), value)
	assert.True(t, ledger.IsUsed(key))
	assert.Equal(t, ledger.Unit(), acc.LoadAccount(recipient).GetBalance())
	assert.Equal(t, int64(0), acc.LoadAccount(acc.PoolAddr()).GetFrozen())

	//同一个key第二次兑付失败
	_, err = ledger.Redeem(identifier, key, recipient)
	assert.Equal(t, types.ErrKeyAlreadyUsed, err)
}

func TestDepositWrongValue(t *testing.T) {
	ledger, acc := testLedger(t)
	h := ledger.key.Hash(identifier)

	_, err := ledger.Deposit(h, ledger.Unit()+1)
	assert.Equal(t, types.ErrWrongValue, err)
	_, err = ledger.Deposit(h, 0)
	assert.Equal(t, types.ErrWrongValue, err)
	//失败的存入不留任何记录，也不动资金
	assert.Equal(t, int64(0), acc.LoadAccount(acc.PoolAddr()).GetFrozen())
	key := ledger.key.Sign(h)
	_, err = ledger.edb.getEntry(key)
	assert.Equal(t, types.ErrNotFound, err)
}

func TestRedeemUnknownKey(t *testing.T) {
	ledger, _ := testLedger(t)
	_, err := ledger.Redeem(identifier, big.NewInt(42), recipient)
	assert.Equal(t, types.ErrUnknownKey, err)
}

func TestRedeemSignatureMismatch(t *testing.T) {
	ledger, _ := testLedger(t)
	h := ledger.key.Hash(identifier)
	key, err := ledger.Deposit(h, ledger.Unit())
	require.NoError(t, err)

	//找一个摘要不同的标识
	var other []byte
	for i := byte(0); i < 32; i++ {
		cand := append([]byte("identifier-"), i)
		if ledger.key.Hash(cand).Cmp(h) != 0 {
			other = cand
			break
		}
	}
	require.NotNil(t, other)

	_, err = ledger.Redeem(other, key, recipient)
	assert.Equal(t, types.ErrSignatureMismatch, err)
	//验签失败不消耗key
	assert.False(t, ledger.IsUsed(key))

	_, err = ledger.Redeem(identifier, key, recipient)
	assert.NoError(t, err)
}

func TestDepositKeyAlreadyConsumed(t *testing.T) {
	ledger, _ := testLedger(t)
	h := ledger.key.Hash(identifier)
	key, err := ledger.Deposit(h, ledger.Unit())
	require.NoError(t, err)
	_, err = ledger.Redeem(identifier, key, recipient)
	require.NoError(t, err)

	//签名是确定性的，再次存入同一摘要得到的key已经被消耗
	_, err = ledger.Deposit(h, ledger.Unit())
	assert.Equal(t, types.ErrKeyAlreadyConsumed, err)
}

//同一个未使用的key允许重复存入：多笔资金锁定到一个只能兑付
//一次的key上，这是沿用原设计的已知使用限制
func TestDepositSameKeyTwice(t *testing.T) {
	ledger, acc := testLedger(t)
	h := ledger.key.Hash(identifier)

	key1, err := ledger.Deposit(h, ledger.Unit())
	require.NoError(t, err)
	key2, err := ledger.Deposit(h, ledger.Unit())
	require.NoError(t, err)
	assert.Equal(t, 0, key1.Cmp(key2))
	assert.Equal(t, 2*ledger.Unit(), acc.LoadAccount(acc.PoolAddr()).GetFrozen())

	_, err = ledger.Redeem(identifier, key1, recipient)
	require.NoError(t, err)
	_, err = ledger.Redeem(identifier, key2, recipient)
	assert.Equal(t, types.ErrKeyAlreadyUsed, err)
	//第二笔资金留在池内
	assert.Equal(t, ledger.Unit(), acc.LoadAccount(acc.PoolAddr()).GetFrozen())
}

func TestRedeemPayoutFailed(t *testing.T) {
	ledger, acc := testLedger(t)
	h := ledger.key.Hash(identifier)
	key, err := ledger.Deposit(h, ledger.Unit())
	require.NoError(t, err)

	_, err = ledger.Redeem(identifier, key, "not-an-address")
	assert.Equal(t, types.ErrPayoutFailed, err)
	//付款失败不回滚used，资金留在池内无法再兑付
	assert.True(t, ledger.IsUsed(key))
	assert.Equal(t, ledger.Unit(), acc.LoadAccount(acc.PoolAddr()).GetFrozen())
	_, err = ledger.Redeem(identifier, key, recipient)
	assert.Equal(t, types.ErrKeyAlreadyUsed, err)
}

//并发兑付同一个key只会成功一次
func TestConcurrentRedeem(t *testing.T) {
	ledger, _ := testLedger(t)
	h := ledger.key.Hash(identifier)
	key, err := ledger.Deposit(h, ledger.Unit())
	require.NoError(t, err)

	const workers = 8
	errs := make([]error, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = ledger.Redeem(identifier, key, recipient)
		}(i)
	}
	wg.Wait()

	success := 0
	for _, err := range errs {
		if err == nil {
			success++
		} else {
			assert.Equal(t, types.ErrKeyAlreadyUsed, err)
		}
	}
	assert.Equal(t, 1, success)
}

func TestNewFromConfig(t *testing.T) {
	cfg, err := types.InitCfgString(`
Title="blindescrow"
EscrowUnit=100000000
[key]
modulus="ca1"
publicExponent="11"
privateExponent="ac1"
`)
	require.NoError(t, err)
	statedb, err := dbm.NewGoMemDB("gomemdb", "test", 128)
	require.NoError(t, err)
	ledger, err := NewFromConfig(cfg, statedb)
	require.NoError(t, err)

	//0xca1=3233 0x11=17 0xac1=2753
	h := ledger.key.Hash(identifier)
	key, err := ledger.Deposit(h, cfg.EscrowUnit)
	require.NoError(t, err)
	value, err := ledger.Redeem(identifier, key, recipient)
	require.NoError(t, err)
	assert.Equal(t, cfg.EscrowUnit, value)
}

func TestNewBadUnit(t *testing.T) {
	kp, err := rsablind.NewKeyPair(big.NewInt(3233), big.NewInt(17), big.NewInt(2753))
	require.NoError(t, err)
	statedb, err := dbm.NewGoMemDB("gomemdb", "test", 128)
	require.NoError(t, err)
	_, err = New(kp, account.NewEscrowAccount(statedb), statedb, 0)
	assert.Equal(t, types.ErrAmount, err)
}
