// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package types 定义escrow模块的数据类型和错误码
package types

import "encoding/json"

//EscrowX 合约名称
var EscrowX = "escrow"

// coin conversation
const (
	Coin              int64 = 1e8
	MaxCoin           int64 = 1e17
	DefaultEscrowUnit       = 1 * Coin
)

//Entry 存证记录，一个签名key对应一条，创建后永不删除
//key本身做数据库key存储，记录里只保留使用状态
type Entry struct {
	Used bool `json:"used"`
}

//Account 账户余额，Frozen为托管中的资金
type Account struct {
	Addr    string `json:"addr"`
	Balance int64  `json:"balance"`
	Frozen  int64  `json:"frozen"`
}

//GetBalance 获取余额
func (acc *Account) GetBalance() int64 {
	if acc == nil {
		return 0
	}
	return acc.Balance
}

//GetFrozen 获取冻结资金
func (acc *Account) GetFrozen() int64 {
	if acc == nil {
		return 0
	}
	return acc.Frozen
}

//Encode 数据编码
func Encode(data interface{}) []byte {
	b, err := json.Marshal(data)
	if err != nil {
		panic(err)
	}
	return b
}

//Decode 数据解码
func Decode(data []byte, msg interface{}) error {
	return json.Unmarshal(data, msg)
}

//CheckAmount 金额检查
func CheckAmount(amount int64) bool {
	if amount <= 0 || amount >= MaxCoin {
		return false
	}
	return true
}
