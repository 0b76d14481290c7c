// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package escrow

import (
	"math/big"
)

//IsUsed 查询一个key是否已经兑付，没有登记过的key视为未使用
//只读查询，任何人都可以调用，存入方交接前用它确认签名还没被花掉
func (l *Ledger) IsUsed(key *big.Int) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	entry, err := l.edb.getEntry(key)
	if err != nil {
		return false
	}
	return entry.Used
}

//GetPublicKey 获取公钥 (N, E)，存入方本地盲化摘要时使用
func (l *Ledger) GetPublicKey() (n, e *big.Int) {
	return l.key.GetPublicKey()
}
