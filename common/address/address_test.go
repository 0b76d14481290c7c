// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package address

import (
	"testing"

	"github.com/33cn/blindescrow/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPubKeyToAddress(t *testing.T) {
	addr := PubKeyToAddress(common.Sha256([]byte("pubkey")))
	addrstr := addr.String()
	assert.NotEqual(t, "", addrstr)
	require.NoError(t, CheckAddress(addrstr))

	//同一公钥生成的地址可复现
	assert.Equal(t, addrstr, PubKeyToAddress(common.Sha256([]byte("pubkey"))).String())
}

func TestCheckAddress(t *testing.T) {
	assert.Error(t, CheckAddress("not-an-address"))
	assert.Error(t, CheckAddress(""))
	//合法地址改一个字符后校验和必然不过
	addr := PubKeyToAddress(common.Sha256([]byte("pubkey"))).String()
	tail := "1"
	if addr[len(addr)-1] == '1' {
		tail = "2"
	}
	assert.Error(t, CheckAddress(addr[:len(addr)-1]+tail))
	//cache命中也返回同样的结果
	require.NoError(t, CheckAddress(addr))
	require.NoError(t, CheckAddress(addr))
}

func TestNewAddrFromString(t *testing.T) {
	addr := PubKeyToAddress(common.Sha256([]byte("pubkey")))
	a, err := NewAddrFromString(addr.String())
	require.NoError(t, err)
	assert.Equal(t, addr.String(), a.String())
	assert.Equal(t, addr.Hash160, a.Hash160)

	_, err = NewAddrFromString("bad")
	assert.Error(t, err)
}

func TestExecAddress(t *testing.T) {
	addr := ExecAddress("escrow")
	require.NoError(t, CheckAddress(addr))
	//cache命中
	assert.Equal(t, addr, ExecAddress("escrow"))
	assert.NotEqual(t, addr, ExecAddress("escrow2"))
}
