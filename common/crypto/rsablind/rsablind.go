// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package rsablind RSA盲签名运算
//
// 签名方只看到 digest·r^E mod N，签出的结果经持有r的一方去盲化后
// 得到与直接签名完全相同的签名，因此签名方无法把签名和之后用来
// 兑付的标识关联起来
package rsablind

import (
	"math/big"

	"github.com/33cn/blindescrow/common"
	"github.com/33cn/blindescrow/types"
)

var one = big.NewInt(1)

//PublicKey 公钥部分，持有公钥即可完成盲化、去盲化和验签
type PublicKey struct {
	n *big.Int
	e *big.Int
}

//KeyPair 完整密钥对，私钥指数只有签名方持有
//密钥对在构造后不可变，生成和轮换不在本模块范围内
type KeyPair struct {
	PublicKey
	d *big.Int
}

//NewPublicKey 构造公钥
func NewPublicKey(n, e *big.Int) (*PublicKey, error) {
	if n == nil || e == nil || n.Cmp(one) <= 0 || e.Sign() <= 0 {
		return nil, types.ErrInvalidKeyPair
	}
	return &PublicKey{n: new(big.Int).Set(n), e: new(big.Int).Set(e)}, nil
}

//NewKeyPair 构造密钥对，要求 N>1 且 E、D 均为正整数
func NewKeyPair(n, e, d *big.Int) (*KeyPair, error) {
	pub, err := NewPublicKey(n, e)
	if err != nil {
		return nil, err
	}
	if d == nil || d.Sign() <= 0 {
		return nil, types.ErrInvalidKeyPair
	}
	return &KeyPair{PublicKey: *pub, d: new(big.Int).Set(d)}, nil
}

//KeyPairFromHex 从十六进制参数构造密钥对，用于配置加载
func KeyPairFromHex(modulus, publicExponent, privateExponent string) (*KeyPair, error) {
	n, ok := new(big.Int).SetString(modulus, 16)
	if !ok {
		return nil, types.ErrInvalidKeyPair
	}
	e, ok := new(big.Int).SetString(publicExponent, 16)
	if !ok {
		return nil, types.ErrInvalidKeyPair
	}
	d, ok := new(big.Int).SetString(privateExponent, 16)
	if !ok {
		return nil, types.ErrInvalidKeyPair
	}
	return NewKeyPair(n, e, d)
}

//GetPublicKey 获取公钥 (N, E)，返回副本
func (pub *PublicKey) GetPublicKey() (n, e *big.Int) {
	return new(big.Int).Set(pub.n), new(big.Int).Set(pub.e)
}

//Hash 计算标识的摘要并对N取模，作为签名输入
//同一个标识总是得到同一个摘要，兑付方靠这一点重算签名
func (pub *PublicKey) Hash(identifier []byte) *big.Int {
	h := new(big.Int).SetBytes(common.Sha256(identifier))
	return h.Mod(h, pub.n)
}

//ModPow 二进制快速幂计算 base^exp mod mod，exp为0时结果为 1 mod mod
func ModPow(base, exp, mod *big.Int) *big.Int {
	result := big.NewInt(1)
	result.Mod(result, mod)
	b := new(big.Int).Mod(base, mod)
	e := new(big.Int).Set(exp)
	for e.Sign() > 0 {
		if e.Bit(0) == 1 {
			result.Mul(result, b)
			result.Mod(result, mod)
		}
		e.Rsh(e, 1)
		b.Mul(b, b)
		b.Mod(b, mod)
	}
	return result
}

//Blind 盲化摘要: blinded = digest * r^E mod N
//要求 1 < r < N 且 gcd(r, N) = 1，r由存入方保管，绝不能发给签名方
func (pub *PublicKey) Blind(digest, r *big.Int) (*big.Int, error) {
	if r == nil || r.Cmp(one) <= 0 || r.Cmp(pub.n) >= 0 {
		return nil, types.ErrInvalidBlindFactor
	}
	if new(big.Int).GCD(nil, nil, r, pub.n).Cmp(one) != 0 {
		return nil, types.ErrInvalidBlindFactor
	}
	blinded := ModPow(r, pub.e, pub.n)
	blinded.Mul(blinded, new(big.Int).Mod(digest, pub.n))
	return blinded.Mod(blinded, pub.n), nil
}

//Sign 私钥签名: signature = blindedDigest^D mod N
func (kp *KeyPair) Sign(blindedDigest *big.Int) *big.Int {
	return ModPow(blindedDigest, kp.d, kp.n)
}

//Unblind 去盲化: signature = blindSignature * r^-1 mod N
//r^-1 用扩展欧几里得求得，r与N不互素时不存在
func (pub *PublicKey) Unblind(blindSignature, r *big.Int) (*big.Int, error) {
	rInv := new(big.Int).ModInverse(r, pub.n)
	if rInv == nil {
		return nil, types.ErrNoInverseExists
	}
	sig := new(big.Int).Mul(blindSignature, rInv)
	return sig.Mod(sig, pub.n), nil
}

//Verify 验签: signature^E mod N == digest mod N
func (pub *PublicKey) Verify(digest, signature *big.Int) bool {
	h := new(big.Int).Mod(digest, pub.n)
	return ModPow(signature, pub.e, pub.n).Cmp(h) == 0
}
