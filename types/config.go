// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package types

import (
	"io/ioutil"

	tml "github.com/BurntSushi/toml"
	"github.com/pkg/errors"
)

//Config 配置信息，进程启动时加载一次，运行期间只读
type Config struct {
	Title      string
	EscrowUnit int64
	Key        *Key
	Database   *Database
	Log        *Log
}

//Key RSA密钥参数，十六进制编码。密钥生成不在本系统范围内，
//部署时由外部提供，进程生命周期内不变
type Key struct {
	Modulus         string
	PublicExponent  string
	PrivateExponent string
}

//Database 数据库配置
type Database struct {
	Backend string
	Dir     string
	Cache   int32
}

//Log 日志配置
type Log struct {
	Loglevel        string
	LogConsoleLevel string
	LogFile         string
	MaxFileSize     uint32
	MaxBackups      uint32
	MaxAge          uint32
	LocalTime       bool
	Compress        bool
	CallerFile      bool
	CallerFunction  bool
}

//InitCfg 从文件初始化配置
func InitCfg(path string) (*Config, error) {
	data, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read config file")
	}
	return InitCfgString(string(data))
}

//InitCfgString 从字符串初始化配置
func InitCfgString(cfgstring string) (*Config, error) {
	var cfg Config
	if _, err := tml.Decode(cfgstring, &cfg); err != nil {
		return nil, errors.Wrap(err, "decode config")
	}
	if cfg.EscrowUnit == 0 {
		cfg.EscrowUnit = DefaultEscrowUnit
	}
	return &cfg, nil
}
