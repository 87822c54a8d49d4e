// Copyright 2025 The packetd Authors
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package confengine

import (
	"fmt"

	"github.com/elastic/go-ucfg"
	"github.com/elastic/go-ucfg/yaml"
	"github.com/pkg/errors"
)

// Default 未指定配置文件时使用的默认配置
const Default = `
logger:
  console: false
  level: info
  filename: bot-%d.log
  fallback: bot-unknown.log
  maxSize: 10
  maxAge: 1
  maxBackups: 3

input:
  bufferSize: 65536

server:
  enabled: false
  address: localhost:9091
  pprof: false
  timeout: 10s
`

// pathSep 使 "server.enabled" 这类路径按层级解析
var pathSep = ucfg.PathSep(".")

// Config 是对 ucfg.Config 的封装 并提供一些简便的操作函数
type Config struct {
	conf *ucfg.Config
}

func New(conf *ucfg.Config) *Config {
	return &Config{conf: conf}
}

func (c *Config) Has(s string) bool {
	ok, err := c.conf.Has(s, -1, pathSep)
	if err != nil {
		return false
	}
	return ok
}

func (c *Config) Child(s string) (*Config, error) {
	content, err := c.conf.Child(s, -1, pathSep)
	if err != nil {
		return nil, errors.Wrapf(err, "confengine: child %q", s)
	}
	return &Config{conf: content}, nil
}

func (c *Config) Unpack(to any) error {
	return c.conf.Unpack(to)
}

func (c *Config) Enabled(s string) bool {
	ok, err := c.conf.Bool(fmt.Sprintf("%s.enabled", s), -1, pathSep)
	if err != nil {
		return false
	}
	return ok
}

// UnpackChild 解析 s 节点到 to 节点不存在时保持 to 不变
func (c *Config) UnpackChild(s string, to any) error {
	if !c.Has(s) {
		return nil
	}
	content, err := c.conf.Child(s, -1, pathSep)
	if err != nil {
		// 节点存在但值为空 (例如 `server:`)
		return nil
	}
	if err := content.Unpack(to); err != nil {
		return errors.Wrapf(err, "confengine: unpack %q", s)
	}
	return nil
}

// Merge 使用 other 覆盖当前配置中的同名字段
func (c *Config) Merge(other *Config) error {
	return c.conf.Merge(other.conf, pathSep)
}

// LoadConfigPath 加载配置文件 并以默认配置兜底缺失的字段
//
// path 为空时直接返回默认配置
func LoadConfigPath(path string) (*Config, error) {
	base, err := LoadContent([]byte(Default))
	if err != nil {
		return nil, err
	}
	if path == "" {
		return base, nil
	}

	config, err := yaml.NewConfigWithFile(path, pathSep)
	if err != nil {
		return nil, errors.Wrapf(err, "confengine: load %s", path)
	}
	if err := base.Merge(New(config)); err != nil {
		return nil, errors.Wrapf(err, "confengine: merge %s", path)
	}
	return base, nil
}

func LoadContent(b []byte) (*Config, error) {
	config, err := yaml.NewConfig(b, pathSep)
	if err != nil {
		return nil, errors.Wrap(err, "confengine: load content")
	}
	return New(config), nil
}
