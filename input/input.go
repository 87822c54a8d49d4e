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

package input

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/packetd/hltbot/common"
	"github.com/packetd/hltbot/internal/splitio"
)

// osExit 测试时替换
var osExit = os.Exit

const closedMessage = "Input connection from server closed. Exiting..."

// Logger 是 Reader 依赖的诊断日志接口
//
// Panic 需要记录日志并终止进程 不会返回
type Logger interface {
	Log(msg string)
	Flush()
	Panic(msg string)
}

type Config struct {
	BufferSize int `config:"bufferSize"`
}

// Reader 引擎协议输入读取器
//
// 每次读取一行并按空白字符切分为 tokens 调用方按照协议规定的字段顺序依次取值
// Reader 不校验协议语义 也不支持回退到已经读取过的行
type Reader struct {
	lr     *splitio.Reader
	log    Logger
	tokens []string
	cursor int
}

// New 创建并返回 Reader 实例
func New(r io.Reader, log Logger, cfg Config) *Reader {
	size := cfg.BufferSize
	if size <= 0 {
		size = common.DefaultBufferSize
	}
	return &Reader{
		lr:  splitio.NewReader(r, size),
		log: log,
	}
}

// ReadLine 阻塞读取一行原始数据 包含行尾换行符
//
// 输入流关闭或者读取失败时视为引擎已断开 记录日志后以状态码 0 退出进程
func (r *Reader) ReadLine() string {
	line, err := r.lr.ReadLine()
	if err != nil {
		r.log.Log(closedMessage)
		r.log.Flush()
		osExit(0)
		return ""
	}

	linesRead.Inc()
	return line
}

// ReadAndParseLine 读取一行并切分 tokens 游标重置为 0
func (r *Reader) ReadAndParseLine() {
	line := r.ReadLine()
	r.tokens = strings.Fields(line)
	r.cursor = 0
}

// NextToken 返回下一个原始 token
func (r *Reader) NextToken() string {
	token, ok := r.next()
	if !ok {
		return ""
	}
	return token
}

// NextInt 将下一个 token 解析为 32 位有符号整数
//
// 解析失败意味着与引擎的协议已经错位 直接上报致命错误
func (r *Reader) NextInt() int {
	token, ok := r.next()
	if !ok {
		return 0
	}

	n, err := strconv.ParseInt(token, 10, 32)
	if err != nil {
		fatalReports.Inc()
		r.log.Panic(fmt.Sprintf("Can't parse '%s' as int32.", token))
		return 0
	}
	return int(n)
}

func (r *Reader) next() (string, bool) {
	if r.cursor >= len(r.tokens) {
		fatalReports.Inc()
		r.log.Panic(fmt.Sprintf("no token left to read: line has %d token(s)", len(r.tokens)))
		return "", false
	}

	token := r.tokens[r.cursor]
	r.cursor++
	tokensConsumed.Inc()
	return token, true
}

// Cursor 返回下一个待读取 token 的位置
func (r *Reader) Cursor() int {
	return r.cursor
}

// Remaining 返回当前行剩余未读取的 token 数量
func (r *Reader) Remaining() int {
	return len(r.tokens) - r.cursor
}

// Tokens 返回当前行的 tokens 副本
func (r *Reader) Tokens() []string {
	if r.tokens == nil {
		return nil
	}
	return append([]string{}, r.tokens...)
}
