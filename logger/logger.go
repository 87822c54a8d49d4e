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

package logger

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// osExit 测试时替换
var osExit = os.Exit

type Level string

const (
	LevelDebug Level = "debug"
	LevelInfo  Level = "info"
	LevelWarn  Level = "warn"
	LevelError Level = "error"
)

func toZapLevel(l string) zapcore.Level {
	levels := map[Level]zapcore.Level{
		LevelDebug: zapcore.DebugLevel,
		LevelInfo:  zapcore.InfoLevel,
		LevelWarn:  zapcore.WarnLevel,
		LevelError: zapcore.ErrorLevel,
	}
	if level, ok := levels[Level(strings.ToLower(strings.TrimSpace(l)))]; ok {
		return level
	}
	return zapcore.DebugLevel
}

type Options struct {
	Console    bool   `config:"console"`  // 输出到 stderr stdout 为引擎通信通道 不可写日志
	Level      string `config:"level"`
	Filename   string `config:"filename"` // 可包含 %d 占位符 Open 时替换为 bot id
	Fallback   string `config:"fallback"` // 未调用 Open 即 Flush 时使用的文件
	MaxSize    int    `config:"maxSize"`  // unit: MB
	MaxAge     int    `config:"maxAge"`   // unit: days
	MaxBackups int    `config:"maxBackups"`
}

// Logger 诊断日志 在 bot 的各个组件之间共享同一个实例
//
// 引擎在握手阶段才会下发 bot id 在此之前的日志会缓存在内存中
// 调用 Open 之后再统一写入 bot-<id>.log
type Logger struct {
	opt      Options
	level    zap.AtomicLevel
	sink     *sink
	fallback atomic.Bool // 日志已写入 Fallback 文件
	sugared  *zap.SugaredLogger
	always   *zap.SugaredLogger // 不受 level 控制 Log/Panic 使用
}

// New 创建并返回 Logger 实例
func New(opt Options) *Logger {
	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.EncodeTime = func(t time.Time, enc zapcore.PrimitiveArrayEncoder) {
		enc.AppendString(t.Local().Format("2006-01-02 15:04:05.000"))
	}
	encoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	encoder := zapcore.NewConsoleEncoder(encoderConfig)

	s := newSink()
	if opt.Console {
		s.attach(os.Stderr, nil)
	}

	level := zap.NewAtomicLevelAt(toZapLevel(opt.Level))
	core := zapcore.NewCore(encoder, s, level)
	logger := zap.New(core, zap.AddCaller(), zap.AddCallerSkip(1))
	always := zap.New(zapcore.NewCore(encoder, s, zapcore.DebugLevel), zap.AddCaller(), zap.AddCallerSkip(1))
	return &Logger{
		opt:     opt,
		level:   level,
		sink:    s,
		sugared: logger.Sugar(),
		always:  always.Sugar(),
	}
}

// Open 确定 bot id 后打开日志文件 并写入此前缓存的日志
//
// 如果此前的 Flush 已经将日志写入 Fallback 文件 则返回错误 后续日志仍写入 Fallback
func (l *Logger) Open(botID int) error {
	if l.fallback.Load() {
		return errors.Errorf("logger: logs already written to fallback %s", l.opt.Fallback)
	}
	if l.sink.attached() {
		return nil
	}

	filename := l.opt.Filename
	if strings.Contains(filename, "%d") {
		filename = fmt.Sprintf(filename, botID)
	}
	return l.openFile(filename)
}

func (l *Logger) openFile(filename string) error {
	if filename == "" {
		return errors.New("logger: empty filename")
	}
	if err := os.MkdirAll(filepath.Dir(filename), os.ModePerm); err != nil {
		return errors.Wrapf(err, "logger: create directory for %s", filename)
	}

	lj := &lumberjack.Logger{
		Filename:   filename,
		MaxSize:    l.opt.MaxSize,
		MaxBackups: l.opt.MaxBackups,
		MaxAge:     l.opt.MaxAge,
		LocalTime:  true,
	}
	if err := l.sink.attach(lj, lj); err != nil {
		return errors.Wrapf(err, "logger: open %s", filename)
	}
	return nil
}

// SetLevel 运行时调整日志级别
func (l *Logger) SetLevel(s string) {
	l.level.SetLevel(toZapLevel(s))
}

func (l *Logger) Debugf(template string, args ...any) {
	l.sugared.Debugf(template, args...)
}

func (l *Logger) Infof(template string, args ...any) {
	l.sugared.Infof(template, args...)
}

func (l *Logger) Warnf(template string, args ...any) {
	l.sugared.Warnf(template, args...)
}

func (l *Logger) Errorf(template string, args ...any) {
	l.sugared.Errorf(template, args...)
}

// Log 记录一条日志 不受日志级别过滤
func (l *Logger) Log(msg string) {
	l.always.Info(msg)
}

// Sync 将缓存的日志落盘
//
// 如果此时仍未调用 Open 则写入 Fallback 文件 避免进程退出时丢失日志
func (l *Logger) Sync() error {
	if !l.sink.attached() && l.opt.Fallback != "" {
		if err := l.openFile(l.opt.Fallback); err != nil {
			return err
		}
		l.fallback.Store(true)
	}
	return l.sugared.Sync()
}

// Flush 同 Sync 但忽略错误 供退出前调用
func (l *Logger) Flush() {
	_ = l.Sync()
}

// Panic 记录致命错误并以非零状态码退出进程 不会返回
func (l *Logger) Panic(msg string) {
	l.always.Error(msg)
	l.Flush()
	osExit(1)
}

// Close 关闭日志文件
func (l *Logger) Close() error {
	return l.sink.close()
}
