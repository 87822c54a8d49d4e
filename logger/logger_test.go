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
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

type exitCode int

func stubExit(t *testing.T) {
	t.Helper()
	osExit = func(code int) { panic(exitCode(code)) }
	t.Cleanup(func() { osExit = os.Exit })
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	b, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(b)
}

func TestToZapLevel(t *testing.T) {
	tests := []struct {
		input string
		want  zapcore.Level
	}{
		{input: "debug", want: zapcore.DebugLevel},
		{input: "info", want: zapcore.InfoLevel},
		{input: " WARN ", want: zapcore.WarnLevel},
		{input: "error", want: zapcore.ErrorLevel},
		{input: "unknown", want: zapcore.DebugLevel},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, toZapLevel(tt.input))
		})
	}
}

func TestOpenWritesBufferedLogs(t *testing.T) {
	dir := t.TempDir()
	l := New(Options{
		Level:    "debug",
		Filename: filepath.Join(dir, "bot-%d.log"),
	})
	defer l.Close()

	l.Log("before open")
	_, err := os.Stat(filepath.Join(dir, "bot-2.log"))
	assert.True(t, os.IsNotExist(err))

	require.NoError(t, l.Open(2))
	l.Infof("after open turn=%d", 7)
	l.Flush()

	content := readFile(t, filepath.Join(dir, "bot-2.log"))
	assert.Contains(t, content, "before open")
	assert.Contains(t, content, "after open turn=7")
	assert.Contains(t, content, "INFO")
}

func TestOpenTwice(t *testing.T) {
	dir := t.TempDir()
	l := New(Options{Filename: filepath.Join(dir, "bot-%d.log")})
	defer l.Close()

	require.NoError(t, l.Open(0))
	require.NoError(t, l.Open(1))

	l.Log("hello")
	l.Flush()

	assert.Contains(t, readFile(t, filepath.Join(dir, "bot-0.log")), "hello")
	_, err := os.Stat(filepath.Join(dir, "bot-1.log"))
	assert.True(t, os.IsNotExist(err))
}

func TestFlushWithoutOpen(t *testing.T) {
	dir := t.TempDir()
	l := New(Options{
		Filename: filepath.Join(dir, "bot-%d.log"),
		Fallback: filepath.Join(dir, "bot-unknown.log"),
	})
	defer l.Close()

	l.Log("Input connection from server closed. Exiting...")
	l.Flush()

	assert.Contains(t, readFile(t, filepath.Join(dir, "bot-unknown.log")), "connection from server closed")
}

func TestPanic(t *testing.T) {
	stubExit(t)

	dir := t.TempDir()
	l := New(Options{
		Filename: filepath.Join(dir, "bot-%d.log"),
		Fallback: filepath.Join(dir, "bot-unknown.log"),
	})
	defer l.Close()

	assert.PanicsWithValue(t, exitCode(1), func() {
		l.Panic("Can't parse 'abc' as int32.")
	})

	content := readFile(t, filepath.Join(dir, "bot-unknown.log"))
	assert.Contains(t, content, "ERROR")
	assert.Contains(t, content, "Can't parse 'abc' as int32.")
}

func TestSetLevel(t *testing.T) {
	dir := t.TempDir()
	l := New(Options{Level: "warn", Filename: filepath.Join(dir, "bot-%d.log")})
	defer l.Close()
	require.NoError(t, l.Open(1))

	l.Debugf("hidden")
	l.SetLevel("debug")
	l.Debugf("visible")
	l.Flush()

	content := readFile(t, filepath.Join(dir, "bot-1.log"))
	assert.NotContains(t, content, "hidden")
	assert.Contains(t, content, "visible")
}

func TestLogIgnoresLevel(t *testing.T) {
	tests := []struct {
		name  string
		level string
		set   string
	}{
		{name: "ConfiguredWarn", level: "warn"},
		{name: "SwitchedToError", level: "info", set: "error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			l := New(Options{Level: tt.level, Filename: filepath.Join(dir, "bot-%d.log")})
			defer l.Close()
			require.NoError(t, l.Open(1))
			if tt.set != "" {
				l.SetLevel(tt.set)
			}

			l.Infof("filtered")
			l.Log("Input connection from server closed. Exiting...")
			l.Flush()

			content := readFile(t, filepath.Join(dir, "bot-1.log"))
			assert.Contains(t, content, "Input connection from server closed. Exiting...")
			assert.NotContains(t, content, "filtered")
		})
	}
}

func TestPanicIgnoresLevel(t *testing.T) {
	stubExit(t)

	dir := t.TempDir()
	l := New(Options{Level: "error", Filename: filepath.Join(dir, "bot-%d.log")})
	defer l.Close()
	require.NoError(t, l.Open(4))

	assert.PanicsWithValue(t, exitCode(1), func() {
		l.Panic("no token left to read")
	})
	assert.Contains(t, readFile(t, filepath.Join(dir, "bot-4.log")), "no token left to read")
}

func TestOpenAfterFallback(t *testing.T) {
	dir := t.TempDir()
	l := New(Options{
		Filename: filepath.Join(dir, "bot-%d.log"),
		Fallback: filepath.Join(dir, "bot-unknown.log"),
	})
	defer l.Close()

	l.Log("early")
	l.Flush()

	err := l.Open(3)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "fallback")
	_, statErr := os.Stat(filepath.Join(dir, "bot-3.log"))
	assert.True(t, os.IsNotExist(statErr))

	l.Log("late")
	l.Flush()
	content := readFile(t, filepath.Join(dir, "bot-unknown.log"))
	assert.Contains(t, content, "early")
	assert.Contains(t, content, "late")
}
