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

package cmd

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/packetd/hltbot/input"
)

type nopLogger struct {
	panics []string
}

func (l *nopLogger) Log(string) {}

func (l *nopLogger) Flush() {}

func (l *nopLogger) Panic(msg string) {
	l.panics = append(l.panics, msg)
	panic(msg)
}

func TestDecodeLine(t *testing.T) {
	r := input.New(strings.NewReader("5 -3 100\n\n  3   42\t7  \n"), &nopLogger{}, input.Config{})

	assert.Equal(t, []int{5, -3, 100}, decodeLine(r))
	assert.Equal(t, []int{}, decodeLine(r))
	assert.Equal(t, []int{3, 42, 7}, decodeLine(r))
}

func TestDecodeLineMalformed(t *testing.T) {
	log := &nopLogger{}
	r := input.New(strings.NewReader("1 x 3\n"), log, input.Config{})

	assert.Panics(t, func() { decodeLine(r) })
	assert.Equal(t, []string{"Can't parse 'x' as int32."}, log.panics)
	assert.Equal(t, 2, r.Cursor())
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	assert.NoError(t, writeJSON(&buf, []int{1, -2}))
	assert.NoError(t, writeJSON(&buf, []int{}))
	assert.Equal(t, "[1,-2]\n[]\n", buf.String())
}

func TestVersionCmd(t *testing.T) {
	var buf bytes.Buffer
	versionCmd.SetOut(&buf)
	versionCmd.Run(versionCmd, nil)
	assert.True(t, strings.HasPrefix(buf.String(), "hltbot v"))
}
