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

package rescue

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

type recordLogger struct {
	errors  []string
	flushes int
}

func (l *recordLogger) Errorf(template string, args ...any) {
	l.errors = append(l.errors, fmt.Sprintf(template, args...))
}

func (l *recordLogger) Flush() {
	l.flushes++
}

func TestHandleCrash(t *testing.T) {
	tests := []struct {
		name  string
		value any
		want  string
	}{
		{
			name:  "String",
			value: "index out of range",
			want:  "Observed a panic: index out of range",
		},
		{
			name:  "Error",
			value: fmt.Errorf("bad move"),
			want:  "(bad move)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			log := &recordLogger{}
			assert.NotPanics(t, func() {
				defer HandleCrash(log)
				panic(tt.value)
			})
			assert.Len(t, log.errors, 1)
			assert.Contains(t, log.errors[0], tt.want)
			assert.Equal(t, 1, log.flushes)
		})
	}
}

func TestHandleCrashNoPanic(t *testing.T) {
	log := &recordLogger{}
	func() {
		defer HandleCrash(log)
	}()
	assert.Empty(t, log.errors)
	assert.Equal(t, 0, log.flushes)
}
