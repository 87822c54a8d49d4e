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
	"runtime"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/packetd/hltbot/common"
)

var panicTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: common.App,
		Name:      "panic_total",
		Help:      "program causes panic total",
	},
)

// Logger 记录 panic 信息的日志接口
type Logger interface {
	Errorf(template string, args ...any)
	Flush()
}

var PanicHandlers = []func(Logger, any){
	incPanicCounter,
	logPanic,
	flushLog,
}

func incPanicCounter(_ Logger, _ any) {
	panicTotal.Inc()
}

func logPanic(log Logger, r any) {
	const size = 64 << 10
	stacktrace := make([]byte, size)
	stacktrace = stacktrace[:runtime.Stack(stacktrace, false)]
	if _, ok := r.(string); ok {
		log.Errorf("Observed a panic: %s\n%s", r, stacktrace)
	} else {
		log.Errorf("Observed a panic: %#v (%v)\n%s", r, r, stacktrace)
	}
}

// flushLog 确保进程退出前 panic 信息已经落盘
func flushLog(log Logger, _ any) {
	log.Flush()
}

// HandleCrash 需以 defer 方式调用
func HandleCrash(log Logger) {
	if r := recover(); r != nil {
		for _, fn := range PanicHandlers {
			fn(log, r)
		}
	}
}
