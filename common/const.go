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

package common

import (
	"time"
)

const (
	// App 应用程序名称
	App = "hltbot"

	// Version 应用程序版本
	Version = "v0.1.0"

	// DefaultBufferSize 默认的 stdin 读取缓冲区大小
	//
	// 引擎首行会下发 JSON 格式的游戏常量 后续每回合的地图增量行也可能较长
	// 缓冲区只影响单次系统调用的读取量 超长的行仍会被完整拼接
	DefaultBufferSize = 64 << 10
)

var started = time.Now().Unix()

// Started 返回进程启动时间戳
func Started() int64 {
	return started
}
