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

package controller

import (
	"net/http"
	"time"

	"github.com/goccy/go-json"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/packetd/hltbot/common"
)

func (c *Controller) setupServer() {
	if c.svr == nil {
		return
	}

	// Admin Routes
	c.svr.RegisterPostRoute("/-/logger", c.routeLogger)
	c.svr.RegisterGetRoute("/-/status", c.routeStatus)

	// Metrics Routes
	c.svr.RegisterGetRoute("/metrics", c.routeMetrics)
}

func (c *Controller) routeMetrics(w http.ResponseWriter, r *http.Request) {
	c.recordMetrics()
	promhttp.Handler().ServeHTTP(w, r)
}

func (c *Controller) routeLogger(w http.ResponseWriter, r *http.Request) {
	level := r.FormValue("level")
	c.log.SetLevel(level)
	w.Write([]byte(`{"status": "success"}`))
}

type statusResponse struct {
	App     string `json:"app"`
	Version string `json:"version"`
	GitHash string `json:"gitHash"`
	Session string `json:"session"`
	Uptime  int64  `json:"uptime"`
}

// routeStatus 返回进程基本信息
//
// Reader 由主循环独占 HTTP goroutine 不读取其状态 输入进度通过 /metrics 的计数器观察
func (c *Controller) routeStatus(w http.ResponseWriter, r *http.Request) {
	b, err := json.Marshal(statusResponse{
		App:     common.App,
		Version: c.buildInfo.Version,
		GitHash: c.buildInfo.GitHash,
		Session: c.session,
		Uptime:  time.Now().Unix() - common.Started(),
	})
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(err.Error()))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(b)
}
