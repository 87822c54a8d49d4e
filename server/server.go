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

package server

import (
	"context"
	"net"
	"net/http"
	"net/http/pprof"
	"sync/atomic"
	"time"

	"github.com/gorilla/mux"

	"github.com/packetd/hltbot/confengine"
	"github.com/packetd/hltbot/logger"
)

const (
	defaultAddress = "localhost:9091"
	defaultTimeout = 10 * time.Second
)

// Config 调试服务配置 默认关闭
type Config struct {
	Enabled bool          `config:"enabled"`
	Address string        `config:"address"`
	Pprof   bool          `config:"pprof"`
	Timeout time.Duration `config:"timeout"`
}

func (c Config) GetAddress() string {
	if c.Address == "" {
		return defaultAddress
	}
	return c.Address
}

func (c Config) GetTimeout() time.Duration {
	if c.Timeout <= 0 {
		return defaultTimeout
	}
	return c.Timeout
}

// Server bot 的调试 HTTP 服务
//
// 与引擎的通信只走 stdin/stdout 本服务仅用于暴露指标和运行时调整日志级别
// 路由由 controller 注册 Server 本身不感知 Reader
type Server struct {
	config Config
	log    *logger.Logger
	router *mux.Router
	server *http.Server
	addr   atomic.Value // net.Addr
}

// New 创建并返回 Server 实例
//
// 当 .Enabled 为 false 时会返回空指针 调用方需先判断
func New(conf *confengine.Config, log *logger.Logger) (*Server, error) {
	var config Config
	if err := conf.UnpackChild("server", &config); err != nil {
		return nil, err
	}
	if !config.Enabled {
		return nil, nil
	}

	router := mux.NewRouter()
	s := &Server{
		config: config,
		log:    log,
		router: router,
		server: &http.Server{
			Handler:      router,
			ReadTimeout:  config.GetTimeout(),
			WriteTimeout: config.GetTimeout(),
		},
	}
	if config.Pprof {
		s.registerPprofRoutes()
	}
	return s, nil
}

// ListenAndServe 阻塞监听 Shutdown 之后返回 http.ErrServerClosed
func (s *Server) ListenAndServe() error {
	l, err := net.Listen("tcp", s.config.GetAddress())
	if err != nil {
		return err
	}
	s.addr.Store(l.Addr())
	s.log.Infof("debug server listening on %s", l.Addr())
	return s.server.Serve(l)
}

// Addr 返回实际监听的地址 监听前返回 nil
//
// 配置端口为 0 时由系统分配
func (s *Server) Addr() net.Addr {
	if addr, ok := s.addr.Load().(net.Addr); ok {
		return addr
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

func (s *Server) RegisterGetRoute(path string, f http.HandlerFunc) {
	s.router.Methods(http.MethodGet).Path(path).HandlerFunc(f)
}

func (s *Server) RegisterPostRoute(path string, f http.HandlerFunc) {
	s.router.Methods(http.MethodPost).Path(path).HandlerFunc(f)
}

func (s *Server) registerPprofRoutes() {
	s.RegisterGetRoute("/debug/pprof/cmdline", pprof.Cmdline)
	s.RegisterGetRoute("/debug/pprof/profile", pprof.Profile)
	s.RegisterGetRoute("/debug/pprof/symbol", pprof.Symbol)
	s.RegisterGetRoute("/debug/pprof/trace", pprof.Trace)
	s.RegisterGetRoute("/debug/pprof/{other}", pprof.Index)
}
