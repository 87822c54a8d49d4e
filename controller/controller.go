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
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"

	"github.com/packetd/hltbot/common"
	"github.com/packetd/hltbot/confengine"
	"github.com/packetd/hltbot/input"
	"github.com/packetd/hltbot/internal/sigs"
	"github.com/packetd/hltbot/logger"
	"github.com/packetd/hltbot/server"
)

// osExit 测试时替换
var osExit = os.Exit

const shutdownTimeout = 3 * time.Second

type Controller struct {
	ctx       context.Context
	cancel    context.CancelFunc
	buildInfo common.BuildInfo
	session   string

	log     *logger.Logger
	svr     *server.Server
	reader  *input.Reader
	signals chan os.Signal
}

func setupLogger(conf *confengine.Config) (*logger.Logger, error) {
	var opts logger.Options
	if err := conf.UnpackChild("logger", &opts); err != nil {
		return nil, err
	}

	if opts.Filename == "" {
		opts.Filename = "bot-%d.log"
	}
	if opts.Fallback == "" {
		opts.Fallback = "bot-unknown.log"
	}
	if opts.MaxBackups <= 0 {
		opts.MaxBackups = 3
	}
	if opts.MaxAge <= 0 {
		opts.MaxAge = 1
	}
	if opts.MaxSize <= 0 {
		opts.MaxSize = 10
	}

	return logger.New(opts), nil
}

// New 创建并返回 Controller 实例 in 为引擎输入流 通常是 os.Stdin
func New(conf *confengine.Config, buildInfo common.BuildInfo, in io.Reader) (*Controller, error) {
	log, err := setupLogger(conf)
	if err != nil {
		return nil, err
	}

	svr, err := server.New(conf, log)
	if err != nil {
		return nil, err
	}

	var ic input.Config
	if err := conf.UnpackChild("input", &ic); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Controller{
		ctx:       ctx,
		cancel:    cancel,
		buildInfo: buildInfo,
		session:   uuid.NewString(),
		log:       log,
		svr:       svr,
		reader:    input.New(in, log, ic),
	}, nil
}

func (c *Controller) Logger() *logger.Logger {
	return c.log
}

func (c *Controller) Reader() *input.Reader {
	return c.reader
}

// OpenLog 握手得到 bot id 后打开日志文件
func (c *Controller) OpenLog(botID int) error {
	return c.log.Open(botID)
}

func (c *Controller) Start() error {
	c.setupServer()

	if c.svr != nil {
		go func() {
			err := c.svr.ListenAndServe()
			if err != nil && !errors.Is(err, http.ErrServerClosed) {
				c.log.Errorf("failed to start server: %v", err)
			}
		}()
	}

	c.signals = sigs.Terminate()
	go c.watchSignals()

	c.log.Infof("%s %s started, session=%s", common.App, c.buildInfo, c.session)
	return nil
}

// watchSignals 收到终止信号等同于引擎断开连接
func (c *Controller) watchSignals() {
	select {
	case sig := <-c.signals:
		c.log.Log(fmt.Sprintf("Received signal %s. Exiting...", sig))
		c.log.Flush()
		osExit(0)

	case <-c.ctx.Done():
		return
	}
}

func (c *Controller) Stop() error {
	c.cancel()
	if c.signals != nil {
		sigs.Stop(c.signals)
	}

	var errs *multierror.Error
	if c.svr != nil {
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := c.svr.Shutdown(ctx); err != nil {
			errs = multierror.Append(errs, errors.Wrap(err, "shutdown server"))
		}
	}
	if err := c.log.Sync(); err != nil {
		errs = multierror.Append(errs, errors.Wrap(err, "sync logger"))
	}
	if err := c.log.Close(); err != nil {
		errs = multierror.Append(errs, errors.Wrap(err, "close logger"))
	}
	return errs.ErrorOrNil()
}
