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
	"io"
	"sync"

	"github.com/pkg/errors"
	"github.com/valyala/bytebufferpool"
)

var errAlreadyAttached = errors.New("logger: sink already attached")

type syncer interface {
	Sync() error
}

// sink 实现 zapcore.WriteSyncer
//
// 在 attach 之前所有写入都缓存在 buf 中
type sink struct {
	mut    sync.Mutex
	buf    *bytebufferpool.ByteBuffer
	w      io.Writer
	closer io.Closer
}

func newSink() *sink {
	return &sink{buf: bytebufferpool.Get()}
}

func (s *sink) Write(p []byte) (int, error) {
	s.mut.Lock()
	defer s.mut.Unlock()

	if s.w == nil {
		return s.buf.Write(p)
	}
	return s.w.Write(p)
}

func (s *sink) Sync() error {
	s.mut.Lock()
	defer s.mut.Unlock()

	if sc, ok := s.w.(syncer); ok {
		return sc.Sync()
	}
	return nil
}

func (s *sink) attached() bool {
	s.mut.Lock()
	defer s.mut.Unlock()

	return s.w != nil
}

func (s *sink) attach(w io.Writer, closer io.Closer) error {
	s.mut.Lock()
	defer s.mut.Unlock()

	if s.w != nil {
		return errAlreadyAttached
	}

	if s.buf.Len() > 0 {
		if _, err := w.Write(s.buf.B); err != nil {
			return err
		}
	}
	bytebufferpool.Put(s.buf)
	s.buf = nil
	s.w = w
	s.closer = closer
	return nil
}

func (s *sink) close() error {
	s.mut.Lock()
	defer s.mut.Unlock()

	if s.closer == nil {
		return nil
	}
	return s.closer.Close()
}
