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

package splitio

import (
	"bufio"
	"io"
)

var CharLF = []byte("\n")

const minBufferSize = 16

// Reader 按行读取流式数据
//
// 返回的行保留行尾的换行符 (LF 或 CRLF) 流结束时最后一行即使没有换行符也会被返回
// 只有在没有任何剩余数据时才返回 io.EOF
type Reader struct {
	br *bufio.Reader
}

// NewReader 创建并返回 Reader 实例 size 为底层缓冲区大小
func NewReader(r io.Reader, size int) *Reader {
	if size < minBufferSize {
		size = minBufferSize
	}
	return &Reader{
		br: bufio.NewReaderSize(r, size),
	}
}

// ReadLine 阻塞读取一行数据
func (lr *Reader) ReadLine() (string, error) {
	line, err := lr.br.ReadString(CharLF[0])
	if err == nil {
		return line, nil
	}

	// 流已经结束但仍有未以换行符结尾的数据
	if err == io.EOF && len(line) > 0 {
		return line, nil
	}
	return "", err
}
