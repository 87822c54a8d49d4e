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

package constants

import (
	"strings"

	"github.com/goccy/go-json"
	"github.com/pkg/errors"
)

// LineReader 提供原始行读取
type LineReader interface {
	ReadLine() string
}

// Constants 引擎在会话开始时下发的游戏常量
//
// 引擎以单行 JSON 的形式发送 字段名沿用引擎侧的命名
type Constants struct {
	ShipCost                int     `json:"NEW_ENTITY_ENERGY_COST"`
	DropoffCost             int     `json:"DROPOFF_COST"`
	MaxHalite               int     `json:"MAX_ENERGY"`
	MaxTurns                int     `json:"MAX_TURNS"`
	ExtractRatio            int     `json:"EXTRACT_RATIO"`
	MoveCostRatio           int     `json:"MOVE_COST_RATIO"`
	InspirationEnabled      bool    `json:"INSPIRATION_ENABLED"`
	InspirationRadius       int     `json:"INSPIRATION_RADIUS"`
	InspirationShipCount    int     `json:"INSPIRATION_SHIP_COUNT"`
	InspiredExtractRatio    int     `json:"INSPIRED_EXTRACT_RATIO"`
	InspiredBonusMultiplier float64 `json:"INSPIRED_BONUS_MULTIPLIER"`
	InspiredMoveCostRatio   int     `json:"INSPIRED_MOVE_COST_RATIO"`
	CaptureEnabled          bool    `json:"CAPTURE_ENABLED"`
	InitialEnergy           int     `json:"INITIAL_ENERGY"`
	MapWidth                int     `json:"map_width"`
	MapHeight               int     `json:"map_height"`
	GameSeed                int64   `json:"game_seed"`
}

// Parse 解析常量行
func Parse(line string) (*Constants, error) {
	line = strings.TrimSpace(line)
	if line == "" {
		return nil, errors.New("constants: empty line")
	}

	var c Constants
	if err := json.Unmarshal([]byte(line), &c); err != nil {
		return nil, errors.Wrap(err, "constants: decode json")
	}
	return &c, nil
}

// Load 从引擎读取一行并解析为 Constants
func Load(r LineReader) (*Constants, error) {
	return Parse(r.ReadLine())
}
