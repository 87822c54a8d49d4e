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

package input

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/packetd/hltbot/common"
)

var (
	linesRead = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: common.App,
			Name:      "input_lines_read_total",
			Help:      "Input lines read total",
		},
	)

	tokensConsumed = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: common.App,
			Name:      "input_tokens_consumed_total",
			Help:      "Input tokens consumed total",
		},
	)

	fatalReports = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: common.App,
			Name:      "input_fatal_reports_total",
			Help:      "Input fatal reports total",
		},
	)
)
