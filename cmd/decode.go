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

package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/packetd/hltbot/common"
	"github.com/packetd/hltbot/confengine"
	"github.com/packetd/hltbot/constants"
	"github.com/packetd/hltbot/controller"
	"github.com/packetd/hltbot/input"
	"github.com/packetd/hltbot/internal/rescue"
)

type decodeCmdConfig struct {
	ConfigPath string
	BotID      int
	Constants  bool
}

var decodeConfig decodeCmdConfig

var decodeCmd = &cobra.Command{
	Use:   "decode",
	Short: "Decode engine protocol lines from stdin into JSON integer arrays",
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := confengine.LoadConfigPath(decodeConfig.ConfigPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
			os.Exit(1)
		}

		ctr, err := controller.New(cfg, common.GetBuildInfo(), os.Stdin)
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to create controller: %v\n", err)
			os.Exit(1)
		}
		if decodeConfig.BotID >= 0 {
			if err := ctr.OpenLog(decodeConfig.BotID); err != nil {
				fmt.Fprintf(os.Stderr, "failed to open log: %v\n", err)
				os.Exit(1)
			}
		}
		if err := ctr.Start(); err != nil {
			fmt.Fprintf(os.Stderr, "failed to start controller: %v\n", err)
			os.Exit(1)
		}

		// 输入流关闭时由 Reader 直接退出进程 能走到这里说明主循环发生了 panic
		runDecode(ctr, cmd.OutOrStdout(), decodeConfig.Constants)
		if err := ctr.Stop(); err != nil {
			fmt.Fprintf(os.Stderr, "failed to stop controller: %v\n", err)
		}
		os.Exit(1)
	},
	Example: "# printf '3 1\\n0 8 8\\n' | hltbot decode --bot-id 1",
}

func runDecode(ctr *controller.Controller, w io.Writer, withConstants bool) {
	log := ctr.Logger()
	defer rescue.HandleCrash(log)

	r := ctr.Reader()
	if withConstants {
		c, err := constants.Load(r)
		if err != nil {
			log.Panic(err.Error())
			return
		}
		log.Infof("constants loaded: max_turns=%d map=%dx%d", c.MaxTurns, c.MapWidth, c.MapHeight)
		if err := writeJSON(w, c); err != nil {
			log.Panic(err.Error())
			return
		}
	}

	for {
		if err := writeJSON(w, decodeLine(r)); err != nil {
			log.Panic(err.Error())
			return
		}
	}
}

// decodeLine 读取一行并将所有字段解析为整数
func decodeLine(r *input.Reader) []int {
	r.ReadAndParseLine()
	values := make([]int, 0, r.Remaining())
	for r.Remaining() > 0 {
		values = append(values, r.NextInt())
	}
	return values
}

func writeJSON(w io.Writer, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(b))
	return err
}

func init() {
	decodeCmd.Flags().StringVar(&decodeConfig.ConfigPath, "config", "", "Configuration file path, built-in defaults when empty")
	decodeCmd.Flags().IntVar(&decodeConfig.BotID, "bot-id", -1, "Open bot-<id>.log immediately instead of buffering logs")
	decodeCmd.Flags().BoolVar(&decodeConfig.Constants, "constants", false, "Treat the first line as the JSON game constants")
	rootCmd.AddCommand(decodeCmd)
}
