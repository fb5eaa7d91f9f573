// Copyright 2025 Zintix Labs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package svrcfg

import (
	"log/slog"
	"time"

	"github.com/zintix-labs/gemlab"
	"github.com/zintix-labs/gemlab/errs"
	"github.com/zintix-labs/gemlab/server/logger"
	"github.com/zintix-labs/gemlab/store"
)

// 預設值
const (
	DefaultAddr        = ":5808"
	DefaultSwapTimeout = 5 * time.Second
)

// SvrCfg server 組裝所需的依賴。Store 為 nil 時使用記憶體存檔
type SvrCfg struct {
	Log         *slog.Logger
	Addr        string
	Gemlab      *gemlab.Gemlab
	Store       store.Store
	MaxSessions int
	SwapTimeout time.Duration
}

func (sc *SvrCfg) Valid() error {
	if sc.Log != nil {
		if ah, ok := sc.Log.Handler().(*logger.AsyncHandler); ok && !ah.Ready() {
			return errs.NewFatal("nil default log handler: async handler is nil")
		}
	} else {
		sc.Log, _ = logger.NewAsync(1024, logger.ModeDev)
	}
	if sc.Gemlab == nil {
		return errs.NewFatal("gemlab is required")
	}
	if sc.Addr == "" {
		sc.Addr = DefaultAddr
	}
	if sc.Store == nil {
		sc.Store = store.NewMemStore()
	}
	if sc.MaxSessions <= 0 {
		sc.MaxSessions = gemlab.DefaultMaxSessions
	}
	if sc.SwapTimeout <= 0 {
		sc.SwapTimeout = DefaultSwapTimeout
	}
	return nil
}

// BuildRuntime 以設定建立 session runtime；logger 會一併注入 Gemlab
func (sc *SvrCfg) BuildRuntime() (*gemlab.Runtime, error) {
	if err := sc.Valid(); err != nil {
		return nil, err
	}
	sc.Gemlab.SetLogger(sc.Log)
	return sc.Gemlab.BuildRuntime(gemlab.WithStore(sc.Store), gemlab.WithMaxSessions(sc.MaxSessions))
}
