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

// Package app 管理長期運行元件的啟動與關閉。
package app

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"
)

// DefaultShutdownTimeout 所有元件共用的關閉期限
const DefaultShutdownTimeout = 5 * time.Second

// App 並行啟動所有 Component；收到 OS 信號、ctx 結束或任一元件返回時，依註冊反序關閉。
type App struct {
	comps   []Component
	log     *slog.Logger
	timeout time.Duration
}

func New(log *slog.Logger) *App {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &App{log: log, timeout: DefaultShutdownTimeout}
}

func NewWith(log *slog.Logger, comps ...Component) *App {
	a := New(log)
	for _, c := range comps {
		a.Register(c)
	}
	return a
}

func (a *App) Register(c Component) {
	if c != nil {
		a.comps = append(a.comps, c)
	}
}

// SetShutdownTimeout 非正值維持原設定
func (a *App) SetShutdownTimeout(td time.Duration) {
	if td > 0 {
		a.timeout = td
	}
}

// Run 阻塞直到 SIGINT/SIGTERM 或任一元件返回。信號結束回傳 nil，元件錯誤則回傳該錯誤。
func (a *App) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return a.RunContext(ctx)
}

// RunContext 同 Run，但以 ctx 取代 OS 信號
func (a *App) RunContext(ctx context.Context) error {
	errCh := make(chan error, len(a.comps))
	for _, c := range a.comps {
		go func(c Component) {
			errCh <- c.Run()
		}(c)
	}

	var err error
	select {
	case <-ctx.Done():
		a.log.Info("app.stop", "reason", context.Cause(ctx).Error())
	case err = <-errCh:
		if err != nil {
			a.log.Error("app.component_failed", "err", err.Error())
		}
	}
	a.shutdown()
	return err
}

// shutdown 反序關閉，後註冊的元件通常依賴先註冊的
func (a *App) shutdown() {
	ctx, cancel := context.WithTimeout(context.Background(), a.timeout)
	defer cancel()
	for i := len(a.comps) - 1; i >= 0; i-- {
		if err := a.comps[i].Shutdown(ctx); err != nil {
			a.log.Warn("app.shutdown", "err", err.Error())
		}
	}
}
