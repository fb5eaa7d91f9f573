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

// Package server 組裝 gemlab 的 HTTP 服務：session runtime、路由與生命週期。
package server

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/zintix-labs/gemlab/errs"
	"github.com/zintix-labs/gemlab/server/api"
	"github.com/zintix-labs/gemlab/server/app"
	"github.com/zintix-labs/gemlab/server/netsvr"
	"github.com/zintix-labs/gemlab/server/svrcfg"
)

// Run 以內建 chi server 啟動，阻塞直到收到 SIGINT/SIGTERM 或 server 出錯。
//
// 所有依賴都由 SvrCfg 注入；Run 本身不讀檔案也不讀環境變數。
func Run(sCfg *svrcfg.SvrCfg) error {
	if err := sCfg.Valid(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return err
	}
	return RunWithSvr(sCfg, netsvr.NewChiServer(sCfg.Addr))
}

// RunWithSvr 與 Run 相同，但由呼叫端注入 NetSvr (自訂 timeout、listener 或把路由掛進既有服務)。
//
// 關閉順序：先停 HTTP server，再關 runtime，最後關 store。
func RunWithSvr(sCfg *svrcfg.SvrCfg, svr netsvr.NetSvr) error {
	a, err := Assemble(sCfg, svr)
	if err != nil {
		return err
	}
	sCfg.Log.Info("[gemlab] listening", "addr", sCfg.Addr)
	if err := a.Run(); err != nil {
		sCfg.Log.Error("app stopped", "err", err.Error())
		return err
	}
	return nil
}

// Assemble 建立 runtime、註冊路由並回傳尚未啟動的 App
func Assemble(sCfg *svrcfg.SvrCfg, svr netsvr.NetSvr) (*app.App, error) {
	if err := sCfg.Valid(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return nil, err
	}
	if svr == nil {
		err := errs.NewFatal("svr is required")
		sCfg.Log.Error(err.Error())
		return nil, err
	}
	if s, ok := svr.(*netsvr.ChiAdapter); ok && !s.Ready() {
		err := errs.NewFatal("default server is not ready")
		sCfg.Log.Error(err.Error())
		return nil, err
	}

	rt, err := sCfg.BuildRuntime()
	if err != nil {
		return nil, err
	}
	if err := api.RegisterRoutes(svr, sCfg, rt); err != nil {
		rt.Close()
		return nil, err
	}

	a := app.New(sCfg.Log)
	if c, ok := sCfg.Store.(io.Closer); ok {
		a.Register(app.NewCloser(func(context.Context) error { return c.Close() }))
	}
	a.Register(app.NewCloser(func(context.Context) error {
		rt.Close()
		return nil
	}))
	a.Register(svr)
	return a, nil
}
