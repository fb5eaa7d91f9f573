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

package api

import (
	"log/slog"

	"github.com/zintix-labs/gemlab"
	v1 "github.com/zintix-labs/gemlab/server/api/v1"
	"github.com/zintix-labs/gemlab/server/netsvr"
	"github.com/zintix-labs/gemlab/server/netsvr/middleware"
	"github.com/zintix-labs/gemlab/server/svrcfg"
)

// RegisterRoutes 註冊 middleware 與 v1 api
func RegisterRoutes(svr netsvr.NetSvr, sCfg *svrcfg.SvrCfg, rt *gemlab.Runtime) error {
	registerMiddleware(svr, sCfg.Log)
	return registerV1API(svr, sCfg, rt)
}

func registerMiddleware(svr netsvr.NetSvr, log *slog.Logger) {
	svr.Use(middleware.RequestID)
	svr.Use(middleware.AccessLog(log))
	svr.Use(middleware.Recover(log))
	svr.Use(middleware.Compression)
}

func registerV1API(svr netsvr.NetSvr, sCfg *svrcfg.SvrCfg, rt *gemlab.Runtime) error {
	g, err := v1.NewGameHandler(rt, sCfg.Log, sCfg.SwapTimeout)
	if err != nil {
		return err
	}
	svr.Group("/v1", func(vOne netsvr.NetRouter) {
		vOne.Get("/levels", v1.Levels(sCfg.Gemlab))

		vOne.Post("/games", g.Create)
		vOne.Get("/games/{id}", g.State)
		vOne.Post("/games/{id}/swap", g.Swap)
		vOne.Post("/games/{id}/new", g.NewGame)
		vOne.Post("/games/{id}/save", g.Save)
		vOne.Post("/games/{id}/load", g.Load)
	})
	return nil
}
