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

package server

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/zintix-labs/gemlab/demo"
	"github.com/zintix-labs/gemlab/server/logger"
	"github.com/zintix-labs/gemlab/server/netsvr"
	"github.com/zintix-labs/gemlab/server/svrcfg"
)

func TestAssembleServesRoutes(t *testing.T) {
	lab, err := demo.NewGemlab()
	if err != nil {
		t.Fatalf("new gemlab: %v", err)
	}
	sCfg := &svrcfg.SvrCfg{Log: logger.NewWriterLogger(io.Discard, logger.ModeSilence), Gemlab: lab, Addr: "127.0.0.1:0"}
	svr := netsvr.NewChiServer(sCfg.Addr)
	a, err := Assemble(sCfg, svr)
	if err != nil {
		t.Fatalf("assemble: %v", err)
	}
	if a == nil {
		t.Fatalf("nil app")
	}
	rec := httptest.NewRecorder()
	svr.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/levels", nil))
	if rec.Code != 200 {
		t.Fatalf("levels via assembled server: %d", rec.Code)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := a.RunContext(ctx); err != nil {
		t.Fatalf("canceled app should stop cleanly: %v", err)
	}
}

func TestAssembleRejectsMissingDeps(t *testing.T) {
	sCfg := &svrcfg.SvrCfg{Log: logger.NewWriterLogger(io.Discard, logger.ModeSilence)}
	if _, err := Assemble(sCfg, netsvr.NewChiServer("")); err == nil {
		t.Fatalf("missing gemlab should fail")
	}
	lab, _ := demo.NewGemlab()
	sCfg.Gemlab = lab
	if _, err := Assemble(sCfg, nil); err == nil {
		t.Fatalf("nil server should fail")
	}
	if _, err := Assemble(sCfg, netsvr.NewChiServer("bad")); err == nil {
		t.Fatalf("unready server should fail")
	}
}
