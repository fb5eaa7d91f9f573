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
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	jsoniter "github.com/json-iterator/go"
	"github.com/zintix-labs/gemlab/demo"
	"github.com/zintix-labs/gemlab/dto"
	"github.com/zintix-labs/gemlab/server/logger"
	"github.com/zintix-labs/gemlab/server/netsvr"
	"github.com/zintix-labs/gemlab/server/svrcfg"
)

func newTestServer(t *testing.T) *netsvr.ChiAdapter {
	t.Helper()
	lab, err := demo.NewGemlab()
	if err != nil {
		t.Fatalf("new gemlab: %v", err)
	}
	sCfg := &svrcfg.SvrCfg{Log: logger.NewWriterLogger(io.Discard, logger.ModeSilence), Gemlab: lab}
	rt, err := sCfg.BuildRuntime()
	if err != nil {
		t.Fatalf("build runtime: %v", err)
	}
	t.Cleanup(rt.Close)
	svr := netsvr.NewChiServer("")
	if err := RegisterRoutes(svr, sCfg, rt); err != nil {
		t.Fatalf("register routes: %v", err)
	}
	return svr
}

func do(t *testing.T, svr http.Handler, method, path, body string, out any) int {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	rec := httptest.NewRecorder()
	svr.ServeHTTP(rec, httptest.NewRequest(method, path, r))
	if out != nil && rec.Code < 300 {
		if err := jsoniter.Unmarshal(rec.Body.Bytes(), out); err != nil {
			t.Fatalf("%s %s: decode %q: %v", method, path, rec.Body.String(), err)
		}
	}
	return rec.Code
}

func TestLevels(t *testing.T) {
	svr := newTestServer(t)
	var out struct {
		Levels []struct {
			Name    string `json:"name"`
			Columns int    `json:"columns"`
		} `json:"levels"`
	}
	if code := do(t, svr, http.MethodGet, "/v1/levels", "", &out); code != 200 {
		t.Fatalf("levels status %d", code)
	}
	if len(out.Levels) != 3 {
		t.Fatalf("want 3 demo levels, got %d", len(out.Levels))
	}
	if out.Levels[0].Name != "classic" || out.Levels[0].Columns != 8 {
		t.Fatalf("first level: %+v", out.Levels[0])
	}
}

func TestGameFlow(t *testing.T) {
	svr := newTestServer(t)

	var st dto.StateDTO
	if code := do(t, svr, http.MethodPost, "/v1/games", `{"level":"classic","seed":42}`, &st); code != http.StatusCreated {
		t.Fatalf("create status %d", code)
	}
	if st.GameID == "" || st.Width != 8 || st.Height != 8 || st.MovesRemaining != 30 {
		t.Fatalf("unexpected state: %+v", st)
	}
	base := "/v1/games/" + st.GameID

	var got dto.StateDTO
	if code := do(t, svr, http.MethodGet, base, "", &got); code != 200 || got.GameID != st.GameID {
		t.Fatalf("get state: %d %+v", code, got.GameID)
	}

	var mv dto.MoveDTO
	if code := do(t, svr, http.MethodPost, base+"/swap", `{"x":0,"y":0,"dir":"W"}`, &mv); code != 200 {
		t.Fatalf("swap status %d", code)
	}
	if mv.Accepted || mv.Reason != "out_of_bounds" || mv.State == nil || mv.State.MovesRemaining != 30 {
		t.Fatalf("out of bounds swap: %+v", mv)
	}
	if code := do(t, svr, http.MethodPost, base+"/swap", `{"x":0,"y":0,"dir":"sideways"}`, nil); code != 400 {
		t.Fatalf("bad dir should be 400, got %d", code)
	}

	var saved dto.SaveResponse
	if code := do(t, svr, http.MethodPost, base+"/save", "", &saved); code != 200 || saved.Blob == "" {
		t.Fatalf("save: %d %+v", code, saved)
	}
	var loaded dto.LoadResponse
	if code := do(t, svr, http.MethodPost, base+"/load", `{"blob":"`+saved.Blob+`"}`, &loaded); code != 200 {
		t.Fatalf("load status %d", code)
	}
	if loaded.Fresh || loaded.State.Score != st.Score {
		t.Fatalf("load should restore save: %+v", loaded)
	}
	if code := do(t, svr, http.MethodPost, base+"/load", "", &loaded); code != 200 || loaded.Fresh {
		t.Fatalf("load from store: %d fresh=%v", code, loaded.Fresh)
	}
	if code := do(t, svr, http.MethodPost, base+"/load", `{"blob":"AAAA"}`, &loaded); code != 200 || !loaded.Fresh {
		t.Fatalf("invalid save should start fresh: %d fresh=%v", code, loaded.Fresh)
	}
	if loaded.State.Score != 0 || loaded.State.MovesRemaining != 30 {
		t.Fatalf("fresh game state: %+v", loaded.State)
	}
	if code := do(t, svr, http.MethodPost, base+"/load", `{"blob":"!!"}`, nil); code != 400 {
		t.Fatalf("non base64url blob should be 400, got %d", code)
	}

	var ng dto.StateDTO
	if code := do(t, svr, http.MethodPost, base+"/new", "", &ng); code != 200 || ng.Score != 0 {
		t.Fatalf("new game: %d %+v", code, ng.Score)
	}
}

func TestGameErrors(t *testing.T) {
	svr := newTestServer(t)
	if code := do(t, svr, http.MethodGet, "/v1/games/missing", "", nil); code != 404 {
		t.Fatalf("unknown game should be 404, got %d", code)
	}
	if code := do(t, svr, http.MethodPost, "/v1/games", `{"level":"nope"}`, nil); code != 404 {
		t.Fatalf("unknown level should be 404, got %d", code)
	}
	if code := do(t, svr, http.MethodPost, "/v1/games", `{"bogus":1}`, nil); code != 400 {
		t.Fatalf("unknown field should be 400, got %d", code)
	}
	if code := do(t, svr, http.MethodPost, "/v1/games/missing/swap", `{"x":0,"y":0,"dir":"E"}`, nil); code != 404 {
		t.Fatalf("swap on unknown game should be 404, got %d", code)
	}
}
