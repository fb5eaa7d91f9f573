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

package v1

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/zintix-labs/gemlab"
	"github.com/zintix-labs/gemlab/corefmt"
	"github.com/zintix-labs/gemlab/dto"
	"github.com/zintix-labs/gemlab/errs"
	"github.com/zintix-labs/gemlab/server/httperr"
	"github.com/zintix-labs/gemlab/server/netsvr"
	"github.com/zintix-labs/gemlab/spec"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// GameHandler 對局相關 API，所有 session 由同一個 Runtime 持有
type GameHandler struct {
	rt      *gemlab.Runtime
	log     *slog.Logger
	timeout time.Duration
}

func NewGameHandler(rt *gemlab.Runtime, log *slog.Logger, timeout time.Duration) (*GameHandler, error) {
	if rt == nil {
		return nil, errs.NewFatal("runtime is required")
	}
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &GameHandler{rt: rt, log: log, timeout: timeout}, nil
}

// Create POST /v1/games
func (h *GameHandler) Create(w http.ResponseWriter, q *http.Request) {
	req, err := dto.DecodeNewGameRequest(q)
	if err != nil {
		h.fail(w, "games.create", err)
		return
	}
	ctx, cancel := context.WithTimeout(q.Context(), h.timeout)
	defer cancel()

	s, err := h.rt.Create(ctx, gemlab.CreateParams{
		Level:   req.Level,
		LevelID: spec.LID(req.LevelID),
		Seed:    req.Seed,
	})
	if err != nil {
		h.fail(w, "games.create", err)
		return
	}
	writeJSON(w, http.StatusCreated, s.State())
}

// State GET /v1/games/{id}
func (h *GameHandler) State(w http.ResponseWriter, q *http.Request) {
	s, err := h.rt.Get(netsvr.Param(q, "id"))
	if err != nil {
		h.fail(w, "games.state", err)
		return
	}
	writeJSON(w, http.StatusOK, s.State())
}

// Swap POST /v1/games/{id}/swap
//
// 被拒絕的交換仍回 200，原因放在 reason；只有請求本身有誤才回 4xx
func (h *GameHandler) Swap(w http.ResponseWriter, q *http.Request) {
	id := netsvr.Param(q, "id")
	req, err := dto.DecodeSwapRequest(q)
	if err != nil {
		h.fail(w, "games.swap", err)
		return
	}
	ctx, cancel := context.WithTimeout(q.Context(), h.timeout)
	defer cancel()

	res, err := h.rt.Swap(ctx, id, req.X, req.Y, req.Direction)
	if err != nil {
		h.fail(w, "games.swap", err)
		return
	}
	s, err := h.rt.Get(id)
	if err != nil {
		h.fail(w, "games.swap", err)
		return
	}
	out := dto.NewMoveDTO(res, req.Frames)
	st := s.State()
	out.State = &st
	writeJSON(w, http.StatusOK, out)
}

// NewGame POST /v1/games/{id}/new
func (h *GameHandler) NewGame(w http.ResponseWriter, q *http.Request) {
	ctx, cancel := context.WithTimeout(q.Context(), h.timeout)
	defer cancel()

	s, err := h.rt.NewGame(ctx, netsvr.Param(q, "id"))
	if err != nil {
		h.fail(w, "games.new", err)
		return
	}
	writeJSON(w, http.StatusOK, s.State())
}

// Save POST /v1/games/{id}/save
func (h *GameHandler) Save(w http.ResponseWriter, q *http.Request) {
	id := netsvr.Param(q, "id")
	ctx, cancel := context.WithTimeout(q.Context(), h.timeout)
	defer cancel()

	blob, err := h.rt.Save(ctx, id)
	if err != nil {
		h.fail(w, "games.save", err)
		return
	}
	writeJSON(w, http.StatusOK, dto.SaveResponse{
		GameID: id,
		Blob:   corefmt.EncodeBase64URL(blob),
		Bytes:  len(blob),
	})
}

// Load POST /v1/games/{id}/load
//
// body 帶 blob 時載入該存檔；否則讀取伺服器端存檔。存檔無效時重新開局 (fresh=true)
func (h *GameHandler) Load(w http.ResponseWriter, q *http.Request) {
	id := netsvr.Param(q, "id")
	req, err := dto.DecodeLoadRequest(q)
	if err != nil {
		h.fail(w, "games.load", err)
		return
	}
	var blob []byte
	if req.Blob != "" {
		blob, err = corefmt.DecodeBase64URL(req.Blob)
		if err != nil {
			h.fail(w, "games.load", errs.WrapWarn(err, "blob is not base64url"))
			return
		}
	}
	ctx, cancel := context.WithTimeout(q.Context(), h.timeout)
	defer cancel()

	fresh, err := h.rt.Load(ctx, id, blob)
	if err != nil {
		h.fail(w, "games.load", err)
		return
	}
	s, err := h.rt.Get(id)
	if err != nil {
		h.fail(w, "games.load", err)
		return
	}
	writeJSON(w, http.StatusOK, dto.LoadResponse{Fresh: fresh, State: s.State()})
}

func (h *GameHandler) fail(w http.ResponseWriter, msg string, err error) {
	httperr.Log(h.log, msg, err)
	httperr.Errs(w, err)
}

// writeJSON 先完整編碼再寫出，避免寫到一半才發現錯誤
func writeJSON(w http.ResponseWriter, status int, v any) {
	b, err := json.Marshal(v)
	if err != nil {
		httperr.Errs(w, errs.Wrap(err, "encode response"))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(append(b, '\n'))
}
