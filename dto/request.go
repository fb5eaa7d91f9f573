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

package dto

import (
	"io"
	"net/http"

	jsoniter "github.com/json-iterator/go"
	"github.com/zintix-labs/gemlab/errs"
	"github.com/zintix-labs/gemlab/sdk/board"
)

// MaxBodyBytes 請求 body 上限
const MaxBodyBytes = 1 << 20

var strict = jsoniter.Config{
	EscapeHTML:            true,
	SortMapKeys:           true,
	DisallowUnknownFields: true,
}.Froze()

// decodeBody 以嚴格模式 (未知欄位直接拒絕) 解析 JSON body。空 body 視為零值
func decodeBody(r *http.Request, out any) error {
	if r == nil {
		return errs.NewWarn("nil request")
	}
	if r.Body == nil {
		return nil
	}
	body, err := io.ReadAll(io.LimitReader(r.Body, MaxBodyBytes+1))
	if err != nil {
		return errs.WrapWarn(err, "read body failed")
	}
	if len(body) > MaxBodyBytes {
		return errs.NewWarn("request body too large")
	}
	if len(body) == 0 {
		return nil
	}
	if err := strict.Unmarshal(body, out); err != nil {
		return errs.WrapWarn(err, "invalid json body")
	}
	return nil
}

// NewGameRequest 建立新局
//
//   - level: 關卡名稱 (與 level_id 擇一；皆省略時使用第一個關卡)
//   - seed: 可選，固定亂數種子以重現整局
type NewGameRequest struct {
	Level   string `json:"level,omitempty"`
	LevelID uint   `json:"level_id,omitempty"`
	Seed    *int64 `json:"seed,omitempty"`
	Frames  bool   `json:"frames,omitempty"`
}

func DecodeNewGameRequest(r *http.Request) (*NewGameRequest, error) {
	req := new(NewGameRequest)
	if err := decodeBody(r, req); err != nil {
		return nil, err
	}
	return req, nil
}

// SwapRequest 交換 (x,y) 與其 dir 方向的鄰格 (N/S/E/W 或 up/down/left/right)
type SwapRequest struct {
	X      int    `json:"x"`
	Y      int    `json:"y"`
	Dir    string `json:"dir"`
	Frames bool   `json:"frames,omitempty"`

	Direction board.Direction `json:"-"`
}

func DecodeSwapRequest(r *http.Request) (*SwapRequest, error) {
	req := new(SwapRequest)
	if err := decodeBody(r, req); err != nil {
		return nil, err
	}
	d, ok := board.ParseDirection(req.Dir)
	if !ok {
		return nil, errs.Warnf("invalid dir %q", req.Dir)
	}
	req.Direction = d
	return req, nil
}

// LoadRequest 載入存檔；blob 為 base64url 的存檔 blob，省略時讀取伺服器端存檔
type LoadRequest struct {
	Blob string `json:"blob,omitempty"`
}

func DecodeLoadRequest(r *http.Request) (*LoadRequest, error) {
	req := new(LoadRequest)
	if err := decodeBody(r, req); err != nil {
		return nil, err
	}
	return req, nil
}

// SaveResponse 存檔結果
type SaveResponse struct {
	GameID string `json:"game_id"`
	Blob   string `json:"blob"`
	Bytes  int    `json:"bytes"`
}

// LoadResponse 載入結果；Fresh 代表存檔無效而重新開局
type LoadResponse struct {
	Fresh bool     `json:"fresh"`
	State StateDTO `json:"state"`
}
