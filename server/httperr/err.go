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

package httperr

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	jsoniter "github.com/json-iterator/go"
	"github.com/zintix-labs/gemlab/errs"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// StatusCode 將錯誤映射成 HTTP status code。
//
//   - ctx timeout/cancel → 504/408
//   - errs.Warn         → 400
//   - errs.NotFound     → 404
//   - errs.Fatal        → 500
//
// 放在 server/* 而不是 errs，核心錯誤包不依賴 net/http。
func StatusCode(err error) int {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.Is(err, context.Canceled):
		return http.StatusRequestTimeout
	}
	var e *errs.E
	if errors.As(err, &e) {
		switch e.ErrLv {
		case errs.Warn:
			return http.StatusBadRequest
		case errs.NotFound:
			return http.StatusNotFound
		}
	}
	return http.StatusInternalServerError
}

// Body 錯誤回應內容
type Body struct {
	Error  string `json:"error"`
	Level  string `json:"level,omitempty"`
	Status int    `json:"status"`
}

// Errs 寫回 JSON 錯誤。500 只回傳固定訊息，細節留在 log
func Errs(w http.ResponseWriter, err error) {
	if err == nil {
		return
	}
	status := StatusCode(err)
	msg := err.Error()
	if e, ok := errs.AsErr(err); ok {
		msg = e.Message
	}
	if status >= 500 {
		msg = http.StatusText(status)
	}
	b, _ := json.Marshal(Body{Error: msg, Level: errs.ErrLv(errs.Level(err)), Status: status})
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(status)
	_, _ = w.Write(append(b, '\n'))
}

// Log 依狀態碼記錄：408 為 warn，5xx 為 error，其餘 (呼叫端錯誤) 不記錄
func Log(log *slog.Logger, msg string, err error) {
	if err == nil || log == nil {
		return
	}
	status := StatusCode(err)
	switch {
	case status == http.StatusRequestTimeout:
		log.Warn(msg, slog.Any("err", err))
	case status >= 500:
		log.Error(msg, slog.Any("err", err))
	}
}
