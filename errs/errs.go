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

package errs

import (
	"errors"
	"fmt"
)

// ErrLevel : Error 分級，讓邊界層(HTTP/CLI)知道該怎麼回應
type ErrLevel uint8

const (
	None     ErrLevel = iota
	Fatal             // 系統狀態不可信，需中止或重建
	Warn              // 呼叫端輸入不合法，可直接回報
	NotFound          // 目標不存在 (session / 存檔 / 關卡)
	Log               // 只需記錄
)

var errLvMap = map[ErrLevel]string{
	None:     "",
	Fatal:    "fatal",
	Warn:     "warn",
	NotFound: "not_found",
	Log:      "log",
}

// ErrNotFound 查無資料的共用哨兵，搭配 errors.Is 使用
var ErrNotFound = New(NotFound, "not found")

func ErrLv(errlv ErrLevel) string {
	if str, ok := errLvMap[errlv]; ok {
		return str
	}
	return ""
}

// E 是統一的錯誤型別。
// Message 為主訊息；Extra 為呼叫端追加的上下文；Cause 串接下層錯誤。
type E struct {
	Message string
	Extra   string
	Cause   error
	ErrLv   ErrLevel
}

func (e *E) Error() string {
	base := fmt.Sprintf("errlv=%s %s", ErrLv(e.ErrLv), e.Message)
	if e.Extra != "" {
		base += " | extra: " + e.Extra
	}
	if e.Cause != nil {
		base += fmt.Sprintf(" (cause: %v)", e.Cause)
	}
	return base
}

// Unwrap 讓 errors.Is / errors.As 能夠向下展開。
func (e *E) Unwrap() error { return e.Cause }

// Is 同級且同訊息視為同一錯誤，讓包裝過的 ErrNotFound 仍可被 errors.Is 命中
func (e *E) Is(target error) bool {
	t, ok := target.(*E)
	if !ok {
		return false
	}
	return e.ErrLv == t.ErrLv && e.Message == t.Message
}

func New(errLv ErrLevel, msg string) *E {
	return &E{Message: msg, ErrLv: errLv}
}

func NewFatal(msg string) *E {
	return &E{Message: msg, ErrLv: Fatal}
}

func NewWarn(msg string) *E {
	return &E{Message: msg, ErrLv: Warn}
}

func Fatalf(format string, a ...any) *E {
	return NewFatal(fmt.Sprintf(format, a...))
}

func Warnf(format string, a ...any) *E {
	return NewWarn(fmt.Sprintf(format, a...))
}

// NotFoundf 建立帶上下文的 NotFound 錯誤，cause 固定為 ErrNotFound
func NotFoundf(format string, a ...any) *E {
	return &E{Message: fmt.Sprintf(format, a...), ErrLv: NotFound, Cause: ErrNotFound}
}

func NewWithExtra(errLv ErrLevel, msg string, extra string) *E {
	e := New(errLv, msg)
	e.Extra = extra
	return e
}

// Wrap 包裝底層錯誤。
//
// ErrLevel 規則：
//   - 若 cause 已經是 *E，則沿用其 ErrLv（保持原本嚴重度）。
//   - 若 cause 是標準庫或三方依賴錯誤，ErrLv 一律視為 Fatal。
func Wrap(cause error, msg string) *E {
	var e *E
	errLv := Fatal
	if errors.As(cause, &e) {
		errLv = e.ErrLv
	}
	r := New(errLv, msg)
	r.Cause = cause
	return r
}

// WrapWarn 用於「已確認是呼叫端輸入問題」的三方錯誤 (例如 json / yaml 解析失敗)
func WrapWarn(cause error, msg string) *E {
	r := NewWarn(msg)
	r.Cause = cause
	return r
}

func AsErr(err error) (*E, bool) {
	var e *E
	if errors.As(err, &e) {
		return e, true
	}
	return e, false
}

// Level 取出錯誤分級，非 *E 一律視為 Fatal
func Level(err error) ErrLevel {
	if err == nil {
		return None
	}
	if e, ok := AsErr(err); ok {
		return e.ErrLv
	}
	return Fatal
}

// IsNotFound 是否為查無資料
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
