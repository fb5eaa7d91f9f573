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

// Package perf 包裝 runtime/pprof，讓 CLI 以一個旗標切換 profiling。
package perf

import (
	"os"
	"path/filepath"
	"runtime"
	"runtime/pprof"

	"github.com/zintix-labs/gemlab/errs"
)

// DefaultDir pprof 檔案寫入路徑
const DefaultDir = "build/profiling"

// Mode profiling 種類
type Mode string

const (
	ModeNone   Mode = ""
	ModeCPU    Mode = "cpu"
	ModeHeap   Mode = "heap"
	ModeAllocs Mode = "allocs"
)

// ParseMode 解析 -p 旗標
func ParseMode(s string) (Mode, error) {
	switch m := Mode(s); m {
	case ModeNone, ModeCPU, ModeHeap, ModeAllocs:
		return m, nil
	}
	return ModeNone, errs.Warnf("unknown pprof mode %q (want cpu|heap|allocs)", s)
}

// Run 依 mode 執行 exe 並把 profile 寫到 dir；dir 為空時用 DefaultDir。
//
//	go run ./cmd/run -p cpu
//
// cpu 檔也可以當 PGO 的輸入。heap/allocs 在 exe 結束後才拍快照。
func Run(exe func() error, mode Mode, dir string) error {
	if mode == ModeNone {
		return exe()
	}
	if dir == "" {
		dir = DefaultDir
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errs.Wrap(err, "create pprof dir")
	}
	path := filepath.Join(dir, string(mode)+".pprof")
	f, err := os.Create(path)
	if err != nil {
		return errs.Wrap(err, "create "+path)
	}
	defer f.Close()

	switch mode {
	case ModeCPU:
		if err := pprof.StartCPUProfile(f); err != nil {
			return errs.Wrap(err, "start cpu profile")
		}
		defer pprof.StopCPUProfile()
		return exe()
	case ModeHeap:
		if err := exe(); err != nil {
			return err
		}
		// 拍快照前先 GC，live objects 才準
		runtime.GC()
		if err := pprof.WriteHeapProfile(f); err != nil {
			return errs.Wrap(err, "write heap profile")
		}
		return nil
	case ModeAllocs:
		if err := exe(); err != nil {
			return err
		}
		if prof := pprof.Lookup("allocs"); prof != nil {
			if err := prof.WriteTo(f, 0); err != nil {
				return errs.Wrap(err, "write allocs profile")
			}
		}
		return nil
	}
	return errs.Warnf("unknown pprof mode %q", mode)
}
