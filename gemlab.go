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

// Package gemlab 提供 gemlab 引擎的「組裝入口（assembler）」與「運行入口（runtime entry）」。
//
// Gemlab 把兩個必需的地基組裝在一起：
//  1. Catalog：關卡目錄，定義有哪些關卡、各自對應的設定檔名稱（ConfigName）。
//  2. PRNGFactory：亂數核心工廠，同一個 seed 產生同一局遊戲，可重現也可審計。
//
// 設定檔來源一律以 fs.FS 注入，Gemlab 本身不綁定檔案路徑。
//
// 典型使用情境：
//   - 後端服務（HTTP）：BuildRuntime 取得 session 表，每個 session 持有一個 cascade.Engine。
//   - 模擬器（sim）：NewSimulator 以 bot 大量跑完整局並產生統計報表。
package gemlab

import (
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/zintix-labs/gemlab/catalog"
	"github.com/zintix-labs/gemlab/dto"
	"github.com/zintix-labs/gemlab/errs"
	"github.com/zintix-labs/gemlab/sdk/cascade"
	"github.com/zintix-labs/gemlab/sdk/core"
	"github.com/zintix-labs/gemlab/sdk/gen"
	"github.com/zintix-labs/gemlab/spec"
)

// Configs 把一或多個設定檔來源打包成 New() 需要的參數。
//
// 可以用 go:embed 把關卡編進 binary，也可以用 os.DirFS 在本機開發時讀目錄。
func Configs(cfgs ...fs.FS) []fs.FS {
	return cfgs
}

// Gemlab 組裝器。
//
// 使用流程分成兩階段：
//   - 註冊階段：建立 catalog、掃描設定檔、檢查重複。
//   - 執行階段：Freeze 之後依關卡建立 Engine / Runtime / Simulator。
//
// Catalog 的 ID 唯一性只保證在同一個 Gemlab instance 內。
//
//	lab, _ := gemlab.NewAuto(core.Default(), gemlab.Configs(demo.Levels()))
//	ls, _ := lab.Level("classic", 0)
//	e, _ := lab.NewEngine(ls, 42)
//	res := e.RequestSwap(3, 4, board.East)
type Gemlab struct {
	cat *catalog.Catalog
	pf  core.PRNGFactory
	log *slog.Logger
}

// New 建立一個尚未註冊關卡的 Gemlab。
//
//   - pf 不能為 nil：沒有 RNG 工廠就無法建立可重現的盤面。
//   - cfgs 至少一個：沒有設定檔來源，Catalog 無法解析關卡。
func New(pf core.PRNGFactory, cfgs []fs.FS) (*Gemlab, error) {
	if pf == nil {
		return nil, errs.NewFatal("prng factory required")
	}
	if len(cfgs) == 0 {
		return nil, errs.NewFatal("configs required")
	}
	cata, err := catalog.New(cfgs...)
	if err != nil {
		return nil, err
	}
	return &Gemlab{cat: cata, pf: pf, log: slog.New(slog.DiscardHandler)}, nil
}

// NewAuto 掃描所有來源、註冊並 Freeze，直接進入執行階段
func NewAuto(pf core.PRNGFactory, cfgs []fs.FS) (*Gemlab, error) {
	lab, err := New(pf, cfgs)
	if err != nil {
		return nil, err
	}
	if err := lab.RegisterAll(); err != nil {
		return nil, err
	}
	lab.Freeze()
	return lab, nil
}

// SetLogger 建出的 Engine 與 Runtime 預設沿用此 logger
func (g *Gemlab) SetLogger(l *slog.Logger) {
	if l != nil {
		g.log = l
	}
}

func (g *Gemlab) Logger() *slog.Logger { return g.log }

func (g *Gemlab) Register(ents ...catalog.Entry) error {
	return g.cat.Register(ents...)
}

// RegisterAll 掃描 catalog 持有的設定檔來源，把所有 .yaml/.yml/.json 解析成 *spec.LevelSetting，
// 並以設定檔內的 level_id / level_name 批次註冊。
//
// 任何一個檔案讀取、解析或檢查失敗都立刻回傳 error；只有全部成功才呼叫一次 Register，
// 所以不會留下只註冊一半的 catalog。檔案依檔名排序處理。
func (g *Gemlab) RegisterAll() error {
	sources := g.cat.Cfg().Sources()
	if len(sources) == 0 {
		return errs.NewFatal("configs required")
	}

	entries := make([]catalog.Entry, 0, 16)
	seenID := map[spec.LID]string{}
	seenName := map[string]string{}

	for _, src := range sources {
		walkErr := fs.WalkDir(src, ".", func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				if path == "." {
					return nil
				}
				return errs.NewFatal(fmt.Sprintf("configs must be flat (no subdir): %q", path))
			}

			base := filepath.Base(path)
			if strings.Contains(path, "/") && path != base {
				return errs.NewFatal(fmt.Sprintf("configs must be flat (nested path): %q", path))
			}
			if strings.HasPrefix(base, ".") {
				return nil
			}
			ext := strings.ToLower(filepath.Ext(base))
			if ext != ".yaml" && ext != ".yml" && ext != ".json" {
				return nil
			}

			raw, rerr := fs.ReadFile(src, path)
			if rerr != nil {
				return errs.NewFatal(fmt.Sprintf("read config failed: %s", base))
			}
			ls, perr := catalog.ParseLevelSettingByExt(base, raw)
			if perr != nil {
				return errs.Wrap(perr, fmt.Sprintf("parse level setting failed: %s", base))
			}

			name := strings.TrimSpace(ls.LevelName)
			if name == "" {
				return errs.NewFatal(fmt.Sprintf("level name required: %s", base))
			}
			id := ls.LevelID
			if prev, ok := seenID[id]; ok {
				return errs.NewFatal(fmt.Sprintf("duplicate level id: %d (config=%s and %s)", id, prev, base))
			}
			if _, ok := g.cat.GetByID(id); ok {
				return errs.NewFatal(fmt.Sprintf("level id already registered: %d (config=%s)", id, base))
			}
			seenID[id] = base

			nameKey := strings.ToLower(name)
			if prev, ok := seenName[nameKey]; ok {
				return errs.NewFatal(fmt.Sprintf("duplicate level name: %s (config=%s and %s)", nameKey, prev, base))
			}
			if _, ok := g.cat.GetByName(name); ok {
				return errs.NewFatal(fmt.Sprintf("level name already registered: %s (config=%s)", name, base))
			}
			seenName[nameKey] = base

			entries = append(entries, catalog.Entry{LID: id, Name: name, ConfigName: base})
			return nil
		})
		if walkErr != nil {
			return walkErr
		}
	}

	if len(entries) == 0 {
		return errs.NewFatal("no config files found to register")
	}
	return g.cat.Register(entries...)
}

func (g *Gemlab) Freeze() {
	g.cat.Freeze()
}

func (g *Gemlab) EntryByID(id spec.LID) (catalog.Entry, bool) {
	return g.cat.GetByID(id)
}

func (g *Gemlab) EntryByName(name string) (catalog.Entry, bool) {
	return g.cat.GetByName(name)
}

func (g *Gemlab) IDs() []spec.LID {
	return g.cat.IDs()
}

// Levels 關卡清單，依 level_id 排序
func (g *Gemlab) Levels() ([]catalog.Summary, error) {
	if !g.cat.IsFrozen() {
		return nil, errs.NewFatal("catalog is not frozen yet")
	}
	ids := g.cat.IDs()
	cs := make([]catalog.Summary, 0, len(ids))
	for _, id := range ids {
		ls, err := g.cat.LevelSettingByID(id)
		if err != nil {
			return nil, err
		}
		cs = append(cs, catalog.Summarize(ls))
	}
	return cs, nil
}

// Level 依名稱或 id 取關卡；name 優先，兩者皆為零值時回傳第一個關卡
func (g *Gemlab) Level(name string, id spec.LID) (*spec.LevelSetting, error) {
	if !g.cat.IsFrozen() {
		return nil, errs.NewFatal("catalog is not frozen yet")
	}
	switch {
	case strings.TrimSpace(name) != "":
		return g.cat.LevelSettingByName(name)
	case id != 0:
		return g.cat.LevelSettingByID(id)
	}
	ids := g.cat.IDs()
	if len(ids) == 0 {
		return nil, errs.NotFoundf("no level registered")
	}
	return g.cat.LevelSettingByID(ids[0])
}

// NewEngine 以關卡與 seed 建立一局。盤面生成、補盤、洗牌共用同一顆 PRNG
func (g *Gemlab) NewEngine(ls *spec.LevelSetting, seed int64, opts ...cascade.Option) (*cascade.Engine, error) {
	if !g.cat.IsFrozen() {
		return nil, errs.NewFatal("catalog is not frozen yet")
	}
	if ls == nil {
		return nil, errs.NewFatal("level setting is nil")
	}
	gn, err := gen.New(core.New(g.pf.New(seed)), ls.Types(), ls.Weights())
	if err != nil {
		return nil, err
	}
	opts = append([]cascade.Option{cascade.WithLogger(g.log)}, opts...)
	return cascade.New(ls.Config(), gn, opts...)
}

// RestoreEngine 建立一局並載入存檔 blob。存檔屬於其他關卡或內容不合法時回傳 errs.Warn
func (g *Gemlab) RestoreEngine(ls *spec.LevelSetting, blob []byte, seed int64, opts ...cascade.Option) (*cascade.Engine, error) {
	snap, err := dto.DecodeBlob(blob)
	if err != nil {
		return nil, err
	}
	if ls == nil {
		return nil, errs.NewFatal("level setting is nil")
	}
	if !strings.EqualFold(snap.Level, ls.LevelName) {
		return nil, errs.Warnf("save belongs to level %q, not %q", snap.Level, ls.LevelName)
	}
	e, err := g.NewEngine(ls, seed, opts...)
	if err != nil {
		return nil, err
	}
	if err := snap.Apply(e, ls.Types()); err != nil {
		return nil, err
	}
	return e, nil
}
