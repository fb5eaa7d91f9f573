package catalog

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"github.com/zintix-labs/gemlab/errs"
	"github.com/zintix-labs/gemlab/spec"
)

var (
	ErrDupID   = errs.NewFatal("duplicate level id")
	ErrDupName = errs.NewFatal("duplicate level name")
)

type Entry struct {
	LID        spec.LID
	Name       string
	ConfigName string
}

// Summary 關卡清單 (API 用)
type Summary struct {
	LID         spec.LID `json:"lid"`
	Name        string   `json:"name"`
	Columns     int      `json:"columns"`
	Rows        int      `json:"rows"`
	Moves       int      `json:"moves"`
	TargetScore int64    `json:"target_score"`
	GemTypes    []string `json:"gem_types"`
	Frosted     int      `json:"frosted"`
}

// Summarize 由設定產生清單項目
func Summarize(ls *spec.LevelSetting) Summary {
	types := ls.Types()
	names := make([]string, len(types))
	for i, t := range types {
		names[i] = strings.ToLower(t.String())
	}
	return Summary{
		LID:         ls.LevelID,
		Name:        strings.ToLower(ls.LevelName),
		Columns:     ls.Columns,
		Rows:        ls.Rows,
		Moves:       ls.Moves,
		TargetScore: ls.TargetScore,
		GemTypes:    names,
		Frosted:     len(ls.Frost),
	}
}

type Catalog struct {
	byID   map[spec.LID]Entry
	byName map[string]Entry
	ids    []spec.LID          // 用來穩定排序
	unique map[string]struct{} // 一組遊戲，檔名需唯一
	config *multiFS
	frozen bool
}

func New(cfg ...fs.FS) (*Catalog, error) {
	multFS, err := newMultiFS(cfg...)
	if err != nil {
		return nil, errs.Wrap(err, "can not create catalog")
	}
	return &Catalog{
		byID:   map[spec.LID]Entry{},
		byName: map[string]Entry{},
		ids:    make([]spec.LID, 0, 100),
		unique: map[string]struct{}{},
		config: multFS,
		frozen: false,
	}, nil
}

func (c *Catalog) Register(metas ...Entry) error {
	if c.frozen {
		return errs.NewWarn("can not register when catalog already frozen")
	}
	seenID := map[spec.LID]struct{}{}
	seenName := map[string]struct{}{}
	seenCfg := map[string]struct{}{}
	// 名稱一律以小寫存放，查詢端 GetByName 也以小寫比對
	norm := make([]Entry, len(metas))
	for i, meta := range metas {
		meta.Name = strings.ToLower(strings.TrimSpace(meta.Name))
		norm[i] = meta
	}
	metas = norm
	for _, meta := range metas {
		if meta.Name == "" {
			return errs.NewFatal("level name required")
		}
		if err := validFileName(meta.ConfigName); err != nil {
			return err
		}
		if _, ok := c.config.index[meta.ConfigName]; !ok {
			return errs.NewFatal(fmt.Sprintf("config file not found: %s", meta.ConfigName))
		}
		if _, ok := c.byID[meta.LID]; ok {
			return ErrDupID
		}
		if _, ok := c.byName[meta.Name]; ok {
			return ErrDupName
		}
		if _, ok := c.unique[meta.ConfigName]; ok {
			return errs.NewFatal(fmt.Sprintf("duplicate config name: %s", meta.ConfigName))
		}
		if _, ok := seenID[meta.LID]; ok {
			return ErrDupID
		}
		if _, ok := seenName[meta.Name]; ok {
			return ErrDupName
		}
		if _, ok := seenCfg[meta.ConfigName]; ok {
			return errs.NewFatal(fmt.Sprintf("duplicate config name: %s", meta.ConfigName))
		}
		seenID[meta.LID] = struct{}{}
		seenName[meta.Name] = struct{}{}
		seenCfg[meta.ConfigName] = struct{}{}
	}
	for _, meta := range metas {
		c.unique[meta.ConfigName] = struct{}{}
		c.byID[meta.LID] = meta
		c.byName[meta.Name] = meta
		c.ids = append(c.ids, meta.LID)
	}
	sort.Slice(c.ids, func(i, j int) bool { return c.ids[i] < c.ids[j] })
	return nil
}

func (c *Catalog) GetByID(id spec.LID) (Entry, bool) {
	m, ok := c.byID[id]
	return m, ok
}

func (c *Catalog) GetByName(name string) (Entry, bool) {
	name = strings.TrimSpace(name)
	name = strings.ToLower(name)
	m, ok := c.byName[name]
	return m, ok
}

func (c *Catalog) IDs() []spec.LID {
	if len(c.ids) == 0 {
		return nil
	}
	return append([]spec.LID(nil), c.ids...)
}

func (c *Catalog) All() []Entry {
	order := c.IDs()
	m := make([]Entry, 0, len(c.ids))
	for _, id := range order {
		if meta, ok := c.GetByID(id); ok {
			m = append(m, meta)
		}
	}
	return m
}

func (c *Catalog) Cfg() *multiFS {
	return c.config
}

func (c *Catalog) Freeze() {
	c.frozen = true
}

func (c *Catalog) IsFrozen() bool {
	return c.frozen
}

func validFileName(file string) error {
	if file == "" {
		return errs.NewFatal("empty config filename")
	}
	// 1) 不能包含路徑或類似字元
	if strings.ContainsAny(file, `/\:`) {
		return errs.NewFatal(fmt.Sprintf("invalid config filename: %q (must be a basename; no / \\\\ :) ", file))
	}
	// 2) 必須以 .yaml/.yml/.json 結尾（大小寫不敏感）
	lower := strings.ToLower(file)
	if !(strings.HasSuffix(lower, ".yaml") || strings.HasSuffix(lower, ".yml") || strings.HasSuffix(lower, ".json")) {
		return errs.NewFatal(fmt.Sprintf("invalid config filename: %q (must end with .yaml, .yml, or .json)", file))
	}
	// 3) 不能以 . 開頭（防止直接 .yaml / .yml）
	if strings.HasPrefix(file, ".") {
		return errs.NewFatal(fmt.Sprintf("invalid config filename: %q (cannot start with '.')", file))
	}
	return nil
}

// ParseLevelSettingByExt 依副檔名選擇 YAML 或 JSON 解析
func ParseLevelSettingByExt(filename string, raw []byte) (*spec.LevelSetting, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".yaml", ".yml":
		return spec.GetLevelSettingByYAML(raw)
	case ".json":
		return spec.GetLevelSettingByJSON(raw)
	default:
		return nil, errs.NewFatal(fmt.Sprintf("unsupported config format: %q", filename))
	}
}

// LevelSettingByID
//
// 會讀取 fs.FS 中的 YAML/JSON 設定、補上預設值並執行基本檢查後回傳
func (c *Catalog) LevelSettingByID(id spec.LID) (*spec.LevelSetting, error) {
	e, ok := c.GetByID(id)
	if !ok {
		return nil, errs.NotFoundf("level id %d does not exist in catalog", id)
	}
	return c.load(e)
}

// LevelSettingByName
//
// 名稱大小寫不敏感
func (c *Catalog) LevelSettingByName(name string) (*spec.LevelSetting, error) {
	e, ok := c.GetByName(name)
	if !ok {
		return nil, errs.NotFoundf("level %q does not exist in catalog", name)
	}
	return c.load(e)
}

func (c *Catalog) load(e Entry) (*spec.LevelSetting, error) {
	src, ok := c.config.GetFS(e.ConfigName)
	if !ok {
		return nil, errs.NewWarn("file name does not exist in catalog")
	}
	raw, err := fs.ReadFile(src, e.ConfigName)
	if err != nil {
		return nil, errs.Wrap(err, "catalog parse file error")
	}
	return ParseLevelSettingByExt(e.ConfigName, raw)
}

type multiFS struct {
	src   []fs.FS
	index map[string]int // name -> src index
}

func newMultiFS(src ...fs.FS) (*multiFS, error) {
	if len(src) == 0 {
		return nil, errs.NewFatal("no fs provided")
	}
	for i, s := range src {
		if s == nil {
			return nil, errs.NewFatal(fmt.Sprintf("fs[%d] is nil", i))
		}
	}

	m := &multiFS{
		src:   src,
		index: make(map[string]int, 256),
	}

	// eager validate: build index and detect duplicates
	for i := 0; i < len(src); i++ {
		err := fs.WalkDir(src[i], ".", func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				// 關卡目錄必須是扁平的，只允許根目錄 "."
				if path == "." {
					return nil
				}
				return errs.NewFatal(fmt.Sprintf("config FS must be flat (no subdirectories): %q", path))
			}

			if strings.Contains(path, "/") {
				return errs.NewFatal(fmt.Sprintf("config FS must be flat (no subdirectories): %q", path))
			}

			// 只索引 yaml/json，其他檔案略過
			lower := strings.ToLower(path)
			if !(strings.HasSuffix(lower, ".yaml") || strings.HasSuffix(lower, ".yml") || strings.HasSuffix(lower, ".json")) {
				return nil
			}

			name := path // flat FS guarantees path is a basename

			if prev, ok := m.index[name]; ok {
				return errs.NewFatal(fmt.Sprintf("duplicate config %q in fs[%d] and fs[%d]", name, prev, i))
			}
			m.index[name] = i
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *multiFS) GetFS(name string) (fs.FS, bool) {
	if id, ok := m.index[name]; ok {
		return m.src[id], ok
	}
	return nil, false
}

// Sources exposes config FS sources for read-only iteration.
func (m *multiFS) Sources() []fs.FS {
	if m == nil || len(m.src) == 0 {
		return nil
	}
	return append([]fs.FS(nil), m.src...)
}
