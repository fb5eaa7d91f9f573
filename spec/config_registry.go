package spec

import (
	"bytes"

	jsoniter "github.com/json-iterator/go"
	"github.com/zintix-labs/gemlab/errs"
	"gopkg.in/yaml.v3"
)

var strictJSON = jsoniter.Config{
	EscapeHTML:             true,
	SortMapKeys:            true,
	ValidateJsonRawMessage: true,
	DisallowUnknownFields:  true,
}.Froze()

// GetLevelSettingByYAML
// 會讀取 YAML 設定 (未知欄位直接報錯)、補上預設值並執行基本檢查後回傳。
func GetLevelSettingByYAML(data []byte) (*LevelSetting, error) {
	ls := &LevelSetting{}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true) // 嚴格檢查：多寫/拼錯欄位就報錯
	if err := dec.Decode(ls); err != nil {
		return nil, errs.Wrap(err, "failed to unmarshall yaml")
	}

	// 設定檔初始化
	if err := ls.init(); err != nil {
		return nil, errs.Wrap(err, "level setting initialized err")
	}

	return ls, nil
}

// GetLevelSettingByJSON
// 會讀取 Json 設定、補上預設值並執行基本檢查後回傳
func GetLevelSettingByJSON(data []byte) (*LevelSetting, error) {
	ls := &LevelSetting{}
	if err := strictJSON.Unmarshal(data, ls); err != nil {
		return nil, errs.Wrap(err, "can not unmarshall json byte")
	}

	// 設定檔初始化
	if err := ls.init(); err != nil {
		return nil, errs.Wrap(err, "level setting initialized err")
	}

	return ls, nil
}
