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

// Package demo 內建示範關卡與組裝捷徑。
package demo

import (
	"io/fs"

	"github.com/zintix-labs/gemlab"
	"github.com/zintix-labs/gemlab/catalog"
	"github.com/zintix-labs/gemlab/demo/demo_levels"
	"github.com/zintix-labs/gemlab/errs"
	"github.com/zintix-labs/gemlab/sdk/core"
	"github.com/zintix-labs/gemlab/server/logger"
	"github.com/zintix-labs/gemlab/server/svrcfg"
)

// Levels 內建關卡的 fs.FS
func Levels() fs.FS {
	return demo_levels.FS
}

func New() (*catalog.Catalog, error) {
	return catalog.New(demo_levels.FS)
}

func NewGemlab() (*gemlab.Gemlab, error) {
	return gemlab.NewAuto(core.Default(), gemlab.Configs(demo_levels.FS))
}

func NewServerConfig() (*svrcfg.SvrCfg, error) {
	lab, err := NewGemlab()
	if err != nil {
		return nil, errs.NewFatal("new gemlab failed:" + err.Error())
	}
	return &svrcfg.SvrCfg{
		Log:    logger.NewDefaultAsyncLogger(logger.ModeDev),
		Gemlab: lab,
	}, nil
}
