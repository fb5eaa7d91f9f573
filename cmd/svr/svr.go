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

package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/zintix-labs/gemlab/demo"
	"github.com/zintix-labs/gemlab/server"
	"github.com/zintix-labs/gemlab/server/logger"
	"github.com/zintix-labs/gemlab/server/svrcfg"
	"github.com/zintix-labs/gemlab/store"
)

// 以內建示範關卡啟動 HTTP 服務；-redis 與 -save-dir 都省略時存檔只留在記憶體
func main() {
	sCfg, err := loadConfigFromFlags()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if err := server.Run(sCfg); err != nil {
		os.Exit(1)
	}
}

type config struct {
	LogMode string
	Addr    string
	Redis   string
	TTL     time.Duration
	SaveDir string
}

func loadConfigFromFlags() (*svrcfg.SvrCfg, error) {
	cfg := new(config)
	flag.StringVar(&cfg.LogMode, "log-mode", "dev", "log mode: dev|prod|silence")
	flag.StringVar(&cfg.Addr, "addr", svrcfg.DefaultAddr, "listen address")
	flag.StringVar(&cfg.Redis, "redis", "", "redis address for saves, e.g. 127.0.0.1:6379")
	flag.DurationVar(&cfg.TTL, "ttl", 0, "redis save ttl (0 keeps saves forever)")
	flag.StringVar(&cfg.SaveDir, "save-dir", "", "directory for file saves (ignored when -redis is set)")
	flag.Parse()

	mode, ok := logger.ParseMode(cfg.LogMode)
	if !ok {
		return nil, fmt.Errorf("unknown log mode %q", cfg.LogMode)
	}
	log, _ := logger.NewAsync(4096, mode)

	lab, err := demo.NewGemlab()
	if err != nil {
		return nil, err
	}
	sCfg := &svrcfg.SvrCfg{
		Log:    log,
		Addr:   cfg.Addr,
		Gemlab: lab,
	}
	if cfg.Redis != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		rs, err := store.DialRedis(ctx, cfg.Redis, store.WithTTL(cfg.TTL))
		if err != nil {
			return nil, err
		}
		sCfg.Store = rs
	} else if cfg.SaveDir != "" {
		fs, err := store.NewFileStore(cfg.SaveDir)
		if err != nil {
			return nil, err
		}
		sCfg.Store = fs
	}
	return sCfg, nil
}
