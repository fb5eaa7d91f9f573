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
	"flag"
	"fmt"
	"os"
	"strconv"

	"github.com/zintix-labs/gemlab"
	"github.com/zintix-labs/gemlab/demo"
	"github.com/zintix-labs/gemlab/errs"
	"github.com/zintix-labs/gemlab/sdk/core"
	"github.com/zintix-labs/gemlab/sdk/perf"
	"github.com/zintix-labs/gemlab/spec"
	"github.com/zintix-labs/gemlab/stats"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var cfg *config = new(config)

type config struct {
	level  string
	id     spec.LID
	games  int
	worker int
	seed   int64
	bot    string
	format string
	pprof  perf.Mode
}

// levelFlag 接受關卡名稱或 level_id
type levelFlag struct{ c *config }

func (f levelFlag) String() string {
	if f.c == nil {
		return ""
	}
	if f.c.level != "" {
		return f.c.level
	}
	return fmt.Sprint(uint(f.c.id))
}

func (f levelFlag) Set(s string) error {
	if u, err := strconv.ParseUint(s, 10, 0); err == nil {
		f.c.id = spec.LID(uint(u))
		f.c.level = ""
		return nil
	}
	f.c.level = s
	f.c.id = 0
	return nil
}

func bindVar() error {
	var pmode string
	flag.Var(levelFlag{cfg}, "level", "level name or level id (default: first level)")
	flag.IntVar(&cfg.games, "games", 10000, "number of games")
	flag.IntVar(&cfg.worker, "worker", 1, "number of workers")
	flag.Int64Var(&cfg.seed, "seed", -1, "int64 seed; < 1 picks a random seed")
	flag.StringVar(&cfg.bot, "bot", "greedy", "bot: greedy|random")
	flag.StringVar(&cfg.format, "format", "table", "report format: table|json|yaml")
	flag.StringVar(&pmode, "p", "", "pprof: '', cpu, heap, allocs")
	flag.Parse()

	m, err := perf.ParseMode(pmode)
	if err != nil {
		return err
	}
	cfg.pprof = m
	if cfg.seed < 1 {
		cfg.seed = core.RandomSeed()
	}
	return cfg.valid()
}

func executeSimulator() error {
	lab, err := demo.NewGemlab()
	if err != nil {
		return err
	}
	return simulate(lab, cfg)
}

func simulate(lab *gemlab.Gemlab, c *config) error {
	ls, err := lab.Level(c.level, c.id)
	if err != nil {
		return err
	}
	s, err := lab.NewSimulator(ls, c.bot, c.seed)
	if err != nil {
		return err
	}
	rep, ok := stats.RenderByName(c.format)
	if !ok {
		return errs.Warnf("unknown format %q", c.format)
	}

	table := c.format == "table"
	if table {
		green := "\033[1;32m"
		reset := "\033[0m"
		p := message.NewPrinter(language.English)
		p.Printf("%s[LEVEL:%s] [BOT:%s] [WORKERS:%d] [GAMES:%d] [SEED:%d]%s\n",
			green, ls.LevelName, s.Bot, c.worker, c.games, c.seed, reset)
	}
	st, used, err := s.Sim(c.games, c.worker, table)
	if err != nil {
		return err
	}
	if table {
		st.StdOut(used)
		return nil
	}
	return st.WriteWith(os.Stdout, rep)
}

func (c *config) valid() error {
	if c.worker < 1 {
		return errs.NewWarn("value err : workers must > 0")
	}
	if c.games < 1 {
		return errs.NewWarn("value err : games must > 0")
	}
	if _, ok := stats.RenderByName(c.format); !ok {
		return errs.Warnf("value err : unknown format %q", c.format)
	}
	return nil
}
