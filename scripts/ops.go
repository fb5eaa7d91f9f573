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
	"bufio"
	"fmt"
	"io"
	"os"
	"os/exec"
	"sort"
	"strings"
)

// task 一個 go 指令與輸出過濾方式
type task struct {
	desc   string
	args   []string
	filter func(line string) (string, ANSI_COLOR, bool)
}

var tasks = map[string]task{
	"test": {
		desc:   "go test ./... -cover -count=1, only ok/FAIL lines",
		args:   []string{"test", "./...", "-cover", "-count=1"},
		filter: summaryOnly,
	},
	"test-detail": {
		desc:   "go test ./... -v -count=1, hides packages without tests",
		args:   []string{"test", "./...", "-v", "-count=1"},
		filter: hideNoTests,
	},
	"sim": {
		desc: "simulate 10k greedy games on the classic level",
		args: []string{"run", "./cmd/run", "-level", "classic", "-games", "10000", "-worker", "4"},
	},
	"svr": {
		desc: "start the HTTP server on :5808",
		args: []string{"run", "./cmd/svr"},
	},
}

// go run ./scripts [task] [extra args...]
func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}
	t, ok := tasks[os.Args[1]]
	if !ok {
		PrintYellow(fmt.Sprintf("Unknown task: %s", os.Args[1]))
		usage()
		os.Exit(1)
	}
	if err := run(t, os.Args[2:]); err != nil {
		PrintRed(err.Error())
		os.Exit(1)
	}
}

func usage() {
	fmt.Println("Usage: go run ./scripts [task]")
	names := make([]string, 0, len(tasks))
	for n := range tasks {
		names = append(names, n)
	}
	sort.Strings(names)
	for _, n := range names {
		fmt.Printf("  %-12s %s\n", n, tasks[n].desc)
	}
}

func run(t task, extra []string) error {
	if strings.HasPrefix(t.args[0], "test") {
		if err := exec.Command("go", "clean", "-testcache").Run(); err != nil {
			PrintYellow("go clean -testcache: " + err.Error())
		}
	}
	cmd := exec.Command("go", append(t.args, extra...)...)
	cmd.Stdin = os.Stdin
	if t.filter == nil {
		cmd.Stdout = os.Stdout
		cmd.Stderr = os.Stderr
		return cmd.Run()
	}

	out, err := cmd.StdoutPipe()
	if err != nil {
		return err
	}
	// 編譯錯誤在 stderr，一起過濾
	cmd.Stderr = cmd.Stdout
	if err := cmd.Start(); err != nil {
		return err
	}
	pipe(out, t.filter)
	if err := cmd.Wait(); err != nil {
		return fmt.Errorf("go %s finished with errors", t.args[0])
	}
	return nil
}

func pipe(r io.Reader, filter func(string) (string, ANSI_COLOR, bool)) {
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		if line, c, ok := filter(sc.Text()); ok {
			fmtColor(c, line)
		}
	}
}

func summaryOnly(line string) (string, ANSI_COLOR, bool) {
	switch {
	case strings.HasPrefix(line, "ok"):
		return line, ColorGreen, true
	case strings.HasPrefix(line, "FAIL"),
		strings.Contains(line, "build failed"),
		strings.Contains(line, "setup failed"):
		return line, ColorRed, true
	}
	return "", ColorDefault, false
}

func hideNoTests(line string) (string, ANSI_COLOR, bool) {
	if strings.Contains(line, "[no test files]") {
		return "", ColorDefault, false
	}
	if l, c, ok := summaryOnly(line); ok {
		return l, c, true
	}
	return line, ColorDefault, true
}
