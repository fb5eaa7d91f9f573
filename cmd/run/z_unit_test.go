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
	"testing"

	"github.com/zintix-labs/gemlab/spec"
)

func TestLevelFlag(t *testing.T) {
	c := new(config)
	f := levelFlag{c}
	if err := f.Set("2"); err != nil || c.id != spec.LID(2) || c.level != "" {
		t.Fatalf("numeric level: %+v %v", c, err)
	}
	if err := f.Set("classic"); err != nil || c.level != "classic" || c.id != 0 {
		t.Fatalf("named level: %+v %v", c, err)
	}
	if f.String() != "classic" {
		t.Fatalf("String: %q", f.String())
	}
}

func TestConfigValid(t *testing.T) {
	c := &config{games: 10, worker: 2, format: "yaml"}
	if err := c.valid(); err != nil {
		t.Fatalf("valid config: %v", err)
	}
	c.format = "xml"
	if err := c.valid(); err == nil {
		t.Fatalf("unknown format should fail")
	}
	c.format, c.worker = "json", 0
	if err := c.valid(); err == nil {
		t.Fatalf("zero workers should fail")
	}
}
