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

package v1

import (
	"net/http"

	"github.com/zintix-labs/gemlab"
	"github.com/zintix-labs/gemlab/catalog"
	"github.com/zintix-labs/gemlab/server/httperr"
)

type levelsResponse struct {
	Levels []catalog.Summary `json:"levels"`
}

// Levels GET /v1/levels
func Levels(lab *gemlab.Gemlab) http.HandlerFunc {
	return func(w http.ResponseWriter, q *http.Request) {
		ls, err := lab.Levels()
		if err != nil {
			httperr.Log(lab.Logger(), "levels", err)
			httperr.Errs(w, err)
			return
		}
		writeJSON(w, http.StatusOK, levelsResponse{Levels: ls})
	}
}
