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


package store

import (
	"bytes"
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/zintix-labs/gemlab/corefmt"
	"github.com/zintix-labs/gemlab/errs"
)

const fileExt = ".save"

// FileStore 每個 key 一個檔案，內容為 corefmt.WriteBlob 的長度前綴框架
type FileStore struct {
	dir string
}

// NewFileStore 目錄不存在時建立
func NewFileStore(dir string) (*FileStore, error) {
	if dir == "" {
		return nil, errs.NewFatal("store: empty save dir")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errs.Wrap(err, "store: create save dir failed")
	}
	return &FileStore{dir: dir}, nil
}

// path key 不可含路徑分隔或 ".."
func (f *FileStore) path(key string) (string, error) {
	if key == "" {
		return "", errs.NewWarn("store: empty key")
	}
	if strings.ContainsAny(key, `/\`) || strings.Contains(key, "..") {
		return "", errs.Warnf("store: invalid key %q", key)
	}
	return filepath.Join(f.dir, key+fileExt), nil
}

func (f *FileStore) Save(ctx context.Context, key string, blob []byte) error {
	if err := ctx.Err(); err != nil {
		return errs.Wrap(err, "store: save canceled")
	}
	p, err := f.path(key)
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := corefmt.WriteBlob(&buf, blob); err != nil {
		return err
	}
	// 先寫暫存檔再 rename，讀端不會看到寫一半的檔案
	tmp := p + ".tmp"
	if err := os.WriteFile(tmp, buf.Bytes(), 0o644); err != nil {
		return errs.Wrap(err, "store: write save file failed")
	}
	if err := os.Rename(tmp, p); err != nil {
		_ = os.Remove(tmp)
		return errs.Wrap(err, "store: rename save file failed")
	}
	return nil
}

func (f *FileStore) Load(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, errs.Wrap(err, "store: load canceled")
	}
	p, err := f.path(key)
	if err != nil {
		return nil, err
	}
	fh, err := os.Open(p)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return nil, errs.NotFoundf("store: no save for %q", key)
	case err != nil:
		return nil, errs.Wrap(err, "store: open save file failed")
	}
	defer fh.Close()
	return corefmt.ReadBlob(fh, corefmt.MaxBlobBytes)
}

func (f *FileStore) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return errs.Wrap(err, "store: delete canceled")
	}
	p, err := f.path(key)
	if err != nil {
		return err
	}
	if err := os.Remove(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return errs.Wrap(err, "store: remove save file failed")
	}
	return nil
}
