// Package corefmt 存檔 blob 的框架格式與文字輸出。
//
// 存檔 blob：
//
//	blob := magic(1) || uvarint(len(raw)) || zstd(raw)
//
// raw 通常是 JSON。長度前綴讓解碼端可在解壓前拒絕過大的輸入。
package corefmt

import (
	"bufio"
	"encoding/base64"
	"encoding/binary"
	"io"

	"github.com/klauspost/compress/zstd"
	"github.com/zintix-labs/gemlab/errs"
)

const (
	blobMagic byte = 0x47 // 'G'

	// MaxBlobBytes 單一存檔解壓後的上限
	MaxBlobBytes = 1 << 20
)

var (
	encoder, _ = zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	decoder, _ = zstd.NewReader(nil, zstd.WithDecoderMaxMemory(MaxBlobBytes))
)

// EncodeBlob 壓縮並加上框架
func EncodeBlob(raw []byte) []byte {
	var hdr [1 + binary.MaxVarintLen64]byte
	hdr[0] = blobMagic
	n := binary.PutUvarint(hdr[1:], uint64(len(raw)))

	out := make([]byte, 0, 1+n+len(raw)/2)
	out = append(out, hdr[:1+n]...)
	return encoder.EncodeAll(raw, out)
}

// DecodeBlob 驗證框架並解壓；格式錯誤回傳 errs.Warn
func DecodeBlob(blob []byte) ([]byte, error) {
	if len(blob) < 2 || blob[0] != blobMagic {
		return nil, errs.NewWarn("decode blob failed: bad magic")
	}
	ln, size := binary.Uvarint(blob[1:])
	if size <= 0 {
		return nil, errs.NewWarn("decode blob failed: invalid varint length")
	}
	if ln > MaxBlobBytes {
		return nil, errs.NewWarn("decode blob failed: payload exceeds limit")
	}
	raw, err := decoder.DecodeAll(blob[1+size:], make([]byte, 0, ln))
	if err != nil {
		return nil, errs.WrapWarn(err, "decode blob failed: zstd")
	}
	if uint64(len(raw)) != ln {
		return nil, errs.NewWarn("decode blob failed: length mismatch")
	}
	return raw, nil
}

// WriteBlob 把 blob 以 uvarint 長度前綴寫入 w (存檔到檔案或串流)
func WriteBlob(w io.Writer, blob []byte) error {
	var hdr [binary.MaxVarintLen64]byte
	n := binary.PutUvarint(hdr[:], uint64(len(blob)))
	if _, err := w.Write(hdr[:n]); err != nil {
		return errs.Wrap(err, "write blob header failed")
	}
	if _, err := w.Write(blob); err != nil {
		return errs.Wrap(err, "write blob payload failed")
	}
	return nil
}

// ReadBlob 讀回 WriteBlob 寫入的 blob；maxBytes 防止不受信任的輸入無限配置
func ReadBlob(r io.Reader, maxBytes uint64) ([]byte, error) {
	br := bufio.NewReader(r)
	ln, err := binary.ReadUvarint(br)
	if err != nil {
		return nil, errs.WrapWarn(err, "read blob header failed")
	}
	if maxBytes > 0 && ln > maxBytes {
		return nil, errs.NewWarn("read blob failed: payload exceeds maxBytes")
	}
	out := make([]byte, ln)
	if _, err := io.ReadFull(br, out); err != nil {
		return nil, errs.WrapWarn(err, "read blob payload failed")
	}
	return out, nil
}

// EncodeBase64URL 給 JSON/URL 傳輸用的 blob 文字形式
func EncodeBase64URL(b []byte) string {
	return base64.RawURLEncoding.EncodeToString(b)
}

func DecodeBase64URL(s string) ([]byte, error) {
	b, err := base64.RawURLEncoding.DecodeString(s)
	if err != nil {
		return nil, errs.WrapWarn(err, "decode base64url failed")
	}
	return b, nil
}
