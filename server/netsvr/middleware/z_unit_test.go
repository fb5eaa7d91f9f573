package middleware

import (
	"bytes"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

const body = `{"rows":[[{"type":"red"},{"type":"blue"},{"type":"green"}]]}`

func jsonHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_, _ = io.WriteString(w, strings.Repeat(body, 20))
}

func TestAcceptEncoding(t *testing.T) {
	cases := map[string]string{
		"":                   "",
		"gzip":               "gzip",
		"gzip, zstd":         "zstd",
		"zstd;q=0, gzip":     "gzip",
		"br, GZIP;q=0.5":     "gzip",
		"identity, zstd;q=0": "",
	}
	for in, want := range cases {
		if got := acceptEncoding(in); got != want {
			t.Fatalf("acceptEncoding(%q)=%q want %q", in, got, want)
		}
	}
}

func TestCompressionRoundTrip(t *testing.T) {
	h := Compression(http.HandlerFunc(jsonHandler))
	want := strings.Repeat(body, 20)

	for _, enc := range []string{"gzip", "zstd", ""} {
		req := httptest.NewRequest(http.MethodGet, "/v1/levels", nil)
		if enc != "" {
			req.Header.Set("Accept-Encoding", enc)
		}
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		if got := rec.Header().Get("Content-Encoding"); got != enc {
			t.Fatalf("%q: content-encoding %q", enc, got)
		}
		var r io.Reader = rec.Body
		switch enc {
		case "gzip":
			gr, err := gzip.NewReader(rec.Body)
			if err != nil {
				t.Fatalf("gzip reader: %v", err)
			}
			r = gr
		case "zstd":
			zr, err := zstd.NewReader(rec.Body)
			if err != nil {
				t.Fatalf("zstd reader: %v", err)
			}
			defer zr.Close()
			r = zr
		}
		got, err := io.ReadAll(r)
		if err != nil || string(got) != want {
			t.Fatalf("%q: body mismatch (%v)", enc, err)
		}
	}
}

func TestCompressionNoBody(t *testing.T) {
	h := Compression(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	req := httptest.NewRequest(http.MethodPost, "/", nil)
	req.Header.Set("Accept-Encoding", "gzip")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusNoContent || rec.Body.Len() != 0 || rec.Header().Get("Content-Encoding") != "" {
		t.Fatalf("204 should stay empty: code=%d len=%d", rec.Code, rec.Body.Len())
	}
}

func TestRequestIDAndAccessLog(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(slog.NewJSONHandler(&buf, nil))
	h := RequestID(AccessLog(log)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusNotFound)
	})))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/games/x", nil))

	if rec.Header().Get(RequestIDHeader) == "" {
		t.Fatalf("request id header missing")
	}
	out := buf.String()
	if !strings.Contains(out, `"msg":"http.access"`) || !strings.Contains(out, `"level":"WARN"`) || !strings.Contains(out, `"status":404`) {
		t.Fatalf("unexpected access log: %s", out)
	}
}

func TestRecover(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(slog.NewTextHandler(&buf, nil))
	h := Recover(log)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusInternalServerError || !strings.Contains(buf.String(), "http.panic") {
		t.Fatalf("panic not recovered: %d %s", rec.Code, buf.String())
	}
}
