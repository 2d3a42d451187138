package translate

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestDummy(t *testing.T) {
	ctx := context.Background()
	got, err := Dummy{}.Translate(ctx, "Hello world.", "auto", "zh")
	if err != nil || got != "Hello world. [ZH]" {
		t.Errorf("expected %q, got %q (%v)", "Hello world. [ZH]", got, err)
	}
	got, _ = Dummy{}.Translate(ctx, "Same.", "en", "en")
	if got != "Same." {
		t.Errorf("expected untagged echo, got %q", got)
	}
}

func TestLibre(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		want    string
		wantErr bool
	}{
		{"object", http.StatusOK, `{"translatedText":"Bonjour"}`, "Bonjour", false},
		{"array", http.StatusOK, `[{"translatedText":"Hallo"}]`, "Hallo", false},
		{"empty payload", http.StatusOK, `{}`, "", true},
		{"client error", http.StatusBadRequest, `{"error":"bad lang"}`, "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got libreRequest
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				json.NewDecoder(r.Body).Decode(&got)
				w.WriteHeader(tt.status)
				io.WriteString(w, tt.body)
			}))
			defer srv.Close()

			l := NewLibre(srv.URL, "secret", time.Second)
			out, err := l.Translate(context.Background(), "Hello", "", "fr")
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %q", out)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if out != tt.want {
				t.Errorf("expected %q, got %q", tt.want, out)
			}
			if got.Q != "Hello" || got.Source != "auto" || got.Target != "fr" || got.Format != "text" || got.APIKey != "secret" {
				t.Errorf("unexpected request %+v", got)
			}
		})
	}
}

func TestLibre_ServerErrorIsRetryable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "overloaded", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	_, err := NewLibre(srv.URL, "", time.Second).Translate(context.Background(), "x", "en", "de")
	if !IsRetryable(err) {
		t.Errorf("expected retryable error, got %v", err)
	}
}

func TestBaidu(t *testing.T) {
	var form map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if ct := r.Header.Get("Content-Type"); ct != "application/x-www-form-urlencoded" {
			t.Errorf("expected form content type, got %q", ct)
		}
		r.ParseForm()
		form = map[string]string{}
		for k := range r.PostForm {
			form[k] = r.PostForm.Get(k)
		}
		io.WriteString(w, `{"from":"en","to":"jp","trans_result":[{"src":"a","dst":"一"},{"src":"b","dst":"二"}]}`)
	}))
	defer srv.Close()

	b, err := NewBaidu("app", "key", srv.URL, time.Second)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b.now = func() time.Time { return time.UnixMilli(1700000000000) }

	out, err := b.Translate(context.Background(), "a\nb", "auto", "ja")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "一\n二" {
		t.Errorf("expected joined lines, got %q", out)
	}

	sum := md5.Sum([]byte("app" + "a\nb" + "1700000000000" + "key"))
	if form["sign"] != hex.EncodeToString(sum[:]) {
		t.Errorf("expected md5 signature, got %q", form["sign"])
	}
	if form["to"] != "jp" || form["from"] != "auto" || form["salt"] != "1700000000000" || form["appid"] != "app" {
		t.Errorf("unexpected form %v", form)
	}
}

func TestBaidu_ErrorCode(t *testing.T) {
	for _, body := range []string{
		`{"error_code":"54001","error_msg":"Invalid Sign"}`,
		`{"error_code":54003,"error_msg":"Access Frequency Limited"}`,
	} {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			io.WriteString(w, body)
		}))
		b, _ := NewBaidu("app", "key", srv.URL, time.Second)
		_, err := b.Translate(context.Background(), "x", "en", "zh")
		srv.Close()
		if err == nil || !strings.Contains(err.Error(), "baidu error 5400") {
			t.Errorf("expected baidu error for %s, got %v", body, err)
		}
	}
}

func TestBaidu_RequiresCredentials(t *testing.T) {
	if _, err := NewBaidu("", "key", "", 0); err == nil {
		t.Error("expected error without app id")
	}
}

func TestBaiduLang(t *testing.T) {
	tests := map[string]string{"": "auto", "auto": "auto", "ja": "jp", "ko": "kor", "en": "en", "zh": "zh"}
	for in, want := range tests {
		if got := BaiduLang(in); got != want {
			t.Errorf("BaiduLang(%q): expected %q, got %q", in, want, got)
		}
	}
}

func TestBackend(t *testing.T) {
	tests := []struct {
		body    string
		want    string
		wantErr bool
	}{
		{`{"text":"Hola"}`, "Hola", false},
		{`{"translatedText":"Ciao"}`, "Ciao", false},
		{`{}`, "", true},
	}
	for _, tt := range tests {
		var got Request
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			json.NewDecoder(r.Body).Decode(&got)
			io.WriteString(w, tt.body)
		}))
		b, err := NewBackend(srv.URL, time.Second)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		out, err := b.Translate(context.Background(), "Hello", "en", "es")
		srv.Close()
		if tt.wantErr {
			if err == nil {
				t.Errorf("expected error for %s", tt.body)
			}
			continue
		}
		if err != nil || out != tt.want {
			t.Errorf("expected %q, got %q (%v)", tt.want, out, err)
		}
		if got.Q != "Hello" || got.Source != "en" || got.Target != "es" {
			t.Errorf("unexpected request %+v", got)
		}
	}
}

const samplePO = `msgid ""
msgstr ""
"Content-Type: text/plain; charset=UTF-8\n"
"Language: fr\n"

msgid "Hello world."
msgstr "Bonjour le monde."

msgid "Untranslated."
msgstr ""
`

func TestCatalog(t *testing.T) {
	c := NewCatalogFromBytes([]byte(samplePO))
	ctx := context.Background()

	got, err := c.Translate(ctx, "  Hello world. ", "en", "fr")
	if err != nil || got != "Bonjour le monde." {
		t.Errorf("expected catalog hit, got %q (%v)", got, err)
	}
	for _, miss := range []string{"Untranslated.", "Unknown."} {
		if _, err := c.Translate(ctx, miss, "en", "fr"); !errors.Is(err, ErrNotTranslated) {
			t.Errorf("expected ErrNotTranslated for %q, got %v", miss, err)
		}
	}
}

func TestCatalog_Directory(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "fr.po"), []byte(samplePO), 0o644); err != nil {
		t.Fatal(err)
	}
	c, err := NewCatalog(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got, err := c.Translate(context.Background(), "Hello world.", "en", "fr"); err != nil || got != "Bonjour le monde." {
		t.Errorf("expected catalog hit, got %q (%v)", got, err)
	}
	if _, err := c.Translate(context.Background(), "Hello world.", "en", "de"); err == nil {
		t.Error("expected error for missing language file")
	}
}

func TestNew(t *testing.T) {
	tr, err := New(Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := tr.(Dummy); !ok {
		t.Errorf("expected dummy default, got %T", tr)
	}
	if tr, _ := New(Options{Provider: "LIBRE"}); tr == nil {
		t.Error("expected libre translator")
	}
	for _, opts := range []Options{
		{Provider: "baidu"},
		{Provider: "backend"},
		{Provider: "catalog", CatalogPath: filepath.Join(t.TempDir(), "missing.po")},
		{Provider: "deepl"},
	} {
		if tr, err := New(opts); err == nil || tr != nil {
			t.Errorf("expected error for %+v", opts)
		}
	}
}

func TestRelay(t *testing.T) {
	if _, ok := Relay(Options{BaiduAppID: "a", BaiduSecret: "s"}).(*Baidu); !ok {
		t.Error("expected baidu relay with credentials")
	}
	if _, ok := Relay(Options{}).(*Libre); !ok {
		t.Error("expected libre relay without credentials")
	}
}

func TestWrap(t *testing.T) {
	calls := 0
	base := Func(func(_ context.Context, text, _, _ string) (string, error) {
		calls++
		return text, nil
	})
	stats := NewStats(0)
	tr := Wrap(base, Options{MaxChars: 12, MaxRetries: 1}, slog.New(slog.NewTextHandler(io.Discard, nil)), stats)

	out, err := tr.Translate(context.Background(), "One two.\n\nThree four.", "en", "fr")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "One two.\n\nThree four." {
		t.Errorf("unexpected output %q", out)
	}
	if calls != 2 {
		t.Errorf("expected 2 upstream calls, got %d", calls)
	}
	if got := stats.Snapshot().Count; got != 2 {
		t.Errorf("expected 2 recorded calls, got %d", got)
	}
}
