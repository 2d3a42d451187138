package translate

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// DefaultBaiduEndpoint is the Baidu general translation API.
const DefaultBaiduEndpoint = "https://fanyi-api.baidu.com/api/trans/vip/translate"

// Baidu calls the Baidu Fanyi API. Requests are signed with
// md5(appid + q + salt + secret).
type Baidu struct {
	appID      string
	secret     string
	endpoint   string
	httpClient *http.Client
	now        func() time.Time
}

func NewBaidu(appID, secret, endpoint string, timeout time.Duration) (*Baidu, error) {
	if appID == "" || secret == "" {
		return nil, errors.New("baidu: app id and secret are required")
	}
	return &Baidu{
		appID:      appID,
		secret:     secret,
		endpoint:   orDefault(endpoint, DefaultBaiduEndpoint),
		httpClient: newHTTPClient(timeout),
		now:        time.Now,
	}, nil
}

type baiduResponse struct {
	ErrorCode   any    `json:"error_code"`
	ErrorMsg    string `json:"error_msg"`
	TransResult []struct {
		Src string `json:"src"`
		Dst string `json:"dst"`
	} `json:"trans_result"`
}

func (b *Baidu) Translate(ctx context.Context, text, source, target string) (string, error) {
	salt := strconv.FormatInt(b.now().UnixMilli(), 10)
	form := url.Values{
		"q":     {text},
		"from":  {BaiduLang(source)},
		"to":    {BaiduLang(orDefault(target, "en"))},
		"appid": {b.appID},
		"salt":  {salt},
		"sign":  {b.sign(text, salt)},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, b.endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("baidu: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	body, err := do(b.httpClient, req)
	if err != nil {
		return "", fmt.Errorf("baidu: %w", err)
	}

	var resp baiduResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("baidu: decode response: %w", err)
	}
	// error_code arrives as a string or a number; 52000 means success
	if resp.ErrorCode != nil {
		if code := fmt.Sprint(resp.ErrorCode); code != "52000" {
			return "", fmt.Errorf("baidu error %s: %s", code, resp.ErrorMsg)
		}
	}

	parts := make([]string, 0, len(resp.TransResult))
	for _, r := range resp.TransResult {
		parts = append(parts, r.Dst)
	}
	return strings.Join(parts, "\n"), nil
}

func (b *Baidu) sign(q, salt string) string {
	sum := md5.Sum([]byte(b.appID + q + salt + b.secret))
	return hex.EncodeToString(sum[:])
}

// BaiduLang maps editor language codes onto Baidu's codes.
func BaiduLang(code string) string {
	switch code {
	case "", "auto":
		return "auto"
	case "ja":
		return "jp"
	case "ko":
		return "kor"
	}
	return code
}

// Close releases idle connections.
func (b *Baidu) Close() {
	b.httpClient.CloseIdleConnections()
}
