// Package media fetches report photos from the WeChat media API. Media ids
// expire on the remote side after three days, so photos are fetched at read
// time and handed to clients as data URLs rather than stored locally.
package media

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/campus-kit/repair-service/internal/config"
	apperrors "github.com/campus-kit/repair-service/pkg/util"
)

const tokenSafetyMargin = 60 * time.Second

// Fetcher resolves WeChat media ids to inline image payloads.
type Fetcher struct {
	httpClient *http.Client
	mediaURL   string
	tokenURL   string
	appID      string
	appSecret  string
	logger     *zap.Logger

	mu          sync.Mutex
	accessToken string
	expiresAt   time.Time
}

// NewFetcher constructs the fetcher.
func NewFetcher(cfg config.WechatConfig, logger *zap.Logger) *Fetcher {
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Fetcher{
		httpClient: &http.Client{Timeout: timeout},
		mediaURL:   cfg.MediaURL,
		tokenURL:   cfg.TokenURL,
		appID:      cfg.AppID,
		appSecret:  cfg.AppSecret,
		logger:     logger,
	}
}

type accessTokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int64  `json:"expires_in"`
	ErrCode     int    `json:"errcode"`
	ErrMsg      string `json:"errmsg"`
}

func (f *Fetcher) token(ctx context.Context) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.accessToken != "" && time.Now().Before(f.expiresAt) {
		return f.accessToken, nil
	}

	endpoint := fmt.Sprintf("%s?grant_type=client_credential&appid=%s&secret=%s",
		f.tokenURL, url.QueryEscape(f.appID), url.QueryEscape(f.appSecret))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", err
	}
	resp, err := f.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	var tr accessTokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tr); err != nil {
		return "", err
	}
	if tr.AccessToken == "" {
		return "", fmt.Errorf("wechat token endpoint refused: %d %s", tr.ErrCode, tr.ErrMsg)
	}

	f.accessToken = tr.AccessToken
	f.expiresAt = time.Now().Add(time.Duration(tr.ExpiresIn)*time.Second - tokenSafetyMargin)
	return f.accessToken, nil
}

// FetchDataURL downloads the media item and returns it as a base64 data URL.
// Expired or unknown media ids come back from the remote as a JSON error
// body, which is surfaced as a not-found.
func (f *Fetcher) FetchDataURL(ctx context.Context, mediaID string) (string, error) {
	if mediaID == "" {
		return "", apperrors.NewParamsError("mediaId is required")
	}
	token, err := f.token(ctx)
	if err != nil {
		return "", err
	}

	endpoint := fmt.Sprintf("%s?access_token=%s&media_id=%s", f.mediaURL, url.QueryEscape(token), url.QueryEscape(mediaID))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", err
	}
	resp, err := f.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	ct := resp.Header.Get("Content-Type")
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	if strings.Contains(ct, "json") || strings.Contains(ct, "text") {
		f.logger.Warn("wechat media fetch refused", zap.String("media_id", mediaID), zap.ByteString("body", body))
		return "", apperrors.NewNotFound("media")
	}
	if ct == "" {
		ct = "image/jpeg"
	}
	return "data:" + ct + ";base64," + base64.StdEncoding.EncodeToString(body), nil
}
