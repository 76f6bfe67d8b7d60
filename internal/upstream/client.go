package upstream

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/xiaoxiao0301/listen-stream-radio/pkg/logger"
)

const searchPath = "/json/stations/search"

// ClientConfig 目录客户端配置
type ClientConfig struct {
	BaseURL         string
	UserAgent       string
	Timeout         time.Duration
	RateLimit       float64 // 每秒请求数
	RateBurst       int
	BreakerSettings BreakerSettings
}

// Client Radio Browser 目录客户端（带熔断、限流）
// 单次请求，不做重试；失败由缓存层包装成目录错误
type Client struct {
	baseURL     string
	userAgent   string
	httpClient  *http.Client
	breaker     *CircuitBreaker
	rateLimiter *RateLimiter
	logger      logger.Logger
}

// NewClient 创建目录客户端
func NewClient(config ClientConfig, log logger.Logger) *Client {
	if config.Timeout <= 0 {
		config.Timeout = 10 * time.Second
	}
	if config.UserAgent == "" {
		config.UserAgent = "listen-stream-radio/1.0"
	}
	log = log.WithFields(logger.String("upstream", "radio-browser"))

	return &Client{
		baseURL:   strings.TrimRight(config.BaseURL, "/"),
		userAgent: config.UserAgent,
		httpClient: &http.Client{
			Timeout: config.Timeout,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		breaker:     NewCircuitBreaker(config.BreakerSettings, log),
		rateLimiter: NewRateLimiter(config.RateLimit, config.RateBurst),
		logger:      log,
	}
}

// Search 按名称/标签检索在线电台
// hidebroken=true 始终携带，只返回最近检测可用的电台
func (c *Client) Search(ctx context.Context, params SearchParams) ([]Station, error) {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		c.logger.Warn("Rate limit exceeded")
		return nil, err
	}

	var stations []Station
	err := c.breaker.Execute(func() error {
		body, err := c.get(ctx, searchPath, searchQuery(params))
		if err != nil {
			return err
		}
		if err := json.Unmarshal(body, &stations); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidResponse, err)
		}
		return nil
	})
	if err != nil {
		c.logger.WithContext(ctx).Warn("Station search failed", logger.Error(err))
		return nil, err
	}
	if stations == nil {
		stations = []Station{}
	}
	return stations, nil
}

func searchQuery(params SearchParams) url.Values {
	q := url.Values{}
	if params.Limit != nil {
		q.Set("limit", strconv.Itoa(*params.Limit))
	}
	if params.Name != nil && *params.Name != "" {
		q.Set("name", *params.Name)
	}
	if params.Tag != nil && *params.Tag != "" {
		q.Set("tag", *params.Tag)
	}
	q.Set("hidebroken", "true")
	return q
}

// get 执行单次 GET 请求
func (c *Client) get(ctx context.Context, path string, query url.Values) ([]byte, error) {
	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("create request failed: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response failed: %w", err)
	}

	c.logger.Debug("Directory request",
		logger.String("path", path),
		logger.Int("status", resp.StatusCode),
		logger.Duration("elapsed", time.Since(start)),
	)

	switch {
	case resp.StatusCode >= 500:
		return nil, fmt.Errorf("%w: status code %d", ErrUpstreamUnavailable, resp.StatusCode)
	case resp.StatusCode >= 400:
		return nil, fmt.Errorf("%w: %d", ErrBadStatus, resp.StatusCode)
	}
	return body, nil
}

// BreakerState 熔断器当前状态
func (c *Client) BreakerState() State {
	return c.breaker.State()
}
