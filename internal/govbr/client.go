package govbr

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sony/gobreaker"

	"github.com/cadastro-saude/patient-registry/internal/config"
	"github.com/cadastro-saude/patient-registry/internal/model"
	"github.com/cadastro-saude/patient-registry/pkg/metrics"
)

var (
	ErrTokenExchange = errors.New("govbr token exchange failed")
	ErrUserInfo      = errors.New("govbr userinfo request failed")
)

// Provider resolves an authorization code into the identity it was issued for
type Provider interface {
	Exchange(ctx context.Context, code string) (*model.ExternalProfile, error)
}

type Client struct {
	cfg     config.GovBRConfig
	http    *http.Client
	breaker *gobreaker.CircuitBreaker
	metrics *metrics.Metrics
}

func NewClient(cfg config.GovBRConfig, m *metrics.Metrics) *Client {
	return &Client{
		cfg:  cfg,
		http: &http.Client{Timeout: cfg.Timeout},
		breaker: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:        "govbr",
			MaxRequests: 1,
			Interval:    time.Minute,
			Timeout:     30 * time.Second,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= 5
			},
		}),
		metrics: m,
	}
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	IDToken     string `json:"id_token"`
}

// Exchange trades the code for an access token and fetches the user's profile.
// Failures are not retried.
func (c *Client) Exchange(ctx context.Context, code string) (*model.ExternalProfile, error) {
	token, err := c.call(ctx, "token", func(ctx context.Context) (interface{}, error) {
		return c.exchangeCode(ctx, code)
	})
	if err != nil {
		return nil, err
	}

	profile, err := c.call(ctx, "userinfo", func(ctx context.Context) (interface{}, error) {
		return c.userInfo(ctx, token.(string))
	})
	if err != nil {
		return nil, err
	}
	return profile.(*model.ExternalProfile), nil
}

func (c *Client) call(ctx context.Context, op string, fn func(context.Context) (interface{}, error)) (interface{}, error) {
	start := time.Now()
	result, err := c.breaker.Execute(func() (interface{}, error) {
		return fn(ctx)
	})
	c.metrics.ObserveProvider(op, err, time.Since(start))
	return result, err
}

func (c *Client) exchangeCode(ctx context.Context, code string) (string, error) {
	form := url.Values{}
	form.Set("grant_type", "authorization_code")
	form.Set("code", code)
	form.Set("redirect_uri", c.cfg.RedirectURI)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.TokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrTokenExchange, err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.SetBasicAuth(c.cfg.ClientID, c.cfg.ClientSecret)

	var token tokenResponse
	if err := c.do(req, &token); err != nil {
		return "", fmt.Errorf("%w: %v", ErrTokenExchange, err)
	}
	if token.AccessToken == "" {
		return "", fmt.Errorf("%w: empty access token", ErrTokenExchange)
	}
	return token.AccessToken, nil
}

func (c *Client) userInfo(ctx context.Context, accessToken string) (*model.ExternalProfile, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.UserInfoURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUserInfo, err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	var profile model.ExternalProfile
	if err := c.do(req, &profile); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUserInfo, err)
	}
	if profile.Subject == "" || profile.Email == "" {
		return nil, fmt.Errorf("%w: profile without sub or email", ErrUserInfo)
	}
	return &profile, nil
}

func (c *Client) do(req *http.Request, out interface{}) error {
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("unexpected status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
