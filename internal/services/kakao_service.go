package services

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

	"github.com/rs/zerolog/log"
)

// KakaoService performs the Kakao login code exchange and profile lookup.
type KakaoService struct {
	clientID     string
	clientSecret string
	redirectURI  string
	authBaseURL  string
	apiBaseURL   string
	client       *http.Client
}

// NewKakaoService creates a new KakaoService.
func NewKakaoService(clientID, clientSecret, redirectURI, authBaseURL, apiBaseURL string) *KakaoService {
	return &KakaoService{
		clientID:     clientID,
		clientSecret: clientSecret,
		redirectURI:  redirectURI,
		authBaseURL:  strings.TrimRight(authBaseURL, "/"),
		apiBaseURL:   strings.TrimRight(apiBaseURL, "/"),
		client:       &http.Client{Timeout: 10 * time.Second},
	}
}

// Enabled reports whether a client ID is configured.
func (s *KakaoService) Enabled() bool {
	return s.clientID != ""
}

// AuthorizeURL returns the Kakao consent page URL for the given state.
func (s *KakaoService) AuthorizeURL(state string) string {
	q := url.Values{}
	q.Set("response_type", "code")
	q.Set("client_id", s.clientID)
	q.Set("redirect_uri", s.redirectURI)
	q.Set("state", state)
	return s.authBaseURL + "/oauth/authorize?" + q.Encode()
}

// KakaoToken is the token endpoint response.
type KakaoToken struct {
	AccessToken  string `json:"access_token"`
	TokenType    string `json:"token_type"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int    `json:"expires_in"`
}

// KakaoUser is the subset of /v2/user/me the store uses.
type KakaoUser struct {
	ID      int64 `json:"id"`
	Account struct {
		Profile struct {
			Nickname string `json:"nickname"`
		} `json:"profile"`
		PhoneNumber string `json:"phone_number"`
		Gender      string `json:"gender"`
		BirthYear   string `json:"birthyear"`
		Birthday    string `json:"birthday"`
	} `json:"kakao_account"`
}

// IDString returns the Kakao user id as stored on the customer.
func (u *KakaoUser) IDString() string {
	return strconv.FormatInt(u.ID, 10)
}

// BirthDate combines birthyear (YYYY) and birthday (MMDD) when both are shared.
func (u *KakaoUser) BirthDate() *time.Time {
	if len(u.Account.BirthYear) != 4 || len(u.Account.Birthday) != 4 {
		return nil
	}
	t, err := time.Parse("20060102", u.Account.BirthYear+u.Account.Birthday)
	if err != nil {
		return nil
	}
	return &t
}

// ExchangeCode trades an authorization code for tokens.
func (s *KakaoService) ExchangeCode(ctx context.Context, code string) (*KakaoToken, error) {
	form := url.Values{}
	form.Set("grant_type", "authorization_code")
	form.Set("client_id", s.clientID)
	form.Set("redirect_uri", s.redirectURI)
	form.Set("code", code)
	if s.clientSecret != "" {
		form.Set("client_secret", s.clientSecret)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.authBaseURL+"/oauth/token", strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded;charset=utf-8")

	var token KakaoToken
	if err := s.do(req, &token); err != nil {
		return nil, fmt.Errorf("kakao token exchange: %w", err)
	}
	if token.AccessToken == "" {
		return nil, fmt.Errorf("kakao token exchange: empty access token")
	}
	return &token, nil
}

// FetchUser loads the profile of the token owner.
func (s *KakaoService) FetchUser(ctx context.Context, accessToken string) (*KakaoUser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.apiBaseURL+"/v2/user/me", nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	var user KakaoUser
	if err := s.do(req, &user); err != nil {
		return nil, fmt.Errorf("kakao user lookup: %w", err)
	}
	if user.ID == 0 {
		return nil, fmt.Errorf("kakao user lookup: missing id")
	}
	return &user, nil
}

func (s *KakaoService) do(req *http.Request, out any) error {
	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return err
	}

	if resp.StatusCode != http.StatusOK {
		log.Warn().Str("component", "kakao").Int("status", resp.StatusCode).
			Str("url", req.URL.Path).Msg("unexpected kakao response")
		return fmt.Errorf("kakao returned status %d", resp.StatusCode)
	}

	return json.Unmarshal(body, out)
}
