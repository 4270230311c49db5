package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"strings"

	"github.com/Danny-Dasilva/CycleTLS/cycletls"
	http "github.com/Danny-Dasilva/fhttp"
	"github.com/samber/do"

	"boostpanel/internal/interfaces"
	"boostpanel/internal/models"
)

const (
	providerJA3       = "771,4865-4866-4867-49195-49199-49196-49200-52393-52392-49171-49172-156-157-47-53,0-23-65281-10-11-35-16-5-13-18-51-45-43-27-17513,29-23-24,0"
	providerUserAgent = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/101.0.4951.54 Safari/537.36"
)

type loginResponse struct {
	OK    bool   `json:"ok"`
	Token string `json:"token"`
	Error string `json:"error"`
}

type actionResponse struct {
	OK    bool   `json:"ok"`
	Error string `json:"error"`
}

// SessionProviderWeb drives the social platform through its web endpoints. The
// TLS fingerprint has to match a real browser or the platform rejects the
// session outright.
type SessionProviderWeb struct {
	baseURL string
	client  *http.Client
}

func NewSessionProviderWeb(container *do.Injector) (interfaces.SessionProvider, error) {
	baseURL := os.Getenv("SOCIAL_API_BASE_URL")
	if baseURL == "" {
		return nil, errors.New("invalid SOCIAL_API_BASE_URL")
	}

	client := &http.Client{
		Transport: cycletls.NewTransport(providerJA3, providerUserAgent),
	}

	return &SessionProviderWeb{baseURL, client}, nil
}

func (provider *SessionProviderWeb) Validate(ctx context.Context, handle string, credentialRef string) (string, error) {
	form := url.Values{}
	form.Add("handle", handle)
	form.Add("credential", credentialRef)

	response := new(loginResponse)
	err := provider.do(ctx, provider.baseURL+"/auth/login", "", form, response)
	if err != nil {
		return "", err
	}

	if !response.OK || response.Token == "" {
		return "", &interfaces.ProviderError{Kind: models.FAILURE_BANNED, Err: fmt.Errorf("login rejected: %s", response.Error)}
	}
	return response.Token, nil
}

func (provider *SessionProviderWeb) PerformAction(ctx context.Context, sessionToken string, targetURL string, action string, comment string) error {
	form := url.Values{}
	form.Add("action", action)
	form.Add("target", targetURL)
	if comment != "" {
		form.Add("message", comment)
	}

	response := new(actionResponse)
	err := provider.do(ctx, provider.baseURL+"/engage", sessionToken, form, response)
	if err != nil {
		return err
	}

	if !response.OK {
		return &interfaces.ProviderError{Kind: models.FAILURE_TRANSIENT, Err: fmt.Errorf("action rejected: %s", response.Error)}
	}
	return nil
}

func (provider *SessionProviderWeb) do(ctx context.Context, endpoint string, sessionToken string, form url.Values, response any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}

	req.Header.Set("accept", "application/json")
	req.Header.Set("content-type", "application/x-www-form-urlencoded")
	req.Header.Set("user-agent", providerUserAgent)
	req.Header.Set("x-requested-with", "XMLHttpRequest")
	if sessionToken != "" {
		req.Header.Set("authorization", "Bearer "+sessionToken)
	}

	res, err := provider.client.Do(req)
	if err != nil {
		return &interfaces.ProviderError{Kind: models.FAILURE_TRANSIENT, Err: err}
	}
	defer res.Body.Close()

	responseText, err := io.ReadAll(res.Body)
	if err != nil {
		return &interfaces.ProviderError{Kind: models.FAILURE_TRANSIENT, Err: err}
	}

	if res.StatusCode >= 400 {
		return classifyStatus(res.StatusCode, responseText)
	}

	return json.Unmarshal(responseText, response)
}

// classifyStatus maps HTTP failures onto the account state machine's failure
// kinds.
func classifyStatus(status int, body []byte) error {
	err := fmt.Errorf("status %d: %s", status, body)
	switch {
	case status == http.StatusTooManyRequests:
		return &interfaces.ProviderError{Kind: models.FAILURE_RATE_LIMITED, Err: err}
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return &interfaces.ProviderError{Kind: models.FAILURE_BANNED, Err: err}
	default:
		return &interfaces.ProviderError{Kind: models.FAILURE_TRANSIENT, Err: err}
	}
}
