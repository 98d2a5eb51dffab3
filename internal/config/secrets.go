package config

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// RequiredKeys are the Infisical secrets a run cannot start without.
var RequiredKeys = []string{
	"MEALIE_URL",
	"MEALIE_API_KEY",
	"WALMART_EMAIL",
	"WALMART_PASSWORD",
	"BROWSERLESS_URL",
	"BROWSERLESS_TOKEN",
}

// Environment variables that configure the Infisical connection itself.
// These are the only settings read from the process environment (or a
// dotenv file); everything else lives in Infisical.
const (
	EnvInfisicalURL          = "INFISICAL_URL"
	EnvInfisicalClientID     = "INFISICAL_CLIENT_ID"
	EnvInfisicalClientSecret = "INFISICAL_CLIENT_SECRET"
	EnvInfisicalProjectID    = "INFISICAL_PROJECT_ID"
)

const secretsRequestTimeout = 15 * time.Second

var (
	// ErrInfisicalEnv is returned when the Infisical connection settings
	// are missing from the environment.
	ErrInfisicalEnv = errors.New("incomplete Infisical environment: set INFISICAL_URL, INFISICAL_CLIENT_ID, INFISICAL_CLIENT_SECRET, and INFISICAL_PROJECT_ID")

	// ErrMissingSecret is returned when a required secret is absent from
	// the Infisical environment.
	ErrMissingSecret = errors.New("missing Infisical secret")

	// ErrPlaceholderSecret is returned when a required secret still holds
	// a placeholder value instead of a real credential.
	ErrPlaceholderSecret = errors.New("Infisical secret is still a placeholder")
)

// Secrets holds the credentials a run needs, fetched from Infisical.
// None of these values are ever written to logs or reports; the logging
// handler additionally redacts anything that looks like one.
type Secrets struct {
	// MealieURL is the base URL of the Mealie instance.
	MealieURL string

	// MealieAPIKey authenticates against the Mealie API.
	MealieAPIKey string

	// WalmartEmail is the retailer account to sign in with.
	WalmartEmail string

	// WalmartPassword is the retailer account password.
	WalmartPassword string

	// BrowserlessURL is the base URL of the browserless Chrome gateway.
	BrowserlessURL string

	// BrowserlessToken authenticates against the browserless gateway.
	BrowserlessToken string
}

// InfisicalClient fetches secrets from an Infisical instance using
// Universal Auth machine identity credentials.
type InfisicalClient struct {
	baseURL      string
	clientID     string
	clientSecret string
	projectID    string
	httpc        *http.Client
}

// NewInfisicalClientFromEnv builds a client from the process environment,
// optionally loading a dotenv file first. An empty envFile is skipped; a
// named one that does not exist is an error so typos surface early.
func NewInfisicalClientFromEnv(envFile string) (*InfisicalClient, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			return nil, fmt.Errorf("load env file %s: %w", envFile, err)
		}
	}

	c := &InfisicalClient{
		baseURL:      strings.TrimRight(os.Getenv(EnvInfisicalURL), "/"),
		clientID:     os.Getenv(EnvInfisicalClientID),
		clientSecret: os.Getenv(EnvInfisicalClientSecret),
		projectID:    os.Getenv(EnvInfisicalProjectID),
		httpc:        &http.Client{Timeout: secretsRequestTimeout},
	}
	if c.baseURL == "" || c.clientID == "" || c.clientSecret == "" || c.projectID == "" {
		return nil, ErrInfisicalEnv
	}
	return c, nil
}

// NewInfisicalClient builds a client from explicit connection settings.
func NewInfisicalClient(baseURL, clientID, clientSecret, projectID string) *InfisicalClient {
	return &InfisicalClient{
		baseURL:      strings.TrimRight(baseURL, "/"),
		clientID:     clientID,
		clientSecret: clientSecret,
		projectID:    projectID,
		httpc:        &http.Client{Timeout: secretsRequestTimeout},
	}
}

// LoadSecrets authenticates, lists all secrets in the environment's root
// path, and validates that every required key is present with a real
// value. Placeholder values ("PLACEHOLDER", "MASKED", empty) are treated
// as missing so a half-provisioned vault fails loudly.
func (c *InfisicalClient) LoadSecrets(ctx context.Context, environment string) (*Secrets, error) {
	token, err := c.login(ctx)
	if err != nil {
		return nil, err
	}
	raw, err := c.listSecrets(ctx, token, environment)
	if err != nil {
		return nil, err
	}

	values := make(map[string]string, len(RequiredKeys))
	for _, key := range RequiredKeys {
		val, ok := raw[key]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingSecret, key)
		}
		switch strings.TrimSpace(val) {
		case "", "PLACEHOLDER", "MASKED":
			return nil, fmt.Errorf("%w: %s", ErrPlaceholderSecret, key)
		}
		values[key] = val
	}

	return &Secrets{
		MealieURL:        strings.TrimRight(values["MEALIE_URL"], "/"),
		MealieAPIKey:     values["MEALIE_API_KEY"],
		WalmartEmail:     values["WALMART_EMAIL"],
		WalmartPassword:  values["WALMART_PASSWORD"],
		BrowserlessURL:   strings.TrimRight(values["BROWSERLESS_URL"], "/"),
		BrowserlessToken: values["BROWSERLESS_TOKEN"],
	}, nil
}

// login exchanges the machine identity for a short-lived access token
// via the Universal Auth endpoint.
func (c *InfisicalClient) login(ctx context.Context) (string, error) {
	body, err := json.Marshal(map[string]string{
		"clientId":     c.clientID,
		"clientSecret": c.clientSecret,
	})
	if err != nil {
		return "", fmt.Errorf("encode Infisical login: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/api/v1/auth/universal-auth/login", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build Infisical login request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpc.Do(req)
	if err != nil {
		return "", fmt.Errorf("infisical login: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return "", fmt.Errorf("infisical login failed with status %d", resp.StatusCode)
	}

	var payload struct {
		AccessToken string `json:"accessToken"`
	}
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&payload); err != nil {
		return "", fmt.Errorf("decode Infisical login response: %w", err)
	}
	if payload.AccessToken == "" {
		return "", errors.New("infisical login returned no access token")
	}
	return payload.AccessToken, nil
}

// listSecrets fetches every secret at the environment's root path.
func (c *InfisicalClient) listSecrets(ctx context.Context, token, environment string) (map[string]string, error) {
	params := url.Values{
		"projectId":   {c.projectID},
		"environment": {environment},
		"secretPath":  {"/"},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.baseURL+"/api/v4/secrets?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build Infisical secrets request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("list Infisical secrets: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return nil, fmt.Errorf("infisical secrets request failed with status %d", resp.StatusCode)
	}

	var payload struct {
		Secrets []struct {
			SecretKey   string `json:"secretKey"`
			SecretValue string `json:"secretValue"`
		} `json:"secrets"`
	}
	if err := json.NewDecoder(io.LimitReader(resp.Body, 4<<20)).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode Infisical secrets response: %w", err)
	}

	secrets := make(map[string]string, len(payload.Secrets))
	for _, s := range payload.Secrets {
		secrets[s.SecretKey] = s.SecretValue
	}
	return secrets, nil
}
