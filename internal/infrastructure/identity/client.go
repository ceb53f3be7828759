package identity

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

	"github.com/summitcrest/realty/internal/config"
	"github.com/summitcrest/realty/internal/domain/models"
)

// ErrUserNotFound is returned when the backend API has no such user
var ErrUserNotFound = errors.New("identity user not found")

// User is the subset of the provider's user record the portal stores
type User = models.IdentityUser

type apiUser struct {
	ID                    string `json:"id"`
	FirstName             string `json:"first_name"`
	LastName              string `json:"last_name"`
	PrimaryEmailAddressID string `json:"primary_email_address_id"`
	PrimaryPhoneNumberID  string `json:"primary_phone_number_id"`
	EmailAddresses        []struct {
		ID           string `json:"id"`
		EmailAddress string `json:"email_address"`
	} `json:"email_addresses"`
	PhoneNumbers []struct {
		ID          string `json:"id"`
		PhoneNumber string `json:"phone_number"`
	} `json:"phone_numbers"`
}

// Client calls the provider's backend API with the instance secret key
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
	secretKey  string
}

// NewClient creates a backend API client
func NewClient(cfg config.ClerkConfig) *Client {
	return &Client{
		BaseURL: strings.TrimRight(cfg.APIURL, "/"),
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		secretKey: cfg.SecretKey,
	}
}

// GetUser fetches a user by ID
func (c *Client) GetUser(ctx context.Context, id string) (*User, error) {
	if c.secretKey == "" {
		return nil, ErrNotConfigured
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"/users/"+url.PathEscape(id), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.secretKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("identity request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrUserNotFound
	}
	if resp.StatusCode >= 400 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("identity api error (%d): %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var u apiUser
	if err := json.NewDecoder(resp.Body).Decode(&u); err != nil {
		return nil, fmt.Errorf("failed to decode user: %w", err)
	}

	user := &User{ID: u.ID, FirstName: u.FirstName, LastName: u.LastName}
	for _, e := range u.EmailAddresses {
		if e.ID == u.PrimaryEmailAddressID || user.PrimaryEmail == "" {
			user.PrimaryEmail = e.EmailAddress
		}
	}
	for _, p := range u.PhoneNumbers {
		if p.ID == u.PrimaryPhoneNumberID || user.Phone == "" {
			user.Phone = p.PhoneNumber
		}
	}
	return user, nil
}
