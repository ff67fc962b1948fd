package email

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// Client sends welcome mail through an HTTP email API (Resend-style JSON
// endpoint with a bearer key).
type Client struct {
	endpoint string
	apiKey   string
	from     string
	hc       *http.Client
}

func NewClient(endpoint, apiKey, from string, timeout time.Duration) *Client {
	return &Client{
		endpoint: endpoint,
		apiKey:   apiKey,
		from:     from,
		hc: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				Proxy:               http.ProxyFromEnvironment,
				MaxIdleConns:        100,
				IdleConnTimeout:     90 * time.Second,
				TLSHandshakeTimeout: 10 * time.Second,
			},
		},
	}
}

type sendRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
}

func (c *Client) SendWelcome(ctx context.Context, to, firstName string, userID uuid.UUID, referralLink string) error {
	if firstName == "" {
		firstName = "there"
	}

	body, err := json.Marshal(sendRequest{
		From:    c.from,
		To:      []string{to},
		Subject: "Welcome to the waitlist!",
		HTML:    welcomeHTML(firstName, referralLink),
	})
	if err != nil {
		return fmt.Errorf("encode email request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build email request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.hc.Do(req)
	if err != nil {
		return fmt.Errorf("send welcome email: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode >= 400 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("email api returned %d: %s", resp.StatusCode, snippet)
	}
	return nil
}

func welcomeHTML(firstName, referralLink string) string {
	return fmt.Sprintf(`<p>Hi %s!</p>
<p>You're on the waitlist. Share your personal link and move up the ranks:
each friend who joins with it counts toward your unlocks.</p>
<p><a href=%q>%s</a></p>`, firstName, referralLink, referralLink)
}
