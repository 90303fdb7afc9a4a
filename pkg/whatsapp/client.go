package whatsapp

// WHATSAPP CLIENT (Twilio Messages API)

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
)

const twilioAPIBase = "https://api.twilio.com/2010-04-01"

type Client struct {
	accountSID string
	authToken  string
	from       string // e.g. "whatsapp:+14155238886"
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

func NewClient(accountSID, authToken, from string, logger *zap.Logger) *Client {
	return &Client{
		accountSID: accountSID,
		authToken:  authToken,
		from:       from,
		baseURL:    twilioAPIBase,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: logger,
	}
}

// SendText delivers a WhatsApp text message. to is a phone number with or
// without the "whatsapp:" prefix.
func (c *Client) SendText(ctx context.Context, to, body string) error {
	if !strings.HasPrefix(to, "whatsapp:") {
		to = "whatsapp:" + to
	}

	form := url.Values{}
	form.Set("From", c.from)
	form.Set("To", to)
	form.Set("Body", body)

	req, err := http.NewRequestWithContext(
		ctx,
		"POST",
		fmt.Sprintf("%s/Accounts/%s/Messages.json", c.baseURL, c.accountSID),
		strings.NewReader(form.Encode()),
	)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	req.SetBasicAuth(c.accountSID, c.authToken)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		var apiErr struct {
			Message string `json:"message"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&apiErr)
		return fmt.Errorf("unexpected status %d: %s", resp.StatusCode, apiErr.Message)
	}

	c.logger.Debug("WhatsApp message sent",
		zap.String("to", to),
		zap.Int("length", len(body)))
	return nil
}
