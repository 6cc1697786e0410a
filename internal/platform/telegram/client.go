package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
)

const defaultBaseURL = "https://api.telegram.org"

// Client is a thin Bot API client covering the calls this backend makes:
// outbound messages and Stars invoice links.
type Client struct {
	httpClient *http.Client
	token      string
	baseURL    string
}

// response is the Bot API envelope.
type response struct {
	Ok          bool            `json:"ok"`
	Result      json.RawMessage `json:"result,omitempty"`
	Description string          `json:"description,omitempty"`
}

// InvoiceParams describes a single-item Stars invoice.
type InvoiceParams struct {
	Title       string
	Description string
	Payload     string
	Currency    string
	Amount      int
}

func NewClient(token string) *Client {
	return NewClientWithBaseURL(token, defaultBaseURL)
}

// NewClientWithBaseURL points the client at a different API host; tests use
// it with an httptest server.
func NewClientWithBaseURL(token, baseURL string) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		token:   token,
		baseURL: baseURL,
	}
}

// SendMessage delivers a plain-text message to a chat.
func (c *Client) SendMessage(ctx context.Context, chatID int64, text string) error {
	body := map[string]interface{}{
		"chat_id": chatID,
		"text":    text,
	}
	_, err := c.call(ctx, "sendMessage", body)
	return err
}

// CreateInvoiceLink returns a payment link for a single-item invoice.
func (c *Client) CreateInvoiceLink(ctx context.Context, params InvoiceParams) (string, error) {
	body := map[string]interface{}{
		"title":       params.Title,
		"description": params.Description,
		"payload":     params.Payload,
		"currency":    params.Currency,
		"prices": []map[string]interface{}{
			{"label": params.Title, "amount": params.Amount},
		},
	}

	result, err := c.call(ctx, "createInvoiceLink", body)
	if err != nil {
		return "", err
	}

	var link string
	if err := json.Unmarshal(result, &link); err != nil {
		return "", fmt.Errorf("decode invoice link: %w", err)
	}
	return link, nil
}

func (c *Client) call(ctx context.Context, method string, body interface{}) (json.RawMessage, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal %s request: %w", method, err)
	}

	url := fmt.Sprintf("%s/bot%s/%s", c.baseURL, c.token, method)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("telegram %s: %w", method, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("telegram %s: read body: %w", method, err)
	}

	var apiResp response
	if err := json.Unmarshal(raw, &apiResp); err != nil {
		return nil, fmt.Errorf("telegram %s: decode response: %w", method, err)
	}
	if !apiResp.Ok {
		log.Warn().Str("method", method).Str("description", apiResp.Description).Msg("Telegram API error")
		return nil, fmt.Errorf("telegram %s: %s", method, apiResp.Description)
	}

	return apiResp.Result, nil
}
