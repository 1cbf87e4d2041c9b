// Package transport is the messaging-channel client: inbound webhook
// payloads, outbound plain and templated replies, and media retrieval.
package transport

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// InboundMessage is one webhook delivery from the messaging provider.
type InboundMessage struct {
	From             string
	Body             string
	MediaURL         string
	MediaContentType string
	ButtonText       string
}

// HasMedia reports whether the message carries an attachment.
func (m InboundMessage) HasMedia() bool {
	return m.MediaURL != ""
}

// Text returns the effective text of the turn: a quick-reply button press
// counts as its label.
func (m InboundMessage) Text() string {
	if m.ButtonText != "" {
		return m.ButtonText
	}
	return m.Body
}

// ParseInbound decodes the provider's form-encoded webhook payload.
func ParseInbound(r *http.Request) (InboundMessage, error) {
	if err := r.ParseForm(); err != nil {
		return InboundMessage{}, fmt.Errorf("parse webhook form: %w", err)
	}
	msg := InboundMessage{
		From:             normalizeHandle(r.FormValue("From")),
		Body:             strings.TrimSpace(r.FormValue("Body")),
		MediaURL:         r.FormValue("MediaUrl0"),
		MediaContentType: r.FormValue("MediaContentType0"),
		ButtonText:       strings.TrimSpace(r.FormValue("ButtonText")),
	}
	if msg.From == "" {
		return InboundMessage{}, fmt.Errorf("webhook payload has no sender")
	}
	return msg, nil
}

func normalizeHandle(from string) string {
	from = strings.TrimSpace(from)
	from = strings.TrimPrefix(from, "whatsapp:")
	return from
}

// Sender delivers outbound messages. An empty reply is never sent; callers
// suppress the turn instead.
type Sender interface {
	SendText(ctx context.Context, to, body string) error
	SendTemplate(ctx context.Context, to, templateID string, vars ...string) error
	SendMedia(ctx context.Context, to, body string, media []byte, contentType string) error
}

// MediaFetcher retrieves an inbound attachment by its provider URL.
type MediaFetcher interface {
	FetchMedia(ctx context.Context, mediaURL string) ([]byte, string, error)
}

// HTTPClient talks to the provider's REST API with basic auth.
type HTTPClient struct {
	baseURL    string
	accountSID string
	authToken  string
	from       string
	client     *http.Client
}

func NewHTTPClient(baseURL, accountSID, authToken, from string) *HTTPClient {
	return &HTTPClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		accountSID: accountSID,
		authToken:  authToken,
		from:       from,
		client:     &http.Client{Timeout: 15 * time.Second},
	}
}

func (c *HTTPClient) SendText(ctx context.Context, to, body string) error {
	if strings.TrimSpace(body) == "" {
		return nil
	}
	form := url.Values{
		"To":   {"whatsapp:" + to},
		"From": {"whatsapp:" + c.from},
		"Body": {body},
	}
	return c.post(ctx, form)
}

func (c *HTTPClient) SendTemplate(ctx context.Context, to, templateID string, vars ...string) error {
	form := url.Values{
		"To":         {"whatsapp:" + to},
		"From":       {"whatsapp:" + c.from},
		"ContentSid": {templateID},
	}
	for i, v := range vars {
		form.Add(fmt.Sprintf("ContentVariables[%d]", i+1), v)
	}
	return c.post(ctx, form)
}

func (c *HTTPClient) SendMedia(ctx context.Context, to, body string, media []byte, contentType string) error {
	// The provider wants a URL, not bytes; media produced locally (charts)
	// goes through the upload endpoint first.
	mediaURL, err := c.upload(ctx, media, contentType)
	if err != nil {
		return err
	}
	form := url.Values{
		"To":       {"whatsapp:" + to},
		"From":     {"whatsapp:" + c.from},
		"Body":     {body},
		"MediaUrl": {mediaURL},
	}
	return c.post(ctx, form)
}

func (c *HTTPClient) post(ctx context.Context, form url.Values) error {
	endpoint := fmt.Sprintf("%s/Accounts/%s/Messages.json", c.baseURL, c.accountSID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("build send request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.SetBasicAuth(c.accountSID, c.authToken)

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("send message: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("send message: provider returned %d: %s", resp.StatusCode, body)
	}
	return nil
}

func (c *HTTPClient) upload(ctx context.Context, media []byte, contentType string) (string, error) {
	endpoint := fmt.Sprintf("%s/Accounts/%s/Media.json", c.baseURL, c.accountSID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(string(media)))
	if err != nil {
		return "", fmt.Errorf("build upload request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)
	req.SetBasicAuth(c.accountSID, c.authToken)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("upload media: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return "", fmt.Errorf("upload media: provider returned %d", resp.StatusCode)
	}
	loc := resp.Header.Get("Location")
	if loc == "" {
		return "", fmt.Errorf("upload media: no location header")
	}
	return loc, nil
}

func (c *HTTPClient) FetchMedia(ctx context.Context, mediaURL string) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, mediaURL, nil)
	if err != nil {
		return nil, "", fmt.Errorf("build media request: %w", err)
	}
	req.SetBasicAuth(c.accountSID, c.authToken)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("fetch media: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("fetch media: provider returned %d", resp.StatusCode)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", fmt.Errorf("read media body: %w", err)
	}
	return data, resp.Header.Get("Content-Type"), nil
}
