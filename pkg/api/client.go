package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"
)

// Error is an application-level failure: the backend answered with
// {success: false}. The server-supplied message is surfaced verbatim when
// present.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}

	return fmt.Sprintf("request failed with status %d", e.Status)
}

// Client talks to the card backend. It performs no retries and sets no
// timeouts of its own; cancellation is the caller's context.
type Client struct {
	base string
	hc   *http.Client
}

// NewClient creates a Client for the backend at the given base URL.
func NewClient(base string) *Client {
	return &Client{
		base: strings.TrimRight(base, "/"),
		hc:   &http.Client{},
	}
}

// BaseURL returns the backend base URL the client was created with.
func (c *Client) BaseURL() string {
	return c.base
}

func (c *Client) doJSON(ctx context.Context, method, path string, payload interface{}) (*response, error) {
	var body io.Reader

	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("error encoding %s %s request: %w", method, path, err)
		}

		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base+path, body)
	if err != nil {
		return nil, fmt.Errorf("error building %s %s request: %w", method, path, err)
	}

	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error calling %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	var envelope response
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, fmt.Errorf("error decoding %s %s response: %w", method, path, err)
	}

	if !envelope.Success {
		log.Warn().Str("path", path).Str("message", envelope.Message).Msg("backend reported failure")

		return nil, &Error{Status: resp.StatusCode, Message: envelope.Message}
	}

	return &envelope, nil
}

// AssignLabel assigns a label to a card.
func (c *Client) AssignLabel(ctx context.Context, cardID, labelID int64, labelName string) error {
	payload := map[string]interface{}{
		"label_id":   labelID,
		"label_name": labelName,
	}

	_, err := c.doJSON(ctx, http.MethodPost, fmt.Sprintf("/api/cards/%d/label", cardID), payload)

	return err
}

// RemoveLabel removes a card's label, returning it to the unsorted group.
func (c *Client) RemoveLabel(ctx context.Context, cardID int64) error {
	_, err := c.doJSON(ctx, http.MethodDelete, fmt.Sprintf("/api/cards/%d/label", cardID), nil)

	return err
}

// CreateLabel creates a new label.
func (c *Client) CreateLabel(ctx context.Context, name, color string) error {
	_, err := c.doJSON(ctx, http.MethodPost, "/api/labels", map[string]string{"name": name, "color": color})

	return err
}

// UpdateLabel renames a label and/or changes its color.
func (c *Client) UpdateLabel(ctx context.Context, id int64, name, color string) error {
	_, err := c.doJSON(ctx, http.MethodPut, fmt.Sprintf("/api/labels/%d", id),
		map[string]string{"name": name, "color": color})

	return err
}

// DeleteLabel deletes a label; the backend moves its cards back to unsorted.
func (c *Client) DeleteLabel(ctx context.Context, id int64) error {
	_, err := c.doJSON(ctx, http.MethodDelete, fmt.Sprintf("/api/labels/%d", id), nil)

	return err
}

// UpdateCard updates a card through the board edit endpoint. The backend
// re-detects the country when the company changes and none is supplied.
func (c *Client) UpdateCard(ctx context.Context, id int64, fields CardFields) error {
	_, err := c.doJSON(ctx, http.MethodPut, fmt.Sprintf("/api/cards/%d", id), fields)

	return err
}

// EditCard updates a card through the preview edit endpoint, which takes the
// field set verbatim.
func (c *Client) EditCard(ctx context.Context, id int64, fields CardFields) error {
	_, err := c.doJSON(ctx, http.MethodPut, fmt.Sprintf("/api/cards/%d/edit", id), fields)

	return err
}

// DeleteCard deletes a card.
func (c *Client) DeleteCard(ctx context.Context, id int64) error {
	_, err := c.doJSON(ctx, http.MethodDelete, fmt.Sprintf("/api/cards/%d", id), nil)

	return err
}

// Preview fetches a card's full detail, including the embedded image.
func (c *Client) Preview(ctx context.Context, id int64) (*Card, error) {
	envelope, err := c.doJSON(ctx, http.MethodGet, fmt.Sprintf("/api/cards/%d/preview", id), nil)
	if err != nil {
		return nil, err
	}

	if envelope.Card == nil {
		return nil, &Error{Message: "preview response contained no card"}
	}

	return envelope.Card, nil
}

// Countries fetches the known (code, flag) pairs.
func (c *Client) Countries(ctx context.Context) ([]Country, error) {
	envelope, err := c.doJSON(ctx, http.MethodGet, "/api/countries", nil)
	if err != nil {
		return nil, err
	}

	return envelope.Countries, nil
}

// Recent fetches the recent-extractions feed.
func (c *Client) Recent(ctx context.Context) ([]Extraction, error) {
	envelope, err := c.doJSON(ctx, http.MethodGet, "/api/recent", nil)
	if err != nil {
		return nil, err
	}

	return envelope.Data, nil
}

// Register requests an API key for the given account details.
func (c *Client) Register(ctx context.Context, username, email, password, usage string) (string, error) {
	payload := map[string]string{
		"username": username,
		"email":    email,
		"password": password,
		"usage":    usage,
	}

	envelope, err := c.doJSON(ctx, http.MethodPost, "/api/auth/register", payload)
	if err != nil {
		return "", err
	}

	return envelope.APIKey, nil
}

// ManagePage fetches the server-rendered board document, the client's source
// of truth for the card data embedded in data-card-data attributes.
func (c *Client) ManagePage(ctx context.Context) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base+"/manage", nil)
	if err != nil {
		return nil, fmt.Errorf("error building manage page request: %w", err)
	}

	resp, err := c.hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error fetching manage page: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()

		return nil, &Error{Status: resp.StatusCode}
	}

	return resp.Body, nil
}

// DownloadExcel streams the Excel export into w.
func (c *Client) DownloadExcel(ctx context.Context, w io.Writer) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base+"/download_excel", nil)
	if err != nil {
		return fmt.Errorf("error building export request: %w", err)
	}

	resp, err := c.hc.Do(req)
	if err != nil {
		return fmt.Errorf("error downloading export: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return &Error{Status: resp.StatusCode}
	}

	if _, err := io.Copy(w, resp.Body); err != nil {
		return fmt.Errorf("error writing export: %w", err)
	}

	return nil
}
