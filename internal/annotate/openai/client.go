// Package openai implements annotate.Provider against the OpenAI
// chat/completions API using a vision-capable model.
package openai

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/premdoors/qc-tracker/internal/common"
)

type Client struct {
	cfg        common.AnnotationConfig
	httpClient *http.Client
	log        *slog.Logger
}

// NewClient builds an annotation client from config. Callers should select
// annotate.Disabled instead when the API key is empty.
func NewClient(cfg common.AnnotationConfig, log *slog.Logger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 45 * time.Second
	}
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: timeout},
		log:        log,
	}
}

// Describe sends the image plus an instruction naming the checklist item and
// returns the model's text. Empty content is treated as a failure.
func (c *Client) Describe(ctx context.Context, image []byte, mimeType, itemName string) (string, error) {
	rid := uuid.New().String()
	start := time.Now()

	if mimeType == "" {
		mimeType = "image/jpeg"
	}
	c.log.Info("annotate.start",
		"req_id", rid,
		"model", c.cfg.Model,
		"item", itemName,
		"image_bytes", len(image),
		"mime", mimeType,
	)

	prompt := fmt.Sprintf(
		"Analyze this image for a quality control inspection. The checklist item is %q. "+
			"Describe any defects or issues you see. Be concise and professional.", itemName)
	dataURI := "data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(image)

	body := map[string]any{
		"model":       c.cfg.Model,
		"temperature": c.cfg.Temperature,
		"messages": []map[string]any{
			{
				"role": "user",
				"content": []map[string]any{
					{"type": "image_url", "image_url": map[string]any{"url": dataURI}},
					{"type": "text", "text": prompt},
				},
			},
		},
	}

	endpoint := strings.TrimRight(c.cfg.BaseURL, "/") + "/chat/completions"
	raw, httpErr := c.post(ctx, endpoint, body)
	if httpErr != nil {
		c.log.Error("annotate.http_error",
			"req_id", rid, "error", httpErr,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return "", fmt.Errorf("%w: %v", common.ErrAnnotationFailed, httpErr)
	}

	var cc struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(raw, &cc); err != nil {
		c.log.Error("annotate.decode_error",
			"req_id", rid, "error", err, "raw_bytes", len(raw),
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return "", fmt.Errorf("%w: decode response: %v", common.ErrAnnotationFailed, err)
	}
	if len(cc.Choices) == 0 {
		c.log.Error("annotate.no_choices",
			"req_id", rid,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return "", fmt.Errorf("%w: no choices in response", common.ErrAnnotationFailed)
	}

	text := strings.TrimSpace(cc.Choices[0].Message.Content)
	if text == "" {
		c.log.Error("annotate.empty_content",
			"req_id", rid,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return "", fmt.Errorf("%w: no content generated", common.ErrAnnotationFailed)
	}

	c.log.Info("annotate.ok",
		"req_id", rid,
		"item", itemName,
		"text_len", len(text),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return text, nil
}

func (c *Client) post(ctx context.Context, url string, body map[string]any) ([]byte, error) {
	b, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(b))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("openai http error: %w", err)
	}
	defer func(body io.ReadCloser) {
		if err := body.Close(); err != nil {
			c.log.Warn("openai response body close error", "error", err)
		}
	}(resp.Body)

	buf := new(bytes.Buffer)
	_, _ = buf.ReadFrom(resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("openai status %d: %s", resp.StatusCode, buf.String())
	}
	return buf.Bytes(), nil
}
