package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"
)

// Notifier posts plain-text messages to a Feishu group webhook. Delivery
// is best effort: a non-200 response is logged with its body and returned
// as an error, but never retried.
type Notifier struct {
	url    string
	client *http.Client
}

func New(url string) *Notifier {
	return &Notifier{
		url:    url,
		client: &http.Client{Timeout: 10 * time.Second},
	}
}

type textMessage struct {
	MsgType string      `json:"msg_type"`
	Content textContent `json:"content"`
}

type textContent struct {
	Text string `json:"text"`
}

func (n *Notifier) Send(ctx context.Context, text string) error {
	body, err := json.Marshal(textMessage{MsgType: "text", Content: textContent{Text: text}})
	if err != nil {
		return fmt.Errorf("marshal webhook payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("post webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		log.Printf("webhook rejected with status %d: %s", resp.StatusCode, respBody)
		return fmt.Errorf("webhook status %d", resp.StatusCode)
	}
	return nil
}
