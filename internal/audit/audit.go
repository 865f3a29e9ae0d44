// Package audit indexes published events into Elasticsearch.
package audit

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/elastic/go-elasticsearch/v9"
)

const DefaultIndex = "giftcard-audit"

type ClientConfig struct {
	URL      string
	Username string
	Password string
}

// NewClient connects and checks the cluster answers Info.
func NewClient(ctx context.Context, cfg ClientConfig) (*elasticsearch.Client, error) {
	client, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: []string{cfg.URL},
		Username:  cfg.Username,
		Password:  cfg.Password,
	})
	if err != nil {
		return nil, fmt.Errorf("elasticsearch: new client: %w", err)
	}

	res, err := client.Info(client.Info.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("elasticsearch: info: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		body, _ := io.ReadAll(res.Body)
		return nil, fmt.Errorf("elasticsearch: info returned %s: %s", res.Status(), body)
	}
	return client, nil
}

type entry struct {
	Topic     string    `json:"topic"`
	Key       string    `json:"key"`
	Event     any       `json:"event"`
	Timestamp time.Time `json:"@timestamp"`
}

// Log writes one document per event. It satisfies the publisher interface
// used by the services.
type Log struct {
	client *elasticsearch.Client
	index  string
	now    func() time.Time
}

func NewLog(client *elasticsearch.Client, index string) *Log {
	if index == "" {
		index = DefaultIndex
	}
	return &Log{client: client, index: index, now: time.Now}
}

func (l *Log) PublishEvent(ctx context.Context, topic, key string, event any) error {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(entry{
		Topic:     topic,
		Key:       key,
		Event:     event,
		Timestamp: l.now().UTC(),
	}); err != nil {
		return fmt.Errorf("audit: encode: %w", err)
	}

	res, err := l.client.Index(l.index, &buf, l.client.Index.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("audit: index: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		body, _ := io.ReadAll(res.Body)
		return fmt.Errorf("audit: index returned %s: %s", res.Status(), body)
	}
	return nil
}
