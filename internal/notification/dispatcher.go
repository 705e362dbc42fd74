package notification

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/fadilmartias/talent-assessment/internal/config"
	"github.com/go-resty/resty/v2"
)

type Dispatcher interface {
	Send(ctx context.Context, to, subject, html string) error
}

// HTTPDispatcher delivers through a transactional mail HTTP API.
type HTTPDispatcher struct {
	from   string
	apiKey string
	client *resty.Client
}

func NewHTTPDispatcher(cfg *config.MailConfig) *HTTPDispatcher {
	return &HTTPDispatcher{
		from:   cfg.From,
		apiKey: cfg.APIKey,
		client: resty.New().
			SetBaseURL(cfg.APIURL).
			SetTimeout(10 * time.Second).
			SetRetryCount(2).
			SetRetryWaitTime(500 * time.Millisecond),
	}
}

func (d *HTTPDispatcher) Send(ctx context.Context, to, subject, html string) error {
	resp, err := d.client.R().
		SetContext(ctx).
		SetAuthToken(d.apiKey).
		SetBody(map[string]string{
			"from":    d.from,
			"to":      to,
			"subject": subject,
			"html":    html,
		}).
		Post("")
	if err != nil {
		return fmt.Errorf("mail api request failed: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("mail api returned %d", resp.StatusCode())
	}
	return nil
}

// LogDispatcher only logs; used when no mail API is configured.
type LogDispatcher struct{}

func (LogDispatcher) Send(ctx context.Context, to, subject, html string) error {
	log.Printf("notification (not delivered): to=%s subject=%q", to, subject)
	return nil
}

func NewDispatcher() Dispatcher {
	cfg := config.LoadMailConfig()
	if cfg.APIURL == "" {
		log.Println("MAIL_API_URL not set, notifications will only be logged")
		return LogDispatcher{}
	}
	return NewHTTPDispatcher(cfg)
}
