package notify

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"path"
	"time"

	"gopkg.in/gomail.v2"
)

// Dispatcher delivers a single intent
type Dispatcher interface {
	Dispatch(ctx context.Context, intent Intent) error
}

// SMTPDispatcher sends intents through an SMTP relay. Photo attachments are
// fetched from their hosted URLs at send time.
type SMTPDispatcher struct {
	dialer     *gomail.Dialer
	from       string
	httpClient *http.Client
}

func NewSMTPDispatcher(host string, port int, username, password, from string) *SMTPDispatcher {
	return &SMTPDispatcher{
		dialer: gomail.NewDialer(host, port, username, password),
		from:   from,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

func (d *SMTPDispatcher) Dispatch(ctx context.Context, intent Intent) error {
	m := gomail.NewMessage()
	m.SetHeader("From", d.from)
	m.SetHeader("To", intent.To)
	m.SetHeader("Subject", intent.Subject)
	m.SetBody("text/html", intent.HTML)

	for _, url := range intent.Attachments {
		url := url
		m.Attach(path.Base(url), gomail.SetCopyFunc(func(w io.Writer) error {
			return d.copyAttachment(ctx, url, w)
		}))
	}

	return d.dialer.DialAndSend(m)
}

func (d *SMTPDispatcher) copyAttachment(ctx context.Context, url string, w io.Writer) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}

	resp, err := d.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("attachment fetch error: status=%d url=%s", resp.StatusCode, url)
	}

	_, err = io.Copy(w, resp.Body)
	return err
}
