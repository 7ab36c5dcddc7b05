package client

import (
	"context"
	"fmt"
	"net/http"
	"time"

	log "github.com/sirupsen/logrus"
	"gopkg.in/resty.v1"
)

const sendgridUrl = "https://api.sendgrid.com"

type EmailMessage struct {
	To       string
	ToName   string
	Subject  string
	TextBody string
	HtmlBody string
}

type EmailClient interface {
	Send(ctx context.Context, msg EmailMessage) error
}

// NewEmailClient returns a SendGrid backed client, or a client that only logs
// outgoing messages when apiKey is empty.
func NewEmailClient(apiKey, fromEmail, fromName string) EmailClient {
	if apiKey == "" {
		log.Warn("SENDGRID_API_KEY is not set, emails will be logged only")
		return &logEmailClientImpl{}
	}
	return newSendgridClient(sendgridUrl, apiKey, fromEmail, fromName)
}

func newSendgridClient(baseUrl, apiKey, fromEmail, fromName string) *sendgridClientImpl {
	cl := http.Client{Timeout: time.Second * 30}
	return &sendgridClientImpl{
		baseUrl:   baseUrl,
		apiKey:    apiKey,
		fromEmail: fromEmail,
		fromName:  fromName,
		client:    resty.NewWithClient(&cl),
	}
}

type sendgridClientImpl struct {
	baseUrl   string
	apiKey    string
	fromEmail string
	fromName  string
	client    *resty.Client
}

type sendgridAddress struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

type sendgridPersonalization struct {
	To []sendgridAddress `json:"to"`
}

type sendgridContent struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

type sendgridMail struct {
	Personalizations []sendgridPersonalization `json:"personalizations"`
	From             sendgridAddress           `json:"from"`
	Subject          string                    `json:"subject"`
	Content          []sendgridContent         `json:"content"`
}

func (s sendgridClientImpl) Send(ctx context.Context, msg EmailMessage) error {
	mail := sendgridMail{
		Personalizations: []sendgridPersonalization{{To: []sendgridAddress{{Email: msg.To, Name: msg.ToName}}}},
		From:             sendgridAddress{Email: s.fromEmail, Name: s.fromName},
		Subject:          msg.Subject,
	}
	// text/plain must come before text/html
	if msg.TextBody != "" {
		mail.Content = append(mail.Content, sendgridContent{Type: "text/plain", Value: msg.TextBody})
	}
	if msg.HtmlBody != "" {
		mail.Content = append(mail.Content, sendgridContent{Type: "text/html", Value: msg.HtmlBody})
	}

	resp, err := s.client.R().
		SetContext(ctx).
		SetAuthToken(s.apiKey).
		SetHeader("Content-Type", "application/json").
		SetBody(mail).
		Post(s.baseUrl + "/v3/mail/send")
	if err != nil {
		return fmt.Errorf("failed to send email '%s': %w", msg.Subject, err)
	}
	if resp.StatusCode() != http.StatusAccepted && resp.StatusCode() != http.StatusOK {
		return fmt.Errorf("failed to send email '%s': status code %d %s", msg.Subject, resp.StatusCode(), resp.Body())
	}
	log.Debugf("Email '%s' sent to %s", msg.Subject, msg.To)
	return nil
}

type logEmailClientImpl struct{}

func (l logEmailClientImpl) Send(ctx context.Context, msg EmailMessage) error {
	log.Infof("Email '%s' to %s was not sent: no email provider configured", msg.Subject, msg.To)
	log.Debugf("Email body: %s", msg.TextBody)
	return nil
}
