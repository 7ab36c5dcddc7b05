package service

import (
	"bytes"
	"fmt"
	htmltemplate "html/template"
	texttemplate "text/template"

	"github.com/Netcracker/qubership-roadmap-service/client"
)

type EmailKind string

const (
	EmailWelcome       EmailKind = "welcome"
	EmailVerification  EmailKind = "verification"
	EmailPasswordReset EmailKind = "passwordReset"
)

const otpExpirationMinutes = 10

const emailProductName = "CodeLyft"

type emailData struct {
	Name       string
	Otp        string
	ExpiresMin int
	Product    string
}

type emailTemplate struct {
	subject string
	text    *texttemplate.Template
	html    *htmltemplate.Template
}

const emailHtmlLayout = `<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>{{.Title}}</title></head>
<body style="font-family: 'Segoe UI', Tahoma, sans-serif; color: #111827; background-color: #F9F9F9;">
<div style="max-width: 600px; margin: 0 auto; padding: 20px; background-color: #ffffff; border-radius: 12px;">
<h1 style="color: #4F46E5;">{{.Title}}</h1>
{{template "body" .Data}}
<p>Best regards,<br>The {{.Data.Product}} Team</p>
</div>
</body>
</html>`

var emailTemplates = map[EmailKind]emailTemplate{
	EmailWelcome: makeEmailTemplate("Welcome to "+emailProductName,
		`Hello {{.Name}},

Welcome to {{.Product}}! Your account has been created.
Generate your first learning roadmap and track your progress topic by topic.

Best regards,
The {{.Product}} Team
`,
		`<p>Hello {{.Name}},</p>
<p>Welcome to {{.Product}}! Your account has been created.</p>
<p>Generate your first learning roadmap and track your progress topic by topic.</p>`),
	EmailVerification: makeEmailTemplate("Verify Your Email Address",
		`Hello {{.Name}},

Your 4-digit verification code is: {{.Otp}}
This code will expire in {{.ExpiresMin}} minutes.

Best regards,
The {{.Product}} Team
`,
		`<p>Hello {{.Name}},</p>
<p>Please use the following 4-digit code to verify your email address:</p>
<p style="font-size: 42px; font-weight: bold; letter-spacing: 10px; color: #4F46E5;">{{.Otp}}</p>
<p>This code will expire in <strong>{{.ExpiresMin}} minutes</strong>.</p>`),
	EmailPasswordReset: makeEmailTemplate("Password Reset Request",
		`Hello {{.Name}},

You have requested to reset your password for your {{.Product}} account.
Your 4-digit OTP code is: {{.Otp}}
This code will expire in {{.ExpiresMin}} minutes.

If you did not request a password reset, please ignore this email.

Best regards,
The {{.Product}} Team
`,
		`<p>Hello {{.Name}},</p>
<p>You have requested to reset your password for your {{.Product}} account.</p>
<p>Please use the following 4-digit code to reset your password:</p>
<p style="font-size: 42px; font-weight: bold; letter-spacing: 10px; color: #4F46E5;">{{.Otp}}</p>
<p>This code will expire in <strong>{{.ExpiresMin}} minutes</strong>.</p>
<p>If you did not request a password reset, please ignore this email.</p>`),
}

func makeEmailTemplate(subject string, text string, htmlBody string) emailTemplate {
	html := htmltemplate.Must(htmltemplate.New("layout").Parse(emailHtmlLayout))
	htmltemplate.Must(html.New("body").Parse(htmlBody))
	return emailTemplate{
		subject: subject,
		text:    texttemplate.Must(texttemplate.New("text").Parse(text)),
		html:    html,
	}
}

// RenderEmail builds the message of the given kind addressed to the user.
func RenderEmail(kind EmailKind, to string, name string, otp string) (client.EmailMessage, error) {
	tpl, ok := emailTemplates[kind]
	if !ok {
		return client.EmailMessage{}, fmt.Errorf("unknown email template %s", kind)
	}
	data := emailData{Name: name, Otp: otp, ExpiresMin: otpExpirationMinutes, Product: emailProductName}

	var text bytes.Buffer
	if err := tpl.text.Execute(&text, data); err != nil {
		return client.EmailMessage{}, fmt.Errorf("failed to render %s email text: %w", kind, err)
	}
	var html bytes.Buffer
	err := tpl.html.ExecuteTemplate(&html, "layout", struct {
		Title string
		Data  emailData
	}{Title: tpl.subject, Data: data})
	if err != nil {
		return client.EmailMessage{}, fmt.Errorf("failed to render %s email html: %w", kind, err)
	}
	return client.EmailMessage{
		To:       to,
		ToName:   name,
		Subject:  tpl.subject,
		TextBody: text.String(),
		HtmlBody: html.String(),
	}, nil
}
