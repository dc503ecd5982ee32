package services

import (
  "context"
  "fmt"
  "os"

  "github.com/sendgrid/sendgrid-go"
  "github.com/sendgrid/sendgrid-go/helpers/mail"

  "github.com/Mobin-Heydari/Todo-Plus/internal/logger"
  "github.com/Mobin-Heydari/Todo-Plus/internal/templates"
)

type EmailService interface {
  SendEmail(ctx context.Context, toEmail string, subject string, plainText string, htmlContent string) error
  SendVerificationCode(ctx context.Context, toEmail string, code string) error
}

type emailService struct {
  log       *logger.Logger
  client    *sendgrid.Client
  fromEmail string
  fromName  string
}

func NewEmailService(log *logger.Logger) (EmailService, error) {
  serviceLog := log.With("service", "EmailService")
  apiKey := os.Getenv("SENDGRID_API_KEY")
  if apiKey == "" {
    return nil, fmt.Errorf("Missing SENDGRID_API_KEY environment variable")
  }
  fromEmail := os.Getenv("SENDGRID_FROM_EMAIL")
  if fromEmail == "" {
    serviceLog.Warn("SENDGRID_FROM_EMAIL not set; using fallback no-reply@todo-plus.app")
    fromEmail = "no-reply@todo-plus.app"
  }
  client := sendgrid.NewSendClient(apiKey)

  return &emailService{
    log:       serviceLog,
    client:    client,
    fromEmail: fromEmail,
    fromName:  "Todo Plus",
  }, nil
}

func (es *emailService) SendEmail(ctx context.Context, toEmail string, subject string, plainText string, htmlContent string) error {
  from := mail.NewEmail(es.fromName, es.fromEmail)
  to := mail.NewEmail("", toEmail)
  message := mail.NewSingleEmail(from, subject, to, plainText, htmlContent)
  response, err := es.client.SendWithContext(ctx, message)
  if err != nil {
    es.log.Warn("Sendgrid email send failed", "error", err)
    return err
  }
  es.log.Info("Email sent", "to", toEmail, "statusCode", response.StatusCode)
  return nil
}

func (es *emailService) SendVerificationCode(ctx context.Context, toEmail string, code string) error {
  subject := "Your Todo Plus verification code"
  plainText := fmt.Sprintf("Your verification code is %s. It expires in a few minutes.", code)
  htmlContent, err := templates.RenderVerificationHTML(templates.VerificationEmailData{
    Code:          code,
    ExpiryMinutes: 2,
  })
  if err != nil {
    es.log.Warn("Failed to render verification email template, falling back to plain text", "error", err)
    htmlContent = fmt.Sprintf(`<p>Your verification code is <strong>%s</strong>.</p>`, code)
  }
  return es.SendEmail(ctx, toEmail, subject, plainText, htmlContent)
}
