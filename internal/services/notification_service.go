// internal/services/notification_service.go
package services

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"net/smtp"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/pujaya/auction-backend/internal/config"
)

// NotificationDispatcher delivers end-user messages for auction lifecycle
// events. Dispatch is best-effort: callers invoke it after the state change is
// durable and must never roll back a commit because delivery failed.
type NotificationDispatcher interface {
	AuctionCreated(ctx context.Context, email, name, auctionTitle string, startingPrice int64, endDate time.Time) error
	AuctionUpdated(ctx context.Context, email, name, auctionTitle string) error
	AuctionDeleted(ctx context.Context, email, name, auctionTitle string) error
	AuctionEnded(ctx context.Context, email, name, auctionTitle string) error
	BidPlaced(ctx context.Context, email, name, auctionTitle, bidderName string, amount int64) error
}

type NotificationService struct {
	config *config.Config
}

type EmailTemplate struct {
	Subject string
	Body    string
}

func NewNotificationService(config *config.Config) *NotificationService {
	return &NotificationService{config: config}
}

func (s *NotificationService) AuctionCreated(ctx context.Context, email, name, auctionTitle string, startingPrice int64, endDate time.Time) error {
	return s.send(ctx, email, "auction_created", map[string]interface{}{
		"UserName":      name,
		"AuctionTitle":  auctionTitle,
		"StartingPrice": startingPrice,
		"EndDate":       endDate.Format("Monday, January 2, 2006 15:04"),
	})
}

func (s *NotificationService) AuctionUpdated(ctx context.Context, email, name, auctionTitle string) error {
	return s.send(ctx, email, "auction_updated", map[string]interface{}{
		"UserName":     name,
		"AuctionTitle": auctionTitle,
	})
}

func (s *NotificationService) AuctionDeleted(ctx context.Context, email, name, auctionTitle string) error {
	return s.send(ctx, email, "auction_deleted", map[string]interface{}{
		"UserName":     name,
		"AuctionTitle": auctionTitle,
	})
}

func (s *NotificationService) AuctionEnded(ctx context.Context, email, name, auctionTitle string) error {
	return s.send(ctx, email, "auction_ended", map[string]interface{}{
		"UserName":     name,
		"AuctionTitle": auctionTitle,
	})
}

func (s *NotificationService) BidPlaced(ctx context.Context, email, name, auctionTitle, bidderName string, amount int64) error {
	return s.send(ctx, email, "bid_placed", map[string]interface{}{
		"UserName":     name,
		"AuctionTitle": auctionTitle,
		"BidderName":   bidderName,
		"Amount":       amount,
	})
}

// SendWelcomeEmail greets a newly registered user.
func (s *NotificationService) SendWelcomeEmail(ctx context.Context, email, name string) error {
	return s.send(ctx, email, "welcome", map[string]interface{}{
		"UserName": name,
	})
}

// Helper methods

func (s *NotificationService) send(ctx context.Context, to, templateType string, data map[string]interface{}) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	tmpl := s.getEmailTemplate(templateType)
	body, err := s.renderTemplate(tmpl.Body, data)
	if err != nil {
		return fmt.Errorf("failed to render email template: %w", err)
	}

	return s.sendEmail(to, tmpl.Subject, body)
}

func (s *NotificationService) sendEmail(to, subject, body string) error {
	if s.config.Email.SMTPHost == "" {
		// Email not configured, just log
		logrus.WithFields(logrus.Fields{"to": to, "subject": subject}).Info("Email skipped (SMTP not configured)")
		return nil
	}

	auth := smtp.PlainAuth("", s.config.Email.SMTPUsername, s.config.Email.SMTPPassword, s.config.Email.SMTPHost)

	msg := []byte(fmt.Sprintf("To: %s\r\nSubject: %s\r\nContent-Type: text/html; charset=\"UTF-8\"\r\n\r\n%s", to, subject, body))

	addr := fmt.Sprintf("%s:%s", s.config.Email.SMTPHost, s.config.Email.SMTPPort)
	return smtp.SendMail(addr, auth, s.config.Email.FromEmail, []string{to}, msg)
}

func (s *NotificationService) renderTemplate(templateStr string, data interface{}) (string, error) {
	tmpl, err := template.New("email").Parse(templateStr)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}

	return buf.String(), nil
}

func (s *NotificationService) getEmailTemplate(templateType string) EmailTemplate {
	templates := map[string]EmailTemplate{
		"welcome": {
			Subject: "Welcome to PujaYa!",
			Body: `
<!DOCTYPE html>
<html>
<body>
	<h2>Welcome {{.UserName}}!</h2>
	<p>Thank you for joining PujaYa. Start exploring live auctions right away.</p>
	<p>Best regards,<br>The PujaYa Team</p>
</body>
</html>`,
		},
		"auction_created": {
			Subject: "Your Auction Is Now Live on PujaYa!",
			Body: `
<!DOCTYPE html>
<html>
<body>
	<h2>Hello {{.UserName}},</h2>
	<p>Your auction "{{.AuctionTitle}}" is now live with a starting price of {{.StartingPrice}}.</p>
	<p>It will close on {{.EndDate}}.</p>
	<p>Best regards,<br>The PujaYa Team</p>
</body>
</html>`,
		},
		"auction_updated": {
			Subject: "Your Auction Has Been Updated on PujaYa",
			Body: `
<!DOCTYPE html>
<html>
<body>
	<h2>Hello {{.UserName}},</h2>
	<p>Your auction "{{.AuctionTitle}}" has been updated.</p>
	<p>Best regards,<br>The PujaYa Team</p>
</body>
</html>`,
		},
		"auction_deleted": {
			Subject: "Your Auction Has Been Deleted on PujaYa",
			Body: `
<!DOCTYPE html>
<html>
<body>
	<h2>Hello {{.UserName}},</h2>
	<p>Your auction "{{.AuctionTitle}}" has been deleted.</p>
	<p>Best regards,<br>The PujaYa Team</p>
</body>
</html>`,
		},
		"auction_ended": {
			Subject: "Auction Ended on PujaYa",
			Body: `
<!DOCTYPE html>
<html>
<body>
	<h2>Hello {{.UserName}},</h2>
	<p>The auction "{{.AuctionTitle}}" has ended. Check the results on PujaYa.</p>
	<p>Best regards,<br>The PujaYa Team</p>
</body>
</html>`,
		},
		"bid_placed": {
			Subject: "New Bid on Your Auction!",
			Body: `
<!DOCTYPE html>
<html>
<body>
	<h2>Hello {{.UserName}},</h2>
	<p>{{.BidderName}} placed a bid of {{.Amount}} on your auction "{{.AuctionTitle}}".</p>
	<p>Best regards,<br>The PujaYa Team</p>
</body>
</html>`,
		},
	}

	if tmpl, exists := templates[templateType]; exists {
		return tmpl
	}

	return EmailTemplate{
		Subject: "Notification",
		Body:    "<p>{{.Message}}</p>",
	}
}
