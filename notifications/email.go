package notifications

import (
	"context"
	"fmt"
	"html"
	"strings"

	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

type mailClient interface {
	SendWithContext(ctx context.Context, email *mail.SGMailV3) (*rest.Response, error)
}

// EmailSink sends events as transactional email through SendGrid.
type EmailSink struct {
	client   mailClient
	fromAddr string
	fromName string
}

// NewEmailSink creates a SendGrid backed sink.
func NewEmailSink(apiKey, fromAddr, fromName string) *EmailSink {
	return &EmailSink{
		client:   sendgrid.NewSendClient(apiKey),
		fromAddr: fromAddr,
		fromName: fromName,
	}
}

func (s *EmailSink) Name() string { return "email" }

func (s *EmailSink) Send(ctx context.Context, evt Event) error {
	if evt.To == "" {
		return fmt.Errorf("event %s has no recipient", evt.Kind)
	}
	subject, plain, body, err := renderEmail(evt)
	if err != nil {
		return err
	}

	from := mail.NewEmail(s.fromName, s.fromAddr)
	to := mail.NewEmail(evt.ToName, evt.To)
	msg := mail.NewSingleEmail(from, subject, to, plain, body)

	resp, err := s.client.SendWithContext(ctx, msg)
	if err != nil {
		return fmt.Errorf("sendgrid: %w", err)
	}
	if resp.StatusCode >= 300 {
		return fmt.Errorf("sendgrid: status %d: %s", resp.StatusCode, resp.Body)
	}
	return nil
}

// renderEmail returns subject, plain text and HTML bodies for an event.
func renderEmail(evt Event) (string, string, string, error) {
	name := evt.ToName
	title := evt.CourseTitle
	date := evt.OccurredAt.UTC().Format("2006-01-02 15:04")

	switch evt.Kind {
	case PurchaseConfirmed:
		subject := "Purchase Confirmation - " + title
		library := ""
		libraryHTML := ""
		if evt.HasAttachment {
			library = "You can download the course from your Library.\n"
			libraryHTML = `<p>You can access your course in the <strong>Library</strong> section of the app.</p>`
		}
		plain := fmt.Sprintf("Hello, %s!\n\nThank you for your purchase!\n\nCourse Information:\n- Title: %s\n- Price: €%s\n- Purchase Date: %s\n\n%s\nBest regards,\nKursai Team",
			name, title, evt.Price, date, library)
		body := fmt.Sprintf(`
		<p>Hello, <strong>%s</strong>!</p>
		<p>Thank you for your purchase on Kursai Platform!</p>
		<div class="info-box">
			<p><strong>Title:</strong> %s</p>
			<p><strong>Price:</strong> €%s</p>
			<p><strong>Purchase Date:</strong> %s</p>
		</div>
		%s
		<p>If you have any questions, feel free to contact us.</p>
	`, html.EscapeString(name), html.EscapeString(title), html.EscapeString(evt.Price), date, libraryHTML)
		return subject, plain, getEmailTemplate("Purchase Successful!", body), nil

	case CourseCreated:
		subject := "Your Course Has Been Created Successfully!"
		plain := fmt.Sprintf("Hello, %s!\n\nYour course %q has been successfully created and is now visible on Kursai Platform.\n\nOther users can now browse and purchase your course.\n\nBest regards,\nKursai Team",
			name, title)
		body := fmt.Sprintf(`
		<p>Hello, <strong>%s</strong>!</p>
		<p>Your course <strong>"%s"</strong> has been successfully created and is now live on the platform.</p>
		<p>Other users can now browse and purchase your course!</p>
		<p>Good luck!</p>
	`, html.EscapeString(name), html.EscapeString(title))
		return subject, plain, getEmailTemplate("Course Created!", body), nil

	case RatingReceived:
		subject := "New Rating for Your Course: " + title
		stars := strings.Repeat("★", evt.Score)
		comment := ""
		commentHTML := ""
		if evt.Review != "" {
			comment = "Comment: " + evt.Review + "\n"
			commentHTML = fmt.Sprintf(`
		<div class="info-box">
			<p><strong>Comment:</strong></p>
			<p>%s</p>
		</div>`, html.EscapeString(evt.Review))
		}
		plain := fmt.Sprintf("Hello!\n\nYour course %q has received a new rating!\n\nRating: %s (%d/5)\n%s\nBest regards,\nKursai Team",
			title, stars, evt.Score, comment)
		body := fmt.Sprintf(`
		<p>Hello!</p>
		<p>Your course <strong>"%s"</strong> has received a new rating!</p>
		<div class="rating">%s (%d/5)</div>
		%s
		<p>Keep up the great work!</p>
	`, html.EscapeString(title), stars, evt.Score, commentHTML)
		return subject, plain, getEmailTemplate("New Rating!", body), nil
	}
	return "", "", "", fmt.Errorf("no email template for %s", evt.Kind)
}

// getEmailTemplate wraps body content in the shared layout
func getEmailTemplate(title string, bodyContent string) string {
	return fmt.Sprintf(`
	<!DOCTYPE html>
	<html>
	<head>
		<style>
			body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
			.container { max-width: 600px; margin: 0 auto; padding: 20px; }
			.header { background-color: #4CAF50; color: white; padding: 20px; text-align: center; }
			.content { background-color: #f9f9f9; padding: 20px; margin-top: 20px; }
			.info-box { background-color: white; padding: 15px; margin: 15px 0; border-left: 4px solid #4CAF50; }
			.rating { font-size: 24px; text-align: center; margin: 20px 0; }
			.footer { text-align: center; margin-top: 20px; font-size: 12px; color: #666; }
		</style>
	</head>
	<body>
		<div class="container">
			<div class="header">
				<h1>%s</h1>
			</div>
			<div class="content">
				%s
			</div>
			<div class="footer">
				&copy; Kursai Platform | All rights reserved
			</div>
		</div>
	</body>
	</html>
	`, title, bodyContent)
}
