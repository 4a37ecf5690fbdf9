// Package managers handles the sending of emails for the verification gate using the Mailgun service
// and the Hermes package for email formatting.
package managers

import (
	"context"
	"os"
	"time"

	"github.com/mailgun/mailgun-go/v4"
	"github.com/matcornic/hermes/v2"
	log "github.com/sirupsen/logrus"
)

// MailMgr is an interface that outlines the contract for email management.
type MailMgr interface {
	SendVerificationMail(email, code string) error
}

// MailManager is a concrete implementation of the MailMgr interface.
// It uses the Mailgun service for sending emails and the Hermes package for formatting emails.
type MailManager struct {
	Hermes  *hermes.Hermes
	Mailgun *mailgun.MailgunImpl
}

var from = "Bookmark Server <no-reply@mail.bookmark-server.tech>"
var environment string

// SendVerificationMail sends the one-time verification code to the given
// address. A dispatch failure is returned to the caller, never swallowed.
func (mm *MailManager) SendVerificationMail(email, code string) error {
	if environment != "production" {
		log.Info("Skipping verification mail in development mode")
		return nil
	}

	mailBody := hermes.Email{
		Body: hermes.Body{
			Name: email,
			Intros: []string{
				"You requested a verification code for Bookmark Server.",
				"The code is valid for five minutes.",
			},
			Actions: []hermes.Action{
				{
					Instructions: "To verify your email address, enter the following code:",
					InviteCode:   code,
				},
			},
			Outros: []string{
				"If you did not request this code, you can safely ignore this mail.",
			},
		},
	}

	emailBody, err := mm.Hermes.GenerateHTML(mailBody)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithDeadline(context.Background(), time.Now().Add(2*time.Second))
	defer func() {
		if err := ctx.Err(); err != nil {
			log.Debug("Context error: ", err)
		}
		cancel()
		log.Debug("Context canceled")
	}()

	message := mm.Mailgun.NewMessage(from, "Verify your email address", "", email)
	message.SetHtml(emailBody)
	_, _, err = mm.Mailgun.Send(ctx, message)
	if err != nil {
		log.Warning("Error sending verification mail: " + err.Error())
		return err
	}
	log.Debug("Verification mail sent to ", email)

	return nil
}

// NewMailManager initializes a new MailManager instance with configured Mailgun and Hermes settings.
// It also checks the runtime environment to determine if emails should be sent.
func NewMailManager() MailMgr {
	log.Info("Initializing mail manager")
	environment = os.Getenv("ENVIRONMENT")

	if environment != "production" {
		log.Println("Running in development mode, email will not be sent to users")
	}

	apiKey := os.Getenv("MAILGUN_API_KEY")
	domain := os.Getenv("MAILGUN_DOMAIN")
	if domain == "" {
		domain = "mail.bookmark-server.tech"
	}
	mailgunInstance := mailgun.NewMailgun(domain, apiKey)

	mm := &MailManager{
		Hermes: &hermes.Hermes{
			Theme:         new(hermes.Default),
			TextDirection: hermes.TDLeftToRight,
			Product: hermes.Product{
				Name:      "Bookmark Server",
				Link:      "https://bookmark-server.tech/",
				Copyright: "© Bookmark Server",
			},
		},
		Mailgun: mailgunInstance,
	}
	log.Info("Initialized mail manager")
	return mm
}
