// Package service contains the services sitting between the HTTP
// handlers and the stores, plus the background cleanup tasks
package service

import (
	"fmt"

	"github.com/akulicka/vocabularapp-sub000/internal/model"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"gopkg.in/gomail.v2"
)

// Mailer delivers a verification challenge to a user. The verification
// service only hands over the user and the challenge id, how the mail
// looks and travels is this collaborator's business
type Mailer interface {
	SendVerification(user *model.User, challengeID string) error
}

// SMTPMailer sends verification mails through a plain SMTP relay
type SMTPMailer struct{}

func (SMTPMailer) SendVerification(user *model.User, challengeID string) error {
	from := viper.GetString("mail.sender_address")
	if user.Email == from {
		return fmt.Errorf("invalid email address")
	}

	scheme := "http"
	if viper.GetBool("host.ssl.enabled") {
		scheme = "https"
	}

	verifLink := fmt.Sprintf("%v://%v/verify?user_id=%v&token=%v",
		scheme, viper.GetString("host.domain"), user.ID, challengeID)

	m := gomail.NewMessage()
	m.SetHeader("From", from)
	m.SetHeader("To", user.Email)
	m.SetHeader("Subject", "Verify your email to start building your vocabulary")
	m.SetBody("text/html", fmt.Sprintf("Click <a href='%v'>here</a> to verify your account.", verifLink))

	d := gomail.NewDialer(
		viper.GetString("mail.host"),
		viper.GetInt("mail.port"),
		from,
		viper.GetString("mail.password"),
	)

	return d.DialAndSend(m)
}

// LogMailer just logs the challenge instead of delivering it. Used in
// development when no SMTP relay is configured
type LogMailer struct{}

func (LogMailer) SendVerification(user *model.User, challengeID string) error {
	zap.L().Info("Verification challenge issued",
		zap.String("userID", user.ID),
		zap.String("challengeID", challengeID),
	)
	return nil
}
