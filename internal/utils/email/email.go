package email

import (
	"fmt"
	"net/smtp"

	"github.com/Dan9191/apartment-model/internal/config"
	"github.com/Dan9191/apartment-model/internal/models"
	"github.com/jordan-wright/email"
	"github.com/sirupsen/logrus"
)

// Sender handles sending emails via SMTP
type Sender struct {
	cfg    *config.Config
	logger *logrus.Logger
	send   func(e *email.Email, addr string, auth smtp.Auth) error
}

// NewSender creates a new email sender
func NewSender(cfg *config.Config, logger *logrus.Logger) *Sender {
	return &Sender{
		cfg:    cfg,
		logger: logger,
		send: func(e *email.Email, addr string, auth smtp.Auth) error {
			return e.Send(addr, auth)
		},
	}
}

// SendRevaluationAlert tells a scenario owner that a key rate change moved the IRR
func (s *Sender) SendRevaluationAlert(to, username string, sc *models.Scenario, previous models.SummaryMetrics) error {
	e := email.NewEmail()
	e.From = s.cfg.SenderEmail
	e.To = []string{to}
	e.Subject = fmt.Sprintf("Scenario %q revalued", sc.Name)
	e.Text = []byte(revaluationBody(username, sc, previous))

	addr := fmt.Sprintf("%s:%s", s.cfg.SMTPHost, s.cfg.SMTPPort)
	var auth smtp.Auth
	if s.cfg.SMTPUsername != "" {
		auth = smtp.PlainAuth("", s.cfg.SMTPUsername, s.cfg.SMTPPassword, s.cfg.SMTPHost)
	}
	if err := s.send(e, addr, auth); err != nil {
		s.logger.Errorf("Failed to send email to %s: %v", to, err)
		return fmt.Errorf("failed to send email: %w", err)
	}

	s.logger.Infof("Email sent to %s: %s", to, e.Subject)
	return nil
}

func revaluationBody(username string, sc *models.Scenario, previous models.SummaryMetrics) string {
	body := fmt.Sprintf("Dear %s,\n\n", username)
	body += fmt.Sprintf(
		"The central bank key rate changed and scenario %q was revalued at %.2f%% interest.\n\n",
		sc.Name, sc.Input.InterestRate,
	)
	body += fmt.Sprintf("IRR: %s -> %s\n", irrText(previous.IRR), irrText(sc.Summary.IRR))
	body += fmt.Sprintf("MOIC: %.2fx -> %.2fx\n", previous.MOIC, sc.Summary.MOIC)
	body += fmt.Sprintf("ROI: %.2f%% -> %.2f%%\n", previous.ROIPercent, sc.Summary.ROIPercent)
	body += "\nBest regards,\nApartment Model"
	return body
}

func irrText(irr models.IRR) string {
	if !irr.Defined() {
		return "undefined"
	}
	return fmt.Sprintf("%.2f%%", irr.Percent)
}
