package utils

import (
	"bytes"
	"fmt"
	"html/template"
	"strconv"

	"github.com/mmhmddd/PowerEV-Server/config"

	gomail "gopkg.in/gomail.v2"
)

const resetPasswordTemplate = `<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; color: #333;">
  <div style="max-width: 600px; margin: 0 auto; padding: 20px;">
    <div style="background-color: #4CAF50; color: white; padding: 20px; text-align: center;">
      <h2>PowerEV</h2>
    </div>
    <div style="background-color: #f9f9f9; padding: 30px;">
      <p>Hello,</p>
      <p>You requested a password reset. Click the button below to choose a new password.
      The link expires in 10 minutes.</p>
      <p style="text-align: center;">
        <a href="{{.ResetURL}}" style="display: inline-block; padding: 12px 30px; background-color: #4CAF50; color: white; text-decoration: none;">Reset Password</a>
      </p>
      <p>If you did not request this, you can safely ignore this email.</p>
    </div>
  </div>
</body>
</html>`

type Mailer struct {
	host     string
	port     int
	user     string
	password string
	from     string
	frontend string
	tmpl     *template.Template
}

func NewMailer() *Mailer {
	port, err := strconv.Atoi(config.GetEnv("SMTP_PORT", "465"))
	if err != nil {
		port = 465
	}
	return &Mailer{
		host:     config.GetEnv("SMTP_HOST", "smtp.gmail.com"),
		port:     port,
		user:     config.GetEnv("EMAIL_USER", ""),
		password: config.GetEnv("EMAIL_APP_PASSWORD", ""),
		from:     config.GetEnv("EMAIL_FROM", "PowerEV <no-reply@powerev.com>"),
		frontend: config.GetEnv("FRONTEND_URL", "http://localhost:4200"),
		tmpl:     template.Must(template.New("reset").Parse(resetPasswordTemplate)),
	}
}

// SendResetPasswordEmail mails the raw reset token as a frontend link.
func (m *Mailer) SendResetPasswordEmail(to, resetToken string) error {
	var body bytes.Buffer
	data := struct{ ResetURL string }{
		ResetURL: fmt.Sprintf("%s/reset-password/%s", m.frontend, resetToken),
	}
	if err := m.tmpl.Execute(&body, data); err != nil {
		return fmt.Errorf("render reset email: %w", err)
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", "Password Reset Request - PowerEV")
	msg.SetBody("text/html", body.String())

	d := gomail.NewDialer(m.host, m.port, m.user, m.password)
	d.SSL = m.port == 465
	return d.DialAndSend(msg)
}
