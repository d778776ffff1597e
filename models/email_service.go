package models

import (
	"fmt"
	"strconv"

	"gopkg.in/gomail.v2"
)

type EmailService struct {
	dialer *gomail.Dialer
	from   string
}

func NewEmailService(host, port, user, pass, from string) (*EmailService, error) {
	if host == "" || user == "" || pass == "" {
		return nil, fmt.Errorf("SMTP configuration missing")
	}

	portNum, err := strconv.Atoi(port)
	if err != nil {
		portNum = 587
	}

	return &EmailService{
		dialer: gomail.NewDialer(host, portNum, user, pass),
		from:   from,
	}, nil
}

func (s *EmailService) SendOTPEmail(toEmail, otp string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", toEmail)
	m.SetHeader("Subject", "Password Reset OTP - Toko Online")

	body := fmt.Sprintf(`
<!DOCTYPE html>
<html>
<head>
    <style>
        body { font-family: Arial, sans-serif; background-color: #f4f4f4; padding: 20px; }
        .container { max-width: 600px; margin: 0 auto; background-color: white; padding: 30px; border-radius: 10px; }
        .logo { font-size: 24px; font-weight: bold; color: #0ea5e9; text-align: center; }
        .otp-box { background-color: #f0f9ff; border: 2px dashed #0ea5e9; padding: 20px; text-align: center; margin: 30px 0; border-radius: 8px; }
        .otp-code { font-size: 36px; font-weight: bold; color: #0ea5e9; letter-spacing: 8px; }
        .footer { text-align: center; margin-top: 30px; color: #666; font-size: 12px; }
    </style>
</head>
<body>
    <div class="container">
        <div class="logo">Toko Online</div>
        <h2 style="color: #333;">Password Reset Request</h2>
        <p>Use the code below to reset your password. It expires in 10 minutes.</p>
        <div class="otp-box"><span class="otp-code">%s</span></div>
        <p>If you did not request a password reset, you can ignore this email.</p>
        <div class="footer">Toko Online &middot; this is an automated message</div>
    </div>
</body>
</html>`, otp)

	m.SetBody("text/html", body)

	return s.dialer.DialAndSend(m)
}
