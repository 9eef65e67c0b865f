package service

import (
	"fmt"

	"github.com/examplecore/account-service/internal/core/ports"
)

func verificationMessage(appURL, email, token string) ports.EmailMessage {
	link := fmt.Sprintf("%s/account/verifyEmail?token=%s", appURL, token)
	return ports.EmailMessage{
		To:      []string{email},
		Subject: "Verify Your Email Address",
		HTMLBody: fmt.Sprintf(
			`<p>Please click the following link to verify this email for your new account: <a href=%q>%s</a></p>`,
			link, link),
	}
}

func resetRequestMessage(appURL, email, token string) ports.EmailMessage {
	link := fmt.Sprintf("%s/account/resetPasswordVerified?token=%s", appURL, token)
	return ports.EmailMessage{
		To:      []string{email},
		Subject: "Requested Password Reset",
		HTMLBody: fmt.Sprintf(
			`<p>Click this link to reset your password: <a href=%q>%s</a></p>`+
				`<br/>This link will expire in less than 5 minutes. If you did not request this then someone else did!`,
			link, link),
	}
}

func resetCompletedMessage(email string) ports.EmailMessage {
	return ports.EmailMessage{
		To:      []string{email},
		Subject: "Password Reset Completed",
		HTMLBody: `<p>A password reset has been completed on your account as requested. ` +
			`If you did not reset your password then contact support immediately.</p>`,
	}
}
