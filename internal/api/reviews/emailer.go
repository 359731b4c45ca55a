package reviews

import (
	"fmt"
	"net/smtp"
	"os"

	"github.com/princess2wilson/RESUMATE-sub000/config"
	"github.com/princess2wilson/RESUMATE-sub000/database"
	"github.com/princess2wilson/RESUMATE-sub000/internal/domain/users"
)

// notifyReviewCompleted tells the uploader their feedback is ready. Best
// effort: a mail failure never fails the feedback submission.
func notifyReviewCompleted(userID uint) {
	var user users.User
	if err := database.DB.First(&user, userID).Error; err != nil {
		return
	}

	if err := sendReviewCompletedEmail(user.Email, user.FirstName); err != nil {
		fmt.Println("❌ SMTP error:", err)
	}
}

func sendReviewCompletedEmail(to string, firstName string) error {
	from := os.Getenv("SMTP_FROM")
	password := os.Getenv("SMTP_PASSWORD")
	host := os.Getenv("SMTP_HOST")
	port := os.Getenv("SMTP_PORT")
	if host == "" {
		// mail not configured (local dev), skip silently
		return nil
	}

	auth := smtp.PlainAuth("", from, password, host)

	subject := "Your CV review is ready"
	body := fmt.Sprintf("Hi %s,\n\nAn expert has finished reviewing your CV. Read the feedback here:\n\n%s/dashboard\n", firstName, config.APP_URL)

	message := []byte("Subject: " + subject + "\r\n" +
		"From: " + from + "\r\n" +
		"To: " + to + "\r\n" +
		"Content-Type: text/plain; charset=UTF-8\r\n" +
		"\r\n" +
		body + "\r\n")

	return smtp.SendMail(host+":"+port, auth, from, []string{to}, message)
}
