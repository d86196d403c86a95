package mailer

import (
	"fmt"

	mailtpl "github.com/oksasatya/go-ddd-identity/pkg/mailer/templates"
)

// EmailJob is the JSON payload put on the RabbitMQ queue for sending email.
// Either Template+Data or Subject+Text(+HTML) must be set.
type EmailJob struct {
	To       string         `json:"to"`
	Subject  string         `json:"subject,omitempty"`
	Text     string         `json:"text,omitempty"`
	HTML     string         `json:"html,omitempty"`
	Template string         `json:"template,omitempty"` // e.g. "verify_email"
	Data     map[string]any `json:"data,omitempty"`
}

// EnsureRecipient fills Email/RecipientEmail in Data from To when missing.
func (j *EmailJob) EnsureRecipient() {
	if j.Data == nil {
		j.Data = map[string]any{}
	}
	for _, k := range []string{"Email", "RecipientEmail"} {
		if v, ok := j.Data[k]; !ok || fmt.Sprintf("%v", v) == "" {
			j.Data[k] = j.To
		}
	}
}

// Compose returns the final subject, text and html of a job, rendering its
// template when one is named.
func Compose(j EmailJob) (subject, text, html string, err error) {
	if j.To == "" {
		return "", "", "", fmt.Errorf("email job: empty recipient")
	}
	if j.Template == "" {
		if j.Subject == "" || (j.Text == "" && j.HTML == "") {
			return "", "", "", fmt.Errorf("email job: no template and no body")
		}
		return j.Subject, j.Text, j.HTML, nil
	}
	j.EnsureRecipient()
	return mailtpl.Render(j.Template, j.Data)
}
