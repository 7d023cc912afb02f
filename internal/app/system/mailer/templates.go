// internal/app/system/mailer/templates.go
package mailer

import (
	"bytes"
	"fmt"
	"html/template"
)

// ReminderEmailData holds data for overdue-training reminder emails.
type ReminderEmailData struct {
	SiteName      string
	RecipientName string
	TrainingTitle string
	Deadline      string // formatted, may be empty
	TrainingLink  string
}

// BuildReminderEmail creates an overdue-training reminder with both HTML
// and text bodies.
func BuildReminderEmail(data ReminderEmailData) Email {
	return Email{
		To:       "", // Set by caller
		Subject:  fmt.Sprintf("Overdue training: %s", data.TrainingTitle),
		TextBody: buildReminderText(data),
		HTMLBody: buildReminderHTML(data),
	}
}

func buildReminderText(data ReminderEmailData) string {
	var buf bytes.Buffer
	buf.WriteString(fmt.Sprintf("Hi %s,\n\n", data.RecipientName))
	buf.WriteString(fmt.Sprintf("The training %q is past its deadline", data.TrainingTitle))
	if data.Deadline != "" {
		buf.WriteString(fmt.Sprintf(" (%s)", data.Deadline))
	}
	buf.WriteString(".\n\nPlease complete it as soon as possible:\n")
	buf.WriteString(data.TrainingLink + "\n\n")
	buf.WriteString(fmt.Sprintf("- %s\n", data.SiteName))
	return buf.String()
}

func buildReminderHTML(data ReminderEmailData) string {
	tmpl := template.Must(template.New("reminder").Parse(reminderHTMLTemplate))
	var buf bytes.Buffer
	_ = tmpl.Execute(&buf, data)
	return buf.String()
}

const reminderHTMLTemplate = `<!DOCTYPE html>
<html>
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
  <title>Overdue Training</title>
</head>
<body style="margin: 0; padding: 0; font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, 'Helvetica Neue', Arial, sans-serif; background-color: #f3f4f6;">
  <table role="presentation" width="100%" cellspacing="0" cellpadding="0" style="background-color: #f3f4f6;">
    <tr>
      <td align="center" style="padding: 40px 20px;">
        <table role="presentation" width="100%" cellspacing="0" cellpadding="0" style="max-width: 480px; background-color: #ffffff; border-radius: 8px; box-shadow: 0 2px 4px rgba(0, 0, 0, 0.1);">
          <!-- Header -->
          <tr>
            <td style="padding: 32px 32px 24px; text-align: center; border-bottom: 1px solid #e5e7eb;">
              <h1 style="margin: 0; font-size: 24px; font-weight: 600; color: #4f46e5;">{{.SiteName}}</h1>
            </td>
          </tr>

          <!-- Content -->
          <tr>
            <td style="padding: 32px;">
              <p style="margin: 0 0 16px; font-size: 16px; color: #374151; line-height: 1.5;">
                Hi {{.RecipientName}},
              </p>
              <p style="margin: 0 0 24px; font-size: 16px; color: #374151; line-height: 1.5;">
                The training <strong>{{.TrainingTitle}}</strong> is past its
                deadline{{if .Deadline}} ({{.Deadline}}){{end}}. Please
                complete it as soon as possible.
              </p>

              <!-- Button -->
              <table role="presentation" width="100%" cellspacing="0" cellpadding="0">
                <tr>
                  <td align="center">
                    <a href="{{.TrainingLink}}" style="display: inline-block; padding: 14px 32px; background-color: #4f46e5; color: #ffffff; text-decoration: none; font-size: 16px; font-weight: 500; border-radius: 6px;">
                      Open Training
                    </a>
                  </td>
                </tr>
              </table>
            </td>
          </tr>

          <!-- Footer -->
          <tr>
            <td style="padding: 24px 32px; background-color: #f9fafb; border-top: 1px solid #e5e7eb; border-radius: 0 0 8px 8px;">
              <p style="margin: 0; font-size: 12px; color: #9ca3af; text-align: center;">
                You are receiving this because the training is assigned to you in {{.SiteName}}.
              </p>
            </td>
          </tr>
        </table>
      </td>
    </tr>
  </table>
</body>
</html>`
