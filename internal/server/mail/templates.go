package mail

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
)

//go:embed templates/*.html
var templateFS embed.FS

var templates = template.Must(template.ParseFS(templateFS, "templates/*.html"))

// Subjects of the messages rendered by this package.
const (
	VerificationSubject = "Verify your Daily Routine account"
	InviteSubject       = "You are invited!"
)

// VerificationData fills the account verification mail.
type VerificationData struct {
	Name string
	Link string
}

// InviteData fills the invitation mail.
type InviteData struct {
	SenderName  string
	SenderImage string
	Message     string
	Link        string
}

// Verification renders the account verification mail for to.
func Verification(to string, data VerificationData) (Message, error) {
	html, err := render("verify.html", data)
	if err != nil {
		return Message{}, err
	}
	return Message{To: to, Subject: VerificationSubject, HTML: html}, nil
}

// Invite renders the invitation mail for to.
func Invite(to string, data InviteData) (Message, error) {
	html, err := render("invite.html", data)
	if err != nil {
		return Message{}, err
	}
	return Message{To: to, Subject: InviteSubject, HTML: html}, nil
}

func render(name string, data any) (string, error) {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("render %s: %w", name, err)
	}
	return buf.String(), nil
}
