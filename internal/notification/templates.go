package notification

import (
	"bytes"
	"html/template"
	"time"
)

type Message struct {
	Subject string
	HTML    string
}

var templates = template.Must(template.New("mail").Parse(`
{{define "shortlisted"}}<p>Dear {{.Name}},</p>
<p>Good news! Your application for <strong>{{.Title}}</strong> at {{.Company}} has been shortlisted.</p>
{{if .Notes}}<p>Notes from the employer: {{.Notes}}</p>{{end}}
<p>You may receive an online assessment shortly.</p>
<p>Best regards,<br/>{{.Company}}</p>{{end}}

{{define "rejected"}}<p>Dear {{.Name}},</p>
<p>Thank you for applying for <strong>{{.Title}}</strong> at {{.Company}}. Unfortunately we will not be moving forward with your application.</p>
{{if .Notes}}<p>Notes from the employer: {{.Notes}}</p>{{end}}
<p>Best regards,<br/>{{.Company}}</p>{{end}}

{{define "accepted"}}<p>Dear {{.Name}},</p>
<p>Congratulations! You have been accepted for <strong>{{.Title}}</strong> at {{.Company}}.</p>
{{if .Notes}}<p>{{.Notes}}</p>{{end}}
<p>Our team will contact you shortly with next steps.</p>{{end}}

{{define "test_assigned"}}<p>Please complete your test at <a href="{{.Link}}">{{.Link}}</a>.</p>
<p>Deadline: {{.Deadline}}</p>{{end}}

{{define "test_failed"}}<p>Dear {{.Name}},</p>
<p>Thank you for completing the assessment. Unfortunately, you did not meet the passing criteria.</p>
<p><strong>Score:</strong> {{.Score}}</p>
<p>We appreciate your effort and encourage you to apply again in the future.</p>
<p>Best regards,<br/>{{.Title}} Team</p>{{end}}

{{define "test_passed"}}<p>Dear {{.Name}},</p>
<p>Congratulations! You have <strong>passed</strong> the assessment and have been selected for the {{.Type}}.</p>
<p><strong>Score:</strong> {{.Score}}</p>
<p>Our team will contact you shortly with next steps.</p>
<p>Best regards,<br/>{{.Title}} Team</p>{{end}}
`))

type Data struct {
	Name     string
	Title    string
	Company  string
	Type     string
	Notes    string
	Link     string
	Deadline string
	Score    int
}

func (d Data) withDefaults() Data {
	if d.Name == "" {
		d.Name = "Candidate"
	}
	if d.Title == "" {
		d.Title = "Internship"
	}
	if d.Company == "" {
		d.Company = "Company"
	}
	if d.Type == "" {
		d.Type = "Internship"
	}
	return d
}

func render(name string, d Data) (string, error) {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, name, d.withDefaults()); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func Shortlisted(d Data) (Message, error) {
	html, err := render("shortlisted", d)
	return Message{Subject: "Application Shortlisted", HTML: html}, err
}

func Rejected(d Data) (Message, error) {
	html, err := render("rejected", d)
	return Message{Subject: "Application Update", HTML: html}, err
}

func Accepted(d Data) (Message, error) {
	html, err := render("accepted", d)
	return Message{Subject: "Application Accepted", HTML: html}, err
}

func TestAssigned(link string, deadline time.Time) (Message, error) {
	html, err := render("test_assigned", Data{Link: link, Deadline: deadline.UTC().Format("Jan 2, 2006 15:04 MST")})
	return Message{Subject: "Test Assigned", HTML: html}, err
}

func TestFailed(d Data) (Message, error) {
	html, err := render("test_failed", d)
	return Message{Subject: "Internship Test Result – Rejected", HTML: html}, err
}

func TestPassed(d Data) (Message, error) {
	html, err := render("test_passed", d)
	return Message{Subject: "Internship Test Result – Selected", HTML: html}, err
}
