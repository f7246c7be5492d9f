package mailer

import (
	"bytes"
	"fmt"
	"html/template"
	"path"

	"github.com/fsnotify/fsnotify"
	"github.com/labstack/gommon/log"
)

const (
	TemplateVerification      = "verification.html"
	TemplatePasswordReset     = "password_reset.html"
	TemplateAdminNotification = "admin_notification.html"
)

type VerificationData struct {
	Username string
	Link     string
}

type PasswordResetData struct {
	Username string
	Link     string
}

type AdminNotificationData struct {
	Subject string
	Body    string
}

const defaultTemplates = `
{{define "verification.html"}}
<div>
  <h2>Confirm your email address</h2>
  <p>Hello {{.Username}},</p>
  <p>Thanks for registering. Click the link below to confirm your email address:</p>
  <p><a href="{{.Link}}">Confirm email address</a></p>
  <p>This link expires in 24 hours. If you did not register, ignore this email.</p>
</div>
{{end}}

{{define "password_reset.html"}}
<div>
  <h2>Password reset</h2>
  <p>Hello {{.Username}},</p>
  <p>We received a request to reset your password. Click the link below to choose a new one:</p>
  <p><a href="{{.Link}}">Reset password</a></p>
  <p>This link expires in 1 hour. If you did not request this, ignore this email.</p>
</div>
{{end}}

{{define "admin_notification.html"}}
<div>
  <h2>Admin notification</h2>
  <h3>{{.Subject}}</h3>
  <div>{{.Body}}</div>
</div>
{{end}}
`

// Templates holds the email bodies. When a directory is configured the
// templates come from <dir>/*.html and, outside production, are reparsed on
// change; otherwise the compiled-in defaults are used.
type Templates struct {
	dir       string
	templates *template.Template
	watcher   *fsnotify.Watcher
}

func NewTemplates(dir string) (*Templates, error) {
	t := &Templates{dir: dir}
	if err := t.load(); err != nil {
		return nil, err
	}
	return t, nil
}

func (t *Templates) load() error {
	if t.dir == "" {
		t.templates = template.Must(template.New("mail").Parse(defaultTemplates))
		return nil
	}

	templates, err := template.ParseGlob(path.Join(t.dir, "*.html"))
	if err != nil {
		return fmt.Errorf("parsing mail templates: %w", err)
	}
	t.templates = templates
	return nil
}

func (t *Templates) Watch() {
	if t.dir == "" {
		return
	}

	var err error
	t.watcher, err = fsnotify.NewWatcher()
	if err != nil {
		log.Fatalf("watcher: %+v", err)
	}

	go func() {
		for {
			select {
			case event, ok := <-t.watcher.Events:
				if !ok {
					return
				}
				if event.Has(fsnotify.Write) {
					log.Infof("modified mail template: %s", event.Name)
					if err := t.load(); err != nil {
						log.Errorf("reloading mail templates: %+v", err)
					}
				}
			case err, ok := <-t.watcher.Errors:
				if !ok {
					return
				}
				log.Errorf("watcher: %+v", err)
			}
		}
	}()

	err = t.watcher.Add(t.dir)
	if err != nil {
		log.Fatalf("watcher: %+v", err)
	}
}

func (t *Templates) Close() {
	if t.watcher != nil {
		t.watcher.Close()
	}
}

func (t *Templates) Render(name string, data interface{}) (string, error) {
	buf := &bytes.Buffer{}
	if err := t.templates.ExecuteTemplate(buf, name, data); err != nil {
		return "", fmt.Errorf("rendering %s: %w", name, err)
	}
	return buf.String(), nil
}
