package service

import (
	"bytes"
	"fmt"
	"html/template"
)

const resetMailSubject = "MediFirst - Reset Your Password"

type resetMailData struct {
	FirstName string
	ResetURL  string
	ExpiresIn string
}

var resetMailTmpl = template.Must(template.New("reset_mail").Parse(`<div style="font-family:Arial,sans-serif;max-width:520px;margin:0 auto;">
  <div style="background:#e74c3c;padding:28px;border-radius:12px 12px 0 0;text-align:center;">
    <h1 style="color:#fff;margin:0;font-size:24px;">MediFirst</h1>
    <p style="color:rgba(255,255,255,0.85);margin:6px 0 0;font-size:13px;">First Aid &amp; Emergency Assistance</p>
  </div>
  <div style="background:#fff;padding:32px;border-radius:0 0 12px 12px;border:1px solid #f0f0f0;">
    <h2 style="color:#1a1a2e;margin-top:0;">Reset Your Password</h2>
    <p style="color:#666;line-height:1.6;">
      Hi <strong>{{.FirstName}}</strong>,<br><br>
      We received a request to reset the password for your MediFirst account.
      Click the button below to set a new password.
    </p>
    <div style="text-align:center;margin:28px 0;">
      <a href="{{.ResetURL}}" style="background:#e74c3c;color:#fff;text-decoration:none;padding:14px 32px;border-radius:10px;font-size:15px;font-weight:bold;display:inline-block;">Reset My Password</a>
    </div>
    <p style="color:#999;font-size:12px;line-height:1.6;">
      This link expires in <strong>{{.ExpiresIn}}</strong>.<br>
      If you didn't request this, you can safely ignore this email.
    </p>
  </div>
</div>
`))

func renderResetMail(data resetMailData) (string, error) {
	var buf bytes.Buffer
	if err := resetMailTmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render reset mail: %w", err)
	}
	return buf.String(), nil
}
