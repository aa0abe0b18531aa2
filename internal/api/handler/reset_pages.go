package handler

import (
	"bytes"
	"html/template"
)

// Pages served to the browser that opens a reset link. The form posts JSON
// back to the same URL.

var resetFormPage = template.Must(template.New("reset-form").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<title>MediFirst - Reset Password</title>
<style>
body { font-family: Arial, sans-serif; background: #f4f5f7; margin: 0; padding: 24px; }
.card { max-width: 420px; margin: 40px auto; background: #fff; border-radius: 14px; padding: 28px; box-shadow: 0 6px 24px rgba(0,0,0,.08); }
h1 { color: #d63b2f; font-size: 20px; margin: 0 0 4px; }
label { display: block; font-size: 13px; font-weight: bold; margin: 14px 0 6px; }
input { width: 100%; box-sizing: border-box; padding: 12px; border: 1px solid #ddd; border-radius: 8px; }
button { width: 100%; margin-top: 20px; padding: 13px; border: 0; border-radius: 8px; background: #d63b2f; color: #fff; font-weight: bold; cursor: pointer; }
#error { display: none; color: #b03025; background: #fdecea; padding: 10px; border-radius: 8px; margin-top: 14px; }
#done { display: none; }
</style>
</head>
<body>
<div class="card">
  <h1>MediFirst</h1>
  <div id="done"><h2>Password updated</h2><p>Return to the MediFirst app and sign in with your new password.</p></div>
  <form id="reset" data-action="{{.Action}}">
    <p>Hi <strong>{{.FirstName}}</strong>, choose a new password.</p>
    <label for="password">New password</label>
    <input type="password" id="password" minlength="{{.MinLength}}" required>
    <label for="confirm">Confirm password</label>
    <input type="password" id="confirm" required>
    <div id="error"></div>
    <button type="submit">Reset password</button>
  </form>
</div>
<script>
document.getElementById('reset').addEventListener('submit', async function (ev) {
  ev.preventDefault();
  var form = ev.target, box = document.getElementById('error');
  var pw = document.getElementById('password').value;
  box.style.display = 'none';
  if (pw !== document.getElementById('confirm').value) {
    box.textContent = 'Passwords do not match.';
    box.style.display = 'block';
    return;
  }
  try {
    var res = await fetch(form.dataset.action, {
      method: 'POST',
      headers: { 'Content-Type': 'application/json' },
      body: JSON.stringify({ password: pw })
    });
    var data = await res.json();
    if (res.ok) {
      form.style.display = 'none';
      document.getElementById('done').style.display = 'block';
      return;
    }
    box.textContent = data.error || 'Something went wrong.';
  } catch (e) {
    box.textContent = 'Network error. Please try again.';
  }
  box.style.display = 'block';
});
</script>
</body>
</html>
`))

var resetExpiredPage = template.Must(template.New("reset-expired").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<title>MediFirst - Link Expired</title>
<style>
body { font-family: Arial, sans-serif; background: #f4f5f7; margin: 0; padding: 24px; }
.card { max-width: 400px; margin: 40px auto; background: #fff; border-radius: 14px; padding: 32px; text-align: center; box-shadow: 0 6px 24px rgba(0,0,0,.08); }
p { color: #777; line-height: 1.6; }
</style>
</head>
<body>
<div class="card">
  <h2>Link expired or invalid</h2>
  <p>This password reset link has expired or has already been used.</p>
  <p>Open the <strong>MediFirst app</strong> and tap <em>Forgot Password</em> to request a new one.</p>
</div>
</body>
</html>
`))

type resetFormData struct {
	FirstName string
	Action    string
	MinLength int
}

func renderPage(t *template.Template, data any) (string, error) {
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
