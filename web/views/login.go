package views

import (
	"context"
	"io"

	"github.com/a-h/templ"
)

// The form talks to the JSON API and follows the login flow: a second
// factor prompt when the account has TOTP enabled and a password prompt
// for accounts created without one.
const loginScript = `<script>
const form = document.getElementById("login");
const msg = document.getElementById("message");
form.addEventListener("submit", async (e) => {
  e.preventDefault();
  const data = Object.fromEntries(new FormData(form));
  const url = form.dataset.mode === "set-password" ? "/auth/set-password" : "/auth/login";
  const res = await fetch(url, {method: "POST", headers: {"Content-Type": "application/json"}, body: JSON.stringify(data)});
  const body = await res.json().catch(() => ({}));
  if (!res.ok) { msg.textContent = (body.error && body.error.message) || "Request failed"; return; }
  const out = body.data || {};
  if (out.requiresTotp) { document.getElementById("totp").hidden = false; msg.textContent = out.message; return; }
  if (out.requiresPassword) { form.dataset.mode = "set-password"; msg.textContent = out.message; return; }
  if (form.dataset.mode === "set-password") { form.dataset.mode = "login"; form.requestSubmit(); return; }
  window.location.assign("/");
});
</script>`

// Login renders the sign-in page. message is shown above the form.
func Login(message string) templ.Component {
	return Page("Sign in", templ.ComponentFunc(func(ctx context.Context, out io.Writer) error {
		w := &writer{w: out}
		w.raw(`<main><div class="card"><h1>Sign in</h1>`)
		w.raw(`<p id="message" class="error" role="alert">`)
		w.text(message)
		w.raw(`</p><form id="login" data-mode="login">`)
		w.raw(`<label for="username">Username</label><input id="username" name="username" autocomplete="username" required>`)
		w.raw(`<label for="password">Password</label><input id="password" name="password" type="password" autocomplete="current-password">`)
		w.raw(`<div id="totp" hidden><label for="token">Authentication code</label>`)
		w.raw(`<input id="token" name="token" inputmode="numeric" pattern="[0-9]{6}" autocomplete="one-time-code"></div>`)
		w.raw(`<button type="submit">Continue</button></form></div></main>`)
		w.raw(loginScript)
		return w.err
	}))
}
