package handlers

import (
	"net/http"
	"net/url"

	"prompt-library/internal/contextutil"
)

// ThemeCookieName is the cookie holding the selected theme.
const ThemeCookieName = "prompt_library_theme"

// ThemeHandler stores the selected theme and sends the user back.
func ThemeHandler(w http.ResponseWriter, r *http.Request) {
	theme := contextutil.ThemeLight
	if r.PostFormValue("theme") == contextutil.ThemeDark {
		theme = contextutil.ThemeDark
	}

	http.SetCookie(w, &http.Cookie{
		Name:     ThemeCookieName,
		Value:    theme,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	http.Redirect(w, r, backTo(r), http.StatusSeeOther)
}

// backTo returns the same-site path of the Referer, or /add.
func backTo(r *http.Request) string {
	ref, err := url.Parse(r.Referer())
	if err != nil || ref.Path == "" || (ref.Host != "" && ref.Host != r.Host) {
		return "/add"
	}
	if ref.RawQuery != "" {
		return ref.Path + "?" + ref.RawQuery
	}
	return ref.Path
}
