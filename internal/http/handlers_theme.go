package http

import (
	"net/http"

	applog "budget/internal/log"
)

// handleThemeToggle flips dark mode. htmx callers get HX-Refresh so the page
// re-renders with the new class; plain form posts are redirected home.
func (s *Server) handleThemeToggle(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	dark := s.theme.Toggle(ctx)

	applog.FromContext(ctx).WithComponent(applog.ComponentTheme).InfoContext(ctx, "Theme toggled",
		applog.FieldOperation, applog.OpToggle,
		applog.FieldDarkMode, dark)

	if r.Header.Get("HX-Request") != "true" {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	NewHTMXResponse().
		TriggerThemeChanged(dark).
		Refresh().
		Write(w)
}
