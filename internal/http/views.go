package http

import (
	"bytes"
	"html/template"
	"net/http"

	"budget/internal/core"
	applog "budget/internal/log"
	appweb "budget/web"
)

// CategoryOption is one entry of the category select.
type CategoryOption struct {
	Value    string
	Selected bool
}

// ExpenseView is one row of the recent list.
type ExpenseView struct {
	ID          string
	Description string
	Category    string
	Date        string
	Amount      core.Money
}

// CategoryView is one row of the category breakdown.
type CategoryView struct {
	Category string
	Amount   core.Money
	Count    int
	Percent  int
}

// SummaryView feeds the summary card.
type SummaryView struct {
	Total      core.Money
	Count      int
	Recent     []ExpenseView
	More       int
	ByCategory []CategoryView
	Filter     string
	Filters    []CategoryOption
	// FilteredTotal is set when Filter is not empty.
	FilteredTotal core.Money
}

// IndexView feeds the full page.
type IndexView struct {
	DarkMode   bool
	Today      string
	Categories []CategoryOption
	Summary    SummaryView
}

func templateFuncs() template.FuncMap {
	return template.FuncMap{
		"won": formatWon,
	}
}

func parseTemplates() (*template.Template, error) {
	return template.New("").Funcs(templateFuncs()).ParseFS(appweb.TemplatesFS, "templates/*.html")
}

func categoryOptions(selected string) []CategoryOption {
	out := make([]CategoryOption, 0, len(core.Categories))
	for _, c := range core.Categories {
		out = append(out, CategoryOption{Value: c.String(), Selected: c.String() == selected})
	}
	return out
}

func expenseViews(expenses []core.Expense) []ExpenseView {
	out := make([]ExpenseView, 0, len(expenses))
	for _, e := range expenses {
		out = append(out, ExpenseView{
			ID:          e.ID,
			Description: e.Description,
			Category:    e.Category.String(),
			Date:        e.Date.String(),
			Amount:      e.Amount,
		})
	}
	return out
}

func newSummaryView(sum core.Summary) SummaryView {
	v := SummaryView{
		Total:   sum.Total,
		Count:   sum.Count,
		Recent:  expenseViews(sum.Recent),
		More:    sum.More,
		Filters: categoryOptions(""),
	}
	for _, ca := range sum.ByCategory {
		pct := 0
		if sum.Total.Cents > 0 && ca.Amount.Cents > 0 {
			pct = int(ca.Amount.Cents * 100 / sum.Total.Cents)
		}
		v.ByCategory = append(v.ByCategory, CategoryView{
			Category: ca.Category.String(),
			Amount:   ca.Amount,
			Count:    ca.Count,
			Percent:  pct,
		})
	}
	return v
}

// withFilter narrows the recent list to one category.
func (v SummaryView) withFilter(c core.Category, matching []core.Expense, limit int) SummaryView {
	v.Filter = c.String()
	v.Filters = categoryOptions(v.Filter)
	v.FilteredTotal = core.Money{}
	for _, e := range matching {
		v.FilteredTotal = v.FilteredTotal.Add(e.Amount)
	}
	shown := matching[:min(limit, len(matching))]
	v.Recent = expenseViews(shown)
	v.More = len(matching) - len(shown)
	return v
}

// render executes name into a buffer first so a template error still
// produces a clean 500.
func (s *Server) render(w http.ResponseWriter, r *http.Request, name string, data any) {
	logger := applog.FromContext(r.Context()).WithComponent(applog.ComponentTemplate)
	if s.templates == nil {
		logger.ErrorContext(r.Context(), "Templates not loaded", applog.FieldOperation, applog.OpRender, "template", name)
		InternalServerError("템플릿을 불러오지 못했습니다.").Write(w)
		return
	}

	var buf bytes.Buffer
	if err := s.templates.ExecuteTemplate(&buf, name, data); err != nil {
		logger.ErrorContext(r.Context(), "Template execution failed",
			applog.NewFields().WithError(err).WithOperation(applog.OpRender).ToSlice()...)
		InternalServerError("화면을 그리지 못했습니다.").Write(w)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}
