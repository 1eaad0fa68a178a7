package http

import (
	"errors"
	"fmt"
	"net/http"

	"budget/internal/core"
	applog "budget/internal/log"
)

func (s *Server) handleCreateExpense(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := applog.FromContext(ctx).WithComponent(applog.ComponentExpense)

	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	parser := NewRequestBodyParser(r)
	if err := parser.Parse(); err != nil {
		logger.WarnContext(ctx, "Parse request body failed",
			applog.NewFields().WithError(err).WithOperation(applog.OpCreate).ToSlice()...)
		BadRequestError(msgInvalidRequest).TriggerErrorNotification(msgInvalidRequest).Write(w)
		return
	}

	in, err := ExpenseFormFrom(parser).NewExpense(core.Today(s.now()))
	if err != nil {
		msg := msgInvalidRequest
		var fe *FormError
		if errors.As(err, &fe) {
			msg = fe.Message
		}
		logger.InfoContext(ctx, "Expense rejected",
			applog.NewFields().WithError(err).WithOperation(applog.OpValidate).ToSlice()...)
		UnprocessableEntityError(msg).TriggerErrorNotification(msg).Write(w)
		return
	}

	e := s.expenses.AddExpense(ctx, in)

	logger.InfoContext(ctx, "Expense created",
		applog.NewFields().
			WithOperation(applog.OpCreate).
			WithExpense(e.ID, e.Description, e.Amount.Cents, e.Category.String()).
			ToSlice()...)

	NewHTMXResponse().
		TriggerFormReset().
		TriggerExpenseCreated(e.ID).
		TriggerSummaryRefresh().
		TriggerSuccessNotification(fmt.Sprintf("%s %s 지출이 추가되었습니다.", e.Description, formatWon(e.Amount))).
		Write(w)
}

func (s *Server) handleDeleteExpense(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := applog.FromContext(ctx).WithComponent(applog.ComponentExpense)

	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	parser := NewRequestBodyParser(r)
	if err := parser.Parse(); err != nil {
		logger.WarnContext(ctx, "Parse request body failed",
			applog.NewFields().WithError(err).WithOperation(applog.OpDelete).ToSlice()...)
		BadRequestError(msgInvalidRequest).Write(w)
		return
	}

	// htmx sends DELETE parameters in the query string.
	id := parser.Get("id")
	if id == "" {
		id = sanitizeInput(r.URL.Query().Get("id"))
	}
	if id == "" {
		BadRequestError(msgMissingExpenseID).TriggerErrorNotification(msgMissingExpenseID).Write(w)
		return
	}

	removed := s.expenses.RemoveExpense(ctx, id)
	logger.InfoContext(ctx, "Expense delete handled",
		applog.FieldOperation, applog.OpDelete,
		applog.FieldExpenseID, id,
		applog.FieldSuccess, removed)

	resp := NewHTMXResponse().
		TriggerExpenseDeleted(id, removed).
		TriggerSummaryRefresh()
	if removed {
		resp.TriggerSuccessNotification("지출이 삭제되었습니다.")
	} else {
		resp.TriggerInfoNotification("이미 삭제된 지출입니다.")
	}
	resp.Write(w)
}

// handleSummary renders the summary card. An optional category query
// narrows the recent list.
func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	view := newSummaryView(s.expenses.Summary(s.recentLimit))

	if raw := sanitizeInput(r.URL.Query().Get("category")); raw != "" {
		c, err := core.ParseCategory(raw)
		if err != nil {
			BadRequestError(msgInvalidCategory).Write(w)
			return
		}
		view = view.withFilter(c, s.expenses.ExpensesByCategory(c), s.recentLimit)
	}

	s.render(w, r, "summary", view)
}
