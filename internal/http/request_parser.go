package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"budget/internal/core"
)

const maxBodyBytes = 64 << 10

// User-facing validation messages.
const (
	msgAmountAndDescriptionRequired = "금액과 설명을 입력해주세요!"
	msgInvalidAmount                = "올바른 금액을 입력해주세요."
	msgInvalidCategory              = "알 수 없는 카테고리입니다."
	msgInvalidDate                  = "날짜 형식이 올바르지 않습니다. (YYYY-MM-DD)"
	msgDescriptionTooLong           = "설명은 200자 이하로 입력해주세요."
	msgInvalidRequest               = "요청 형식이 올바르지 않습니다."
	msgMissingExpenseID             = "삭제할 지출을 찾을 수 없습니다."
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// RequestBodyParser handles different content types for request body parsing.
// It supports both JSON and form-encoded data, commonly used with HTMX.
type RequestBodyParser struct {
	body        []byte
	contentType string
	jsonData    map[string]any
	formData    url.Values
	parsed      bool
	err         error
}

// NewRequestBodyParser creates a parser for the given request.
// It reads the body once and stores it for subsequent parsing.
func NewRequestBodyParser(r *http.Request) *RequestBodyParser {
	p := &RequestBodyParser{
		contentType: r.Header.Get("Content-Type"),
	}

	p.body, p.err = io.ReadAll(r.Body)
	return p
}

// Parse attempts to parse the body as JSON or form data.
func (p *RequestBodyParser) Parse() error {
	if p.parsed {
		return p.err
	}
	p.parsed = true

	if p.err != nil {
		return p.err
	}

	if len(p.body) == 0 {
		p.formData = url.Values{}
		return nil
	}

	if p.IsJSONContent() || p.body[0] == '{' {
		p.jsonData = make(map[string]any)
		if err := json.Unmarshal(p.body, &p.jsonData); err != nil {
			p.jsonData = nil
			p.err = err
			return err
		}
		return nil
	}

	p.formData, p.err = url.ParseQuery(string(p.body))
	return p.err
}

// Get returns a sanitized string value from the parsed data (JSON or form).
func (p *RequestBodyParser) Get(key string) string {
	if p.jsonData != nil {
		if val, ok := p.jsonData[key]; ok {
			return sanitizeInput(stringValue(val))
		}
		return ""
	}
	if p.formData != nil {
		return sanitizeInput(p.formData.Get(key))
	}
	return ""
}

// IsJSONContent reports whether the Content-Type header announces JSON.
func (p *RequestBodyParser) IsJSONContent() bool {
	return strings.Contains(p.contentType, "application/json")
}

// IsJSON returns true if the parsed content was JSON.
func (p *RequestBodyParser) IsJSON() bool {
	return p.jsonData != nil
}

func stringValue(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	default:
		return ""
	}
}

// ExpenseForm is the raw expense form as submitted.
type ExpenseForm struct {
	Amount      string `validate:"required"`
	Category    string `validate:"omitempty"`
	Description string `validate:"required,max=200"`
	Date        string `validate:"omitempty,datetime=2006-01-02"`
}

// ExpenseFormFrom reads the expense fields out of a parsed body.
func ExpenseFormFrom(p *RequestBodyParser) ExpenseForm {
	return ExpenseForm{
		Amount:      p.Get("amount"),
		Category:    p.Get("category"),
		Description: p.Get("description"),
		Date:        p.Get("date"),
	}
}

// FormError is a validation failure with a message fit for the user.
type FormError struct {
	Field   string
	Message string
	Err     error
}

func (e *FormError) Error() string {
	if e.Err != nil {
		return e.Field + ": " + e.Err.Error()
	}
	return e.Field + ": " + e.Message
}

func (e *FormError) Unwrap() error { return e.Err }

// NewExpense validates the form and converts it. An empty category selects
// the first category and an empty date selects today.
func (f ExpenseForm) NewExpense(today core.Date) (core.NewExpense, error) {
	if err := validate.Struct(f); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) || len(verrs) == 0 {
			return core.NewExpense{}, &FormError{Field: "form", Message: msgInvalidRequest, Err: err}
		}
		return core.NewExpense{}, formErrorFor(verrs[0])
	}

	cents, err := core.ParseDecimalToCents(f.Amount)
	if err != nil {
		return core.NewExpense{}, &FormError{Field: "amount", Message: msgInvalidAmount, Err: err}
	}

	category := core.Categories[0]
	if f.Category != "" {
		category, err = core.ParseCategory(f.Category)
		if err != nil {
			return core.NewExpense{}, &FormError{Field: "category", Message: msgInvalidCategory, Err: err}
		}
	}

	date := today
	if f.Date != "" {
		date, err = core.ParseDate(f.Date)
		if err != nil {
			return core.NewExpense{}, &FormError{Field: "date", Message: msgInvalidDate, Err: err}
		}
	}

	in := core.NewExpense{
		Amount:      core.Money{Cents: cents},
		Category:    category,
		Description: f.Description,
		Date:        date,
	}
	if err := in.Validate(); err != nil {
		return core.NewExpense{}, &FormError{Field: "form", Message: msgInvalidRequest, Err: err}
	}
	return in, nil
}

func formErrorFor(fe validator.FieldError) *FormError {
	field := strings.ToLower(fe.Field())
	switch {
	case fe.Tag() == "required":
		return &FormError{Field: field, Message: msgAmountAndDescriptionRequired, Err: fe}
	case fe.Field() == "Description" && fe.Tag() == "max":
		return &FormError{Field: field, Message: msgDescriptionTooLong, Err: fe}
	case fe.Field() == "Date":
		return &FormError{Field: field, Message: msgInvalidDate, Err: fe}
	default:
		return &FormError{Field: field, Message: msgInvalidRequest, Err: fe}
	}
}
