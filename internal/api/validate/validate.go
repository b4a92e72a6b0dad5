package validate

import (
	"html"
	"net/mail"
	"strconv"
	"strings"

	"github.com/microcosm-cc/bluemonday"

	"github.com/baharkarakas/inventory-backend/internal/apperr"
)

type ErrField struct {
	Field string `json:"field"`
	Msg   string `json:"msg"`
}

type Errs []ErrField

func (e Errs) Error() string {
	var b strings.Builder
	for i, ef := range e {
		if i > 0 {
			b.WriteString("; ")
		}
		b.WriteString(ef.Field + ": " + ef.Msg)
	}
	return b.String()
}

// Collect drops nil checks and returns a validation error, or nil when all passed.
func Collect(checks ...*ErrField) error {
	var errs Errs
	for _, c := range checks {
		if c != nil {
			errs = append(errs, *c)
		}
	}
	if len(errs) == 0 {
		return nil
	}
	return apperr.Wrap(apperr.KindValidation, errs.Error(), errs)
}

// Helpers
func Required(field, value string) *ErrField {
	if strings.TrimSpace(value) == "" {
		return &ErrField{Field: field, Msg: "required"}
	}
	return nil
}

func Email(field, value string) *ErrField {
	value = strings.TrimSpace(value)
	if value == "" {
		return &ErrField{Field: field, Msg: "required"}
	}
	a, err := mail.ParseAddress(value)
	if err != nil || a.Address != value {
		return &ErrField{Field: field, Msg: "must be a valid email address"}
	}
	return nil
}

func MinInt(field string, v, min int64) *ErrField {
	if v < min {
		return &ErrField{Field: field, Msg: "must be >= " + strconv.FormatInt(min, 10)}
	}
	return nil
}

func MinFloat(field string, v, min float64) *ErrField {
	if v < min {
		return &ErrField{Field: field, Msg: "must be >= " + strconv.FormatFloat(min, 'f', -1, 64)}
	}
	return nil
}

func MaxFloat(field string, v, max float64) *ErrField {
	if v > max {
		return &ErrField{Field: field, Msg: "must be <= " + strconv.FormatFloat(max, 'f', -1, 64)}
	}
	return nil
}

func MaxLen(field, value string, n int) *ErrField {
	if len([]rune(value)) > n {
		return &ErrField{Field: field, Msg: "must be at most " + strconv.Itoa(n) + " characters"}
	}
	return nil
}

// MaxBytes is for byte-bounded inputs such as bcrypt passwords.
func MaxBytes(field, value string, n int) *ErrField {
	if len(value) > n {
		return &ErrField{Field: field, Msg: "must be at most " + strconv.Itoa(n) + " bytes"}
	}
	return nil
}

var strict = bluemonday.StrictPolicy()

// CleanText strips markup and surrounding whitespace from free text.
// Entities are decoded again so "&" survives as typed.
func CleanText(s string) string {
	return strings.TrimSpace(html.UnescapeString(strict.Sanitize(s)))
}
