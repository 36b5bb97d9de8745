package validation

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

// Nombres de regla que lleva FieldError
const (
	RuleRequired  = "required"
	RuleMinLength = "min_length"
	RuleNumeric   = "numeric"
	RuleDate      = "date"
	RuleID        = "id"
)

const minPasswordLength = 8

var digitsOnly = regexp.MustCompile(`^\d+$`)

// FieldError representa un error de validación de un campo
type FieldError struct {
	Field   string
	Rule    string
	Message string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Errors acumula los errores en el orden en que se validaron
type Errors []*FieldError

func (e Errors) Error() string {
	parts := make([]string, 0, len(e))
	for _, fe := range e {
		parts = append(parts, fe.Error())
	}
	return strings.Join(parts, "; ")
}

// Add agrega fe si no es nil
func (e *Errors) Add(fe *FieldError) {
	if fe != nil {
		*e = append(*e, fe)
	}
}

// Err retorna nil si no hay errores, para usar el chequeo err != nil
func (e Errors) Err() error {
	if len(e) == 0 {
		return nil
	}
	return e
}

var escaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#x27;",
	"/", "&#x2F;",
	`\`, "&#x5C;",
	"`", "&#96;",
)

// Escape reemplaza caracteres de markup por entidades HTML
func Escape(s string) string {
	return escaper.Replace(s)
}

// StripControl elimina caracteres de control ASCII (NUL, tabs, saltos de línea, DEL)
func StripControl(s string) string {
	return strings.Map(func(r rune) rune {
		if r < 0x20 || r == 0x7f {
			return -1
		}
		return r
	}, s)
}

// Normalize aplica strip, trim y escape sin regla de largo. Los valores que se
// comparan contra los guardados deben pasar por la misma transformación.
func Normalize(s string) string {
	return Escape(strings.TrimSpace(StripControl(s)))
}

func minLength(field, raw string, n int) (string, *FieldError) {
	v := strings.TrimSpace(StripControl(raw))
	if len(v) < n {
		return "", &FieldError{Field: field, Rule: RuleMinLength, Message: fmt.Sprintf("must be at least %d characters", n)}
	}
	return Escape(v), nil
}

// Username valida un username (no vacío después de trim)
func Username(raw string) (string, *FieldError) {
	return minLength("username", raw, 1)
}

// Password valida una contraseña de al menos 8 caracteres
func Password(raw string) (string, *FieldError) {
	return minLength("password", raw, minPasswordLength)
}

func Description(raw string) (string, *FieldError) {
	return minLength("description", raw, 1)
}

// Duration valida un entero no negativo (ej: minutos)
func Duration(raw string) (int, *FieldError) {
	v := strings.TrimSpace(raw)
	if v == "" {
		return 0, &FieldError{Field: "duration", Rule: RuleRequired, Message: "is required"}
	}
	if !digitsOnly.MatchString(v) {
		return 0, &FieldError{Field: "duration", Rule: RuleNumeric, Message: "must be a whole number"}
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, &FieldError{Field: "duration", Rule: RuleNumeric, Message: "out of range"}
	}
	return n, nil
}

// Date valida una fecha opcional. Vacío retorna nil sin error.
// El resultado es la medianoche UTC del día indicado.
func Date(field, raw string) (*time.Time, *FieldError) {
	v := strings.TrimSpace(raw)
	if v == "" {
		return nil, nil
	}
	t, err := dateparse.ParseIn(v, time.UTC)
	if err != nil {
		return nil, &FieldError{Field: field, Rule: RuleDate, Message: "invalid date"}
	}
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	return &day, nil
}

// UserID valida un id numérico de la ruta
func UserID(raw string) (int64, *FieldError) {
	if !digitsOnly.MatchString(raw) {
		return 0, &FieldError{Field: "userId", Rule: RuleID, Message: "must be numeric"}
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, &FieldError{Field: "userId", Rule: RuleID, Message: "out of range"}
	}
	return id, nil
}

// Limit valida el límite opcional de filas
func Limit(raw string) (*int, *FieldError) {
	v := strings.TrimSpace(raw)
	if v == "" {
		return nil, nil
	}
	if !digitsOnly.MatchString(v) {
		return nil, &FieldError{Field: "limit", Rule: RuleNumeric, Message: "must be a non-negative integer"}
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return nil, &FieldError{Field: "limit", Rule: RuleNumeric, Message: "out of range"}
	}
	return &n, nil
}
