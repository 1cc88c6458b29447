package validator

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var states = map[string]struct{}{
	"AC": {}, "AL": {}, "AP": {}, "AM": {}, "BA": {}, "CE": {}, "DF": {}, "ES": {}, "GO": {},
	"MA": {}, "MT": {}, "MS": {}, "MG": {}, "PA": {}, "PB": {}, "PR": {}, "PE": {}, "PI": {},
	"RJ": {}, "RN": {}, "RS": {}, "RO": {}, "RR": {}, "SC": {}, "SP": {}, "SE": {}, "TO": {},
}

var messages = map[string]string{
	"required": "is required",
	"email":    "must be a valid email",
	"min":      "is too short",
	"max":      "is too long",
	"oneof":    "has an unsupported value",
	"cpf":      "must be a valid CPF",
	"sus":      "must be a 15 digit SUS card number",
	"cep":      "must be an 8 digit CEP",
	"uf":       "must be a Brazilian state abbreviation",
}

// Register installs the registry's custom tags and reports fields by their JSON name
func Register(v *validator.Validate) error {
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})

	custom := map[string]func(string) bool{
		"cpf": ValidCPF,
		"sus": ValidSUS,
		"cep": ValidCEP,
		"uf":  ValidUF,
	}
	for tag, fn := range custom {
		fn := fn
		if err := v.RegisterValidation(tag, func(fl validator.FieldLevel) bool {
			return fn(fl.Field().String())
		}); err != nil {
			return fmt.Errorf("failed to register %s validator: %w", tag, err)
		}
	}
	return nil
}

// Describe turns binding errors into a single client-facing sentence
func Describe(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}

	parts := make([]string, 0, len(verrs))
	for _, e := range verrs {
		msg, ok := messages[e.Tag()]
		if !ok {
			msg = "is invalid"
		}
		parts = append(parts, fmt.Sprintf("%s %s", e.Field(), msg))
	}
	return strings.Join(parts, "; ")
}

// Digits strips every non-digit character
func Digits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// ValidCPF checks length, repeated digits and both check digits
func ValidCPF(s string) bool {
	cpf := Digits(s)
	if len(cpf) != 11 {
		return false
	}
	if strings.Count(cpf, cpf[:1]) == 11 {
		return false
	}

	check := func(n int) int {
		sum := 0
		for i := 0; i < n; i++ {
			sum += int(cpf[i]-'0') * (n + 1 - i)
		}
		rest := 11 - sum%11
		if rest > 9 {
			return 0
		}
		return rest
	}

	return check(9) == int(cpf[9]-'0') && check(10) == int(cpf[10]-'0')
}

func ValidSUS(s string) bool {
	return len(Digits(s)) == 15
}

func ValidCEP(s string) bool {
	return len(Digits(s)) == 8
}

func ValidUF(s string) bool {
	_, ok := states[strings.ToUpper(strings.TrimSpace(s))]
	return ok
}
