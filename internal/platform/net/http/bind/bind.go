// Package bind validates the request inputs services build from path and
// query parameters, reporting the first failure as a validation error that
// names the parameter.
package bind

import (
	"errors"
	"reflect"
	"regexp"
	"strings"
	"sync"
	"time"

	perr "profitscout/internal/platform/errors"
	"profitscout/internal/platform/logger"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
)

// ValidatorSvc pairs the validator with its english translator.
type ValidatorSvc struct {
	Validator  *validator.Validate
	Translator ut.Translator
}

var datasetNameRe = regexp.MustCompile(`^[a-z0-9-]+$`)

// tags are the artifact-specific validations.
var tags = map[string]validator.Func{
	"dataset_name": func(fl validator.FieldLevel) bool {
		return datasetNameRe.MatchString(fl.Field().String())
	},
	"as_of": func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		if strings.EqualFold(s, "latest") {
			return true
		}
		_, err := time.Parse(time.DateOnly, s)
		return err == nil
	},
}

// messages override the stock english text; {0} is the json name, {1} the tag param.
var messages = map[string]string{
	"min":          "{0} must be at least {1}",
	"max":          "{0} must be at most {1}",
	"oneof":        "{0} must be one of {1}",
	"datetime":     "{0} must be a YYYY-MM-DD date",
	"dataset_name": "{0} must contain only lowercase letters, digits and hyphens",
	"as_of":        "{0} must be 'latest' or a YYYY-MM-DD date",
}

var (
	once sync.Once
	svc  *ValidatorSvc
)

// Init builds the shared validator on first call.
func Init() *ValidatorSvc {
	once.Do(func() {
		loc := en.New()
		trans, _ := ut.New(loc, loc).GetTranslator("en")

		v := validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(jsonName)
		_ = en_translations.RegisterDefaultTranslations(v, trans)
		for tag, fn := range tags {
			_ = v.RegisterValidation(tag, fn)
		}
		for tag, text := range messages {
			_ = v.RegisterTranslation(tag, trans,
				func(t ut.Translator) error { return t.Add(tag, text, true) },
				func(t ut.Translator, fe validator.FieldError) string {
					msg, _ := t.T(tag, fe.Field(), fe.Param())
					return msg
				},
			)
		}
		svc = &ValidatorSvc{Validator: v, Translator: trans}
	})
	return svc
}

func Get() *ValidatorSvc { return Init() }

// jsonName reports fields by their json name, falling back to the Go name.
func jsonName(f reflect.StructField) string {
	name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
	if name == "" || name == "-" {
		return f.Name
	}
	return name
}

// Validate checks v's validate tags. A non-struct is a programming error and
// maps to an internal error.
func Validate(v any) error {
	err := Get().Validator.Struct(v)
	if err == nil {
		return nil
	}
	var inv *validator.InvalidValidationError
	if errors.As(err, &inv) {
		logger.Named("bind").Error().Err(inv).Type("input", v).Msg("cannot validate")
		return perr.Internalf("validation error")
	}
	field, msg := ValidationFieldAndMessage(err)
	return perr.WithField(perr.New(perr.ErrorCodeValidation, msg), field)
}

// ValidationFieldAndMessage returns the first failing field and its message.
func ValidationFieldAndMessage(err error) (field, message string) {
	var verrs validator.ValidationErrors
	switch {
	case err == nil:
		return "", ""
	case errors.As(err, &verrs) && len(verrs) > 0:
		return verrs[0].Field(), verrs[0].Translate(Get().Translator)
	default:
		return "", err.Error()
	}
}
