// Package validation wraps go-playground/validator with JSON field names,
// the custom rules the API forms need and messages in Arabic, English and Turkish.
package validation

import (
	"errors"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/locales/ar"
	"github.com/go-playground/locales/en"
	"github.com/go-playground/locales/tr"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
	tr_translations "github.com/go-playground/validator/v10/translations/tr"

	"github.com/yigit/edupath/internal/pkg/apperrors"
	"github.com/yigit/edupath/internal/pkg/i18n"
)

// FieldError is a single translated field failure.
type FieldError struct {
	Field   string `json:"field" example:"email"`
	Rule    string `json:"rule" example:"required"`
	Message string `json:"message" example:"email is a required field"`
}

// Error carries the raw validator errors and unwraps to apperrors.ErrValidationFailed.
type Error struct {
	Fields validator.ValidationErrors
}

func (e *Error) Error() string {
	return e.Fields.Error()
}

// Unwrap exposes both the sentinel and the validator errors to errors.Is/As.
func (e *Error) Unwrap() []error {
	return []error{apperrors.ErrValidationFailed, e.Fields}
}

// Validator validates structs tagged with `validate:"..."`.
type Validator struct {
	validate    *validator.Validate
	translators map[i18n.Lang]ut.Translator
	// arabicTags lists the tags with a hand-written Arabic translation
	arabicTags map[string]bool
}

var (
	defaultValidator *Validator
	once             sync.Once
)

// Default returns the shared validator instance.
func Default() *Validator {
	once.Do(func() {
		defaultValidator = New()
	})
	return defaultValidator
}

// New builds a validator with custom rules and all translations registered.
func New() *Validator {
	validate := validator.New(validator.WithRequiredStructEnabled())

	// Use JSON tag names for errors instead of Go struct names.
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			name = fld.Tag.Get("form")
		}
		return name
	})

	_ = validate.RegisterValidation(dateTag, dateValidation)
	_ = validate.RegisterValidation(phoneTag, phoneValidation)
	_ = validate.RegisterValidation(notBlankTag, notBlankValidation)

	enLocale := en.New()
	uni := ut.New(enLocale, enLocale, ar.New(), tr.New())

	v := &Validator{
		validate:    validate,
		translators: make(map[i18n.Lang]ut.Translator),
		arabicTags:  make(map[string]bool),
	}

	enTrans, _ := uni.GetTranslator("en")
	_ = en_translations.RegisterDefaultTranslations(validate, enTrans)
	v.translators[i18n.English] = enTrans

	trTrans, _ := uni.GetTranslator("tr")
	_ = tr_translations.RegisterDefaultTranslations(validate, trTrans)
	v.translators[i18n.Turkish] = trTrans

	arTrans, _ := uni.GetTranslator("ar")
	v.translators[i18n.Arabic] = arTrans
	for tag, text := range arabicMessages {
		v.registerTranslation(arTrans, tag, text)
		v.arabicTags[tag] = true
	}

	for tag, texts := range customMessages {
		v.registerTranslation(enTrans, tag, texts[i18n.English])
		v.registerTranslation(trTrans, tag, texts[i18n.Turkish])
		v.registerTranslation(arTrans, tag, texts[i18n.Arabic])
		v.arabicTags[tag] = true
	}

	return v
}

// registerTranslation registers a message for tag. {0} is the field and {1} the rule parameter.
func (v *Validator) registerTranslation(trans ut.Translator, tag, text string) {
	_ = v.validate.RegisterTranslation(
		tag, trans,
		func(t ut.Translator) error { return t.Add(tag, text, true) },
		func(t ut.Translator, fe validator.FieldError) string {
			s, err := t.T(tag, fe.Field(), fe.Param())
			if err != nil {
				return fe.Error()
			}
			return s
		},
	)
}

// Struct validates s and returns *Error on failure.
func (v *Validator) Struct(s interface{}) error {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}

	var fields validator.ValidationErrors
	if errors.As(err, &fields) {
		return &Error{Fields: fields}
	}
	return err
}

// Var validates a single value against tag.
func (v *Validator) Var(field interface{}, tag string) error {
	err := v.validate.Var(field, tag)
	if err == nil {
		return nil
	}

	var fields validator.ValidationErrors
	if errors.As(err, &fields) {
		return &Error{Fields: fields}
	}
	return err
}

// Engine exposes the underlying validator, e.g. for gin's binding package.
func (v *Validator) Engine() *validator.Validate {
	return v.validate
}

// Translate converts any validator errors in err into field errors in lang.
// It returns nil when err holds no validator errors.
func (v *Validator) Translate(err error, lang i18n.Lang) []FieldError {
	var fields validator.ValidationErrors
	if !errors.As(err, &fields) {
		return nil
	}

	trans, ok := v.translators[lang]
	if !ok {
		trans = v.translators[i18n.English]
	}

	out := make([]FieldError, 0, len(fields))
	for _, fe := range fields {
		t := trans
		if lang == i18n.Arabic && !v.arabicTags[fe.Tag()] {
			t = v.translators[i18n.English]
		}
		out = append(out, FieldError{
			Field:   fieldPath(fe),
			Rule:    fe.Tag(),
			Message: fe.Translate(t),
		})
	}
	return out
}

// fieldPath drops the root struct name from the namespace: "PersonalInfo.address.city" -> "address.city".
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}
