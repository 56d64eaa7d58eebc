package validation

import (
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/yigit/edupath/internal/pkg/i18n"
)

// DateLayout is the wire format of calendar dates (birth date, graduation date).
const DateLayout = "2006-01-02"

// custom validation tags
const (
	dateTag     = "date"
	phoneTag    = "phone"
	notBlankTag = "notblank"
)

var phoneRegex = regexp.MustCompile(`^\+?[0-9][0-9 ()\-]{6,19}$`)

// dateValidation accepts empty strings and YYYY-MM-DD dates.
func dateValidation(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	_, err := time.Parse(DateLayout, value)
	return err == nil
}

// phoneValidation accepts empty strings and international phone numbers.
func phoneValidation(fl validator.FieldLevel) bool {
	value := strings.TrimSpace(fl.Field().String())
	if value == "" {
		return true
	}
	return phoneRegex.MatchString(value)
}

func notBlankValidation(fl validator.FieldLevel) bool {
	if str, ok := fl.Field().Interface().(string); ok {
		return strings.TrimSpace(str) != ""
	}
	return false
}

// customMessages translates the rules registered by this package.
var customMessages = map[string]map[i18n.Lang]string{
	dateTag: {
		i18n.English: "{0} must be a date in YYYY-MM-DD format",
		i18n.Turkish: "{0} YYYY-AA-GG biçiminde bir tarih olmalıdır",
		i18n.Arabic:  "يجب أن يكون {0} تاريخاً بصيغة YYYY-MM-DD",
	},
	phoneTag: {
		i18n.English: "{0} must be a valid phone number",
		i18n.Turkish: "{0} geçerli bir telefon numarası olmalıdır",
		i18n.Arabic:  "يجب أن يكون {0} رقم هاتف صالحاً",
	},
	notBlankTag: {
		i18n.English: "{0} cannot be blank",
		i18n.Turkish: "{0} boş bırakılamaz",
		i18n.Arabic:  "لا يمكن ترك {0} فارغاً",
	},
}

// arabicMessages covers the built-in rules used by the request DTOs.
// {0} is the field name and {1} the rule parameter.
var arabicMessages = map[string]string{
	"required":    "الحقل {0} مطلوب",
	"required_if": "الحقل {0} مطلوب",
	"email":       "يجب أن يكون {0} بريداً إلكترونياً صالحاً",
	"min":         "يجب ألا يقل {0} عن {1}",
	"max":         "يجب ألا يزيد {0} عن {1}",
	"len":         "يجب أن يكون طول {0} مساوياً لـ {1}",
	"gte":         "يجب أن يكون {0} أكبر من أو يساوي {1}",
	"lte":         "يجب أن يكون {0} أصغر من أو يساوي {1}",
	"gt":          "يجب أن يكون {0} أكبر من {1}",
	"oneof":       "يجب أن تكون قيمة {0} إحدى القيم التالية: {1}",
	"url":         "يجب أن يكون {0} رابطاً صالحاً",
	"uuid":        "يجب أن يكون {0} معرفاً صالحاً",
	"numeric":     "يجب أن يكون {0} رقماً",
	"eqfield":     "يجب أن يطابق {0} الحقل {1}",
}
