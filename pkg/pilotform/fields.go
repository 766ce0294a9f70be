package pilotform

import (
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Field names one input of the signup form. The value doubles as the JSON key.
type Field string

const (
	FieldOrg     Field = "org"
	FieldContact Field = "contact"
	FieldEmail   Field = "email"
	FieldPhone   Field = "phone"
	FieldCity    Field = "city"
	FieldNotes   Field = "notes"
)

// Fields lists every form field in display order.
var Fields = []Field{FieldOrg, FieldContact, FieldPhone, FieldEmail, FieldCity, FieldNotes}

// Values holds the current text of every field. It is also the POST /pilot body.
type Values struct {
	Org     string `json:"org" validate:"required"`
	Contact string `json:"contact" validate:"required"`
	Email   string `json:"email" validate:"required,emailshape"`
	Phone   string `json:"phone" validate:"required"`
	City    string `json:"city" validate:"required"`
	Notes   string `json:"notes"`
}

func (v *Values) field(f Field) (*string, bool) {
	switch f {
	case FieldOrg:
		return &v.Org, true
	case FieldContact:
		return &v.Contact, true
	case FieldEmail:
		return &v.Email, true
	case FieldPhone:
		return &v.Phone, true
	case FieldCity:
		return &v.City, true
	case FieldNotes:
		return &v.Notes, true
	}
	return nil, false
}

// Get returns the value of f, or "" for an unknown field.
func (v Values) Get(f Field) string {
	if p, ok := v.field(f); ok {
		return *p
	}
	return ""
}

const tagEmailShape = "emailshape"

// nonSpace is a run of characters outside the browser's \s class, which also
// covers \v and the Unicode space separators.
const nonSpace = `[^\s\v\p{Zs}\x{FEFF}\x{2028}\x{2029}]+`

// emailShape is deliberately loose: something, an @, something, a dot, something.
var emailShape = regexp.MustCompile(nonSpace + `@` + nonSpace + `\.` + nonSpace)

// messages maps a failed rule on a field to the text shown next to it.
var messages = map[Field]map[string]string{
	FieldOrg:     {"required": "Organization name is required"},
	FieldContact: {"required": "Contact person is required"},
	FieldCity:    {"required": "City is required"},
	FieldEmail:   {"required": "Email is required", tagEmailShape: "Email is invalid"},
	FieldPhone:   {"required": "Phone number is required"},
}

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(sf reflect.StructField) string {
		return strings.SplitN(sf.Tag.Get("json"), ",", 2)[0]
	})
	_ = v.RegisterValidation(tagEmailShape, func(fl validator.FieldLevel) bool {
		return emailShape.MatchString(fl.Field().String())
	})
	return v
}

// validationMessages runs every rule against values and returns the violated fields.
// An empty map means the values are valid.
func validationMessages(v *validator.Validate, values Values) map[Field]string {
	result := make(map[Field]string)

	err := v.Struct(values)
	if err == nil {
		return result
	}

	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return result
	}
	for _, fe := range validationErrors {
		field := Field(fe.Field())
		msg, ok := messages[field][fe.Tag()]
		if !ok {
			msg = fe.Error()
		}
		result[field] = msg
	}
	return result
}
