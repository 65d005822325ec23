package middleware

import (
	"reflect"
	"regexp"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var (
	timeSlotPattern    = regexp.MustCompile(`^([01]\d|2[0-3]):[0-5]\d$`)
	kenyanPhonePattern = regexp.MustCompile(`^(\+254|0)[1-9]\d{8}$`)
)

// RegisterValidators installs the domain validation tags on gin's
// binding validator and makes validation errors report json field
// names. Call once before serving.
func RegisterValidators() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}

	// timeslot: 24h HH:MM booking slots.
	_ = v.RegisterValidation("timeslot", func(fl validator.FieldLevel) bool {
		return timeSlotPattern.MatchString(fl.Field().String())
	})

	// kenyanphone: +254 or 0 prefix followed by nine digits, the first
	// nonzero. Covers mobile and the geographic landline ranges.
	_ = v.RegisterValidation("kenyanphone", func(fl validator.FieldLevel) bool {
		return kenyanPhonePattern.MatchString(fl.Field().String())
	})

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return fld.Name
		}
		return name
	})
}
