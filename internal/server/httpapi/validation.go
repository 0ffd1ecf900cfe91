package httpapi

import (
	"reflect"
	"regexp"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

var registerOnce sync.Once

// validSearchTerm rejects terms Postgres cannot compare as text.
func validSearchTerm(term string) bool {
	return utf8.ValidString(term) && !strings.ContainsRune(term, 0)
}

// registerValidators adds the custom rules to gin's validator and makes field
// errors report JSON names.
func registerValidators() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		_ = v.RegisterValidation("username", func(fl validator.FieldLevel) bool {
			return usernamePattern.MatchString(fl.Field().String())
		})
		_ = v.RegisterValidation("searchterm", func(fl validator.FieldLevel) bool {
			return validSearchTerm(fl.Field().String())
		})
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			for _, tag := range []string{"json", "form", "uri"} {
				name := strings.SplitN(f.Tag.Get(tag), ",", 2)[0]
				if name != "" && name != "-" {
					return name
				}
			}
			return f.Name
		})
	})
}
