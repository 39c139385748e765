package validator

import (
	"errors"
	"reflect"
	"regexp"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
)

var (
	initOnce  sync.Once
	validate  *validator.Validate
	sanitizer *bluemonday.Policy

	mediaURLPattern = regexp.MustCompile(`^(https?://[^\s]+|/[^\s]*)$`)
	sectionTypes    = map[string]struct{}{"TEXT": {}, "CAROUSEL": {}, "GALLERY": {}, "CARD": {}, "HERO": {}}
)

// Init builds the shared validator and sanitiser policies. Calling it more
// than once is harmless.
func Init() {
	initOnce.Do(func() {
		validate = validator.New()
		validate.RegisterTagNameFunc(jsonFieldName)
		sanitizer = bluemonday.UGCPolicy()

		registerCustomValidations(validate)

		if engine, ok := binding.Validator.Engine().(*validator.Validate); ok {
			registerCustomValidations(engine)
		}
	})
}

func registerCustomValidations(v *validator.Validate) {
	v.RegisterValidation("media_url", validateMediaURL)
	v.RegisterValidation("section_type", validateSectionType)
	v.RegisterValidation("no_html", validateNoHTML)
}

func Validate(s interface{}) error {
	Init()
	return validate.Struct(s)
}

// Var validates a single value against a tag expression such as "min=1,max=4".
func Var(value interface{}, tag string) error {
	Init()
	return validate.Var(value, tag)
}

func SanitizeHTML(html string) string {
	Init()
	return sanitizer.Sanitize(html)
}

func jsonFieldName(field reflect.StructField) string {
	name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
	if name == "-" || name == "" {
		return field.Name
	}
	return name
}

// validateMediaURL accepts empty values, site-relative paths and http(s) URLs.
func validateMediaURL(fl validator.FieldLevel) bool {
	value := strings.TrimSpace(fl.Field().String())
	if value == "" {
		return true
	}
	return mediaURLPattern.MatchString(value)
}

func validateSectionType(fl validator.FieldLevel) bool {
	_, ok := sectionTypes[strings.ToUpper(strings.TrimSpace(fl.Field().String()))]
	return ok
}

func validateNoHTML(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	return !strings.Contains(value, "<") && !strings.Contains(value, ">")
}

func ValidateEmail(email string) bool {
	emailRegex := regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	return emailRegex.MatchString(email)
}

// FieldErrors flattens validator errors into field -> tag pairs using the
// struct field's json name where one was registered.
func FieldErrors(err error) map[string]string {
	out := map[string]string{}
	if err == nil {
		return out
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		for _, fe := range verrs {
			out[fe.Field()] = fe.Tag()
		}
		return out
	}
	out[""] = err.Error()
	return out
}
