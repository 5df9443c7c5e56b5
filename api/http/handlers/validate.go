package handlers

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/artem13815/contacts/pkg/apperr"
	"github.com/artem13815/contacts/pkg/auth"
	"github.com/artem13815/contacts/pkg/security/jwt"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// Report JSON names, not Go field names.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// bind decodes the JSON body into dst and checks its validate tags.
// Failures are BadRequest with msg plus the offending fields.
func bind(c *fiber.Ctx, op, msg string, dst any) error {
	if err := c.BodyParser(dst); err != nil {
		return apperr.BadRequest(op, "invalid JSON payload")
	}
	if err := validate.Struct(dst); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return apperr.BadRequest(op, msg)
		}
		fields := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			fields = append(fields, fe.Field())
		}
		return apperr.BadRequest(op, msg+": "+strings.Join(fields, ", "))
	}
	return nil
}

// caller returns the identity the auth middleware resolved.
func caller(c *fiber.Ctx) (auth.Identity, error) {
	id, ok := jwt.IdentityFrom(c)
	if !ok {
		return auth.Identity{}, apperr.Unauthorized("handlers.caller", "User is not authorized")
	}
	return id, nil
}
