package validators

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/caffeinepub/sajavathub-com-sub000/internal/vendors"
	pkgerrors "github.com/caffeinepub/sajavathub-com-sub000/pkg/errors"
)

const maxBodyBytes = 1 << 20

type customTag struct {
	check   validator.Func
	message string
}

var customTags = map[string]customTag{
	"gstin": {
		check: func(fl validator.FieldLevel) bool {
			return vendors.ValidGST(vendors.NormalizeGST(fl.Field().String()))
		},
		message: "must be a 15 character GSTIN",
	},
	"mobile_in": {
		check: func(fl validator.FieldLevel) bool {
			return vendors.ValidMobile(vendors.NormalizeMobile(fl.Field().String()))
		},
		message: "must be a 10 digit Indian mobile number",
	},
	"otp": {
		check: func(fl validator.FieldLevel) bool {
			code := fl.Field().String()
			return len(code) >= 4 && len(code) <= 10 && vendors.ValidCode(code, len(code))
		},
		message: "must be a numeric code",
	},
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// report fields by their wire names
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	for tag, custom := range customTags {
		if err := v.RegisterValidation(tag, custom.check); err != nil {
			panic(fmt.Sprintf("register %s: %v", tag, err))
		}
	}
	return v
}

// DecodeRPCArgs reads an RPC argument object into dest and validates it. A
// blank body counts as {} so methods without arguments accept a bare POST.
// Unknown fields and anything after the object are rejected.
func DecodeRPCArgs(r *http.Request, dest any) error {
	if r.Body == nil {
		return Struct(dest)
	}
	raw, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "read request body")
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return Struct(dest)
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dest); err != nil {
		return malformed(err.Error())
	}
	if dec.More() {
		return malformed("trailing data after arguments")
	}
	return Struct(dest)
}

func malformed(reason string) error {
	return pkgerrors.New(pkgerrors.CodeValidation, "invalid request body").WithDetails(map[string]any{"error": reason})
}

// Struct validates dest against its validate tags. Field failures come back
// as one validation error keyed by field path.
func Struct(dest any) error {
	err := validate.Struct(dest)
	var invalid *validator.InvalidValidationError
	if err == nil || errors.As(err, &invalid) {
		return nil
	}
	var fields validator.ValidationErrors
	if !errors.As(err, &fields) {
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "validation failed")
	}
	details := make(map[string]string, len(fields))
	for _, fe := range fields {
		details[fieldPath(fe)] = describe(fe)
	}
	return pkgerrors.New(pkgerrors.CodeValidation, "validation failed").WithDetails(details)
}

// fieldPath drops the root struct name, so "args.order.items[0].quantity"
// reads "order.items[0].quantity".
func fieldPath(fe validator.FieldError) string {
	if _, rest, ok := strings.Cut(fe.Namespace(), "."); ok {
		return rest
	}
	return fe.Field()
}

func describe(fe validator.FieldError) string {
	if custom, ok := customTags[fe.Tag()]; ok {
		return custom.message
	}
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email"
	case "min", "gte":
		return "must be at least " + fe.Param()
	case "max", "lte":
		return "must be at most " + fe.Param()
	}
	return "is invalid"
}
