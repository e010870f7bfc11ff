package codec

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"

	"git.canoozie.net/riddling/nodedb/pkg/model"
)

var typePathPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z_][A-Za-z0-9_]*)+$`)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	if err := v.RegisterValidation("typepath", func(fl validator.FieldLevel) bool {
		return typePathPattern.MatchString(fl.Field().String())
	}); err != nil {
		panic(err)
	}
	return v
}

// override is one caller-supplied replacement, shaped for validation
type override struct {
	From string `validate:"required,typepath"`
	To   string `validate:"required,typepath,nefield=From"`
}

// ValidateOverrides checks every override: both sides must be dotted type
// paths and the replacement must be a registered type. Invalid overrides
// are returned as an error when strict is set; otherwise they are logged and
// left out of the returned map.
func ValidateOverrides(overrides map[string]string, types *model.TypeRegistry, strict bool, logger model.Logger) (map[string]string, error) {
	if types == nil {
		types = model.DefaultTypes
	}
	if logger == nil {
		logger = model.DefaultLoggerInstance
	}

	froms := make([]string, 0, len(overrides))
	for from := range overrides {
		froms = append(froms, from)
	}
	sort.Strings(froms)

	valid := make(map[string]string, len(overrides))
	for _, from := range froms {
		o := override{From: from, To: overrides[from]}
		err := checkOverride(o, types)
		if err == nil {
			valid[o.From] = o.To
			continue
		}
		if strict {
			return nil, err
		}
		logger.Warn("Ignoring override: %v", err)
	}
	return valid, nil
}

func checkOverride(o override, types *model.TypeRegistry) error {
	if err := validate.Struct(o); err != nil {
		return fmt.Errorf("%w %s -> %s: %s", ErrInvalidOverride, o.From, o.To, describe(err))
	}
	if _, ok := types.Lookup(o.To); !ok {
		return fmt.Errorf("%w %s -> %s: replacement is not a registered type", ErrInvalidOverride, o.From, o.To)
	}
	return nil
}

func describe(err error) string {
	errs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err.Error()
	}
	msgs := make([]string, 0, len(errs))
	for _, e := range errs {
		field := strings.ToLower(e.Field())
		switch e.Tag() {
		case "required":
			msgs = append(msgs, fmt.Sprintf("%s is required", field))
		case "typepath":
			msgs = append(msgs, fmt.Sprintf("%s must be a dotted type path", field))
		case "nefield":
			msgs = append(msgs, fmt.Sprintf("%s must differ from %s", field, strings.ToLower(e.Param())))
		default:
			msgs = append(msgs, fmt.Sprintf("%s is invalid", field))
		}
	}
	return strings.Join(msgs, "; ")
}
