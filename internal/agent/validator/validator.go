package validator

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/chative-ordering/orderbot/internal/agent/actions"
)

const unknownActionMessage = "Sorry, I can't help with that yet. Type \"menu\" to see what we have! 🍽️"

// Result is the outcome of checking one decision. Message is sent to the
// user verbatim when OK is false.
type Result struct {
	OK      bool
	Message string
	Field   string
}

func ok() Result { return Result{OK: true} }

func reject(field, msg string) Result {
	return Result{OK: false, Field: field, Message: msg}
}

type Validator struct {
	registry *actions.Registry
}

func New(registry *actions.Registry) *Validator {
	return &Validator{registry: registry}
}

// Validate checks args against the registered argument specs for name.
func (v *Validator) Validate(name string, args map[string]any) Result {
	entry, found := v.registry.Lookup(name)
	if !found {
		return reject("", unknownActionMessage)
	}
	return checkArgs(entry.Args, args)
}

func checkArgs(specs []actions.ArgSpec, args map[string]any) Result {
	for _, spec := range specs {
		val, present := args[spec.Field]
		if !present || val == nil || isBlank(val) {
			if spec.Required {
				return reject(spec.Field, promptFor(spec, "Missing required information: %s."))
			}
			continue
		}
		if r := checkArg(spec, val); !r.OK {
			return r
		}
	}
	return ok()
}

func checkArg(spec actions.ArgSpec, val any) Result {
	invalid := func() Result {
		return reject(spec.Field, promptFor(spec, "Invalid value for %s."))
	}
	switch spec.Type {
	case actions.TypeString:
		s, isString := val.(string)
		if !isString {
			return invalid()
		}
		s = strings.TrimSpace(s)
		if len(spec.Enum) > 0 && !contains(spec.Enum, s) {
			return reject(spec.Field, fmt.Sprintf("%s Options: %s.", promptFor(spec, "Invalid %s."), strings.Join(spec.Enum, ", ")))
		}
		if b := spec.Bounds; b != nil {
			n := utf8.RuneCountInString(s)
			if n < b.Min || (b.Max > 0 && n > b.Max) {
				return invalid()
			}
		}
	case actions.TypeInteger:
		n, isInt := actions.AsInt(val)
		if !isInt {
			return invalid()
		}
		if b := spec.Bounds; b != nil && (n < b.Min || n > b.Max) {
			return invalid()
		}
	case actions.TypeNumber:
		if _, isNum := actions.AsNumber(val); !isNum {
			return invalid()
		}
	case actions.TypeArray:
		elems, isArr := val.([]any)
		if !isArr {
			return invalid()
		}
		if len(spec.Items) == 0 {
			break
		}
		for _, el := range elems {
			obj, isObj := el.(map[string]any)
			if !isObj {
				return invalid()
			}
			if r := checkArgs(spec.Items, obj); !r.OK {
				r.Field = spec.Field + "." + r.Field
				return r
			}
		}
	}
	return ok()
}

func promptFor(spec actions.ArgSpec, format string) string {
	if spec.Prompt != "" {
		return spec.Prompt
	}
	return fmt.Sprintf(format, spec.Field)
}

func isBlank(v any) bool {
	s, isString := v.(string)
	return isString && strings.TrimSpace(s) == ""
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
