// Package form validates user input before it is sent to the API. Each form
// is a plain struct of raw field values; Validate returns the per-field
// messages a view renders, and Request turns a valid form into the API
// request body.
package form

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"sort"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"skillshare/internal/model"
)

// Errors maps a field key to its message. List entries use "<field>_<i>".
type Errors map[string]string

// Err returns nil when there are no errors, else a *ValidationError.
func (e Errors) Err() error {
	if len(e) == 0 {
		return nil
	}
	return &ValidationError{Fields: e}
}

// Keys returns the field keys in sorted order.
func (e Errors) Keys() []string {
	keys := make([]string, 0, len(e))
	for k := range e {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// ValidationError blocks a submission.
type ValidationError struct {
	Fields Errors
}

func (e *ValidationError) Error() string {
	keys := e.Fields.Keys()
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = k + ": " + e.Fields[k]
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// FieldErrors extracts the field map from err, if it is a validation error.
func FieldErrors(err error) (Errors, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve.Fields, true
	}
	return nil, false
}

var patterns = map[string]string{
	"title":        `^.{5,100}$`,
	"body":         `^.{10,1000}$`,
	"positive_int": `^[1-9][0-9]{0,5}$`,
	"list_item":    `^.{3,200}$`,
	"plan_tag":     `^.{2,30}$`,
	"unit_title":   `^.{3,100}$`,
	"post_title":   `^.{3,100}$`,
	"letters":      `^[a-zA-Z\s]+$`,
	"phone10":      `^\d{10}$`,
}

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func engine() *validator.Validate {
	validateOnce.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" || name == "" {
				return fld.Name
			}
			return name
		})
		for tag, expr := range patterns {
			re := regexp.MustCompile(expr)
			mustRegister(v, tag, func(fl validator.FieldLevel) bool {
				return re.MatchString(fl.Field().String())
			})
		}
		mustRegister(v, "plan_category", func(fl validator.FieldLevel) bool {
			return contains(model.PlanCategories, fl.Field().String())
		})
		mustRegister(v, "skill_level", func(fl validator.FieldLevel) bool {
			return contains(model.SkillLevels, fl.Field().String())
		})
		validate = v
	})
	return validate
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("form: register %q: %v", tag, err))
	}
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

var (
	indexRe  = regexp.MustCompile(`\[(\d+)\]`)
	stripIdx = regexp.MustCompile(`\[\d+\]`)
)

// check runs struct validation on v and translates failures through
// messages. Lookups try "<key>.<tag>", then "<key>", then the key with list
// indexes removed, so one message covers every entry of a list.
func check(v any, messages map[string]string) Errors {
	out := Errors{}
	err := engine().Struct(v)
	if err == nil {
		return out
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		out["form"] = err.Error()
		return out
	}
	for _, fe := range verrs {
		ns := fe.Namespace()
		if i := strings.IndexByte(ns, '.'); i >= 0 {
			ns = ns[i+1:]
		}
		key := indexRe.ReplaceAllString(ns, "_$1")
		if _, seen := out[key]; seen {
			continue
		}
		base := stripIdx.ReplaceAllString(ns, "")

		msg := firstNonEmpty(
			messages[base+"."+fe.Tag()],
			messages[key],
			messages[base],
		)
		if msg == "" {
			msg = fe.Error()
		}
		out[key] = msg
	}
	return out
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
