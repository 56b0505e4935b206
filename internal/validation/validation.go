// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package validation checks form structs with go-playground/validator and
// reports failures as field -> message maps.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

func init() {
	validate = validator.New(validator.WithRequiredStructEnabled())
	validate.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("form"), ",", 2)[0]
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	_ = validate.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
}

// missingSuffix ends the message of every empty required field.
const missingSuffix = " is required"

// messages maps validation tags to message templates.
var messages = map[string]string{
	"required": "%s" + missingSuffix,
	"notblank": "%s" + missingSuffix,
	"email":    "%s must be a valid email address",
	"oneof":    "%s must be one of: %s",
	"max":      "%s must be at most %s characters",
	"min":      "%s must be at least %s characters",
	"url":      "%s must be a valid URL",
	"eqfield":  "%s does not match",
}

// Errors maps form field names to messages.
type Errors map[string]string

func (e Errors) Error() string {
	keys := make([]string, 0, len(e))
	for k := range e {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Has reports whether field failed.
func (e Errors) Has(field string) bool {
	_, ok := e[field]
	return ok
}

// OnlyMissing reports whether every failure is an empty required field.
func (e Errors) OnlyMissing() bool {
	for _, msg := range e {
		if !strings.HasSuffix(msg, missingSuffix) {
			return false
		}
	}
	return true
}

// First returns the message of the first failing field that is not merely
// missing, in field name order. It returns "" when there is none.
func (e Errors) First() string {
	keys := make([]string, 0, len(e))
	for k, msg := range e {
		if !strings.HasSuffix(msg, missingSuffix) {
			keys = append(keys, k)
		}
	}
	if len(keys) == 0 {
		return ""
	}
	sort.Strings(keys)
	return e[keys[0]]
}

// Struct validates s and returns nil when it is valid.
func Struct(s any) Errors {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return Errors{"_": err.Error()}
	}

	out := make(Errors, len(verrs))
	for _, fe := range verrs {
		out[fe.Field()] = message(fe)
	}
	return out
}

func message(fe validator.FieldError) string {
	label := humanize(fe.Field())
	tmpl, ok := messages[fe.Tag()]
	if !ok {
		return fmt.Sprintf("%s is invalid", label)
	}
	if strings.Count(tmpl, "%s") == 2 {
		return fmt.Sprintf(tmpl, label, strings.ReplaceAll(fe.Param(), " ", ", "))
	}
	return fmt.Sprintf(tmpl, label)
}

// humanize turns a form field name such as "new_password" into "New password".
func humanize(field string) string {
	s := strings.ReplaceAll(field, "_", " ")
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
