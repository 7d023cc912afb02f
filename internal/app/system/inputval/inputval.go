// Package inputval validates form and API input structs via `validate` and
// `label` struct tags. Rules: required, max=N, email, httpurl, objectid,
// oneof=a|b|c.
package inputval

import (
	"fmt"
	"net/mail"
	"net/url"
	"reflect"
	"strconv"
	"strings"
	"unicode/utf8"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// FieldError describes a single validation failure.
type FieldError struct {
	Field   string
	Message string
}

// Result collects validation failures for one input struct.
type Result struct {
	Errors []FieldError
}

// HasErrors reports whether any rule failed.
func (r *Result) HasErrors() bool { return len(r.Errors) > 0 }

// First returns the first error message, or "" when valid.
func (r *Result) First() string {
	if len(r.Errors) == 0 {
		return ""
	}
	return r.Errors[0].Message
}

// All joins every error message with "; ".
func (r *Result) All() string {
	msgs := make([]string, 0, len(r.Errors))
	for _, e := range r.Errors {
		msgs = append(msgs, e.Message)
	}
	return strings.Join(msgs, "; ")
}

func (r *Result) add(field, msg string) {
	r.Errors = append(r.Errors, FieldError{Field: field, Message: msg})
}

// Validate applies the `validate` tag rules to each string field of input,
// which must be a struct or pointer to struct. Field order determines error
// order.
func Validate(input any) *Result {
	res := &Result{}

	v := reflect.ValueOf(input)
	if v.Kind() == reflect.Ptr {
		if v.IsNil() {
			return res
		}
		v = v.Elem()
	}
	if v.Kind() != reflect.Struct {
		return res
	}

	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		rules := f.Tag.Get("validate")
		if rules == "" || f.Type.Kind() != reflect.String {
			continue
		}
		label := f.Tag.Get("label")
		if label == "" {
			label = f.Name
		}
		val := strings.TrimSpace(v.Field(i).String())
		checkField(res, f.Name, label, val, rules)
	}
	return res
}

func checkField(res *Result, field, label, val, rules string) {
	required := false
	for _, rule := range strings.Split(rules, ",") {
		if rule == "required" {
			required = true
		}
	}
	if val == "" {
		if required {
			res.add(field, fmt.Sprintf("%s is required.", label))
		}
		// Remaining rules only apply to non-empty values.
		return
	}

	for _, rule := range strings.Split(rules, ",") {
		switch {
		case rule == "required":
			// handled above
		case strings.HasPrefix(rule, "max="):
			n, err := strconv.Atoi(strings.TrimPrefix(rule, "max="))
			if err == nil && utf8.RuneCountInString(val) > n {
				res.add(field, fmt.Sprintf("%s must be at most %d characters.", label, n))
			}
		case rule == "email":
			if !IsValidEmail(val) {
				res.add(field, "A valid email address is required.")
			}
		case rule == "httpurl":
			if !IsValidHTTPURL(val) {
				res.add(field, fmt.Sprintf("%s must be a valid http(s) URL.", label))
			}
		case rule == "objectid":
			if !IsValidObjectID(val) {
				res.add(field, fmt.Sprintf("%s is not a valid identifier.", label))
			}
		case strings.HasPrefix(rule, "oneof="):
			allowed := strings.Split(strings.TrimPrefix(rule, "oneof="), "|")
			ok := false
			for _, a := range allowed {
				if val == a {
					ok = true
					break
				}
			}
			if !ok {
				res.add(field, fmt.Sprintf("%s must be one of: %s.", label, strings.Join(allowed, ", ")))
			}
		}
	}
}

// IsValidEmail reports whether s is a plausible bare email address.
// Display-name forms ("Name <a@b>") are rejected.
func IsValidEmail(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return false
	}
	addr, err := mail.ParseAddress(s)
	if err != nil || addr.Address != s {
		return false
	}
	// mail.ParseAddress tolerates some quoted forms we don't want from forms.
	local, domain, ok := strings.Cut(s, "@")
	if !ok || local == "" || domain == "" {
		return false
	}
	if strings.HasPrefix(local, ".") || strings.HasSuffix(local, ".") || strings.Contains(local, "..") {
		return false
	}
	if strings.HasPrefix(domain, ".") || strings.HasSuffix(domain, ".") || strings.Contains(domain, "..") {
		return false
	}
	return true
}

// IsValidHTTPURL reports whether s parses as an absolute http or https URL.
func IsValidHTTPURL(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return false
	}
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// IsValidObjectID reports whether s is a 24-character hex Mongo ObjectID.
func IsValidObjectID(s string) bool {
	s = strings.TrimSpace(s)
	_, err := primitive.ObjectIDFromHex(strings.ToLower(s))
	return err == nil
}
