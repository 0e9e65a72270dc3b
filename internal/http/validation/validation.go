package validation

import (
	"encoding/json"
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

type FieldErrors map[string]string

// FromBindError turns a gin bind error into field -> message pairs. dst is
// the struct pointer that was bound; its json/form tags name the keys.
func FromBindError(err error, dst any) FieldErrors {
	out := FieldErrors{}

	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		for _, fe := range ve {
			out[fieldKey(dst, fe)] = messageForTag(fe.Tag(), fe.Param())
		}
		return out
	}

	var se *json.SyntaxError
	var te *json.UnmarshalTypeError
	switch {
	case errors.As(err, &te) && te.Field != "":
		out[te.Field] = "Geçersiz değer tipi."
	case errors.As(err, &se):
		out["_"] = "Geçersiz JSON."
	default:
		out["_"] = "İstek verileri geçersiz."
	}
	return out
}

// fieldKey names a failing field by its tag. Nested paths such as
// "Images[2]" keep their index suffix.
func fieldKey(dst any, fe validator.FieldError) string {
	name := fe.StructField()
	suffix := ""
	if i := strings.Index(name, "["); i >= 0 {
		name, suffix = name[:i], name[i:]
	}

	t := reflect.TypeOf(dst)
	if t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == nil || t.Kind() != reflect.Struct {
		return strings.ToLower(name) + suffix
	}

	f, ok := t.FieldByName(name)
	if !ok {
		return strings.ToLower(name) + suffix
	}
	for _, key := range []string{"json", "form"} {
		tag := f.Tag.Get(key)
		if i := strings.Index(tag, ","); i >= 0 {
			tag = tag[:i]
		}
		if tag != "" && tag != "-" {
			return tag + suffix
		}
	}
	return strings.ToLower(name) + suffix
}

func messageForTag(tag, param string) string {
	switch tag {
	case "required":
		return "Bu alan zorunludur."
	case "min":
		return "En az " + param + " olmalıdır."
	case "max":
		return "En fazla " + param + " olmalıdır."
	case "gte":
		return param + " veya daha büyük olmalıdır."
	case "oneof":
		return "Şunlardan biri olmalıdır: " + param + "."
	case "url":
		return "Geçerli bir URL giriniz."
	case "numeric":
		return "Sayısal bir değer giriniz."
	default:
		return "Geçersiz değer."
	}
}
