package reflectutil

import (
	"fmt"
	"reflect"
	"strings"
)

// SafeFieldByName looks up an exported struct field by name. When no field
// has that exact name, a field whose json tag or case-folded name matches is
// used instead, so "name" finds `Name string` and `FullName string `json:"name"``.
func SafeFieldByName(v reflect.Value, fieldName string) (reflect.Value, error) {
	if !v.IsValid() {
		return reflect.Value{}, fmt.Errorf("invalid value")
	}

	for v.Kind() == reflect.Ptr || v.Kind() == reflect.Interface {
		if v.IsNil() {
			return reflect.Value{}, fmt.Errorf("nil value")
		}
		v = v.Elem()
	}

	if v.Kind() != reflect.Struct {
		return reflect.Value{}, fmt.Errorf("value is not a struct, got %v", v.Kind())
	}

	if sf, ok := v.Type().FieldByName(fieldName); ok && sf.IsExported() {
		return v.FieldByName(fieldName), nil
	}

	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		if !sf.IsExported() {
			continue
		}
		tag := strings.Split(sf.Tag.Get("json"), ",")[0]
		if tag == fieldName || strings.EqualFold(sf.Name, fieldName) {
			return v.Field(i), nil
		}
	}

	return reflect.Value{}, fmt.Errorf("field %s not found", fieldName)
}
