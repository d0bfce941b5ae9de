package cache

import (
	"encoding/json"
	"fmt"
	"reflect"
	"sort"
	"strings"
)

// KeySeparator defines the delimiter used between cache key segments.
const KeySeparator = "::"

// reflectKeySerializer builds keys for calls that are not SQL text, such as
// memoised HTTP lookups. Values are rendered with reflection so that equal
// arguments always produce equal keys within a process.
type reflectKeySerializer struct {
	namespace string
}

// NewDefaultKeySerializer returns a KeySerializer without a namespace.
func NewDefaultKeySerializer() KeySerializer {
	return &reflectKeySerializer{}
}

// NewNamespacedKeySerializer returns a KeySerializer that prefixes every key
// with namespace, so several clients can share one CacheService without
// colliding on method names.
func NewNamespacedKeySerializer(namespace string) KeySerializer {
	return &reflectKeySerializer{namespace: namespace}
}

// SerializeKey joins namespace, method and the rendered args with KeySeparator.
func (s *reflectKeySerializer) SerializeKey(method string, args ...any) string {
	parts := make([]string, 0, len(args)+2)
	if s.namespace != "" {
		parts = append(parts, s.namespace)
	}
	parts = append(parts, method)
	for _, arg := range args {
		parts = append(parts, s.render(arg))
	}
	return strings.Join(parts, KeySeparator)
}

func (s *reflectKeySerializer) render(v any) string {
	if v == nil {
		return "nil"
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Func:
		// stable only for the lifetime of the process
		return fmt.Sprintf("func:%p", v)
	case reflect.Chan:
		return fmt.Sprintf("chan:%p", v)
	case reflect.Ptr, reflect.Interface:
		if rv.IsNil() {
			return "nil"
		}
		return s.render(rv.Elem().Interface())
	case reflect.Slice:
		if rv.IsNil() {
			return "slice:nil"
		}
		return fmt.Sprintf("slice[%d]:{%s}", rv.Len(), s.renderElems(rv))
	case reflect.Array:
		return fmt.Sprintf("array[%d]:{%s}", rv.Len(), s.renderElems(rv))
	case reflect.Map:
		if rv.IsNil() {
			return "map:nil"
		}
		return s.renderMap(rv)
	case reflect.Struct:
		return s.renderStruct(rv)
	case reflect.Bool, reflect.String,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64, reflect.Complex64, reflect.Complex128:
		return fmt.Sprintf("%v", v)
	}

	data, err := json.Marshal(v)
	if err != nil {
		return "fallback:" + rv.Type().String()
	}
	return "json:" + string(data)
}

func (s *reflectKeySerializer) renderElems(rv reflect.Value) string {
	parts := make([]string, rv.Len())
	for i := range parts {
		parts[i] = s.render(rv.Index(i).Interface())
	}
	return strings.Join(parts, ",")
}

// renderMap sorts on the rendered key so iteration order never leaks into the key.
func (s *reflectKeySerializer) renderMap(rv reflect.Value) string {
	pairs := make([]string, 0, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		pairs = append(pairs, s.render(iter.Key().Interface())+"="+s.render(iter.Value().Interface()))
	}
	sort.Strings(pairs)
	return fmt.Sprintf("map[%d]:{%s}", len(pairs), strings.Join(pairs, ","))
}

func (s *reflectKeySerializer) renderStruct(rv reflect.Value) string {
	rt := rv.Type()
	parts := make([]string, 0, rv.NumField())
	for i := 0; i < rv.NumField(); i++ {
		field := rt.Field(i)
		if !field.IsExported() {
			continue
		}
		parts = append(parts, field.Name+":"+s.render(rv.Field(i).Interface()))
	}
	return fmt.Sprintf("struct:{%s}", strings.Join(parts, ","))
}
