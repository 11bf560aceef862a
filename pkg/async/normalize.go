package async

import (
	"errors"
	"fmt"
	"reflect"
)

// ErrUnknown is reported for failure reasons that carry no usable message.
var ErrUnknown = errors.New("unknown error")

// Messager is implemented by failure reasons that are not errors but still
// describe what went wrong.
type Messager interface {
	Message() string
}

// Normalize converts a failure reason into the error reported by Task.Err.
//
//   - nil (including a nil pointer) means no error and yields nil.
//   - An error is returned unchanged.
//   - A value carrying a message (a Messager, a map with a "message" key or
//     a struct with an exported Message field) becomes an error with that
//     message.
//   - A scalar (string, bool or number) becomes an error whose message is
//     its printed form.
//   - Anything else yields ErrUnknown.
func Normalize(reason any) error {
	if isNil(reason) {
		return nil
	}
	if err, ok := reason.(error); ok {
		return err
	}
	if msg, ok := messageOf(reason); ok {
		return errors.New(msg)
	}
	if isScalar(reason) {
		return errors.New(fmt.Sprint(reason))
	}
	return ErrUnknown
}

// NormalizeStrict is the normalization selected by WithStrictErrors. It never
// returns nil: a nil reason and every non-scalar value that is not an error
// yield ErrUnknown, message fields included.
func NormalizeStrict(reason any) error {
	if isNil(reason) {
		return ErrUnknown
	}
	if err, ok := reason.(error); ok {
		return err
	}
	if isScalar(reason) {
		return errors.New(fmt.Sprint(reason))
	}
	return ErrUnknown
}

func isNil(reason any) bool {
	if reason == nil {
		return true
	}
	rv := reflect.ValueOf(reason)
	return rv.Kind() == reflect.Pointer && rv.IsNil()
}

func isScalar(reason any) bool {
	switch reflect.ValueOf(reason).Kind() {
	case reflect.String, reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64, reflect.Complex64, reflect.Complex128:
		return true
	default:
		return false
	}
}

func messageOf(reason any) (string, bool) {
	if m, ok := reason.(Messager); ok {
		return m.Message(), true
	}

	rv := reflect.ValueOf(reason)
	for rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return "", false
		}
		rv = rv.Elem()
	}

	switch rv.Kind() {
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return "", false
		}
		v := rv.MapIndex(reflect.ValueOf("message").Convert(rv.Type().Key()))
		if !v.IsValid() {
			return "", false
		}
		return fmt.Sprint(v.Interface()), true
	case reflect.Struct:
		f := rv.FieldByName("Message")
		if !f.IsValid() || !f.CanInterface() {
			return "", false
		}
		return fmt.Sprint(f.Interface()), true
	}
	return "", false
}
