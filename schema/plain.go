package schema

import (
	"fmt"
	"reflect"

	"github.com/wippyai/gamebind/bind"
	"github.com/wippyai/gamebind/errors"
)

// checkDeclared validates a type passed to Component or Resource.
func checkDeclared(t reflect.Type) error {
	name := bind.TypeName(t)
	if t.Kind() != reflect.Struct {
		return errors.New(errors.PhaseAnalysis, errors.KindNotPlainData).
			Type(name).
			Detail("components and resources must be structs").
			Build()
	}
	if err := checkNamedPlain(t); err != nil {
		return errors.New(errors.PhaseAnalysis, errors.KindNotPlainData).
			Type(name).
			Detail("%s", err.Error()).
			Build()
	}
	return nil
}

// checkNamedPlain requires an exported named type whose memory holds no Go
// pointers, so the host can own and copy it.
func checkNamedPlain(t reflect.Type) error {
	if t.Name() == "" || t.PkgPath() == "" {
		return fmt.Errorf("%s is not a named type of a package", t)
	}
	if !isExportedIdent(t.Name()) {
		return fmt.Errorf("%s is not exported", t)
	}
	return checkPlain(t, t.String())
}

func checkPlain(t reflect.Type, path string) error {
	switch t.Kind() {
	case reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64, reflect.Complex64, reflect.Complex128:
		return nil
	case reflect.Array:
		return checkPlain(t.Elem(), path+"[]")
	case reflect.Struct:
		for i := 0; i < t.NumField(); i++ {
			f := t.Field(i)
			if err := checkPlain(f.Type, path+"."+f.Name); err != nil {
				return err
			}
		}
		return nil
	}
	return fmt.Errorf("%s has kind %s, which is not plain data", path, t.Kind())
}
