package spy

import (
	"fmt"
	"reflect"
)

// Slot is a storage location holding a function of type F, e.g., a variable
// or a struct field. A [Replacer] reads the original value from the slot,
// and writes the spy into it.
type Slot[F any] interface {
	Get() F
	Set(F)
	// Name describes the slot. Used in log messages.
	Name() string
}

type pointerSlot[F any] struct{ p *F }

// PointerSlot returns a slot for the variable p points to.
func PointerSlot[F any](p *F) Slot[F] {
	if p == nil {
		panic("spy: PointerSlot: nil pointer")
	}
	return pointerSlot[F]{p}
}

func (s pointerSlot[F]) Get() F    { return *s.p }
func (s pointerSlot[F]) Set(val F) { *s.p = val }

func (s pointerSlot[F]) Name() string {
	return fmt.Sprintf("*%s", reflect.TypeFor[F]())
}

type fieldSlot[F any] struct {
	v    reflect.Value
	name string
}

// FieldSlot returns a slot for the exported field name of the struct target
// points to. The field must have type F.
//
// Panics if target is not a non-nil pointer to a struct, or if the field
// doesn't exist, isn't settable, or has a different type.
func FieldSlot[F any](target any, name string) Slot[F] {
	v := reflect.ValueOf(target)
	if v.Kind() != reflect.Pointer || v.IsNil() || v.Elem().Kind() != reflect.Struct {
		panic(fmt.Sprintf(
			"spy: FieldSlot: target must be a non-nil pointer to a struct, got %T",
			target,
		))
	}
	v = v.Elem()
	structType := v.Type()
	f, ok := structType.FieldByName(name)
	if !ok {
		panic(fmt.Sprintf("spy: FieldSlot: %s has no field %s", structType, name))
	}
	if !f.IsExported() {
		panic(fmt.Sprintf("spy: FieldSlot: field %s.%s is not exported", structType, name))
	}
	if want := reflect.TypeFor[F](); f.Type != want {
		panic(fmt.Sprintf(
			"spy: FieldSlot: field %s.%s has type %s, not %s",
			structType, name, f.Type, want,
		))
	}
	fv, err := v.FieldByIndexErr(f.Index)
	if err != nil {
		panic(fmt.Sprintf("spy: FieldSlot: field %s.%s: %v", structType, name, err))
	}
	if !fv.CanSet() {
		panic(fmt.Sprintf("spy: FieldSlot: field %s.%s cannot be set", structType, name))
	}
	return fieldSlot[F]{fv, structType.String() + "." + name}
}

func (s fieldSlot[F]) Get() F { return s.v.Interface().(F) }

func (s fieldSlot[F]) Set(val F) {
	s.v.Set(reflect.ValueOf(&val).Elem())
}

func (s fieldSlot[F]) Name() string { return s.name }
