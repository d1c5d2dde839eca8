package model

import (
	"reflect"
	"sync"
)

var (
	identityType = reflect.TypeOf(Identity{})
	mergeFields  sync.Map // reflect.Type -> []int
)

// Merge overlays every set field of source onto target. A pointer field is set
// when it is non-nil; any other field when it holds a non-zero value. The
// embedded Identity is never copied, so target keeps its key.
//
// Pointer values are copied, target never aliases memory owned by source.
func Merge[T any](target, source *T) {
	if target == nil || source == nil {
		return
	}
	dst := reflect.ValueOf(target).Elem()
	src := reflect.ValueOf(source).Elem()
	for _, i := range fieldsOf(dst.Type()) {
		sf := src.Field(i)
		if sf.IsZero() {
			continue
		}
		df := dst.Field(i)
		if sf.Kind() == reflect.Pointer {
			cp := reflect.New(sf.Type().Elem())
			cp.Elem().Set(sf.Elem())
			df.Set(cp)
			continue
		}
		df.Set(sf)
	}
}

// fieldsOf lists the indexes of the mergeable fields of struct type t.
func fieldsOf(t reflect.Type) []int {
	if cached, ok := mergeFields.Load(t); ok {
		return cached.([]int)
	}
	if t.Kind() != reflect.Struct {
		return nil
	}
	idx := make([]int, 0, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() || f.Type == identityType {
			continue
		}
		idx = append(idx, i)
	}
	mergeFields.Store(t, idx)
	return idx
}
