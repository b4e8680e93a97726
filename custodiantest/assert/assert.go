package assert

import (
	"reflect"
)

// Tester is the minimal subset of testing.TB needed by this package.
type Tester interface {
	Helper()
	Fatal(...interface{})
	Fatalf(string, ...interface{})
}

// Nil fails the test if given value is not nil.
func Nil(t Tester, value interface{}) {
	t.Helper()
	if !isNil(value) {
		// Use %+v so that if the value is an error its stacktrace is
		// printed as well.
		t.Fatalf("want a nil value, got %+v", value)
	}
}

func isNil(value interface{}) bool {
	if value == nil {
		return true
	}
	switch v := reflect.ValueOf(value); v.Kind() {
	case reflect.Chan, reflect.Func, reflect.Interface, reflect.Map, reflect.Ptr, reflect.Slice:
		return v.IsNil()
	}
	return false
}

// Equal fails the test if two values are not equal.
func Equal(t Tester, want, got interface{}) {
	t.Helper()
	if !reflect.DeepEqual(want, got) {
		t.Fatalf("values not equal \nwant: %+v\n got: %+v", want, got)
	}
}

// Panics runs given function and fails the test if it does not panic.
func Panics(t Tester, fn func()) {
	t.Helper()
	defer func() {
		t.Helper()
		if recover() == nil {
			t.Fatal("panic expected")
		}
	}()
	fn()
}

// IsErr fails the test if wanted error is not the cause of the got error.
func IsErr(t Tester, want, got error) {
	t.Helper()
	if want == got {
		return
	}
	wantChecker, ok := want.(interface{ Is(error) bool })
	if !ok {
		t.Fatalf("cannot test %T for equality with %T", got, want)
	}
	if !wantChecker.Is(got) {
		t.Fatalf("unexpected error value: %+v", got)
	}
}
