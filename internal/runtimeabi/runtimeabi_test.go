package runtimeabi

import (
	"bytes"
	"strings"
	"testing"
)

func TestFormatInt(t *testing.T) {
	cases := map[int64]string{
		0:                    "0",
		42:                   "42",
		-42:                  "-42",
		9223372036854775807:  "9223372036854775807",
		-9223372036854775808: "-9223372036854775808",
	}
	for in, want := range cases {
		if got := OtterFormatInt(in); got != want {
			t.Errorf("OtterFormatInt(%d) = %q, want %q", in, got, want)
		}
	}
}

func TestFormatFloat(t *testing.T) {
	cases := map[float64]string{
		1.0:  "1",
		1.5:  "1.5",
		0.0:  "0",
		-2.0: "-2",
	}
	for in, want := range cases {
		if got := OtterFormatFloat(in); got != want {
			t.Errorf("OtterFormatFloat(%v) = %q, want %q", in, got, want)
		}
	}
}

func TestFormatFloatSpecials(t *testing.T) {
	if got := OtterFormatFloat(1.0 / zero()); got != "inf" {
		t.Errorf("+infformatted as %q", got)
	}
	if got := OtterFormatFloat(-1.0 / zero()); got != "-inf" {
		t.Errorf("-inf formatted as %q", got)
	}
	if got := OtterFormatFloat(zero() / zero()); got != "nan" {
		t.Errorf("nan formatted as %q", got)
	}
}

func zero() float64 { return 0 }

func TestFormatBool(t *testing.T) {
	if OtterFormatBool(true) != "true" || OtterFormatBool(false) != "false" {
		t.Fatal("bool formatting mismatch")
	}
}

func TestErrorStatePushRaiseGet(t *testing.T) {
	r := New(nil, nil, nil, nil)
	r.OtterErrorPushContext()
	if r.OtterErrorHasError() {
		t.Fatal("fresh context should have no error")
	}
	r.OtterErrorRaise("boom")
	if !r.OtterErrorHasError() {
		t.Fatal("expected error flag set after raise")
	}
	if msg := r.OtterErrorGetMessage(); msg != "boom" {
		t.Fatalf("got message %q, want boom", msg)
	}
	r.OtterErrorClear()
	if r.OtterErrorHasError() {
		t.Fatal("expected error flag cleared")
	}
	r.OtterErrorPopContext()
}

func TestErrorStateRethrowPropagatesToOuterFrame(t *testing.T) {
	r := New(nil, nil, nil, nil)
	r.OtterErrorPushContext() // outer
	r.OtterErrorPushContext() // inner
	r.OtterErrorRaise("inner failure")
	r.OtterErrorRethrow()
	r.OtterErrorPopContext() // discard inner
	if !r.OtterErrorHasError() {
		t.Fatal("expected outer frame to observe the rethrown error")
	}
	if msg := r.OtterErrorGetMessage(); msg != "inner failure" {
		t.Fatalf("got %q, want inner failure", msg)
	}
}

func TestErrorStateRaiseWithNoFrameIsUncaught(t *testing.T) {
	r := New(nil, nil, nil, nil)
	defer func() {
		rec := recover()
		uncaught, ok := rec.(*UncaughtError)
		if !ok {
			t.Fatalf("expected *UncaughtError panic, got %#v", rec)
		}
		if uncaught.Message != "no handler" {
			t.Fatalf("got message %q", uncaught.Message)
		}
	}()
	r.OtterErrorRaise("no handler")
}

func TestStdIoPrintln(t *testing.T) {
	var out bytes.Buffer
	r := New(&out, nil, nil, nil)
	r.OtterStdIoPrintln("hello")
	if out.String() != "hello\n" {
		t.Fatalf("got %q", out.String())
	}
}

func TestStdIoReadLineStripsNewline(t *testing.T) {
	r := New(nil, nil, strings.NewReader("first\r\nsecond\n"), nil)
	line, ok := r.OtterStdIoReadLine()
	if !ok || line != "first" {
		t.Fatalf("got (%q, %v), want (first, true)", line, ok)
	}
	line, ok = r.OtterStdIoReadLine()
	if !ok || line != "second" {
		t.Fatalf("got (%q, %v), want (second, true)", line, ok)
	}
	_, ok = r.OtterStdIoReadLine()
	if ok {
		t.Fatal("expected EOF to report ok=false")
	}
}

func TestNormalizeTextReplacesIllFormedBytes(t *testing.T) {
	bad := "abc\xff\xfedef"
	got := OtterNormalizeText(bad)
	if !strings.Contains(got, "�") {
		t.Fatalf("expected replacement character, got %q", got)
	}
	if !OtterIsValidUTF8(got) {
		t.Fatal("normalized text should be valid UTF-8")
	}
}

func TestArrayPushGetSetLength(t *testing.T) {
	a := OtterArrayNew(0)
	OtterArrayPush(a, int64(1))
	OtterArrayPush(a, int64(2))
	if OtterArrayLength(a) != 2 {
		t.Fatalf("got length %d, want 2", OtterArrayLength(a))
	}
	OtterArraySet(a, 0, int64(9))
	if got := OtterArrayGet(a, 0); got != int64(9) {
		t.Fatalf("got %v, want 9", got)
	}
}

func TestArrayGetOutOfBoundsPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic on out-of-bounds access")
		}
	}()
	a := OtterArrayNew(0)
	OtterArrayGet(a, 0)
}

func TestArrayRestHandle(t *testing.T) {
	a := OtterArrayNew(0)
	OtterArrayPush(a, int64(1))
	OtterArrayPush(a, int64(2))
	OtterArrayPush(a, int64(3))
	rest := OtterArrayRestHandle(a, 1)
	if OtterArrayLength(rest) != 2 {
		t.Fatalf("got rest length %d, want 2", OtterArrayLength(rest))
	}
	if OtterArrayGet(rest, 0) != int64(2) {
		t.Fatalf("got %v, want 2", OtterArrayGet(rest, 0))
	}
}

func TestDictGetSet(t *testing.T) {
	d := OtterDictNew()
	OtterDictSet(d, "key", int64(42))
	if got := OtterDictGet(d, "key"); got != int64(42) {
		t.Fatalf("got %v, want 42", got)
	}
}

func TestStructFieldAccessByIndexAndName(t *testing.T) {
	r := New(nil, nil, nil, nil)
	r.RegisterStructLayout(0, []string{"x", "y"})
	s := r.OtterStructNew(0)
	OtterStructSetField(s, 0, int64(3))
	OtterStructSetField(s, 1, int64(4))
	if got := r.OtterStructFieldGetByName(s, "y"); got != int64(4) {
		t.Fatalf("got %v, want 4", got)
	}
	if got := OtterStructGetField(s, 0); got != int64(3) {
		t.Fatalf("got %v, want 3", got)
	}
}

func TestEnumTagAndPayload(t *testing.T) {
	payload := OtterEnumBoxPayload(int64(7), "label")
	e := &EnumValue{Tag: 2, Payload: payload}
	if OtterEnumReadTag(e) != 2 {
		t.Fatal("tag mismatch")
	}
	if OtterEnumPayloadGet(e, 1) != "label" {
		t.Fatal("payload mismatch")
	}
}

func TestTaskSpawnAwaitSerial(t *testing.T) {
	r := New(nil, nil, nil, nil) // nil pool: Serial model
	h := r.OtterTaskSpawn(func() (any, string, bool) {
		return int64(5), "", false
	})
	r.OtterErrorPushContext()
	got := r.OtterTaskAwait(h)
	if got != int64(5) {
		t.Fatalf("got %v, want 5", got)
	}
	if r.OtterErrorHasError() {
		t.Fatal("unexpected error after a non-raising task")
	}
}

func TestTaskSpawnAwaitPropagatesError(t *testing.T) {
	r := New(nil, nil, nil, nil)
	h := r.OtterTaskSpawn(func() (any, string, bool) {
		return nil, "task failed", true
	})
	r.OtterErrorPushContext()
	r.OtterTaskAwait(h)
	if !r.OtterErrorHasError() {
		t.Fatal("expected awaiter's error state to observe the task's error")
	}
	if msg := r.OtterErrorGetMessage(); msg != "task failed" {
		t.Fatalf("got %q", msg)
	}
}

type inlinePool struct{}

func (inlinePool) Submit(fn func()) { fn() }

func TestTaskSpawnAwaitWithPool(t *testing.T) {
	r := New(nil, nil, nil, inlinePool{})
	h := r.OtterTaskSpawn(func() (any, string, bool) {
		return "done", "", false
	})
	if got := r.OtterTaskAwait(h); got != "done" {
		t.Fatalf("got %v", got)
	}
}
