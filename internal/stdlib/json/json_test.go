package json

import (
	"testing"

	"github.com/otterlang/otterc/internal/runtimeabi"
)

func TestParseScalars(t *testing.T) {
	cases := map[string]any{
		"null":  nil,
		"true":  true,
		"false": false,
		"42":    int64(42),
		"4.5":   4.5,
		`"hi"`:  "hi",
	}
	for doc, want := range cases {
		got, err := Parse(doc)
		if err != nil {
			t.Fatalf("Parse(%q) error: %v", doc, err)
		}
		if got != want {
			t.Errorf("Parse(%q) = %v, want %v", doc, got, want)
		}
	}
}

func TestParseArrayAndObject(t *testing.T) {
	got, err := Parse(`{"name":"Ada","tags":["a","b"]}`)
	if err != nil {
		t.Fatal(err)
	}
	dict, ok := got.(*runtimeabi.DictValue)
	if !ok {
		t.Fatalf("got %T, want *runtimeabi.DictValue", got)
	}
	if name := runtimeabi.OtterDictGet(dict, "name"); name != "Ada" {
		t.Errorf("name = %v, want Ada", name)
	}
	tags, ok := runtimeabi.OtterDictGet(dict, "tags").(*runtimeabi.ArrayValue)
	if !ok {
		t.Fatalf("tags is %T, want *runtimeabi.ArrayValue", runtimeabi.OtterDictGet(dict, "tags"))
	}
	if runtimeabi.OtterArrayLength(tags) != 2 || runtimeabi.OtterArrayGet(tags, 0) != "a" {
		t.Errorf("unexpected tags contents: %#v", tags)
	}
}

func TestParseInvalidDocument(t *testing.T) {
	if _, err := Parse("{not json"); err == nil {
		t.Fatal("expected an error for invalid JSON")
	}
}

func TestQuery(t *testing.T) {
	doc := `{"user":{"name":"Grace","age":30}}`
	got, err := Query(doc, "user.name")
	if err != nil {
		t.Fatal(err)
	}
	if got != "Grace" {
		t.Errorf("got %v, want Grace", got)
	}
}

func TestQueryMissingPath(t *testing.T) {
	if _, err := Query(`{"a":1}`, "b"); err == nil {
		t.Fatal("expected an error for a missing path")
	}
}

func TestStringifyScalarsAndArray(t *testing.T) {
	arr := runtimeabi.OtterArrayNew(0)
	runtimeabi.OtterArrayPush(arr, int64(1))
	runtimeabi.OtterArrayPush(arr, "two")
	runtimeabi.OtterArrayPush(arr, true)

	got, err := Stringify(arr)
	if err != nil {
		t.Fatal(err)
	}
	roundTripped, err := Parse(got)
	if err != nil {
		t.Fatalf("round-trip parse of %q failed: %v", got, err)
	}
	back, ok := roundTripped.(*runtimeabi.ArrayValue)
	if !ok || runtimeabi.OtterArrayLength(back) != 3 {
		t.Fatalf("round-trip mismatch: %#v", roundTripped)
	}
}

func TestStringifyDictRoundTrips(t *testing.T) {
	d := runtimeabi.OtterDictNew()
	runtimeabi.OtterDictSet(d, "count", int64(3))

	got, err := Stringify(d)
	if err != nil {
		t.Fatal(err)
	}
	roundTripped, err := Parse(got)
	if err != nil {
		t.Fatal(err)
	}
	back, ok := roundTripped.(*runtimeabi.DictValue)
	if !ok {
		t.Fatalf("got %T, want *runtimeabi.DictValue", roundTripped)
	}
	if runtimeabi.OtterDictGet(back, "count") != int64(3) {
		t.Errorf("count = %v, want 3", runtimeabi.OtterDictGet(back, "count"))
	}
}
