// Package json implements the OtterLang standard library's json
// module (spec 4.3/4.6): parse, stringify, and query over the values
// internal/runtimeabi's reference runtime already uses (int64, float64,
// string, bool, nil, *runtimeabi.ArrayValue, *runtimeabi.DictValue).
//
// Backed by tidwall/gjson for parsing and path queries and
// tidwall/sjson for building output text, matching how the teacher's
// internal/interp/builtins_json.go wires JSON.Parse/ToJSON into the
// same two libraries (there via a bespoke jsonvalue.Value tree; here
// directly onto the values the rest of the runtime already speaks, so
// no intermediate JSON-specific value type is needed).
package json

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/otterlang/otterc/internal/runtimeabi"
)

// Parse decodes a JSON document into the runtime's own value shapes:
// objects become *runtimeabi.DictValue (string keys), arrays become
// *runtimeabi.ArrayValue, and scalars become int64/float64/string/bool/nil.
func Parse(document string) (any, error) {
	if !gjson.Valid(document) {
		return nil, fmt.Errorf("json: invalid document")
	}
	return fromResult(gjson.Parse(document)), nil
}

// Query evaluates a gjson path expression against document (the same
// dotted/indexed path syntax gjson.Get accepts — spec 4.6's json
// module exposes this directly as its `query` operation) and decodes
// the match the same way Parse does.
func Query(document, path string) (any, error) {
	result := gjson.Get(document, path)
	if !result.Exists() {
		return nil, fmt.Errorf("json: path %q not found", path)
	}
	return fromResult(result), nil
}

func fromResult(r gjson.Result) any {
	switch {
	case r.IsArray():
		arr := runtimeabi.OtterArrayNew(0)
		r.ForEach(func(_, elem gjson.Result) bool {
			runtimeabi.OtterArrayPush(arr, fromResult(elem))
			return true
		})
		return arr
	case r.IsObject():
		dict := runtimeabi.OtterDictNew()
		r.ForEach(func(key, val gjson.Result) bool {
			runtimeabi.OtterDictSet(dict, key.String(), fromResult(val))
			return true
		})
		return dict
	case r.Type == gjson.Null:
		return nil
	case r.Type == gjson.True, r.Type == gjson.False:
		return r.Bool()
	case r.Type == gjson.Number:
		// Whole numbers preserve Int (spec's Int/Float split); anything
		// with a fractional part or exponent decodes as Float, the same
		// json.Number-then-Int64-then-Float64 fallback order the
		// teacher's goValueToJSONValue uses.
		if !strings.ContainsAny(r.Raw, ".eE") {
			if i, err := strconv.ParseInt(r.Raw, 10, 64); err == nil {
				return i
			}
		}
		return r.Float()
	default:
		return r.String()
	}
}

// Stringify encodes v back to JSON text. Unlike sjson's usual
// set-a-path-in-an-existing-document use, this builds a document from
// scratch bottom-up: each nested value is stringified first, then
// spliced into its parent via sjson.SetRaw, so a single recursive
// walk produces the whole document without ever constructing an
// intermediate encoding/json-style tree.
func Stringify(v any) (string, error) {
	switch val := v.(type) {
	case nil:
		return "null", nil
	case bool:
		return strconv.FormatBool(val), nil
	case int64:
		return strconv.FormatInt(val, 10), nil
	case float64:
		return strconv.FormatFloat(val, 'g', -1, 64), nil
	case string:
		return strconv.Quote(val), nil
	case *runtimeabi.ArrayValue:
		return stringifyArray(val)
	case *runtimeabi.DictValue:
		return stringifyDict(val)
	default:
		return "", fmt.Errorf("json: cannot stringify %T", v)
	}
}

func stringifyArray(a *runtimeabi.ArrayValue) (string, error) {
	doc := "[]"
	for i := int64(0); i < runtimeabi.OtterArrayLength(a); i++ {
		raw, err := Stringify(runtimeabi.OtterArrayGet(a, i))
		if err != nil {
			return "", err
		}
		doc, err = sjson.SetRaw(doc, strconv.FormatInt(i, 10), raw)
		if err != nil {
			return "", err
		}
	}
	return doc, nil
}

// stringifyDict splices each entry into an empty object document via
// sjson.SetRaw, keyed on the entry's own name. Keys containing sjson's
// own path syntax characters (".", "*", "?", ":", "|") would need
// escaping sjson doesn't expose a public helper for, so — like the
// teacher's own JSON support, which only ever round-trips record field
// names and string-keyed maps — this assumes ordinary identifier-like
// keys, the only kind OtterLang's dict literals or field names produce.
func stringifyDict(d *runtimeabi.DictValue) (string, error) {
	doc := "{}"
	var rangeErr error
	d.Range(func(key, value any) {
		if rangeErr != nil {
			return
		}
		k, ok := key.(string)
		if !ok {
			rangeErr = fmt.Errorf("json: dict key %v is not a string", key)
			return
		}
		raw, err := Stringify(value)
		if err != nil {
			rangeErr = err
			return
		}
		doc, err = sjson.SetRaw(doc, k, raw)
		if err != nil {
			rangeErr = err
		}
	})
	return doc, rangeErr
}
