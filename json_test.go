package yabe

import (
	"math"
	"reflect"
	"strings"
	"testing"
)

func TestJSONRoundTrip(t *testing.T) {
	cases := []string{
		`null`,
		`true`,
		`42`,
		`-1.5`,
		`"plain"`,
		`[]`,
		`{}`,
		`[1,2,3,4,5,6,7,8]`,
		`{"a":1,"b":[true,false,null],"c":{"d":"x"},"e":1.5}`,
		`{"a":1,"b":2,"c":3,"d":4,"e":5,"f":6,"g":7}`,
		`"quote \" backslash \\ newline \n tab \t ctl \u0001"`,
		`{"blob":"b64:AAEC"}`,
		`[1e+300,0.128,65537]`,
	}
	for _, in := range cases {
		doc, err := FromJSON([]byte(in))
		if err != nil {
			t.Fatalf("FromJSON(%s): %v", in, err)
		}
		out, err := ToJSON(doc)
		if err != nil {
			t.Fatalf("ToJSON(%s): %v", in, err)
		}
		if out != in {
			t.Fatalf("round trip:\n got %s\nwant %s", out, in)
		}
	}
}

func TestFromJSONTypes(t *testing.T) {
	doc, err := FromJSON([]byte(`{"int":7,"whole":2.0,"frac":0.25,"big":18446744073709551615,"blob":"b64:aGk=","notblob":"b64:***"}`))
	if err != nil {
		t.Fatalf("FromJSON: %v", err)
	}
	got, err := Decode(doc)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	want := map[string]any{
		"int":     int64(7),
		"whole":   int64(2),
		"frac":    0.25,
		"big":     float64(math.MaxUint64),
		"blob":    Blob{Mime: OctetStream, Data: []byte("hi")},
		"notblob": "b64:***",
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %#v", got)
	}
}

func TestFromJSONScalarRoot(t *testing.T) {
	doc, err := FromJSON([]byte("  12345678901  "))
	if err != nil {
		t.Fatalf("FromJSON: %v", err)
	}
	got, err := Decode(doc)
	if err != nil || got != int64(12345678901) {
		t.Fatalf("decode: %#v %v", got, err)
	}
}

func TestFromJSONInvalid(t *testing.T) {
	for _, in := range []string{``, `   `, `{`, `1 2`, `nul`, `"unterminated`} {
		if _, err := FromJSON([]byte(in)); err == nil {
			t.Fatalf("FromJSON(%q) accepted", in)
		}
	}
}

func TestFromJSONNormalizeNFC(t *testing.T) {
	in := []byte("{\"cafe\u0301\":\"e\u0301\"}")
	doc, err := FromJSONWithOptions(in, JSONOptions{NormalizeNFC: true})
	if err != nil {
		t.Fatalf("FromJSON: %v", err)
	}
	got, err := Decode(doc)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	want := map[string]any{"caf\u00e9": "\u00e9"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %#v", got)
	}

	doc, err = FromJSON(in)
	if err != nil {
		t.Fatalf("FromJSON: %v", err)
	}
	got, _ = Decode(doc)
	if reflect.DeepEqual(got, want) {
		t.Fatalf("strings normalized without the option")
	}
}

func TestToJSONSpecialFloats(t *testing.T) {
	doc, err := Marshal([]any{math.NaN(), math.Inf(1), math.Inf(-1), 0.5})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	out, err := ToJSON(doc)
	if err != nil {
		t.Fatalf("ToJSON: %v", err)
	}
	if out != `[null,null,null,0.5]` {
		t.Fatalf("got %s", out)
	}
}

func TestToJSONStrict(t *testing.T) {
	dup := signed(0xD8|2, 0x81, 'a', 0x01, 0x81, 'a', 0x02)
	out, err := ToJSON(dup)
	if err != nil || out != `{"a":1,"a":2}` {
		t.Fatalf("lenient: %s %v", out, err)
	}
	var sb strings.Builder
	if err := WriteJSONWithOptions(&sb, dup, DecodeOptions{Strict: true}); err == nil {
		t.Fatalf("strict accepted duplicate keys")
	}
}

func TestToJSONPadding(t *testing.T) {
	doc := signed(tagPad, 0xD8|1, tagPad, 0x81, 'k', tagPad, 0x05, tagPad)
	out, err := ToJSON(doc)
	if err != nil {
		t.Fatalf("ToJSON: %v", err)
	}
	if out != `{"k":5}` {
		t.Fatalf("got %s", out)
	}
}
