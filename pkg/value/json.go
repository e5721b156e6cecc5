package value

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
)

// MarshalJSON encodes v as canonical JSON, preserving object key order.
func (v Value) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	if err := v.encode(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (v Value) encode(buf *bytes.Buffer) error {
	switch v.kind {
	case KindNull:
		buf.WriteString("null")
	case KindBool:
		if v.b {
			buf.WriteString("true")
		} else {
			buf.WriteString("false")
		}
	case KindNumber:
		buf.WriteString(formatNumber(v.n))
	case KindString:
		b, err := json.Marshal(v.s)
		if err != nil {
			return err
		}
		buf.Write(b)
	case KindArray:
		buf.WriteByte('[')
		for i, e := range v.arr {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := e.encode(buf); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	case KindObject:
		buf.WriteByte('{')
		for i, k := range v.obj.keys {
			if i > 0 {
				buf.WriteByte(',')
			}
			kb, err := json.Marshal(k)
			if err != nil {
				return err
			}
			buf.Write(kb)
			buf.WriteByte(':')
			fv, _ := v.obj.Get(k)
			if err := fv.encode(buf); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
	default:
		return fmt.Errorf("value: unknown kind %d", v.kind)
	}
	return nil
}

// formatNumber renders a float64 the way JSON numbers are conventionally
// printed: integral values without a trailing ".0", others via the shortest
// round-tripping representation.
func formatNumber(n float64) string {
	if n == float64(int64(n)) && !isNegZero(n) {
		return strconv.FormatInt(int64(n), 10)
	}
	return strconv.FormatFloat(n, 'g', -1, 64)
}

func isNegZero(n float64) bool {
	return n == 0 && 1/n < 0
}

// UnmarshalJSON decodes JSON into v, preserving object key order by reading
// the token stream with json.Decoder rather than round-tripping through
// map[string]interface{} (which Go's encoding/json would otherwise
// alphabetize or at best leave unordered — see DESIGN.md).
func (v *Value) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	val, err := decodeValue(dec)
	if err != nil {
		return err
	}
	*v = val
	return nil
}

// Parse decodes a single JSON document from r into a Value.
func Parse(r io.Reader) (Value, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()
	return decodeValue(dec)
}

// ParseString decodes a single JSON document from s into a Value.
func ParseString(s string) (Value, error) {
	return Parse(bytes.NewReader([]byte(s)))
}

func decodeValue(dec *json.Decoder) (Value, error) {
	tok, err := dec.Token()
	if err != nil {
		return Null, err
	}
	return decodeToken(dec, tok)
}

func decodeToken(dec *json.Decoder, tok json.Token) (Value, error) {
	switch t := tok.(type) {
	case nil:
		return Null, nil
	case bool:
		return Bool(t), nil
	case json.Number:
		f, err := t.Float64()
		if err != nil {
			return Null, err
		}
		return Number(f), nil
	case string:
		return String(t), nil
	case json.Delim:
		switch t {
		case '[':
			var elems []Value
			for dec.More() {
				etok, err := dec.Token()
				if err != nil {
					return Null, err
				}
				ev, err := decodeToken(dec, etok)
				if err != nil {
					return Null, err
				}
				elems = append(elems, ev)
			}
			if _, err := dec.Token(); err != nil { // consume ']'
				return Null, err
			}
			return Array(elems), nil
		case '{':
			obj := NewObject()
			for dec.More() {
				ktok, err := dec.Token()
				if err != nil {
					return Null, err
				}
				key, ok := ktok.(string)
				if !ok {
					return Null, fmt.Errorf("value: object key is not a string: %v", ktok)
				}
				vtok, err := dec.Token()
				if err != nil {
					return Null, err
				}
				fv, err := decodeToken(dec, vtok)
				if err != nil {
					return Null, err
				}
				obj.Set(key, fv)
			}
			if _, err := dec.Token(); err != nil { // consume '}'
				return Null, err
			}
			return Obj(obj), nil
		}
	}
	return Null, fmt.Errorf("value: unexpected JSON token %v", tok)
}
