package schemas

import (
	"encoding/json"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// StringList is a field stored either as a single string or as an array of
// strings. Both shapes decode to a slice; a bare string becomes a one-element
// list and an empty string becomes an empty list.
type StringList []string

func (l *StringList) UnmarshalBSONValue(typ byte, data []byte) error {
	raw := bson.RawValue{Type: bson.Type(typ), Value: data}

	switch raw.Type {
	case bson.TypeNull, bson.TypeUndefined:
		*l = nil
		return nil
	case bson.TypeString:
		*l = fromScalar(raw.StringValue())
		return nil
	case bson.TypeArray:
		values, err := raw.Array().Values()
		if err != nil {
			return err
		}
		out := make(StringList, 0, len(values))
		for _, v := range values {
			s, ok := v.StringValueOK()
			if !ok {
				return fmt.Errorf("string list: unexpected element type %s", v.Type)
			}
			out = append(out, s)
		}
		*l = out
		return nil
	}

	return fmt.Errorf("string list: unexpected bson type %s", raw.Type)
}

func (l *StringList) UnmarshalJSON(data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}

	switch t := v.(type) {
	case nil:
		*l = nil
	case string:
		*l = fromScalar(t)
	case []any:
		out := make(StringList, 0, len(t))
		for _, item := range t {
			s, ok := item.(string)
			if !ok {
				return fmt.Errorf("string list: unexpected element %v", item)
			}
			out = append(out, s)
		}
		*l = out
	default:
		return fmt.Errorf("string list: unexpected value %v", t)
	}
	return nil
}

func fromScalar(s string) StringList {
	if s == "" {
		return StringList{}
	}
	return StringList{s}
}

// NormalizePartnerships returns the non-empty partnership names of a report.
func NormalizePartnerships(r Report) []string {
	out := make([]string, 0, len(r.Partnerships))
	for _, p := range r.Partnerships {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
