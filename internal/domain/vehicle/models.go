package vehicle

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// Значения marque для результатов без данных от провайдера
const (
	MarqueUnknown  = "Inconnu"
	MarqueNotFound = "Non trouvé"
	MarqueError    = "Erreur"

	EnergieUnknown = "Inconnu"
)

type valueKind uint8

const (
	kindAbsent valueKind = iota
	kindNull
	kindString
	kindNumber
	kindBool
)

// Value is one loosely typed field of the provider record. The provider
// sends the same field as a string, a number or null depending on the
// vehicle, so the raw text is kept together with its JSON kind.
type Value struct {
	kind valueKind
	text string
}

func (v *Value) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case len(data) == 0 || bytes.Equal(data, []byte("null")):
		*v = Value{kind: kindNull}
	case data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*v = Value{kind: kindString, text: s}
	case bytes.Equal(data, []byte("true")) || bytes.Equal(data, []byte("false")):
		*v = Value{kind: kindBool, text: string(data)}
	case data[0] == '{' || data[0] == '[':
		// объекты и массивы в этих полях не ожидаются, считаем их отсутствующими
		*v = Value{kind: kindNull}
	default:
		var n json.Number
		if err := json.Unmarshal(data, &n); err != nil {
			return err
		}
		*v = Value{kind: kindNumber, text: n.String()}
	}
	return nil
}

func StringValue(s string) Value { return Value{kind: kindString, text: s} }

func NumberValue(n string) Value { return Value{kind: kindNumber, text: n} }

func NullValue() Value { return Value{kind: kindNull} }

// Present is false when the key was missing or explicitly null.
func (v Value) Present() bool {
	return v.kind != kindAbsent && v.kind != kindNull
}

// Truthy follows the provider's own notion of "has a value": non-empty
// strings, non-zero numbers and true.
func (v Value) Truthy() bool {
	switch v.kind {
	case kindString:
		return v.text != ""
	case kindNumber:
		f, err := strconv.ParseFloat(v.text, 64)
		return err != nil || f != 0
	case kindBool:
		return v.text == "true"
	default:
		return false
	}
}

// Text is the textual form of the value, empty when not present.
func (v Value) Text() string {
	if !v.Present() {
		return ""
	}
	return v.text
}

// StringOr returns the text of a present value or fallback otherwise.
func (v Value) StringOr(fallback string) string {
	if !v.Present() {
		return fallback
	}
	return v.text
}

func (v Value) IsNumber() bool { return v.kind == kindNumber }

func (v Value) IsBool() bool { return v.kind == kindBool }

func (v Value) blank() bool {
	return strings.TrimSpace(v.Text()) == ""
}

// RawRecord is the "data" object of a registration lookup. Every field is
// optional.
type RawRecord struct {
	Marque     Value `json:"marque"`
	Modele     Value `json:"modele"`
	EnergieNGC Value `json:"energieNGC"`
	CO2        Value `json:"co2"`
	CCM        Value `json:"ccm"`
	PuisFisc   Value `json:"puisFisc"`
}

// Envelope is the provider's response body.
type Envelope struct {
	Data json.RawMessage `json:"data"`
}

// Record decodes Data when it is a non-empty JSON object; anything else
// (missing, null, {}, arrays, scalars) means the provider has nothing for
// the plate.
func (e *Envelope) Record() (*RawRecord, bool) {
	if e == nil {
		return nil, false
	}
	data := bytes.TrimSpace(e.Data)
	if len(data) == 0 || data[0] != '{' {
		return nil, false
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil || len(fields) == 0 {
		return nil, false
	}
	var rec RawRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, false
	}
	return &rec, true
}

// Result is the normalized answer for one plate. The optional numbers are
// serialized as null when absent so every result has the same keys.
type Result struct {
	Success   bool     `json:"success"`
	Plaque    string   `json:"plaque"`
	Marque    string   `json:"marque"`
	Modele    string   `json:"modele"`
	Energie   string   `json:"energie"`
	CO2PerKm  *float64 `json:"co2PerKm"`
	Puissance *int     `json:"puissance"`
	Cylindree *int     `json:"cylindree"`
	Error     string   `json:"error,omitempty"`
}
