// Package decoder turns raw message payloads into price events.
//
// A payload is a UTF-8 JSON array of objects. Fields are looked up by name;
// a field that is missing or has the wrong JSON type decodes to nil rather
// than failing the element.
package decoder

import (
	"errors"
	"strconv"
	"unicode/utf8"

	"github.com/tidwall/gjson"

	"github.com/rickgao/stockprice-etl/internal/model"
	"github.com/rickgao/stockprice-etl/internal/schema"
)

// Payload errors. A message that fails with any of these yields no events.
var (
	ErrMalformedPayload = errors.New("payload is not valid UTF-8 JSON")
	ErrNotArray         = errors.New("payload is not a JSON array")
	ErrNotObject        = errors.New("array element is not a JSON object")
)

// Decoder parses message payloads into price events.
type Decoder interface {
	Decode(payload []byte) ([]model.PriceEvent, error)
}

// New returns the JSON array decoder.
func New() Decoder {
	return jsonArrayDecoder{}
}

type jsonArrayDecoder struct{}

// Decode returns one event per array element, in order.
func (jsonArrayDecoder) Decode(payload []byte) ([]model.PriceEvent, error) {
	if !utf8.Valid(payload) || !gjson.ValidBytes(payload) {
		return nil, ErrMalformedPayload
	}

	root := gjson.ParseBytes(payload)
	if !root.IsArray() {
		return nil, ErrNotArray
	}

	elems := root.Array()
	events := make([]model.PriceEvent, 0, len(elems))
	for _, elem := range elems {
		if !elem.IsObject() {
			return nil, ErrNotObject
		}
		events = append(events, decodeElement(elem))
	}
	return events, nil
}

// Source fields read from each element and the columns they land in.
var (
	sourceFields = schema.SourceFields()
	columns      = schema.Rename(sourceFields)
)

// decodeElement looks up every schema source field in obj and stores it
// under its renamed column.
func decodeElement(obj gjson.Result) model.PriceEvent {
	var e model.PriceEvent
	for i, name := range sourceFields {
		v := obj.Get(name)
		switch columns[i] {
		case schema.ColumnCompanyName:
			e.Name = stringValue(v)
		case schema.ColumnSymbol:
			e.Symbol = stringValue(v)
		case schema.ColumnExchange:
			e.Exchange = stringValue(v)
		case schema.ColumnPrice:
			e.Price = floatValue(v)
		case schema.ColumnChangePercentage:
			e.ChangePercentage = floatValue(v)
		case schema.ColumnTimestamp:
			e.Timestamp = intValue(v)
		}
	}
	return e
}

// Reason returns a short label for a decode error, for metrics.
func Reason(err error) string {
	switch {
	case errors.Is(err, ErrMalformedPayload):
		return "malformed"
	case errors.Is(err, ErrNotArray):
		return "not_array"
	case errors.Is(err, ErrNotObject):
		return "not_object"
	default:
		return "unknown"
	}
}

func stringValue(v gjson.Result) *string {
	if v.Type != gjson.String {
		return nil
	}
	s := v.Str
	return &s
}

func floatValue(v gjson.Result) *float64 {
	if v.Type != gjson.Number {
		return nil
	}
	f := v.Num
	return &f
}

// intValue accepts only integral JSON numbers that fit in int64.
func intValue(v gjson.Result) *int64 {
	if v.Type != gjson.Number {
		return nil
	}
	n, err := strconv.ParseInt(v.Raw, 10, 64)
	if err != nil {
		return nil
	}
	return &n
}
