// Package schema describes the shape of price event messages and of the
// processed table they are written to.
package schema

import (
	"fmt"
	"strings"
)

// Type is a logical column type.
type Type string

const (
	TypeString    Type = "string"
	TypeDouble    Type = "double"
	TypeLong      Type = "long"
	TypeTimestamp Type = "timestamp"
)

// SQLType returns the PostgreSQL type used for the column.
func (t Type) SQLType() string {
	switch t {
	case TypeDouble:
		return "double precision"
	case TypeLong:
		return "bigint"
	case TypeTimestamp:
		return "timestamptz"
	default:
		return "text"
	}
}

// Field maps a source message field to an output column.
// Derived fields have an empty Source.
type Field struct {
	Source string
	Column string
	Type   Type
}

// Derived reports whether the field is computed by the processor rather
// than read from the message.
func (f Field) Derived() bool {
	return f.Source == ""
}

// Output column names.
const (
	ColumnCompanyName       = "company_name"
	ColumnSymbol            = "symbol"
	ColumnExchange          = "exchange"
	ColumnPrice             = "price"
	ColumnChangePercentage  = "change_percentage"
	ColumnTimestamp         = "timestamp"
	ColumnReadableTimestamp = "readable_timestamp"
	ColumnLoadTime          = "load_time"
)

// PriceEvent is the price event schema in output column order.
var PriceEvent = []Field{
	{Source: "name", Column: ColumnCompanyName, Type: TypeString},
	{Source: "symbol", Column: ColumnSymbol, Type: TypeString},
	{Source: "exchange", Column: ColumnExchange, Type: TypeString},
	{Source: "price", Column: ColumnPrice, Type: TypeDouble},
	{Source: "changesPercentage", Column: ColumnChangePercentage, Type: TypeDouble},
	{Source: "timestamp", Column: ColumnTimestamp, Type: TypeLong},
	{Column: ColumnReadableTimestamp, Type: TypeString},
	{Column: ColumnLoadTime, Type: TypeTimestamp},
}

// ReadableTimestampLayout is the rendering of readable_timestamp.
const ReadableTimestampLayout = "2006-01-02 15:04:05"

// Columns returns the output column names in order.
func Columns() []string {
	cols := make([]string, len(PriceEvent))
	for i, f := range PriceEvent {
		cols[i] = f.Column
	}
	return cols
}

// SourceFields returns the message fields read by the decoder.
func SourceFields() []string {
	var out []string
	for _, f := range PriceEvent {
		if !f.Derived() {
			out = append(out, f.Source)
		}
	}
	return out
}

// Rename maps source field names to column names. Names that are not
// source fields pass through unchanged, so Rename(Rename(x)) == Rename(x).
func Rename(names []string) []string {
	out := make([]string, len(names))
	for i, name := range names {
		out[i] = name
		for _, f := range PriceEvent {
			if !f.Derived() && f.Source == name {
				out[i] = f.Column
				break
			}
		}
	}
	return out
}

// Signature renders the output schema on one line, e.g.
// "company_name:string, symbol:string, ...".
func Signature() string {
	parts := make([]string, len(PriceEvent))
	for i, f := range PriceEvent {
		parts[i] = fmt.Sprintf("%s:%s", f.Column, f.Type)
	}
	return strings.Join(parts, ", ")
}
