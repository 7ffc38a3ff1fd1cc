package schema

import (
	"reflect"
	"testing"
)

func TestColumns(t *testing.T) {
	want := []string{
		"company_name", "symbol", "exchange", "price",
		"change_percentage", "timestamp", "readable_timestamp", "load_time",
	}
	if got := Columns(); !reflect.DeepEqual(got, want) {
		t.Errorf("Columns() = %v, want %v", got, want)
	}
}

func TestSourceFields(t *testing.T) {
	want := []string{"name", "symbol", "exchange", "price", "changesPercentage", "timestamp"}
	if got := SourceFields(); !reflect.DeepEqual(got, want) {
		t.Errorf("SourceFields() = %v, want %v", got, want)
	}
}

func TestRename(t *testing.T) {
	tests := []struct {
		name string
		in   []string
		want []string
	}{
		{
			name: "source names",
			in:   []string{"name", "symbol", "changesPercentage"},
			want: []string{"company_name", "symbol", "change_percentage"},
		},
		{
			name: "already renamed",
			in:   []string{"company_name", "change_percentage", "load_time"},
			want: []string{"company_name", "change_percentage", "load_time"},
		},
		{
			name: "unknown passes through",
			in:   []string{"volume"},
			want: []string{"volume"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Rename(tt.in)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Rename() = %v, want %v", got, tt.want)
			}
			if twice := Rename(got); !reflect.DeepEqual(twice, got) {
				t.Errorf("Rename(Rename()) = %v, want %v", twice, got)
			}
		})
	}
}

func TestSQLType(t *testing.T) {
	tests := []struct {
		typ  Type
		want string
	}{
		{TypeString, "text"},
		{TypeDouble, "double precision"},
		{TypeLong, "bigint"},
		{TypeTimestamp, "timestamptz"},
	}
	for _, tt := range tests {
		if got := tt.typ.SQLType(); got != tt.want {
			t.Errorf("%s.SQLType() = %q, want %q", tt.typ, got, tt.want)
		}
	}
}

func TestSignature(t *testing.T) {
	want := "company_name:string, symbol:string, exchange:string, price:double, " +
		"change_percentage:double, timestamp:long, readable_timestamp:string, load_time:timestamp"
	if got := Signature(); got != want {
		t.Errorf("Signature() = %q, want %q", got, want)
	}
}
