package typesys

import (
	"testing"

	"github.com/nalgeon/be"
)

func TestValueTypeString(t *testing.T) {
	tests := []struct {
		typ  ValueType
		want string
	}{
		{IntType, "Int"},
		{StrType, "Str"},
		{ArrayOf(3), "Array(3)"},
		{ArrayOf(0), "Array(0)"},
		{InstanceOf("Point"), "Instance(Point)"},
	}
	for _, tt := range tests {
		if got := tt.typ.String(); got != tt.want {
			t.Fatalf("String()=%q want=%q", got, tt.want)
		}
		parsed, err := Parse(tt.want)
		be.Err(t, err, nil)
		be.Equal(t, parsed, tt.typ)
	}
}

func TestParseRejectsUnknownForms(t *testing.T) {
	for _, in := range []string{"", "int", "Array()", "Array(-1)", "Array(x)", "Instance()", "Map(1)", "Array(3"} {
		if _, err := Parse(in); err == nil {
			t.Fatalf("Parse(%q) expected error", in)
		}
	}
}

func TestEqualityAndPrintable(t *testing.T) {
	be.True(t, ArrayOf(2) == ArrayOf(2))
	be.True(t, ArrayOf(2) != ArrayOf(3))
	be.True(t, InstanceOf("A") != InstanceOf("B"))
	be.True(t, IntType.Printable())
	be.True(t, StrType.Printable())
	be.True(t, !ArrayOf(1).Printable())
	be.True(t, !InstanceOf("A").Printable())
}
