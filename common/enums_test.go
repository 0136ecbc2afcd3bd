package common

import (
	"errors"
	"testing"
)

func TestParseSourceFmt(t *testing.T) {
	tests := []struct {
		in      string
		want    SourceFmt
		wantErr bool
	}{
		{"auto", SourceFmtAuto, false},
		{"csv", SourceFmtCsv, false},
		{"xlsx", SourceFmtXlsx, false},
		{"xls", SourceFmtAuto, true},
		{"CSV", SourceFmtAuto, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseSourceFmt(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseSourceFmt(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidSourceFmt) {
				t.Errorf("error %v does not wrap ErrInvalidSourceFmt", err)
			}
			if got != tt.want {
				t.Errorf("ParseSourceFmt(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestSourceFmt_Ext(t *testing.T) {
	if ext := SourceFmtCsv.Ext(); ext != ".csv" {
		t.Errorf("csv ext = %q", ext)
	}
	if ext := SourceFmtXlsx.Ext(); ext != ".xlsx" {
		t.Errorf("xlsx ext = %q", ext)
	}
	if ext := SourceFmtAuto.Ext(); ext != "" {
		t.Errorf("auto ext = %q", ext)
	}
}

func TestFieldKind_TextRoundTrip(t *testing.T) {
	for _, name := range FieldKindNames() {
		var k FieldKind
		if err := k.UnmarshalText([]byte(name)); err != nil {
			t.Fatalf("UnmarshalText(%q) error = %v", name, err)
		}
		out, err := k.MarshalText()
		if err != nil {
			t.Fatalf("MarshalText() error = %v", err)
		}
		if string(out) != name {
			t.Errorf("MarshalText() = %q, want %q", out, name)
		}
	}
	if FieldKind(42).IsValid() {
		t.Error("FieldKind(42) reported as valid")
	}
}
