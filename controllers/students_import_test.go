package controllers

import (
	"strings"
	"testing"
)

func TestReadImportCSV(t *testing.T) {
	input := "identificacion,nombre,grado,grupo\n" +
		" TI-1001 ,Ana Lopez,8,B\n" +
		"TI-1002,Luis Perez,8,B,extra\n"

	rows, err := readImportCSV(strings.NewReader(input))
	if err != nil {
		t.Fatalf("readImportCSV: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("got %d rows, want 3", len(rows))
	}
	if rows[1][0] != "TI-1001 " {
		t.Errorf("leading space not trimmed: %q", rows[1][0])
	}
	// Ragged rows are tolerated; validation happens per field later.
	if len(rows[2]) != 5 {
		t.Errorf("ragged row collapsed: %v", rows[2])
	}
}

func TestReadImportCSVMalformed(t *testing.T) {
	if _, err := readImportCSV(strings.NewReader("a,\"b\nc")); err == nil {
		t.Fatal("expected error for unterminated quote")
	}
}

func TestSanitizeImportFilename(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"estudiantes.xlsx", "estudiantes.xlsx"},
		{"../../etc/passwd", "____etc_passwd"},
		{"carpeta\\archivo.csv", "carpeta_archivo.csv"},
	}
	for _, tt := range tests {
		if got := sanitizeImportFilename(tt.name); got != tt.want {
			t.Errorf("sanitizeImportFilename(%q) = %q, want %q", tt.name, got, tt.want)
		}
	}
}
