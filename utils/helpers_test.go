package utils

import "testing"

func TestIsValidRole(t *testing.T) {
	tests := []struct {
		role string
		want bool
	}{
		{"admin", true},
		{"profesor", true},
		{"owner", false},
		{"", false},
		{"Admin", false},
	}
	for _, tt := range tests {
		if got := IsValidRole(tt.role); got != tt.want {
			t.Errorf("IsValidRole(%q) = %v, want %v", tt.role, got, tt.want)
		}
	}
}

func TestIsValidCategoria(t *testing.T) {
	for _, categoria := range []string{"convivencia", "disciplinario", "acoso", "agresion", "otro"} {
		if !IsValidCategoria(categoria) {
			t.Errorf("IsValidCategoria(%q) = false, want true", categoria)
		}
	}
	for _, categoria := range []string{"", "bullying", "CONVIVENCIA"} {
		if IsValidCategoria(categoria) {
			t.Errorf("IsValidCategoria(%q) = true, want false", categoria)
		}
	}
}

func TestIsValidEstado(t *testing.T) {
	tests := []struct {
		estado string
		want   bool
	}{
		{"abierto", true},
		{"en seguimiento", true},
		{"cerrado", true},
		{"resuelto", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := IsValidEstado(tt.estado); got != tt.want {
			t.Errorf("IsValidEstado(%q) = %v, want %v", tt.estado, got, tt.want)
		}
	}
}

func TestIsValidFileExtension(t *testing.T) {
	allowed := []string{"jpg", "png", "pdf"}
	tests := []struct {
		filename string
		want     bool
	}{
		{"foto.jpg", true},
		{"foto.JPG", true},
		{"reporte.pdf", true},
		{"script.exe", false},
		{"sinextension", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := IsValidFileExtension(tt.filename, allowed); got != tt.want {
			t.Errorf("IsValidFileExtension(%q) = %v, want %v", tt.filename, got, tt.want)
		}
	}
}

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("secreto123")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if hash == "secreto123" {
		t.Fatal("hash equals plaintext")
	}
	if err := CheckPassword("secreto123", hash); err != nil {
		t.Errorf("CheckPassword with correct password: %v", err)
	}
	if err := CheckPassword("otra", hash); err == nil {
		t.Error("CheckPassword accepted a wrong password")
	}
}

func TestSanitizeString(t *testing.T) {
	if got := SanitizeString("  hola\x00mundo  "); got != "holamundo" {
		t.Errorf("SanitizeString = %q, want %q", got, "holamundo")
	}
}
