package convivencia

import "testing"

func TestNormalizeGrade(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "degree sign", input: "8°", want: "8"},
		{name: "surrounding spaces", input: " 8 ", want: "8"},
		{name: "plain", input: "8", want: "8"},
		{name: "alphanumeric", input: "10-B", want: "10B"},
		{name: "empty", input: "", want: ""},
		{name: "only symbols", input: "°·", want: ""},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			got := NormalizeGrade(tc.input)
			if got != tc.want {
				t.Fatalf("expected %q, got %q", tc.want, got)
			}
			if again := NormalizeGrade(got); again != got {
				t.Fatalf("not idempotent: %q -> %q", got, again)
			}
		})
	}
}

func TestNormalizeGroup(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{" a ", "A"},
		{"b", "B"},
		{"A", "A"},
		{"", ""},
	}

	for _, tc := range tests {
		got := NormalizeGroup(tc.input)
		if got != tc.want {
			t.Fatalf("NormalizeGroup(%q): expected %q, got %q", tc.input, tc.want, got)
		}
		if again := NormalizeGroup(got); again != got {
			t.Fatalf("not idempotent: %q -> %q", got, again)
		}
	}
}

func TestNormalizeSeverity(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "canonical tier1", input: "tipo1", want: GravedadTipo1},
		{name: "canonical tier3", input: "TIPO3", want: GravedadTipo3},
		{name: "numeric", input: "1", want: GravedadTipo1},
		{name: "legacy baja", input: "Baja", want: GravedadTipo1},
		{name: "legacy media", input: "media", want: GravedadTipo2},
		{name: "legacy alta", input: "ALTA", want: GravedadTipo3},
		{name: "padded", input: "  alta  ", want: GravedadTipo3},
		{name: "empty defaults to middle", input: "", want: GravedadTipo2},
		{name: "garbage defaults to middle", input: "critica", want: GravedadTipo2},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			got := NormalizeSeverity(tc.input)
			if got != tc.want {
				t.Fatalf("expected %q, got %q", tc.want, got)
			}
			if again := NormalizeSeverity(got); again != got {
				t.Fatalf("not idempotent: %q -> %q", got, again)
			}
		})
	}
}

func TestNormalizeAttendanceType(t *testing.T) {
	valid := []string{"presente", "FALTA", " Retardo ", "salida"}
	want := []string{TipoPresente, TipoFalta, TipoRetardo, TipoSalida}
	for i, input := range valid {
		got := NormalizeAttendanceType(input)
		if got != want[i] {
			t.Fatalf("NormalizeAttendanceType(%q): expected %q, got %q", input, want[i], got)
		}
		if again := NormalizeAttendanceType(got); again != got {
			t.Fatalf("not idempotent: %q -> %q", got, again)
		}
	}

	for _, input := range []string{"", "ausente", "present", "salida anticipada"} {
		if got := NormalizeAttendanceType(input); got != "" {
			t.Fatalf("NormalizeAttendanceType(%q): expected empty sentinel, got %q", input, got)
		}
	}
}

func TestNormalizeText(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"  Pelea   en el  patio ", "pelea en el patio"},
		{"Sin\tnovedad", "sin novedad"},
		{"", ""},
		{"   ", ""},
	}
	for _, tc := range tests {
		if got := NormalizeText(tc.input); got != tc.want {
			t.Fatalf("NormalizeText(%q): expected %q, got %q", tc.input, tc.want, got)
		}
	}
}

func TestDateKey(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "iso date", input: "2026-03-05", want: "2026-03-05"},
		{name: "rfc3339", input: "2026-03-05T23:30:00Z", want: "2026-03-05"},
		{name: "rfc3339 with offset", input: "2026-03-05T23:30:00-05:00", want: "2026-03-06"},
		{name: "mysql datetime", input: "2026-03-05 08:00:00", want: "2026-03-05"},
		{name: "csv format", input: "05/03/2026", want: "2026-03-05"},
		{name: "unparsable", input: "ayer", want: ""},
		{name: "empty", input: "", want: ""},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			if got := DateKey(tc.input); got != tc.want {
				t.Fatalf("expected %q, got %q", tc.want, got)
			}
		})
	}
}
