package reports

import "testing"

func TestASCIIFold(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Revenue", "Revenue"},
		{"Café résumé", "Cafe resume"},
		{"Año – “growth”", `Ano - "growth"`},
		{"Zoë’s plan…", "Zoe's plan..."},
		{"収益", "??"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := asciiFold(tt.in); got != tt.want {
				t.Errorf("asciiFold(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
