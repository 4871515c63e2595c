package ficha

import "testing"

func TestNext(t *testing.T) {
	cases := []struct {
		name string
		in   []string
		want string
	}{
		{"máximo más uno", []string{"100", "200", "150"}, "201"},
		{"cero ignorado", []string{"0", "100", "200"}, "201"},
		{"sin fichas", nil, "1"},
		{"vacías y no numéricas", []string{"", "S/F", "abc"}, "1"},
		{"negativas ignoradas", []string{"-5", "3"}, "4"},
		{"con ceros a la izquierda", []string{"001", "002", "003"}, "4"},
	}
	for _, c := range cases {
		if got := Next(c.in); got != c.want {
			t.Fatalf("%s: Next(%v) = %q, want %q", c.name, c.in, got, c.want)
		}
	}
}
