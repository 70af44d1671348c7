package utils

import "testing"

func TestParseInt64(t *testing.T) {
	cases := []struct {
		in   string
		def  int64
		want int64
	}{
		{"", 7, 7},
		{"42", 0, 42},
		{"-3", 0, -3},
		{"abc", 5, 5},
		{"9223372036854775807", 0, 9223372036854775807},
	}
	for _, c := range cases {
		if got := ParseInt64(c.in, c.def); got != c.want {
			t.Fatalf("ParseInt64(%q, %d) = %d, want %d", c.in, c.def, got, c.want)
		}
	}
}

func TestTrimWords(t *testing.T) {
	cases := []struct {
		in   string
		n    int
		want string
	}{
		{"one two three", 2, "one two..."},
		{"one two three", 3, "one two three"},
		{"one two three", 10, "one two three"},
		{"  spaced   out\ttext ", 2, "spaced out..."},
		{"anything", 0, ""},
		{"", 5, ""},
	}
	for _, c := range cases {
		if got := TrimWords(c.in, c.n); got != c.want {
			t.Fatalf("TrimWords(%q, %d) = %q, want %q", c.in, c.n, got, c.want)
		}
	}
}
