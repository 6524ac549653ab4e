package normalization

import "testing"

func TestParseInputString(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"  Hello World  ", "hello world"},
		{"CHONBURI", "chonburi"},
		{"", ""},
		{"ชลบุรี", "ชลบุรี"},
	}
	for _, tc := range cases {
		if got := ParseInputString(tc.in); got != tc.want {
			t.Fatalf("ParseInputString(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestNormalizeThaiDigits(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"all thai digits", "๐๑๒๓๔๕๖๗๘๙", "0123456789"},
		{"parcel number", "๕๖๗๘๙", "56789"},
		{"mixed digits", "เลขที่ ๑๒3/๔", "เลขที่ 123/4"},
		{"no digits", "ศรีราชา", "ศรีราชา"},
		{"arabic untouched", "56789", "56789"},
		{"empty", "", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := NormalizeThaiDigits(tc.in); got != tc.want {
				t.Fatalf("NormalizeThaiDigits(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}
