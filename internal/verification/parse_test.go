package verification

import "testing"

func TestExtractLicenseNumber(t *testing.T) {
	cases := []struct {
		name string
		raw  string
		want string
	}{
		{"labeled with colon", "Business License\nLicense No: LIC 123 456\nIssued 2024", "LIC 123 456"},
		{"registration label", "Registration Number: 2024-00871", "2024-00871"},
		{"permit label with hash", "Permit #A-4471", "A-4471"},
		{"stops at prose after identifier", "License No: 8812 issued by the municipality", "8812"},
		{"lowercase label", "license number 99-AB-104", "99-AB-104"},
		{"no digits is not an identifier", "License No: pending approval", ""},
		{"no label", "Some certificate text\n123456", ""},
		{"empty text", "", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := extractLicenseNumber(tc.raw)
			if tc.want == "" {
				if got != nil {
					t.Fatalf("expected no extraction, got %q", *got)
				}
				return
			}
			if got == nil {
				t.Fatalf("expected %q, got nil", tc.want)
			}
			if *got != tc.want {
				t.Fatalf("expected %q, got %q", tc.want, *got)
			}
		})
	}
}

func TestExtractLicenseAddress(t *testing.T) {
	cases := []struct {
		name string
		raw  string
		want string
	}{
		{"labeled address", "License No: 123\nAddress: 12 Main Street, Springfield", "12 Main Street, Springfield"},
		{"business address label", "Business Address: 4 Harbor Rd", "4 Harbor Rd"},
		{"street shaped fallback", "ACME Bakery\n88 Elm Avenue\nEst. 1990", "88 Elm Avenue"},
		{"no address", "License No: 123\nValid until 2027", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := extractLicenseAddress(tc.raw)
			if tc.want == "" {
				if got != nil {
					t.Fatalf("expected no extraction, got %q", *got)
				}
				return
			}
			if got == nil {
				t.Fatalf("expected %q, got nil", tc.want)
			}
			if *got != tc.want {
				t.Fatalf("expected %q, got %q", tc.want, *got)
			}
		})
	}
}

func TestNormalizeLicense(t *testing.T) {
	cases := []struct{ in, want string }{
		{"LIC 123 456", "LIC123456"},
		{"lic-123-456", "LIC123456"},
		{"LIC123456", "LIC123456"},
		{" a 1 ", "A1"},
	}
	for _, tc := range cases {
		if got := normalizeLicense(tc.in); got != tc.want {
			t.Fatalf("normalizeLicense(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
