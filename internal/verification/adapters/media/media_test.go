package media

import "testing"

func TestExtensionOf(t *testing.T) {
	cases := []struct{ url, want string }{
		{"https://uploads.example.com/front.jpg", ".jpg"},
		{"https://uploads.example.com/doc.pdf?token=abc", ".pdf"},
		{"https://uploads.example.com/no-extension", ""},
		{"https://uploads.example.com/weird.verylongextension", ""},
		{"://bad", ""},
	}
	for _, tc := range cases {
		if got := extensionOf(tc.url); got != tc.want {
			t.Fatalf("extensionOf(%q) = %q, want %q", tc.url, got, tc.want)
		}
	}
}
