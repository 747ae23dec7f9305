package phone

import "testing"

func TestNormalizeE164(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  string
	}{
		{"us national", "(702) 555-0142", "+17025550142"},
		{"already e164", "+17025550142", "+17025550142"},
		{"with whitespace", "  702-555-0142  ", "+17025550142"},
		{"empty", "", ""},
		{"garbage passes through", "call me maybe", "call me maybe"},
		{"too short passes through", "12345", "12345"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := NormalizeE164(tc.input)
			if got != tc.want {
				t.Fatalf("NormalizeE164(%q) = %q, want %q", tc.input, got, tc.want)
			}
		})
	}
}
