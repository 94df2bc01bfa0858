package util

import "testing"

func TestSanitizeDBText(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "plain utf8",
			input: "collaborative research",
			want:  "collaborative research",
		},
		{
			name:  "empty",
			input: "",
			want:  "",
		},
		{
			name:  "contains null byte",
			input: "abs\x00tract",
			want:  "abstract",
		},
		{
			name:  "contains invalid utf8",
			input: string([]byte{'a', 0xff, 'b'}),
			want:  "ab",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SanitizeDBText(tt.input)
			if got != tt.want {
				t.Fatalf("unexpected sanitized value: got %q, want %q", got, tt.want)
			}
		})
	}
}
