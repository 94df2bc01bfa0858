package normalize

import "testing"

func TestStreet(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{
			name: "uppercases",
			raw:  "123 Main Street",
			want: "123 MAIN ST",
		},
		{
			name: "strips trailing dot and whitespace",
			raw:  "  456 Elm Avenue.  ",
			want: "456 ELM AVE",
		},
		{
			name: "multiple substitutions",
			raw:  "789 Oak Boulevard Suite 200",
			want: "789 OAK BLVD STE 200",
		},
		{
			name: "directional",
			raw:  "10 North Park Drive",
			want: "10 N PARK DR",
		},
		{
			name: "no substitution needed",
			raw:  "1 INFINITE LOOP",
			want: "1 INFINITE LOOP",
		},
		{
			name: "substring inside word untouched",
			raw:  "5 Northampton Road",
			want: "5 NORTHAMPTON RD",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Street(tt.raw)
			if got != tt.want {
				t.Fatalf("Street(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}
