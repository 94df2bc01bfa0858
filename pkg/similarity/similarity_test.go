package similarity

import (
	"math"
	"testing"
)

func TestRatio(t *testing.T) {
	tests := []struct {
		name string
		a    string
		b    string
		want float64
	}{
		{
			name: "exact match",
			a:    "UNITED STATES",
			b:    "UNITED STATES",
			want: 1.0,
		},
		{
			name: "both empty",
			a:    "",
			b:    "",
			want: 1.0,
		},
		{
			name: "one empty",
			a:    "FRANCE",
			b:    "",
			want: 0.0,
		},
		{
			name: "no overlap",
			a:    "ABC",
			b:    "XYZ",
			want: 0.0,
		},
		{
			name: "partial overlap",
			a:    "ABCD",
			b:    "BCDE",
			want: 0.75,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Ratio(tt.a, tt.b)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Fatalf("Ratio(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestRatioSymmetric(t *testing.T) {
	pairs := [][2]string{
		{"UNITED KINGDOM", "UNTIED KINGDOM"},
		{"GERMANY", "GERMAN"},
		{"KOREA", "NORTH KOREA"},
	}
	for _, p := range pairs {
		if Ratio(p[0], p[1]) != Ratio(p[1], p[0]) {
			t.Fatalf("Ratio not symmetric for %q and %q", p[0], p[1])
		}
	}
}

func TestRatioBounded(t *testing.T) {
	pairs := [][2]string{
		{"A", "A"},
		{"SOUTH AFRICA", "SOUTH AMERICA"},
		{"X", "LONG STRING WITH AN X IN IT"},
	}
	for _, p := range pairs {
		r := Ratio(p[0], p[1])
		if r < 0 || r > 1 {
			t.Fatalf("Ratio(%q, %q) = %v out of bounds", p[0], p[1], r)
		}
	}
	if Ratio("SOUTH AFRICA", "SOUTH AMERICA") >= 1.0 {
		t.Fatal("near miss must score below 1.0")
	}
}
