package normalize

import "testing"

func TestClosestCountryExact(t *testing.T) {
	code, score, err := ClosestCountry("UNITED STATES")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if code != "US" {
		t.Fatalf("expected code US, got %q", code)
	}
	if score != 1.0 {
		t.Fatalf("exact match must score 1.0, got %v", score)
	}
}

func TestClosestCountryCaseInsensitive(t *testing.T) {
	code, score, err := ClosestCountry("united states")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if code != "US" || score != 1.0 {
		t.Fatalf("expected (US, 1.0), got (%q, %v)", code, score)
	}
}

func TestClosestCountryNearMiss(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{name: "typo", raw: "UNTIED STATES", want: "US"},
		{name: "truncated", raw: "GERMAN", want: "DE"},
		{name: "extra words", raw: "REPUBLIC OF FRANCE", want: "FR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, score, err := ClosestCountry(tt.raw)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if code != tt.want {
				t.Fatalf("ClosestCountry(%q) = %q, want %q", tt.raw, code, tt.want)
			}
			if score <= 0 || score >= 1.0 {
				t.Fatalf("near miss score out of expected range: %v", score)
			}

			// Resolution is deterministic for a fixed scoring function.
			again, _, err := ClosestCountry(tt.raw)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if again != code {
				t.Fatalf("resolution not reproducible: %q then %q", code, again)
			}
		})
	}
}

func TestClosestCountryNoResemblance(t *testing.T) {
	if _, _, err := ClosestCountry("0123456789"); err == nil {
		t.Fatal("expected error for input resembling no country")
	}
}
