package normalize

import (
	"testing"

	"github.com/grantgraph/grantgraph/pkg/common"
)

func strptr(s string) *string { return &s }

func TestParseName(t *testing.T) {
	tests := []struct {
		name string
		full string
		want common.PersonName
	}{
		{
			name: "first last",
			full: "John Smith",
			want: common.PersonName{First: "John", Last: "Smith"},
		},
		{
			name: "with middle",
			full: "John Allen Smith",
			want: common.PersonName{First: "John", Middle: strptr("Allen"), Last: "Smith"},
		},
		{
			name: "with title",
			full: "Dr. John Smith",
			want: common.PersonName{Title: strptr("Dr"), First: "John", Last: "Smith"},
		},
		{
			name: "with suffix",
			full: "John Smith Jr.",
			want: common.PersonName{First: "John", Last: "Smith", Suffix: strptr("Jr")},
		},
		{
			name: "comma suffix",
			full: "John Smith, Jr.",
			want: common.PersonName{First: "John", Last: "Smith", Suffix: strptr("Jr")},
		},
		{
			name: "last comma first",
			full: "Smith, John Allen",
			want: common.PersonName{First: "John", Middle: strptr("Allen"), Last: "Smith"},
		},
		{
			name: "nickname in parentheses",
			full: "John (Jack) Smith",
			want: common.PersonName{First: "John", Nickname: strptr("Jack"), Last: "Smith"},
		},
		{
			name: "nickname in quotes",
			full: `John "Jack" Smith`,
			want: common.PersonName{First: "John", Nickname: strptr("Jack"), Last: "Smith"},
		},
		{
			name: "everything",
			full: "Dr. John (Jack) Allen Smith III",
			want: common.PersonName{
				Title:    strptr("Dr"),
				First:    "John",
				Middle:   strptr("Allen"),
				Nickname: strptr("Jack"),
				Last:     "Smith",
				Suffix:   strptr("III"),
			},
		},
		{
			name: "single token",
			full: "Smith",
			want: common.PersonName{First: "Smith"},
		},
		{
			name: "surrounding whitespace",
			full: "  Jane Doe \n",
			want: common.PersonName{First: "Jane", Last: "Doe"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseName(tt.full)
			if !personNameEqual(got, tt.want) {
				t.Fatalf("ParseName(%q) = %+v, want %+v", tt.full, render(got), render(tt.want))
			}
		})
	}
}

func TestFullNameRoundTrip(t *testing.T) {
	tests := []struct {
		full string
		want string
	}{
		{full: "John Smith", want: "John Smith"},
		{full: "Dr. John (Jack) Allen Smith III", want: "Dr John (Jack) Allen Smith III"},
		{full: "Smith, John", want: "John Smith"},
	}
	for _, tt := range tests {
		got := ParseName(tt.full).FullName()
		if got != tt.want {
			t.Fatalf("FullName of %q = %q, want %q", tt.full, got, tt.want)
		}
	}
}

func personNameEqual(a, b common.PersonName) bool {
	return a.First == b.First && a.Last == b.Last &&
		ptrEqual(a.Middle, b.Middle) && ptrEqual(a.Title, b.Title) &&
		ptrEqual(a.Nickname, b.Nickname) && ptrEqual(a.Suffix, b.Suffix)
}

func ptrEqual(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func render(n common.PersonName) string {
	return n.FullName()
}
