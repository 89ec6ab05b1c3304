package core

import "testing"

func TestNewID_Unique(t *testing.T) {
	a := NewID()
	b := NewID()

	if a.IsEmpty() || b.IsEmpty() {
		t.Fatal("NewID returned an empty ID")
	}
	if a == b {
		t.Errorf("expected distinct IDs, got %s twice", a)
	}
}

func TestParseStudyID(t *testing.T) {
	id, err := ParseStudyID("0198f2a0-3c6e-7b11-9a4d-2f6c8e1d0b42")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id.String() != "0198f2a0-3c6e-7b11-9a4d-2f6c8e1d0b42" {
		t.Errorf("unexpected study ID %s", id)
	}
}

func TestParseStudyID_Invalid(t *testing.T) {
	cases := []struct {
		name  string
		input string
	}{
		{"empty", ""},
		{"whitespace", "   "},
		{"not a uuid", "study-42"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := ParseStudyID(tc.input); err == nil {
				t.Errorf("expected error for %q", tc.input)
			}
		})
	}
}
