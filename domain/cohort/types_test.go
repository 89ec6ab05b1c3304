package cohort

import "testing"

func TestTabulate_CountsPartitionTruePositives(t *testing.T) {
	c := Cohort{
		{TruePositive: true, TestAPositive: true, TestBPositive: true},
		{TruePositive: true, TestAPositive: true, TestBPositive: false},
		{TruePositive: true, TestAPositive: true, TestBPositive: false},
		{TruePositive: true, TestAPositive: false, TestBPositive: true},
		{TruePositive: true, TestAPositive: false, TestBPositive: false},
		{TruePositive: false},
		{TruePositive: false},
	}

	counts := Tabulate(c)

	if counts.BothPositive != 1 || counts.OnlyA != 2 || counts.OnlyB != 1 || counts.BothNegative != 1 {
		t.Errorf("unexpected counts: %+v", counts)
	}
	if counts.Pairs() != c.TruePositives() {
		t.Errorf("pairs %d != true positives %d", counts.Pairs(), c.TruePositives())
	}
	if counts.Discordant() != 3 {
		t.Errorf("discordant = %d, want 3", counts.Discordant())
	}
}

func TestTabulate_IgnoresNonDiseased(t *testing.T) {
	c := Cohort{
		{TruePositive: false},
		{TruePositive: false},
	}

	counts := Tabulate(c)
	if counts.Pairs() != 0 {
		t.Errorf("non-diseased subjects must not contribute pairs, got %d", counts.Pairs())
	}
}

func TestTabulate_EmptyCohort(t *testing.T) {
	counts := Tabulate(Cohort{})
	if counts != (Counts{}) {
		t.Errorf("empty cohort should yield zero counts, got %+v", counts)
	}
}

func TestSubject_Valid(t *testing.T) {
	cases := []struct {
		name    string
		subject Subject
		want    bool
	}{
		{"healthy both negative", Subject{}, true},
		{"healthy false positive on A", Subject{TestAPositive: true}, false},
		{"healthy false positive on B", Subject{TestBPositive: true}, false},
		{"diseased any outcome", Subject{TruePositive: true, TestAPositive: true}, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.subject.Valid(); got != tc.want {
				t.Errorf("Valid() = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestCounts_Validate(t *testing.T) {
	if err := (Counts{1, 2, 3, 4}).Validate(); err != nil {
		t.Errorf("valid counts rejected: %v", err)
	}
	if err := (Counts{OnlyA: -1}).Validate(); err == nil {
		t.Error("negative cell accepted")
	}
}
