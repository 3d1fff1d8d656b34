package date

import (
	"encoding/json"
	"testing"
	"time"
)

func TestParse(t *testing.T) {
	testCases := []struct {
		name      string
		in        string
		want      Date
		expectErr bool
	}{
		{"standard", "2019-11-01", New(2019, time.November, 1), false},
		{"permissive", "2019-7-1", New(2019, time.July, 1), false},
		{"garbage", "yesterday", Date{}, true},
		{"empty", "", Date{}, true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Parse(tc.in)
			hasErr := err != nil
			if hasErr != tc.expectErr {
				t.Fatalf("Parse(%q) error = %v, want error: %v", tc.in, err, tc.expectErr)
			}
			if got != tc.want {
				t.Errorf("Parse(%q) = %v, want %v", tc.in, got, tc.want)
			}
		})
	}
}

func TestAddNormalizes(t *testing.T) {
	d := New(2019, time.November, 30).Add(1)
	if got, want := d.String(), "2019-12-01"; got != want {
		t.Errorf("Add(1) = %s, want %s", got, want)
	}
	d = New(2020, time.February, 28).Add(1)
	if got, want := d.String(), "2020-02-29"; got != want {
		t.Errorf("Add(1) = %s, want %s (leap year)", got, want)
	}
}

func TestCompare(t *testing.T) {
	a, b := MustParse("2019-11-01"), MustParse("2019-11-02")
	if a.Compare(b) >= 0 || b.Compare(a) <= 0 || a.Compare(a) != 0 {
		t.Errorf("Compare ordering broken: %v vs %v", a, b)
	}
	if !a.Before(b) || !b.After(a) {
		t.Errorf("Before/After inconsistent with Compare")
	}
}

func TestJSONRoundTrip(t *testing.T) {
	in := MustParse("2019-11-10")
	raw, err := json.Marshal(in)
	if err != nil {
		t.Fatal(err)
	}
	if string(raw) != `"2019-11-10"` {
		t.Errorf("MarshalJSON = %s", raw)
	}
	var out Date
	if err := json.Unmarshal(raw, &out); err != nil {
		t.Fatal(err)
	}
	if out != in {
		t.Errorf("round trip = %v, want %v", out, in)
	}
}

func TestRangeDays(t *testing.T) {
	r := NewRange(MustParse("2019-11-28"), MustParse("2019-12-02"))
	var got []string
	for d := range r.Days() {
		got = append(got, d.String())
	}
	want := []string{"2019-11-28", "2019-11-29", "2019-11-30", "2019-12-01", "2019-12-02"}
	if len(got) != len(want) {
		t.Fatalf("Days() yielded %d days, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Days()[%d] = %s, want %s", i, got[i], want[i])
		}
	}
	if r.Len() != 5 {
		t.Errorf("Len() = %d, want 5", r.Len())
	}

	inverted := NewRange(MustParse("2019-12-02"), MustParse("2019-11-28"))
	if inverted.Len() != 0 {
		t.Errorf("inverted range Len() = %d, want 0", inverted.Len())
	}
}
