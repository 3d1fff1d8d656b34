package date

import "testing"

func TestHistoryAppendKeepsOrder(t *testing.T) {
	var h History[float64]
	h.Append(MustParse("2019-11-20"), 6.0)
	h.Append(MustParse("2019-11-01"), 1.0)
	h.Append(MustParse("2019-11-10"), 3.0)

	var days []string
	for on := range h.Values() {
		days = append(days, on.String())
	}
	want := []string{"2019-11-01", "2019-11-10", "2019-11-20"}
	for i := range want {
		if days[i] != want[i] {
			t.Errorf("Values()[%d] = %s, want %s", i, days[i], want[i])
		}
	}
}

func TestHistoryAppendOverwritesSameDay(t *testing.T) {
	var h History[float64]
	h.Append(MustParse("2019-11-10"), 3.0)
	h.Append(MustParse("2019-11-10"), 5.0)
	if h.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", h.Len())
	}
	if v, _ := h.Get(MustParse("2019-11-10")); v != 5.0 {
		t.Errorf("Get = %v, want 5.0 (last write wins)", v)
	}
}

func TestHistoryValueAsOf(t *testing.T) {
	var h History[float64]
	h.Append(MustParse("2019-11-01"), 1.0)
	h.Append(MustParse("2019-11-10"), 3.0)
	h.Append(MustParse("2019-11-20"), 6.0)

	testCases := []struct {
		name  string
		on    string
		want  float64
		found bool
	}{
		{"before first snapshot", "2019-10-31", 0, false},
		{"exactly on first", "2019-11-01", 1.0, true},
		{"between snapshots", "2019-11-09", 1.0, true},
		{"exactly on update", "2019-11-10", 3.0, true},
		{"after last", "2019-12-25", 6.0, true},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, found := h.ValueAsOf(MustParse(tc.on))
			if found != tc.found || got != tc.want {
				t.Errorf("ValueAsOf(%s) = (%v, %v), want (%v, %v)", tc.on, got, found, tc.want, tc.found)
			}
		})
	}
}

func TestHistoryFirstLatest(t *testing.T) {
	var h History[string]
	if on, _ := h.First(); !on.IsZero() {
		t.Errorf("First() on empty history = %v, want zero", on)
	}
	h.Append(MustParse("2019-11-10"), "b")
	h.Append(MustParse("2019-11-01"), "a")
	if on, v := h.First(); on.String() != "2019-11-01" || v != "a" {
		t.Errorf("First() = (%v, %q)", on, v)
	}
	if on, v := h.Latest(); on.String() != "2019-11-10" || v != "b" {
		t.Errorf("Latest() = (%v, %q)", on, v)
	}
}
