package utils

import "testing"

func TestPairThreadID_Symmetric(t *testing.T) {
	pairs := [][2]string{
		{"alice", "bob"},
		{"bob", "alice"},
		{"zed", "aaron"},
		{"user-1", "user-2"},
	}
	for _, p := range pairs {
		if got, want := PairThreadID(p[0], p[1]), PairThreadID(p[1], p[0]); got != want {
			t.Errorf("PairThreadID(%q, %q) = %q but reversed = %q", p[0], p[1], got, want)
		}
	}
}

func TestPairThreadID_SortedConcatenation(t *testing.T) {
	if got := PairThreadID("zed", "aaron"); got != "aaron_zed" {
		t.Errorf("PairThreadID = %q, want %q", got, "aaron_zed")
	}
	if got := PairThreadID("aaron", "zed"); got != "aaron_zed" {
		t.Errorf("PairThreadID = %q, want %q", got, "aaron_zed")
	}
}
