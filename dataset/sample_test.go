package dataset

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestSampleIndicesMatchesPython(t *testing.T) {
	// Reference values from CPython: random.seed(seed);
	// random.sample(range(population), k).
	tests := []struct {
		population, k int
		seed          uint64
		want          []int
	}{
		{149, 5, 3, []int{60, 139, 33, 94, 121}},
		{10, 3, 42, []int{1, 0, 4}},
		{150, 10, 7, []int{82, 38, 101, 12, 18, 137, 24, 93, 149, 14}},
		{20, 20, 1, []int{4, 18, 2, 8, 3, 7, 12, 14, 13, 10, 6, 15, 1, 16, 0, 9, 19, 17, 5, 11}},
		{1000, 7, 1<<40 + 5, []int{516, 529, 275, 679, 948, 28, 543}},
	}
	for _, tc := range tests {
		got, err := SampleIndices(tc.population, tc.k, tc.seed)
		if err != nil {
			t.Fatalf("SampleIndices(%d, %d, %d): %v", tc.population, tc.k, tc.seed, err)
		}
		if diff := cmp.Diff(got, tc.want); diff != "" {
			t.Errorf("SampleIndices(%d, %d, %d); diff (-got +want)\n%s", tc.population, tc.k, tc.seed, diff)
		}
	}
}

func TestSampleIndicesDistinct(t *testing.T) {
	got, err := SampleIndices(30, 25, 12345)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	seen := map[int]bool{}
	for _, idx := range got {
		if seen[idx] {
			t.Errorf("index %d drawn twice", idx)
		}
		if idx < 0 || idx >= 30 {
			t.Errorf("index %d out of range", idx)
		}
		seen[idx] = true
	}
}

func TestSampleIndicesErrors(t *testing.T) {
	if _, err := SampleIndices(5, 6, 3); err == nil {
		t.Errorf("Expected an error drawing 6 of 5")
	}
	if _, err := SampleIndices(5, -1, 3); err == nil {
		t.Errorf("Expected an error drawing -1")
	}

	got, err := SampleIndices(5, 0, 3)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("SampleIndices(5, 0, 3) = %v, want none", got)
	}
}
