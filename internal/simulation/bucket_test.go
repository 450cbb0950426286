package simulation

import "testing"

func TestClassify(t *testing.T) {
	tests := []struct {
		score float64
		want  RiskBucket
	}{
		{0, BucketLow},
		{29.99, BucketLow},
		{30, BucketModerate},
		{59.9, BucketModerate},
		{60, BucketHigh},
		{79.9, BucketHigh},
		{80, BucketCritical},
		{100, BucketCritical},
	}
	for _, tt := range tests {
		if got := Classify(tt.score); got != tt.want {
			t.Errorf("Classify(%v) = %s, want %s", tt.score, got, tt.want)
		}
	}
}

func TestDistribution_Merge(t *testing.T) {
	var a, b Distribution
	a.Add(10)
	a.Add(85)
	b.Add(45)
	b.Add(65)
	a.Merge(b)

	if a != (Distribution{Low: 1, Moderate: 1, High: 1, Critical: 1}) {
		t.Errorf("merged distribution = %+v", a)
	}
	if a.Total() != 4 {
		t.Errorf("Total() = %d, want 4", a.Total())
	}
}

func TestSeededSource_IndependentStreams(t *testing.T) {
	src := SeededSource{Seed: 99}
	a1, a2 := src.Trajectory(0), src.Trajectory(0)
	b := src.Trajectory(1)

	same, differs := true, false
	for i := 0; i < 10; i++ {
		x, y, z := a1.Float64(), a2.Float64(), b.Float64()
		if x != y {
			same = false
		}
		if x != z {
			differs = true
		}
	}
	if !same {
		t.Error("the same trajectory index must replay the same stream")
	}
	if !differs {
		t.Error("different trajectory indices must not share a stream")
	}
}
