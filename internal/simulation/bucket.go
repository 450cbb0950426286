package simulation

// RiskBucket is a discretisation of the burnout score.
type RiskBucket int

const (
	BucketLow RiskBucket = iota
	BucketModerate
	BucketHigh
	BucketCritical
)

// Bucket thresholds on the 0..100 score.
const (
	ModerateThreshold = 30.0
	HighThreshold     = 60.0
	CriticalThreshold = 80.0
)

func (b RiskBucket) String() string {
	switch b {
	case BucketLow:
		return "low"
	case BucketModerate:
		return "moderate"
	case BucketHigh:
		return "high"
	default:
		return "critical"
	}
}

// Classify maps a score to its bucket: low <30, moderate <60, high <80,
// critical otherwise.
func Classify(score float64) RiskBucket {
	switch {
	case score < ModerateThreshold:
		return BucketLow
	case score < HighThreshold:
		return BucketModerate
	case score < CriticalThreshold:
		return BucketHigh
	default:
		return BucketCritical
	}
}

// Distribution counts trajectories per bucket for one day.
type Distribution struct {
	Low      int `json:"low"`
	Moderate int `json:"moderate"`
	High     int `json:"high"`
	Critical int `json:"critical"`
}

// Add counts one score.
func (d *Distribution) Add(score float64) {
	switch Classify(score) {
	case BucketLow:
		d.Low++
	case BucketModerate:
		d.Moderate++
	case BucketHigh:
		d.High++
	default:
		d.Critical++
	}
}

// Merge adds o's counts into d.
func (d *Distribution) Merge(o Distribution) {
	d.Low += o.Low
	d.Moderate += o.Moderate
	d.High += o.High
	d.Critical += o.Critical
}

// Total is the number of scores counted.
func (d Distribution) Total() int {
	return d.Low + d.Moderate + d.High + d.Critical
}
