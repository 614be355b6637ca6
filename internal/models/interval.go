package models

// IntervalKind classifies what a numeric range in agent text refers to.
type IntervalKind string

const (
	KindTargetPrice  IntervalKind = "target_price"
	KindStopLoss     IntervalKind = "stop_loss"
	KindSupport      IntervalKind = "support"
	KindResistance   IntervalKind = "resistance"
	KindUnclassified IntervalKind = "unclassified"
)

// IntervalUnit distinguishes absolute prices from percentages.
type IntervalUnit string

const (
	UnitAbsolute IntervalUnit = "absolute"
	UnitPercent  IntervalUnit = "percent"
)

// Interval is a numeric lower/upper bound pair extracted from free text.
// After validation Lower <= Upper always holds.
type Interval struct {
	Kind       IntervalKind `json:"kind"`
	Lower      float64      `json:"lower"`
	Upper      float64      `json:"upper"`
	Unit       IntervalUnit `json:"unit"`
	SourceText string       `json:"source_text"`
	Start      int          `json:"start"` // byte offset of SourceText in the scanned string
	End        int          `json:"end"`
}

// Midpoint returns the interval center.
func (iv Interval) Midpoint() float64 {
	return (iv.Lower + iv.Upper) / 2
}

// IntervalAdjustment records one deterministic correction made by the validator.
type IntervalAdjustment struct {
	Original Interval `json:"original"`
	Adjusted Interval `json:"adjusted"`
	Reason   string   `json:"reason"`
}

// ValidationOutcome is the full result of reconciling extracted intervals
// against a StockContext.
type ValidationOutcome struct {
	AdjustedIntervals []Interval           `json:"adjusted_intervals"`
	Adjustments       []IntervalAdjustment `json:"adjustments"`
	Warnings          []string             `json:"warnings"`
}
