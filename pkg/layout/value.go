package layout

// Unit specifies how a Value is interpreted.
type Unit uint8

const (
	UnitFixed   Unit = iota // Absolute terminal cells
	UnitPercent             // Percentage of parent's content extent
	UnitFill                // Equal share of the space left after Fixed/Percent
)

// Value represents a main-axis dimension constraint.
type Value struct {
	Amount float64
	Unit   Unit
}

// Fixed returns a Value representing an absolute number of terminal cells.
func Fixed(n int) Value {
	return Value{Amount: float64(n), Unit: UnitFixed}
}

// Percent returns a Value representing a percentage of the parent's content
// extent. The value is on a 0-100 scale (50.0 = 50%).
func Percent(p float64) Value {
	return Value{Amount: p, Unit: UnitPercent}
}

// Fill returns a Value that takes an equal share of the space remaining after
// all Fixed and Percent siblings have been resolved.
func Fill() Value {
	return Value{Unit: UnitFill}
}

// IsFill reports whether this value is resolved in the distribution pass.
func (v Value) IsFill() bool {
	return v.Unit == UnitFill
}

// Resolve computes the integer cell count for Fixed and Percent values.
// Fill values resolve to 0 here; they are sized by the distribution pass.
func (v Value) Resolve(available int) int {
	switch v.Unit {
	case UnitFixed:
		return int(v.Amount)
	case UnitPercent:
		return int(float64(available) * v.Amount / 100.0)
	default:
		return 0
	}
}
