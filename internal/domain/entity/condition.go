package entity

// Condition identifies the sub-quantity bucket a movement touches. The four
// named conditions partition an item's aggregate quantity; ConditionNone is
// the explicit unpartitioned variant used for legacy aggregate-only items.
type Condition string

const (
	ConditionNone        Condition = ""
	ConditionNew         Condition = "NEW"
	ConditionUsed        Condition = "USED"
	ConditionRefurbished Condition = "REFURBISHED"
	ConditionImport      Condition = "IMPORT"
)

// Conditions lists the four partitioning buckets in their canonical order.
// The order matters: audit adjustments drain shortages bucket by bucket in
// this sequence.
var Conditions = [4]Condition{ConditionNew, ConditionUsed, ConditionRefurbished, ConditionImport}

// Valid reports whether c is a known condition, including ConditionNone.
func (c Condition) Valid() bool {
	switch c {
	case ConditionNone, ConditionNew, ConditionUsed, ConditionRefurbished, ConditionImport:
		return true
	}
	return false
}

// Partitioning reports whether c names one of the four buckets.
func (c Condition) Partitioning() bool {
	return c != ConditionNone && c.Valid()
}
