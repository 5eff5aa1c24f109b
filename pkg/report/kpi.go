package report

import (
	"fmt"
	"strconv"
)

// Value is a KPI cell that is either an integer count or a float
// reading; the renderer dispatches on the kind instead of carrying
// two field types through every panel.
type Value struct {
	isFloat bool
	i       int64
	f       float64
}

// Int wraps an integer KPI value.
func Int(v int64) Value {
	return Value{i: v}
}

// Float wraps a float KPI value.
func Float(v float64) Value {
	return Value{isFloat: true, f: v}
}

// String renders the value; floats use a fixed four-decimal form so
// columns stay aligned across repaints.
func (v Value) String() string {
	if v.isFloat {
		return fmt.Sprintf("%.4f", v.f)
	}
	return strconv.FormatInt(v.i, 10)
}

// KPI is one named reading on the dashboard.
type KPI struct {
	Name  string
	Value Value
}
