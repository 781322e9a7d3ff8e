package go_ballisticengine

import (
	"math"
	"sort"
)

//TrajectoryFlag tags a trajectory row with the reasons it was emitted
type TrajectoryFlag uint

const (
	//FlagNone marks an untagged row
	FlagNone TrajectoryFlag = 0
	//FlagRangeStep marks a row emitted at a scheduled downrange boundary
	FlagRangeStep TrajectoryFlag = 1 << iota
	//FlagTimeStep marks a row emitted at a scheduled time boundary
	FlagTimeStep
	//FlagZeroUp marks the upward crossing of the line of sight
	FlagZeroUp
	//FlagZeroDown marks the downward crossing of the line of sight
	FlagZeroDown
	//FlagMach marks the point where the bullet slows below the speed of sound
	FlagMach
	//FlagApex marks the point where vertical velocity crosses zero
	FlagApex

	//FlagZero marks any line-of-sight crossing
	FlagZero = FlagZeroUp | FlagZeroDown
	//FlagAll requests every row kind
	FlagAll = FlagRangeStep | FlagTimeStep | FlagZero | FlagMach | FlagApex
)

//Has reports whether all the flags given are set
func (f TrajectoryFlag) Has(flags TrajectoryFlag) bool {
	return f&flags == flags
}

//TrajectoryRow is one user-relevant point of the trajectory together with
//the reasons it was selected
type TrajectoryRow struct {
	Sample TrajectorySample
	Flags  TrajectoryFlag
}

//cRecordTimeEpsilon is the time band within which two emitted rows are
//considered the same point and merged
const cRecordTimeEpsilon float64 = 1e-6

//RecordList keeps emitted trajectory rows ordered by time.
//
//Rows within cRecordTimeEpsilon of an existing row are merged into it with
//the flags OR'd rather than duplicated.
type RecordList struct {
	rows []TrajectoryRow
}

//Len returns the number of rows collected
func (l *RecordList) Len() int {
	return len(l.rows)
}

//Rows returns the collected rows ordered by time
func (l *RecordList) Rows() []TrajectoryRow {
	return l.rows
}

//Insert merges a row into the list keeping the time order.
//
//Input mostly arrives in increasing time order, so the last element is
//checked first before falling back to a binary search.
func (l *RecordList) Insert(row TrajectoryRow) {
	n := len(l.rows)
	t := row.Sample.Time

	if n == 0 || t > l.rows[n-1].Sample.Time+cRecordTimeEpsilon {
		l.rows = append(l.rows, row)
		return
	}
	if math.Abs(t-l.rows[n-1].Sample.Time) <= cRecordTimeEpsilon {
		l.rows[n-1].Flags |= row.Flags
		return
	}

	idx := sort.Search(n, func(i int) bool { return l.rows[i].Sample.Time >= t })
	if idx < n && math.Abs(l.rows[idx].Sample.Time-t) <= cRecordTimeEpsilon {
		l.rows[idx].Flags |= row.Flags
		return
	}
	if idx > 0 && math.Abs(l.rows[idx-1].Sample.Time-t) <= cRecordTimeEpsilon {
		l.rows[idx-1].Flags |= row.Flags
		return
	}

	l.rows = append(l.rows, TrajectoryRow{})
	copy(l.rows[idx+1:], l.rows[idx:])
	l.rows[idx] = row
}
