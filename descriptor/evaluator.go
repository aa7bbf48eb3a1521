package descriptor

import "github.com/hidrd/hidrd/item"

// The Collection item payload values that increment a counter and bind a
// GlobalState scope in bindCollection, per spec §4.C. Other values are
// passed through without updating any counter or scope, matching the
// reference evaluator's bare try/except-IndexError fallthrough.
const (
	collectionPhysical    = 0
	collectionApplication = 1
	collectionLogical     = 2
)

// evalState is the evaluator's private working state (spec §3: "transient
// parser state... MUST NOT outlive" the evaluation pass).
type evalState struct {
	glob      GlobalState
	globStack []GlobalState
	local     LocalState

	// collection counters: application, physical, logical.
	collection [3]int

	current map[Direction]*Report
}

// Evaluate runs the single left-to-right evaluator pass over a decoded item
// stream (spec §4.C), producing a fully-built, immutable Descriptor.
func Evaluate(items []item.Item) (*Descriptor, error) {
	d := &Descriptor{
		Items:          items,
		InputReports:   make(map[int32]*Report),
		OutputReports:  make(map[int32]*Report),
		FeatureReports: make(map[int32]*Report),
	}
	st := &evalState{
		local:   newLocalState(),
		current: make(map[Direction]*Report),
	}

	for _, it := range items {
		evalItem(d, st, it)
	}
	return d, nil
}

func evalItem(d *Descriptor, st *evalState, it item.Item) {
	switch it.Tag {
	case item.TagReportID:
		st.local.ReportID = int32(it.Value)

	case item.TagPush:
		st.globStack = append(st.globStack, st.glob)

	case item.TagPop:
		n := len(st.globStack)
		st.glob = st.globStack[n-1]
		st.globStack = st.globStack[:n-1]

	case item.TagUsagePage:
		st.glob.UsagePage = uint16(it.Value)
		st.local.Usages = nil
		st.local.UsageMin = 0
		st.local.UsageMax = 0

	case item.TagCollection:
		bindCollection(st, it.Value)
		st.local.Usages = nil
		st.local.UsageMin = 0
		st.local.UsageMax = 0

	case item.TagEndCollection:
		// indentation only; no state change.

	case item.TagUsageMinimum:
		u := Usage(uint32(it.Value) | uint32(st.glob.UsagePage)<<16)
		st.local.UsageMin = u

	case item.TagUsageMaximum:
		u := Usage(uint32(it.Value) | uint32(st.glob.UsagePage)<<16)
		st.local.UsageMax = u

	case item.TagLogicalMinimum:
		st.glob.LogicalMin = int32(it.Value)

	case item.TagLogicalMaximum:
		st.glob.LogicalMax = int32(it.Value)

	case item.TagUsage:
		u := Usage(uint32(it.Value) | uint32(st.glob.UsagePage)<<16)
		st.local.Usages = append(st.local.Usages, u)

	case item.TagReportCount:
		st.glob.ReportCount = int(it.Value)

	case item.TagReportSize:
		st.glob.ReportSize = int(it.Value)

	case item.TagInput, item.TagOutput, item.TagFeature:
		direction := directionOf(it.Tag)
		report := resolveReport(d, st, direction)
		fields := expandFields(st, item.Flags(it.Value))
		for _, f := range fields {
			report.Append(f)
		}
		if direction == Feature && len(st.local.Usages) > 0 && st.local.Usages[len(st.local.Usages)-1] == winUsage {
			d.Win8 = true
		}
		st.local.Usages = nil
		st.local.UsageMin = 0
		st.local.UsageMax = 0
	}
}

func directionOf(tag item.Tag) Direction {
	switch tag {
	case item.TagOutput:
		return Output
	case item.TagFeature:
		return Feature
	default:
		return Input
	}
}

func bindCollection(st *evalState, value int64) {
	var last *Usage
	if n := len(st.local.Usages); n > 0 {
		u := st.local.Usages[n-1]
		last = &u
	}
	switch value {
	case collectionPhysical:
		st.collection[1]++
		st.glob.Physical = last
	case collectionApplication:
		st.collection[0]++
		st.glob.Application = last
	case collectionLogical:
		st.collection[2]++
		st.glob.Logical = last
	}
}

func reportMap(d *Descriptor, direction Direction) map[int32]*Report {
	switch direction {
	case Output:
		return d.OutputReports
	case Feature:
		return d.FeatureReports
	default:
		return d.InputReports
	}
}

// resolveReport implements the "resolving the target Report" rule (spec
// §4.C): reuse the direction's current cursor if it still matches the
// active report ID, else look it up (or create it) in the direction's map.
func resolveReport(d *Descriptor, st *evalState, direction Direction) *Report {
	cur := st.current[direction]
	if cur != nil && cur.ReportID != st.local.ReportID {
		cur = nil
	}
	if cur == nil {
		m := reportMap(d, direction)
		cur = m[st.local.ReportID]
		if cur == nil {
			cur = newReport(direction, st.local.ReportID, st.glob.Application)
			m[st.local.ReportID] = cur
		}
		st.current[direction] = cur
	}
	return cur
}

// expandFields implements Field expansion (spec §4.C.1) for one Main item.
func expandFields(st *evalState, flags item.Flags) []*Field {
	base := &Field{
		ReportID:       st.local.ReportID,
		Logical:        st.glob.Logical,
		Physical:       st.glob.Physical,
		Application:    st.glob.Application,
		CollectionPath: st.collection,
		Flags:          flags,
		UsagePage:      st.glob.UsagePage,
		LogicalMin:     st.glob.LogicalMin,
		LogicalMax:     st.glob.LogicalMax,
	}
	if len(st.local.Usages) > 0 {
		base.Usage = st.local.Usages[0]
	} else {
		base.Usage = st.local.UsageMin
	}

	count := st.glob.ReportCount
	itemSize := st.glob.ReportSize

	switch {
	case flags&item.FlagConstant != 0:
		f := cloneField(base)
		f.BitSize = itemSize * count
		f.Count = 1
		return []*Field{f}

	case flags&item.FlagVariable != 0:
		fields := make([]*Field, 0, count)
		hasRange := st.local.UsageMin != 0 && st.local.UsageMax != 0
		for i := 0; i < count; i++ {
			f := cloneField(base)
			f.BitSize = itemSize
			f.Count = 1
			switch {
			case hasRange:
				u := Usage(uint32(st.local.UsageMin) + uint32(i))
				if u > st.local.UsageMax {
					u = st.local.UsageMax
				}
				f.Usage = u
			case i < len(st.local.Usages):
				f.Usage = st.local.Usages[i]
			case len(st.local.Usages) > 0:
				f.Usage = st.local.Usages[len(st.local.Usages)-1]
			default:
				f.Usage = 0
			}
			fields = append(fields, f)
		}
		return fields

	default: // Array
		f := cloneField(base)
		f.BitSize = itemSize
		f.Count = count
		f.Alternatives = arrayAlternatives(st)
		return []*Field{f}
	}
}

func arrayAlternatives(st *evalState) *Alternatives {
	if st.local.UsageMin != 0 && st.local.UsageMax != 0 {
		return &Alternatives{Kind: AlternativesRange, RangeMin: st.local.UsageMin, RangeMax: st.local.UsageMax}
	}
	return &Alternatives{Kind: AlternativesEnumerated, Enumerated: append([]Usage(nil), st.local.Usages...)}
}

func cloneField(f *Field) *Field {
	c := *f
	return &c
}
