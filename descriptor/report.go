package descriptor

import (
	"fmt"
	"strings"

	"github.com/hidrd/hidrd/usage"
)

// Frame is one set of symbolic field assignments keyed by the lowercased,
// space-stripped usage name (spec §4.E "attribute-lookup report
// synthesis", reworked per spec §9 Design Notes into an explicit map
// instead of runtime attribute access).
type Frame map[string]int64

func frameKey(usageName string) string {
	return strings.ToLower(strings.ReplaceAll(usageName, " ", ""))
}

// renderState tracks the running "previous field" context used by both
// FormatReport and Synthesize to apply the CX/CY multi-touch rewrite and
// the collection-boundary bookkeeping (spec §4.E).
type renderState struct {
	prevSeenUsages []string
	prevCollection *[3]int
}

func newRenderState() *renderState {
	return &renderState{}
}

func collectionEqual(a, b [3]int) bool { return a == b }

// fixXYForMultiTouch rewrites a repeated X/Y usage as CX/CY when the
// previous collection already saw that axis (spec §4.E, Glossary "CX/CY").
func (rs *renderState) fixXYForMultiTouch(usageName string) string {
	seen := false
	for _, u := range rs.prevSeenUsages {
		if u == usageName {
			seen = true
			break
		}
	}
	if !seen {
		return usageName
	}

	hasY, hasCY, hasX, hasCX := false, false, false, false
	for _, u := range rs.prevSeenUsages {
		switch u {
		case "Y":
			hasY = true
		case "CY":
			hasCY = true
		case "X":
			hasX = true
		case "CX":
			hasCX = true
		}
	}
	if usageName == "X" && (!hasY || hasCY) {
		return "CX"
	}
	if usageName == "Y" && (!hasX || hasCX) {
		return "CY"
	}
	return usageName
}

// FormatReport renders a decoded report buffer as human-readable text
// (spec §4.E "Format report").
func (r *Report) FormatReport(tbl *usage.Table, data []byte, splitLines bool) string {
	var out strings.Builder
	rs := newRenderState()
	sep := ""
	if r.Numbered() {
		fmt.Fprintf(&out, "ReportID: %d ", r.ReportID)
		sep = "/"
	}

	var prev *Field
	for _, f := range r.Fields {
		if f.Const() {
			out.WriteString(sep + " # ")
			sep = "|"
			prev = f
			continue
		}

		if !f.Array() {
			rs.renderVariable(tbl, &out, data, f, prev, sep, splitLines)
		} else {
			rs.renderArray(tbl, &out, data, f, sep)
		}
		sep = "|"
		prev = f
	}
	return out.String()
}

func (rs *renderState) renderVariable(tbl *usage.Table, out *strings.Builder, data []byte, f, prev *Field, sep string, splitLines bool) {
	value := "<.>"
	if v, ok := f.GetValue(data, 0); ok {
		value = fmt.Sprintf("%d", v)
	}
	usageName := rs.fixXYForMultiTouch(f.UsageName(tbl))
	label := " " + usageName + ":"

	if splitLines && rs.prevCollection != nil && !collectionEqual(*rs.prevCollection, f.CollectionPath) {
		rs.prevSeenUsages = nil
		out.WriteString("\n")
	}
	cp := f.CollectionPath
	rs.prevCollection = &cp
	rs.prevSeenUsages = append(rs.prevSeenUsages, usageName)

	if prev != nil && prev.Flags == f.Flags && prev.Usage == f.Usage {
		sep = ","
		label = ""
	}
	fmt.Fprintf(out, "%s%s %s ", sep, label, value)
}

func (rs *renderState) renderArray(tbl *usage.Table, out *strings.Builder, data []byte, f *Field, sep string) {
	pageName := f.UsagePageName(tbl)
	if pageName == "" {
		pageName = "Array"
	}
	vendor := strings.Contains(strings.ToLower(pageName), "vendor")

	labels := make([]string, 0, f.Count)
	for i := 0; i < f.Count; i++ {
		v, ok := f.GetValue(data, i)
		if !ok {
			labels = append(labels, "<.>")
			continue
		}
		if v < int64(f.LogicalMin) || v > int64(f.LogicalMax) {
			labels = append(labels, "")
			continue
		}
		label := fmt.Sprintf("%02x", v)
		if !vendor && v > 0 {
			if u, ok := f.Alternatives.At(v); ok {
				name := u.Name(tbl)
				if strings.Contains(strings.ToLower(name), "no event indicated") {
					name = ""
				}
				label = name
			}
		}
		labels = append(labels, label)
	}
	fmt.Fprintf(out, "%s%s [%s] ", sep, pageName, strings.Join(labels, ", "))
}

// Synthesize packs an ordered list of symbolic data Frames (plus one
// fallback global Frame) into a report payload (spec §4.E "Synthesize
// report").
func (r *Report) Synthesize(tbl *usage.Table, frames []Frame, global Frame) ([]byte, error) {
	buf := make([]byte, r.Size())
	if r.Numbered() {
		buf[0] = byte(r.ReportID)
	}

	rs := newRenderState()
	remaining := frames

	for _, f := range r.Fields {
		if f.Const() {
			continue
		}
		usageName := rs.fixXYForMultiTouch(f.UsageName(tbl))

		if rs.prevCollection != nil && !collectionEqual(*rs.prevCollection, f.CollectionPath) {
			seen := false
			for _, u := range rs.prevSeenUsages {
				if u == usageName {
					seen = true
					break
				}
			}
			if seen {
				if len(remaining) > 0 {
					remaining = remaining[1:]
				}
				rs.prevSeenUsages = nil
			}
		}

		key := frameKey(usageName)
		var value int64
		if len(remaining) > 0 {
			if v, ok := remaining[0][key]; ok {
				value = v
			} else if global != nil {
				value = global[key]
			}
		} else if global != nil {
			value = global[key]
		}

		if err := f.SetValues(buf, []int64{value}); err != nil {
			return nil, err
		}

		cp := f.CollectionPath
		rs.prevCollection = &cp
		rs.prevSeenUsages = append(rs.prevSeenUsages, usageName)
	}
	return buf, nil
}
