// Package descriptor evaluates a decoded stream of report descriptor items
// into Reports and Fields, and provides the bit-level Field Packer and the
// Report Model's text rendering / synthesis operations.
package descriptor

import (
	"fmt"

	"github.com/hidrd/hidrd/item"
	"github.com/hidrd/hidrd/usage"
)

// Usage is the 32-bit composite usage identifier: high 16 bits Usage Page,
// low 16 bits Usage ID.
type Usage uint32

// NewUsage composes a page and a local usage ID into a Usage.
func NewUsage(page, id uint16) Usage {
	return Usage(uint32(page)<<16 | uint32(id))
}

// Page returns the Usage Page half.
func (u Usage) Page() uint16 { return uint16(u >> 16) }

// ID returns the Usage ID half.
func (u Usage) ID() uint16 { return uint16(u) }

// Name resolves this usage's display name against the Usage Table, applying
// the Sensor-page modifier decode and the "Button" page special case (spec
// §4.A). Falls back to "Vendor Usage 0x%08x" when the page or usage is
// unknown.
func (u Usage) Name(tbl *usage.Table) string {
	page, err := tbl.PageByID(u.Page())
	if err != nil {
		return fmt.Sprintf("Vendor Usage 0x%08x", uint32(u))
	}
	if name, ok := page.NameOf(u.ID()); ok {
		return name
	}
	if page.Name == "Sensor" {
		return sensorUsageName(tbl, u.ID())
	}
	return fmt.Sprintf("Vendor Usage 0x%08x", uint32(u))
}

// sensorUsageName decodes a Sensor page usage as a modifier plus a base
// usage, per spec §4.A. The page_id computation reproduces the reference
// implementation's shift bug verbatim: masking by 0xFF00 and then shifting
// right by 16 is mathematically always 0 regardless of input, so the
// "base page" half of a modified Sensor usage never resolves and this
// virtually always falls through to the "Unknown Usage" form. Preserved
// as-stated per the Open Questions note in DESIGN.md rather than fixed.
func sensorUsageName(tbl *usage.Table, value uint16) string {
	mod := (value & 0xF000) >> 8 // one of 0x00, 0x10, ..., 0xF0
	modName := usage.SensorModifierName(uint8(mod >> 4))
	cleared := value &^ 0xF000
	pageID := uint16((uint32(cleared) & 0xFF00) >> 16) // always 0
	page, err := tbl.PageByID(pageID)
	if err != nil {
		return fmt.Sprintf("Unknown Usage 0x%02x", value)
	}
	name, ok := page.NameOf(cleared & 0xFF)
	if !ok {
		return fmt.Sprintf("Unknown Usage 0x%02x", value)
	}
	return fmt.Sprintf("%s | %s", name, modName)
}

// Direction classifies a Report by which Main item kind populates it.
type Direction int

const (
	Input Direction = iota
	Output
	Feature
)

func (d Direction) String() string {
	switch d {
	case Input:
		return "Input"
	case Output:
		return "Output"
	case Feature:
		return "Feature"
	default:
		return "Unknown"
	}
}

// GlobalState is the Global item record (spec §3): it persists until
// changed, and is duplicated/restored by Push/Pop.
type GlobalState struct {
	UsagePage   uint16
	Logical     *Usage
	Physical    *Usage
	Application *Usage
	LogicalMin  int32
	LogicalMax  int32
	ReportCount int
	ReportSize  int
}

// LocalState is the Local item record (spec §3). Usages, UsageMin and
// UsageMax are cleared on every Input/Output/Feature/Collection item and on
// Usage Page change; ReportID keeps its value until the next Report ID item.
type LocalState struct {
	Usages   []Usage
	UsageMin Usage
	UsageMax Usage
	ReportID int32
}

func newLocalState() LocalState {
	return LocalState{ReportID: -1}
}

// AlternativesKind distinguishes the two ways an Array field's usage
// alternatives were declared (spec §9 Design Notes: "lazy buffer of
// alternatives").
type AlternativesKind int

const (
	AlternativesNone AlternativesKind = iota
	AlternativesEnumerated
	AlternativesRange
)

// Alternatives is the sum type `{Enumerated([]Usage) | Range(Usage,Usage)}`
// for an Array field's usage list.
type Alternatives struct {
	Kind       AlternativesKind
	Enumerated []Usage
	RangeMin   Usage
	RangeMax   Usage
}

// At resolves the usage named by logical value v, or false if v is out of
// range / unresolvable.
func (a *Alternatives) At(v int64) (Usage, bool) {
	if a == nil {
		return 0, false
	}
	switch a.Kind {
	case AlternativesEnumerated:
		if v < 0 || int(v) >= len(a.Enumerated) {
			return 0, false
		}
		return a.Enumerated[v], true
	case AlternativesRange:
		u := Usage(uint32(a.RangeMin) + uint32(v))
		if u > a.RangeMax {
			return 0, false
		}
		return u, true
	default:
		return 0, false
	}
}

// Field is one logical channel of a Report (spec §3).
type Field struct {
	ReportID       int32
	Logical        *Usage
	Physical       *Usage
	Application    *Usage
	CollectionPath [3]int // application, physical, logical counters at creation time
	Flags          item.Flags
	UsagePage      uint16
	Usage          Usage
	Alternatives   *Alternatives
	LogicalMin     int32
	LogicalMax     int32
	BitSize        int
	Count          int
	StartBit       int
}

// Signed reports whether this field's values are two's-complement encoded.
func (f *Field) Signed() bool { return f.LogicalMin < 0 }

// Const reports whether this is a Constant (padding) field.
func (f *Field) Const() bool { return f.Flags&item.FlagConstant != 0 }

// Array reports whether this is an Array (vs Variable) field.
func (f *Field) Array() bool { return f.Flags&item.FlagVariable == 0 }

// UsageName resolves the field's primary usage name.
func (f *Field) UsageName(tbl *usage.Table) string {
	return f.Usage.Name(tbl)
}

// UsagePageName resolves this field's usage page name, or "" if unknown.
func (f *Field) UsagePageName(tbl *usage.Table) string {
	page, err := tbl.PageByID(f.UsagePage)
	if err != nil {
		return ""
	}
	return page.Name
}

// RangeError reports a Field Packer write exceeding the declared bit size
// or extending past the end of the report buffer (spec §7). A read whose
// buffer is too short is reported by GetValue's ok result instead.
type RangeError struct {
	Msg string
}

func (e *RangeError) Error() string { return "hid field range: " + e.Msg }

// ShapeError reports a SetValues call whose value count differs from the
// Field's Count (spec §7). Synthesize does not check the number of frames
// it is given against the Report's Fields.
type ShapeError struct {
	Msg string
}

func (e *ShapeError) Error() string { return "hid report shape: " + e.Msg }

// Report is an ordered collection of Fields for one (direction, report_id)
// (spec §3).
type Report struct {
	Direction       Direction
	ReportID        int32
	ApplicationUsage *Usage
	Fields          []*Field
	bitSize         int
}

func newReport(direction Direction, reportID int32, application *Usage) *Report {
	r := &Report{Direction: direction, ReportID: reportID, ApplicationUsage: application}
	if r.Numbered() {
		r.bitSize = 8
	}
	return r
}

// Numbered reports whether this report reserves byte 0 for its report ID.
func (r *Report) Numbered() bool { return r.ReportID >= 0 }

// BitSize returns the report's total bit length, including the ID byte if
// numbered.
func (r *Report) BitSize() int { return r.bitSize }

// Size returns the report's byte length (truncated, spec §4.E).
func (r *Report) Size() int { return r.bitSize / 8 }

// HasBeenPopulated reports whether any Field has been appended beyond the
// optional ID byte (spec §3).
func (r *Report) HasBeenPopulated() bool {
	if r.Numbered() {
		return r.bitSize > 8
	}
	return r.bitSize > 0
}

// Append adds a field, assigning its start bit and advancing the running
// cursor (spec §4.E).
func (r *Report) Append(f *Field) {
	f.StartBit = r.bitSize
	r.Fields = append(r.Fields, f)
	r.bitSize += f.BitSize * f.Count
}

// ApplicationName resolves the report's application usage name, or
// "Vendor" if unset/unresolvable.
func (r *Report) ApplicationName(tbl *usage.Table) string {
	if r.ApplicationUsage == nil {
		return "Vendor"
	}
	page, err := tbl.PageByID(r.ApplicationUsage.Page())
	if err != nil {
		return "Vendor"
	}
	name, ok := page.NameOf(r.ApplicationUsage.ID())
	if !ok {
		return "Vendor"
	}
	return name
}

// Descriptor is a fully evaluated report descriptor (spec §3).
type Descriptor struct {
	Items          []item.Item
	InputReports   map[int32]*Report
	OutputReports  map[int32]*Report
	FeatureReports map[int32]*Report
	Win8           bool
}

// winUsage is the Microsoft touch-certification vendor usage (spec
// Glossary "Win8 device").
const winUsage = Usage(0xff0000c5)

// Get returns the Input Report matching reportID whose size is at least
// minBitSize, falling back to the unnumbered report if reportID is absent
// (spec §4.G).
func (d *Descriptor) Get(reportID int32, minBitSize int) *Report {
	r, ok := d.InputReports[reportID]
	if !ok {
		r, ok = d.InputReports[-1]
		if !ok {
			return nil
		}
	}
	if r.BitSize() >= minBitSize {
		return r
	}
	return nil
}

// GetReportFromApplication returns the first Input Report whose numeric
// application usage or application name matches. See DESIGN.md for the
// Open Question on tie-break when two reports share an application name.
func (d *Descriptor) GetReportFromApplication(tbl *usage.Table, app Usage, appName string) *Report {
	for _, r := range d.InputReports {
		if r.ApplicationUsage != nil && *r.ApplicationUsage == app {
			return r
		}
		if r.ApplicationName(tbl) == appName {
			return r
		}
	}
	return nil
}
