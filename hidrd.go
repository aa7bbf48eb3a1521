// Package hidrd ties together the item, descriptor, text and usage
// packages into the full Descriptor Facade (spec §4.G): byte/text
// round-tripping, human-readable dumps, and report decode/synthesis.
package hidrd

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/hidrd/hidrd/descriptor"
	"github.com/hidrd/hidrd/item"
	"github.com/hidrd/hidrd/text"
	"github.com/hidrd/hidrd/usage"
)

// Descriptor is a fully parsed and evaluated report descriptor, ready for
// dumping, report lookup and report decode/synthesis.
type Descriptor struct {
	items []item.Item
	eval  *descriptor.Descriptor
}

// FromBytes parses and evaluates a raw descriptor byte stream (spec §4.G).
// It takes raw bytes only; the "hex-string with length prefix" capture form
// is parsed by FromHexCapture.
func FromBytes(data []byte) (*Descriptor, error) {
	items, err := item.DecodeAll(data)
	if err != nil {
		return nil, err
	}
	return fromItems(items)
}

// FromHexCapture parses the "N B0 B1 … B(N-1)" wire-capture form (spec §6).
func FromHexCapture(s string) (*Descriptor, error) {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return nil, fmt.Errorf("hidrd: empty hex capture")
	}
	data := make([]byte, 0, len(fields)-1)
	for _, tok := range fields[1:] {
		tok = strings.TrimPrefix(tok, "0x")
		v, err := strconv.ParseUint(tok, 16, 8)
		if err != nil {
			return nil, fmt.Errorf("hidrd: bad hex token %q: %w", tok, err)
		}
		data = append(data, byte(v))
	}
	return FromBytes(data)
}

// FromText parses the indented textual descriptor form produced by ToText
// (spec §4.F, §4.G).
func FromText(multiline string) (*Descriptor, error) {
	items, err := text.Parse(multiline)
	if err != nil {
		return nil, err
	}
	return fromItems(items)
}

func fromItems(items []item.Item) (*Descriptor, error) {
	eval, err := descriptor.Evaluate(items)
	if err != nil {
		return nil, err
	}
	return &Descriptor{items: items, eval: eval}, nil
}

// ToBytes serializes the descriptor back to its canonical wire form (spec
// §4.G, invariant 1).
func (d *Descriptor) ToBytes() []byte {
	var out []byte
	for _, it := range d.items {
		out = append(out, it.Encode()...)
	}
	return out
}

// ToText renders the indented textual form that FromText parses back (spec
// §4.F, invariant 2). Nesting depth increases after a Collection item and
// decreases before its matching End Collection. Two kinds of line do not
// survive a FromText round trip: Collection kinds other than Physical,
// Application and Logical are printed by name, which FromText rejects, and
// Designator, String and Delimiter items are printed without their value,
// so FromText rebuilds them with an empty payload.
func (d *Descriptor) ToText() string {
	var out strings.Builder
	depth := 0
	var usagePage uint16
	for _, it := range d.items {
		if it.Tag == item.TagEndCollection {
			depth--
		}
		out.WriteString(strings.Repeat("  ", depth))
		out.WriteString(describeItem(it, usagePage))
		out.WriteString("\n")
		if it.Tag == item.TagUsagePage {
			usagePage = uint16(it.Value)
		}
		if it.Tag == item.TagCollection {
			depth++
		}
	}
	return out.String()
}

// Win8 reports whether any Feature item's terminal local usage was the
// Microsoft touch-certification usage (spec §8 invariant 7).
func (d *Descriptor) Win8() bool { return d.eval.Win8 }

// Get returns the Input Report matching reportID whose bit size is at
// least minBitSize, falling back to the unnumbered report (spec §4.G).
func (d *Descriptor) Get(reportID int32, minBitSize int) *descriptor.Report {
	return d.eval.Get(reportID, minBitSize)
}

// GetReportFromApplication returns the first Input Report whose numeric
// application usage or application name matches (spec §4.G).
func (d *Descriptor) GetReportFromApplication(app descriptor.Usage, appName string) *descriptor.Report {
	return d.eval.GetReportFromApplication(usage.Tables(), app, appName)
}

// DecodeReport renders a report buffer as human-readable text (spec §4.G
// "decode_report"). The Input Report shape is inferred from data itself:
// data[0] is tried as a Report ID, falling back to the unnumbered report,
// exactly as the original get_str()/get() pair does.
func (d *Descriptor) DecodeReport(data []byte) (string, error) {
	if len(data) == 0 {
		return "", fmt.Errorf("hidrd: empty report buffer")
	}
	r := d.Get(int32(data[0]), len(data)*8)
	if r == nil {
		return "", fmt.Errorf("hidrd: no input report matches a %d-byte buffer starting 0x%02x", len(data), data[0])
	}
	return r.FormatReport(usage.Tables(), data, true), nil
}

// FormatReport synthesizes report bytes from symbolic field assignments
// (spec §4.G "format_report"). application, when non-empty, selects the
// target report by application name instead of reportID.
func (d *Descriptor) FormatReport(frames []descriptor.Frame, global descriptor.Frame, reportID int32, application string) ([]byte, error) {
	var r *descriptor.Report
	if application != "" {
		r = d.GetReportFromApplication(0, application)
	} else {
		r = d.eval.InputReports[reportID]
	}
	if r == nil {
		return nil, fmt.Errorf("hidrd: no matching report to synthesize")
	}
	return r.Synthesize(usage.Tables(), frames, global)
}

// DumpStyle selects the rendering of Dump's hex-table output (spec §6).
type DumpStyle int

const (
	// DumpArray renders "0xHH, 0xHH, … // <descr> <offset>" per item.
	DumpArray DumpStyle = iota
	// DumpKernel renders "\t0xHH, 0xHH, … /* <descr> */" per item, suitable
	// for embedding as a C array body.
	DumpKernel
)

// Dump writes a hex-table rendering of the descriptor to sink in the given
// style (spec §4.G, §6).
func (d *Descriptor) Dump(sink io.Writer, style DumpStyle) error {
	var usagePage uint16
	for _, it := range d.items {
		raw := it.Encode()
		hexParts := make([]string, len(raw))
		for i, b := range raw {
			hexParts[i] = fmt.Sprintf("0x%02x", b)
		}
		hex := strings.Join(hexParts, ", ")
		descr := describeItem(it, usagePage)

		var line string
		switch style {
		case DumpKernel:
			line = fmt.Sprintf("\t%s, /* %s */\n", hex, descr)
		default:
			line = fmt.Sprintf("%s, // %s %d\n", hex, descr, it.Offset)
		}
		if _, err := io.WriteString(sink, line); err != nil {
			return err
		}

		if it.Tag == item.TagUsagePage {
			usagePage = uint16(it.Value)
		}
	}
	return nil
}

// describeItem renders one item's human-readable trace line, the shared
// core of ToText and Dump's descr column.
func describeItem(it item.Item, usagePage uint16) string {
	tbl := usage.Tables()
	switch it.Tag {
	case item.TagCollection:
		return fmt.Sprintf("Collection (%s)", item.CollectionKind(it.Value))
	case item.TagEndCollection:
		return "End Collection"
	case item.TagUsagePage:
		page, err := tbl.PageByID(uint16(it.Value))
		if err != nil {
			return fmt.Sprintf("Usage Page (Vendor Usage Page 0x%x)", it.Value)
		}
		return fmt.Sprintf("Usage Page (%s)", page.Name)
	case item.TagUsage:
		name := descriptor.NewUsage(usagePage, uint16(it.Value)).Name(tbl)
		return fmt.Sprintf("Usage (%s)", name)
	case item.TagUsageMinimum, item.TagUsageMaximum:
		// Usage Minimum/Maximum stay numeric in text form (spec §4.F): only
		// Usage Page, Usage and Collection resolve by name.
		return it.Tag.Line(it.Value)
	case item.TagInput, item.TagOutput, item.TagFeature:
		return it.Tag.MainLine(item.Flags(it.Value))
	case item.TagUnit:
		return fmt.Sprintf("Unit (%s)", item.FormatUnit(it.Value))
	default:
		return it.Tag.Line(it.Value)
	}
}
