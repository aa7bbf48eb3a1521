// Package usage provides the static HID Usage Table: the catalog mapping
// numeric Usage Page and Usage IDs to their names, and back.
package usage

import (
	"fmt"
	"strconv"
	"strings"
)

// Page is one Usage Page: a namespace of usage IDs, e.g. "Generic Desktop"
// or "Button".
type Page struct {
	ID     uint16
	Name   string
	byID   map[uint16]string
	byName map[string]uint16
}

// NameOf resolves a usage ID to its name within this page. The "Button"
// page is special-cased to render every usage as "B<n>" regardless of
// the catalog contents, matching how HID devices declare an open-ended
// run of numbered buttons rather than naming each one individually.
func (p Page) NameOf(usageID uint16) (string, bool) {
	if p.Name == "Button" {
		return fmt.Sprintf("B%d", usageID), true
	}
	name, ok := p.byID[usageID]
	return name, ok
}

// IDFromName resolves a usage name back to its ID within this page. On the
// "Button" page it also accepts the "B<n>" form that NameOf produces.
func (p Page) IDFromName(name string) (uint16, bool) {
	if p.Name == "Button" {
		if rest, ok := strings.CutPrefix(name, "B"); ok {
			if n, err := strconv.ParseUint(rest, 10, 16); err == nil {
				return uint16(n), true
			}
		}
	}
	id, ok := p.byName[name]
	return id, ok
}

// LookupError reports a usage, page, or name unknown to the Usage Table.
// Most callers render a vendor/hex fallback instead of propagating this;
// the text front-end surfaces it as a hard parse failure (see package
// text), per the error-handling policy in spec §7.
type LookupError struct {
	Kind string // "page" or "usage"
	Key  string
}

func (e *LookupError) Error() string {
	return fmt.Sprintf("usage table: unknown %s %q", e.Kind, e.Key)
}

// Table is the full catalog: every known Usage Page, keyed both by
// numeric ID and by name.
type Table struct {
	byID   map[uint16]Page
	byName map[string]Page
}

// PageByID looks up a page by its numeric Usage Page ID.
func (t *Table) PageByID(id uint16) (Page, error) {
	if p, ok := t.byID[id]; ok {
		return p, nil
	}
	return Page{}, &LookupError{Kind: "page", Key: fmt.Sprintf("0x%04x", id)}
}

// PageFromName looks up a page by its name, e.g. "Generic Desktop".
func (t *Table) PageFromName(name string) (Page, error) {
	if p, ok := t.byName[name]; ok {
		return p, nil
	}
	return Page{}, &LookupError{Kind: "page", Key: name}
}

// sensorModifiers is the 16-entry Sensor usage modifier table (glossary
// "Sensor modifier table"), keyed by (usage&0xF000)>>8.
var sensorModifiers = [16]string{
	0x0: "None",
	0x1: "Change Sensitivity Abs",
	0x2: "Max",
	0x3: "Min",
	0x4: "Accuracy",
	0x5: "Resolution",
	0x6: "Threshold High",
	0x7: "Threshold Low",
	0x8: "Calibration Offset",
	0x9: "Calibration Multiplier",
	0xa: "Report Interval",
	0xb: "Frequency Max",
	0xc: "Period Max",
	0xd: "Change Sensitivity Range Percent",
	0xe: "Change Sensitivity Rel Percent",
	0xf: "Vendor Reserved",
}

// SensorModifierName returns the name of a Sensor page modifier nibble
// (0..15), as decomposed by the Sensor usage decoder.
func SensorModifierName(mod uint8) string {
	return sensorModifiers[mod&0xF]
}
