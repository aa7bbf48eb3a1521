package item

import (
	"fmt"
	"strconv"
	"strings"
)

// valueInParens lists the tags whose human-readable trace line renders as
// "<Name> (<decimal value>)" with no further interpretation. Collection,
// End Collection, Usage Page, Usage, Input/Output/Feature and Unit each
// need bespoke rendering (collection kind name, usage name lookup, flag
// list, unit composition) and are handled by their own renderers instead.
// Designator*/String*/Delimiter show no value at all, matching the
// original descriptor dumper which never reaches a value-printing branch
// for them.
var valueInParens = map[Tag]bool{
	TagReportID:         true,
	TagUsageMinimum:     true,
	TagUsageMaximum:     true,
	TagLogicalMinimum:   true,
	TagPhysicalMinimum:  true,
	TagLogicalMaximum:   true,
	TagPhysicalMaximum:  true,
	TagReportSize:       true,
	TagReportCount:      true,
	TagUnitExponent:     true,
}

// ValueInParens reports whether this tag's generic trace rendering is
// "<Name> (<value>)". Callers that need bespoke rendering (Collection,
// Usage Page, Usage, Input/Output/Feature, Unit) should check for those
// tags first.
func (t Tag) ValueInParens() bool {
	return valueInParens[t]
}

// Line renders the tag's generic trace form. Callers must special-case
// Collection, Usage Page, Usage, Input, Output, Feature and Unit before
// falling back to this.
func (t Tag) Line(value int64) string {
	if t.ValueInParens() {
		return fmt.Sprintf("%s (%d)", t, value)
	}
	return t.String()
}

// CollectionKind names a Collection item's payload value (spec Glossary
// "Collection kind").
type CollectionKind byte

const (
	CollectionPhysical     CollectionKind = 0x00
	CollectionApplication  CollectionKind = 0x01
	CollectionLogical      CollectionKind = 0x02
	CollectionReport       CollectionKind = 0x03
	CollectionNamedArray   CollectionKind = 0x04
	CollectionUsageSwitch  CollectionKind = 0x05
	CollectionUsageModifier CollectionKind = 0x06
)

var collectionKindNames = map[CollectionKind]string{
	CollectionPhysical:      "Physical",
	CollectionApplication:   "Application",
	CollectionLogical:       "Logical",
	CollectionReport:        "Report",
	CollectionNamedArray:    "Named Array",
	CollectionUsageSwitch:   "Usage Switch",
	CollectionUsageModifier: "Usage Modifier",
}

// String names a collection kind, falling back to "Vendor-defined" or
// "Reserved" for values outside the defined set, per the Usage Table spec.
func (k CollectionKind) String() string {
	if name, ok := collectionKindNames[k]; ok {
		return name
	}
	switch {
	case k >= 0x80:
		return fmt.Sprintf("Vendor-defined (0x%02x)", byte(k))
	default:
		return fmt.Sprintf("Reserved (0x%02x)", byte(k))
	}
}

// Flags decodes the bitfield payload of an Input, Output or Feature item.
type Flags uint32

const (
	FlagConstant     Flags = 1 << 0
	FlagVariable     Flags = 1 << 1
	FlagRelative     Flags = 1 << 2
	FlagWrap         Flags = 1 << 3
	FlagNonLinear    Flags = 1 << 4
	FlagNoPreferred  Flags = 1 << 5
	FlagNullState    Flags = 1 << 6
	FlagVolatile     Flags = 1 << 7
	FlagBufferedBytes Flags = 1 << 8
)

// bitNames pairs each flag bit with its "set"/"clear" labels, in the order
// the original dumper lists them. An empty clear label means the flag is
// listed only when set. The labels are the tokens the text front-end
// matches when parsing a flag list back.
var bitNames = []struct {
	bit      Flags
	set, clr string
}{
	{FlagConstant, "Cnst", "Data"},
	{FlagVariable, "Var", "Arr"},
	{FlagRelative, "Rel", "Abs"},
	{FlagWrap, "Wrap", ""},
	{FlagNonLinear, "NonLin", ""},
	{FlagNoPreferred, "NoPref", ""},
	{FlagNullState, "Null", ""},
	{FlagVolatile, "Vol", ""},
	{FlagBufferedBytes, "Buff", ""},
}

// String renders the flag list as a comma-separated clause, e.g.
// "Data,Var,Abs".
func (f Flags) String() string {
	parts := make([]string, 0, len(bitNames))
	for _, bn := range bitNames {
		label := bn.clr
		if f&bn.bit != 0 {
			label = bn.set
		}
		if label != "" {
			parts = append(parts, label)
		}
	}
	return strings.Join(parts, ",")
}

// MainLine renders an Input/Output/Feature item's trace line, e.g.
// "Input (Data,Var,Abs)".
func (t Tag) MainLine(flags Flags) string {
	return fmt.Sprintf("%s (%s)", t, flags)
}

// unitDimension names the six Unit nibble positions, in nibble order.
type unitDimension int

const (
	dimLength unitDimension = iota + 1
	dimMass
	dimTime
	dimTemperature
	dimCurrent
	dimLuminous
)

var unitDimensionOrder = []unitDimension{dimLength, dimMass, dimTime, dimTemperature, dimCurrent, dimLuminous}

// unitSystem names a Unit item's system nibble (nibble 0).
type unitSystem int

const (
	systemNone unitSystem = iota
	systemSILinear
	systemSIRotation
	systemEngLinear
	systemEngRotation
)

var systemNames = map[unitSystem]string{
	systemSILinear:   "SILinear",
	systemSIRotation: "SIRotation",
	systemEngLinear:  "EngLinear",
	systemEngRotation: "EngRotation",
}

var systemsByName = func() map[string]unitSystem {
	m := make(map[string]unitSystem, len(systemNames))
	for k, v := range systemNames {
		m[v] = k
	}
	return m
}()

// unitNames maps (system, dimension) to the unit's display name.
var unitNames = map[unitSystem]map[unitDimension]string{
	systemSILinear: {
		dimLength: "Centimeter", dimMass: "Gram", dimTime: "Seconds",
		dimTemperature: "Kelvin", dimCurrent: "Ampere", dimLuminous: "Candela",
	},
	systemSIRotation: {
		dimLength: "Radians", dimMass: "Gram", dimTime: "Seconds",
		dimTemperature: "Kelvin", dimCurrent: "Ampere", dimLuminous: "Candela",
	},
	systemEngLinear: {
		dimLength: "Inch", dimMass: "Slug", dimTime: "Seconds",
		dimTemperature: "Fahrenheit", dimCurrent: "Ampere", dimLuminous: "Candela",
	},
	systemEngRotation: {
		dimLength: "Degrees", dimMass: "Slug", dimTime: "Seconds",
		dimTemperature: "Fahrenheit", dimCurrent: "Ampere", dimLuminous: "Candela",
	},
}

// nibble extracts nibble index i (0 = least significant) from a Unit value.
func nibble(value int64, i uint) int64 {
	v := (value >> (4 * i)) & 0xF
	if v >= 8 {
		v -= 16 // two's-complement nibble
	}
	return v
}

// FormatUnit renders a Unit item's value as "<Unit>^<exp>,...,<System>",
// omitting dimensions with a zero exponent and the caret when the
// exponent is 1. A value of 0 renders as "None".
//
// The nibble layout and token order here follow the reference Python
// implementation's from_human_descr/get_human_descr pair exactly:
// system nibble is nibble 0, dimension nibbles 1..6 are length, mass,
// time, temperature, current, luminous intensity in that order, and the
// printed token order is unit-then-system (not system-then-unit).
func FormatUnit(value int64) string {
	sys := unitSystem(value & 0xF)
	if sys == systemNone && value == 0 {
		return "None"
	}
	names := unitNames[sys]
	var terms []string
	for i, dim := range unitDimensionOrder {
		exp := nibble(value, uint(i+1))
		if exp == 0 {
			continue
		}
		name := names[dim]
		if name == "" {
			continue
		}
		if exp == 1 {
			terms = append(terms, name)
		} else {
			terms = append(terms, fmt.Sprintf("%s^%d", name, exp))
		}
	}
	sysName := systemNames[sys]
	if sysName == "" {
		sysName = "None"
	}
	if len(terms) == 0 {
		return sysName
	}
	return strings.Join(terms, ",") + "," + sysName
}

// ParseUnit is the inverse of FormatUnit: it accepts a comma-separated
// token list such as "Centimeter^3,SILinear" and returns the packed Unit
// item value.
func ParseUnit(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" || s == "None" {
		return 0, nil
	}
	tokens := strings.Split(s, ",")
	var sys unitSystem = systemNone
	var value int64
	sysSeen := false
	for _, tok := range tokens {
		tok = strings.TrimSpace(tok)
		if sname, ok := systemsByName[tok]; ok {
			sys = sname
			sysSeen = true
			continue
		}
		name, expStr, hasExp := strings.Cut(tok, "^")
		exp := int64(1)
		if hasExp {
			v, err := strconv.ParseInt(expStr, 10, 8)
			if err != nil {
				return 0, fmt.Errorf("unit: bad exponent in %q: %w", tok, err)
			}
			exp = v
		}
		dim, ok := dimensionForName(name)
		if !ok {
			return 0, fmt.Errorf("unit: unknown unit name %q", name)
		}
		value |= (exp & 0xF) << (4 * uint(dim))
	}
	if !sysSeen && value != 0 {
		return 0, fmt.Errorf("unit: %q names a unit with no system", s)
	}
	value |= int64(sys)
	return value, nil
}

func dimensionForName(name string) (unitDimension, bool) {
	for sys, names := range unitNames {
		for dim, n := range names {
			if n == name {
				return dim, true
			}
		}
		_ = sys
	}
	return 0, false
}
