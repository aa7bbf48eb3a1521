// Package text implements the human-readable textual form of a report
// descriptor: the inverse of the item pretty-printer (spec §4.F).
package text

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/hidrd/hidrd/item"
	"github.com/hidrd/hidrd/usage"
)

// collectionByName maps the three named collection kinds recognized in
// text form; any other kind must already be numeric in the source text
// (spec §4.C: "other values are preserved verbatim").
var collectionByName = map[string]int64{
	"Physical":    0,
	"Application": 1,
	"Logical":     2,
}

var mainFlagTokens = []string{"Cnst", "Var", "Rel", "Wrap", "NonLin", "NoPref", "Null", "Vol", "Buff"}

// ParseError reports a textual descriptor line that failed to parse.
type ParseError struct {
	Line int
	Msg  string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("hid report descriptor text: line %d: %s", e.Line, e.Msg)
}

// Parse parses a multi-line human-readable descriptor into an item stream
// (spec §4.F). Whitespace-only lines are ignored.
func Parse(src string) ([]item.Item, error) {
	tbl := usage.Tables()
	var items []item.Item
	var usagePage uint16

	for lineNo, line := range strings.Split(src, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		it, newPage, err := parseLine(tbl, line, usagePage)
		if err != nil {
			return nil, &ParseError{Line: lineNo + 1, Msg: err.Error()}
		}
		usagePage = newPage
		items = append(items, it)
	}
	return items, nil
}

func parseLine(tbl *usage.Table, line string, usagePage uint16) (item.Item, uint16, error) {
	trimmed := strings.TrimLeft(line, " \t")
	name, arg, hasArg := splitNameArg(trimmed)

	tag, ok := item.TagByName(name)
	if !ok {
		return item.Item{}, usagePage, fmt.Errorf("unknown item name %q", name)
	}

	if !hasArg {
		return item.NewEmpty(tag), usagePage, nil
	}

	value, newPage, err := resolveArg(tbl, name, arg, usagePage)
	if err != nil {
		return item.Item{}, usagePage, err
	}
	return item.New(tag, value), newPage, nil
}

// splitNameArg recovers "name" and "arg" from a line of the form
// "<Name> (<arg>)", trimming the trailing ')'.
func splitNameArg(line string) (name, arg string, hasArg bool) {
	open := strings.IndexByte(line, '(')
	if open < 0 {
		return strings.TrimSpace(line), "", false
	}
	name = strings.TrimSpace(line[:open])
	rest := line[open+1:]
	close := strings.LastIndexByte(rest, ')')
	if close < 0 {
		close = len(rest)
	}
	return name, rest[:close], true
}

func resolveArg(tbl *usage.Table, name, arg string, usagePage uint16) (value int64, newUsagePage uint16, err error) {
	newUsagePage = usagePage

	switch name {
	case "Usage Page":
		if hex, ok := strings.CutPrefix(arg, "Vendor Usage Page 0x"); ok {
			v, err := strconv.ParseUint(hex, 16, 16)
			if err != nil {
				return 0, usagePage, fmt.Errorf("bad vendor usage page %q: %w", arg, err)
			}
			return int64(v), uint16(v), nil
		}
		page, err := tbl.PageFromName(arg)
		if err != nil {
			return 0, usagePage, err
		}
		return int64(page.ID), page.ID, nil

	case "Usage":
		// "Vendor Usage 0x%08x" (page unknown, or known page with an
		// unresolved ID) and "Unknown Usage 0x%02x" (Sensor page, spec §4.A)
		// are the two unresolved-name fallbacks printed by describeItem; both
		// carry the usage ID in their low 16 bits, the page already being
		// tracked via usagePage.
		if hex, ok := strings.CutPrefix(arg, "Vendor Usage 0x"); ok {
			v, err := strconv.ParseUint(hex, 16, 32)
			if err != nil {
				return 0, usagePage, fmt.Errorf("bad vendor usage %q: %w", arg, err)
			}
			return int64(uint16(v)), usagePage, nil
		}
		if hex, ok := strings.CutPrefix(arg, "Unknown Usage 0x"); ok {
			v, err := strconv.ParseUint(hex, 16, 16)
			if err != nil {
				return 0, usagePage, fmt.Errorf("bad unknown usage %q: %w", arg, err)
			}
			return int64(v), usagePage, nil
		}
		page, err := tbl.PageByID(usagePage)
		if err != nil {
			return 0, usagePage, err
		}
		id, ok := page.IDFromName(arg)
		if !ok {
			return 0, usagePage, fmt.Errorf("unknown usage %q on page %q", arg, page.Name)
		}
		return int64(id), usagePage, nil

	case "Collection":
		v, ok := collectionByName[arg]
		if ok {
			return v, usagePage, nil
		}
		v2, err := parseNumeric(arg)
		return v2, usagePage, err

	case "Input", "Output", "Feature":
		return parseFlags(arg), usagePage, nil

	case "Unit":
		v, err := item.ParseUnit(arg)
		return v, usagePage, err

	default:
		v, err := parseNumeric(arg)
		return v, usagePage, err
	}
}

func parseNumeric(arg string) (int64, error) {
	if strings.HasPrefix(strings.ToLower(arg), "0x") {
		v, err := strconv.ParseInt(arg[2:], 16, 64)
		if err != nil {
			return 0, fmt.Errorf("bad hex argument %q: %w", arg, err)
		}
		return v, nil
	}
	v, err := strconv.ParseInt(arg, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("bad numeric argument %q: %w", arg, err)
	}
	return v, nil
}

func parseFlags(arg string) int64 {
	var value int64
	for i, tok := range mainFlagTokens {
		if strings.Contains(arg, tok) {
			value |= int64(1) << uint(i)
		}
	}
	return value
}
