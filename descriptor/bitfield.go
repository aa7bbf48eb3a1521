package descriptor

import "fmt"

// bitOffset returns the absolute bit offset of value index idx within the
// field's allotment.
func (f *Field) bitOffset(idx int) int {
	return f.StartBit + f.BitSize*idx
}

// GetValue reads the idx-th value of this field from a report buffer (spec
// §4.D). ok is false iff the covering byte range extends past the end of
// buf — the "no data" sentinel, rendered by callers as `<.>`, never a
// crash.
func (f *Field) GetValue(buf []byte, idx int) (value int64, ok bool) {
	startBit := f.bitOffset(idx)
	endBit := startBit + f.BitSize
	startByte := startBit / 8
	endByte := endBit / 8
	if endBit%8 != 0 {
		endByte++
	}
	if endByte > len(buf) {
		return 0, false
	}

	var acc uint64
	for i, b := range buf[startByte:endByte] {
		acc |= uint64(b) << (8 * uint(i))
	}

	bitShift := uint(startBit % 8)
	acc >>= bitShift
	mask := uint64(1)<<uint(f.BitSize) - 1
	acc &= mask

	if f.Signed() && f.BitSize > 1 {
		if acc&(uint64(1)<<uint(f.BitSize-1)) != 0 {
			return int64(acc) - int64(mask) - 1, true
		}
	}
	return int64(acc), true
}

// GetValues reads all Count values of this field.
func (f *Field) GetValues(buf []byte) []int64 {
	out := make([]int64, f.Count)
	for i := range out {
		v, ok := f.GetValue(buf, i)
		if !ok {
			v = 0 // caller distinguishes via GetValue when the sentinel matters
		}
		out[i] = v
	}
	return out
}

// SetValue writes the idx-th value of this field into a report buffer
// (spec §4.D). value must already be in the field's unsigned wire encoding
// (two's-complement pre-applied by the caller for signed fields, see
// SetValues). Returns RangeError if value exceeds the field's bit size.
func (f *Field) SetValue(buf []byte, value int64, idx int) error {
	n := f.BitSize
	max := int64(1)<<uint(n) - 1
	if value < 0 || value > max {
		return &RangeError{Msg: fmt.Sprintf("value %d exceeds %d-bit field", value, n)}
	}

	startBit := f.bitOffset(idx)
	byteIdx := startBit / 8
	bitShift := uint(startBit % 8)
	v := uint64(value)

	for n > 0 {
		bitsToSet := 8 - int(bitShift)
		if bitsToSet > n {
			bitsToSet = n
		}
		if byteIdx >= len(buf) {
			return &RangeError{Msg: "write extends past end of report buffer"}
		}
		clearMask := byte(((1 << uint(bitsToSet)) - 1) << bitShift)
		buf[byteIdx] &^= clearMask
		buf[byteIdx] |= byte((v << bitShift)) & clearMask
		v >>= uint(bitsToSet)
		n -= bitsToSet
		bitShift = 0
		byteIdx++
	}
	return nil
}

// SetValues writes Count values, applying two's-complement re-encoding for
// signed fields before calling SetValue (spec §4.D: "unsigned encoding of
// two's-complement is caller's responsibility when signed").
func (f *Field) SetValues(buf []byte, values []int64) error {
	if len(values) != f.Count {
		return &ShapeError{Msg: fmt.Sprintf("field expects %d values, got %d", f.Count, len(values))}
	}
	for idx, v := range values {
		if f.Signed() && v < 0 {
			v += int64(1) << uint(f.BitSize)
		}
		if err := f.SetValue(buf, v, idx); err != nil {
			return err
		}
	}
	return nil
}
