//go:build linux

package devio

import (
	"fmt"
	"iter"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"unsafe"

	"golang.org/x/sys/unix"
)

// enumerate walks /sys/class/hidraw, following each entry's device symlink
// up to its USB interface and device directories to recover vendor/product
// identity and the top-level Usage Page/Usage from the device's own report
// descriptor. Adapted from the teacher's hidraw enumerator, generalized
// from OTP-only probing to general report-descriptor retrieval.
func enumerate() iter.Seq2[*Device, error] {
	return func(yield func(*Device, error) bool) {
		const sysHidraw = "/sys/class/hidraw"

		entries, err := os.ReadDir(sysHidraw)
		if err != nil {
			yield(nil, err)
			return
		}

		for _, e := range entries {
			name := e.Name() // "hidrawX"
			sysPath := filepath.Join(sysHidraw, name)
			devPath := filepath.Join("/dev", name)

			devLink := filepath.Join(sysPath, "device")
			realDev, err := filepath.EvalSymlinks(devLink)
			if err != nil {
				if !yield(nil, err) {
					return
				}
				continue
			}

			ifaceDir := realDev
			for {
				if _, err := os.Stat(filepath.Join(ifaceDir, "bInterfaceNumber")); err == nil {
					break
				}
				parent := filepath.Dir(ifaceDir)
				if parent == ifaceDir {
					ifaceDir = ""
					break
				}
				ifaceDir = parent
			}
			if ifaceDir == "" {
				continue // not a USB HID interface (e.g. Bluetooth)
			}

			devDir := ifaceDir
			for {
				if _, err := os.Stat(filepath.Join(devDir, "idVendor")); err == nil {
					break
				}
				parent := filepath.Dir(devDir)
				if parent == devDir {
					devDir = ""
					break
				}
				devDir = parent
			}
			if devDir == "" {
				continue
			}

			d := &Device{Path: devPath}
			d.InterfaceNbr = readHex8(filepath.Join(ifaceDir, "bInterfaceNumber"))
			d.VendorID = readHex16(filepath.Join(devDir, "idVendor"))
			d.ProductID = readHex16(filepath.Join(devDir, "idProduct"))
			d.ReleaseNumber = readHex16(filepath.Join(devDir, "bcdDevice"))
			d.SerialNumber = readString(filepath.Join(devDir, "serial"))
			d.Manufacturer = readString(filepath.Join(devDir, "manufacturer"))
			d.Product = readString(filepath.Join(devDir, "product"))

			if raw, err := readReportDescriptorBytes(sysPath); err == nil {
				d.UsagePage, d.Usage = parseTopLevelUsage(raw)
			}

			if !yield(d, nil) {
				return
			}
		}
	}
}

// readReportDescriptor returns the device's raw report descriptor bytes,
// read from sysfs (falling back to hidraw ioctls if sysfs is unavailable).
func readReportDescriptor(d *Device) ([]byte, error) {
	name := filepath.Base(d.Path)
	sysPath := filepath.Join("/sys/class/hidraw", name)
	if raw, err := readReportDescriptorBytes(sysPath); err == nil {
		return raw, nil
	}
	return readReportDescriptorIoctl(d.Path)
}

func readReportDescriptorBytes(sysPath string) ([]byte, error) {
	for _, p := range []string{
		filepath.Join(sysPath, "device", "report_descriptor"),
		filepath.Join(sysPath, "report_descriptor"),
	} {
		if b, err := os.ReadFile(p); err == nil && len(b) > 0 {
			return b, nil
		}
	}
	return nil, fmt.Errorf("devio: no report_descriptor file under %s", sysPath)
}

// hidrawReportDescriptor mirrors the kernel's struct hidraw_report_descriptor.
type hidrawReportDescriptor struct {
	Size  uint32
	Value [4096]byte
}

func readReportDescriptorIoctl(path string) ([]byte, error) {
	f, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	fd := int(f.Fd())

	var size int32
	if err := ioctl(fd, hidIOC(_IOC_READ, 'H', 0x01, 4), unsafe.Pointer(&size)); err != nil { // HIDIOCGRDESCSIZE
		return nil, err
	}

	desc := hidrawReportDescriptor{Size: uint32(size)}
	if err := ioctl(fd, hidIOC(_IOC_READ, 'H', 0x02, unsafe.Sizeof(desc)), unsafe.Pointer(&desc)); err != nil { // HIDIOCGRDESC
		return nil, err
	}
	return append([]byte(nil), desc.Value[:desc.Size]...), nil
}

func ioctl(fd int, req uintptr, arg unsafe.Pointer) error {
	_, _, errno := unix.Syscall(unix.SYS_IOCTL, uintptr(fd), req, uintptr(arg))
	if errno != 0 {
		return errno
	}
	return nil
}

// ---- Linux _IOC helpers (arch-independent) ----

const (
	_iocNrbits   = 8
	_iocTypebits = 8
	_iocSizebits = 14
	_iocDirbits  = 2

	_iocNrshift   = 0
	_iocTypeshift = _iocNrshift + _iocNrbits
	_iocSizeshift = _iocTypeshift + _iocTypebits
	_iocDirshift  = _iocSizeshift + _iocSizebits

	_IOC_NONE  = 0
	_IOC_WRITE = 1
	_IOC_READ  = 2
)

func _IOC(dir, typ, nr, size uintptr) uintptr {
	return (dir << _iocDirshift) | (typ << _iocTypeshift) | (nr << _iocNrshift) | (size << _iocSizeshift)
}

func hidIOC(dir uintptr, typ byte, nr byte, size uintptr) uintptr {
	return _IOC(dir, uintptr(typ), uintptr(nr), size)
}

func readString(path string) string {
	b, err := os.ReadFile(path)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(b))
}

func readHex16(path string) uint16 {
	s := readString(path)
	if s == "" {
		return 0
	}
	v, err := strconv.ParseUint(s, 16, 16)
	if err != nil {
		return 0
	}
	return uint16(v)
}

func readHex8(path string) int {
	s := readString(path)
	if s == "" {
		return 0
	}
	v, err := strconv.ParseUint(s, 16, 8)
	if err != nil {
		return 0
	}
	return int(v)
}

// parseTopLevelUsage scans raw descriptor bytes for the Usage Page/Usage
// of the first top-level Collection, without requiring a full evaluation
// pass — used to populate enumeration results cheaply.
func parseTopLevelUsage(desc []byte) (uint16, uint16) {
	var usagePage, usageID uint16
	i := 0
	for i < len(desc) {
		prefix := desc[i]
		i++
		if prefix == 0xFE { // long item
			if i+2 > len(desc) {
				break
			}
			size := int(desc[i])
			i += 2 + size
			continue
		}
		size := [...]int{0, 1, 2, 4}[prefix&0x03]
		itemType := (prefix >> 2) & 0x03
		itemTag := (prefix >> 4) & 0x0F
		if i+size > len(desc) {
			break
		}
		var val uint32
		switch size {
		case 1:
			val = uint32(desc[i])
		case 2:
			val = uint32(desc[i]) | uint32(desc[i+1])<<8
		case 4:
			val = uint32(desc[i]) | uint32(desc[i+1])<<8 | uint32(desc[i+2])<<16 | uint32(desc[i+3])<<24
		}
		i += size

		switch itemType {
		case 1: // Global
			if itemTag == 0x0 {
				usagePage = uint16(val)
			}
		case 2: // Local
			if itemTag == 0x0 {
				usageID = uint16(val)
			}
		case 0: // Main
			if itemTag == 0xA { // Collection
				return usagePage, usageID
			}
		}
	}
	return usagePage, usageID
}
