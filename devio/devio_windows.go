//go:build windows

package devio

import (
	"errors"
	"iter"
	"strings"
	"unsafe"

	"golang.org/x/sys/windows"
	"golang.org/x/text/encoding/unicode"
)

// enumerate walks the HID device interface class via SetupAPI and reads
// each device's identity and top-level Usage Page/Usage via hid.dll's
// preparsed-data capability query. Adapted from the teacher's Windows HID
// enumerator.
func enumerate() iter.Seq2[*Device, error] {
	return func(yield func(*Device, error) bool) {
		guid, err := getHidGuid()
		if err != nil {
			yield(nil, err)
			return
		}
		deviceInfoSet, err := setupDiGetClassDevs(guid, "", 0, windows.DIGCF_PRESENT|windows.DIGCF_DEVICEINTERFACE)
		if err != nil {
			yield(nil, err)
			return
		}

		for idx := uint32(0); ; idx++ {
			ifaceData, err := setupDiEnumDeviceInterfaces(deviceInfoSet, nil, guid, idx)
			if err != nil {
				if errors.Is(err, windows.ERROR_NO_MORE_ITEMS) {
					return
				}
				yield(nil, err)
				return
			}
			detail, _, err := setupDiGetDeviceInterfaceDetailW(deviceInfoSet, ifaceData)
			if err != nil {
				yield(nil, err)
				return
			}

			devicePath := windows.UTF16PtrToString(&detail.DevicePath[0])
			hFile, err := windows.CreateFile(
				windows.StringToUTF16Ptr(devicePath), 0,
				windows.FILE_SHARE_READ|windows.FILE_SHARE_WRITE, nil,
				windows.OPEN_EXISTING, windows.FILE_FLAG_OVERLAPPED, 0,
			)
			if err != nil {
				yield(nil, err)
				return
			}

			d := &Device{Path: devicePath, InterfaceNbr: int(idx)}
			if attrs, err := getAttributes(hFile); err == nil {
				d.VendorID = attrs.VendorID
				d.ProductID = attrs.ProductID
				d.ReleaseNumber = attrs.VersionNumber
			}
			decoder := unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM).NewDecoder()
			if s, err := getManufacturerString(hFile); err == nil && len(s) > 0 {
				d.Manufacturer, _ = decoder.String(strings.TrimRight(string(s), "\x00") + "\x00")
			}
			if s, err := getProductString(hFile); err == nil && len(s) > 0 {
				d.Product, _ = decoder.String(strings.TrimRight(string(s), "\x00") + "\x00")
			}
			if s, err := getSerialNumberString(hFile); err == nil && len(s) > 0 {
				d.SerialNumber, _ = decoder.String(strings.TrimRight(string(s), "\x00") + "\x00")
			}
			if ppd, err := hidDGetPreparsedData(hFile); err == nil {
				if caps, err := getCaps(ppd); err == nil {
					d.UsagePage = caps.UsagePage
					d.Usage = caps.Usage
				}
				_ = freePreparsedData(ppd)
			}
			windows.Close(hFile)

			if !yield(d, nil) {
				return
			}
		}
	}
}

// readReportDescriptor always fails on Windows: HidD_GetPreparsedData
// exposes parsed capability arrays (button/value caps), not the original
// raw report descriptor byte stream, and there is no documented hid.dll
// or SetupAPI call that returns it. Callers that need the underlying
// descriptor on Windows must reconstruct it from HidP_Get*Caps instead.
func readReportDescriptor(d *Device) ([]byte, error) {
	return nil, ErrDescriptorUnavailable
}

// --- hid.dll / setupapi.dll interop ---

var (
	modHid                               = windows.NewLazySystemDLL("hid.dll")
	procHidD_GetPreparsedData            = modHid.NewProc("HidD_GetPreparsedData")
	procHidD_FreePreparsedData           = modHid.NewProc("HidD_FreePreparsedData")
	procHidP_GetCaps                     = modHid.NewProc("HidP_GetCaps")
	procHidD_GetHidGuid                  = modHid.NewProc("HidD_GetHidGuid")
	procHidD_GetAttributes               = modHid.NewProc("HidD_GetAttributes")
	procHidD_GetManufacturerString       = modHid.NewProc("HidD_GetManufacturerString")
	procHidD_GetProductString            = modHid.NewProc("HidD_GetProductString")
	procHidD_GetSerialNumberString       = modHid.NewProc("HidD_GetSerialNumberString")
	modSetupapi                          = windows.NewLazySystemDLL("setupapi.dll")
	procSetupDiGetClassDevsW             = modSetupapi.NewProc("SetupDiGetClassDevsW")
	procSetupDiEnumDeviceInterfaces      = modSetupapi.NewProc("SetupDiEnumDeviceInterfaces")
	procSetupDiGetDeviceInterfaceDetailW = modSetupapi.NewProc("SetupDiGetDeviceInterfaceDetailW")
)

type hidpPreparsedData uintptr

type hidpCaps struct {
	Usage                     uint16
	UsagePage                 uint16
	InputReportByteLength     uint16
	OutputReportByteLength    uint16
	FeatureReportByteLength   uint16
	Reserved                  [17]uint16
	NumberLinkCollectionNodes uint16
	NumberInputButtonCaps     uint16
	NumberInputValueCaps      uint16
	NumberInputDataIndices    uint16
	NumberOutputButtonCaps    uint16
	NumberOutputValueCaps     uint16
	NumberOutputDataIndices   uint16
	NumberFeatureButtonCaps   uint16
	NumberFeatureValueCaps    uint16
	NumberFeatureDataIndices  uint16
}

type hidAttributes struct {
	Size          uint32
	VendorID      uint16
	ProductID     uint16
	VersionNumber uint16
	_             [2]byte
}

type guid struct {
	Data1 uint32
	Data2 uint16
	Data3 uint16
	Data4 [8]uint8
}

type spDeviceInterfaceData struct {
	CbSize             uint32
	InterfaceClassGuid guid
	Flags              uint32
	Reserved           uint64
}

type spDeviceInfoData struct {
	CbSize    uint32
	ClassGuid guid
	DevInst   uint32
	Reserved  uint64
}

type spDeviceInterfaceDetailData struct {
	CbSize     uint32
	DevicePath [1]uint16
	_          [2]byte
}

func getHidGuid() (guid, error) {
	var g guid
	procHidD_GetHidGuid.Call(uintptr(unsafe.Pointer(&g)))
	return g, nil
}

func setupDiGetClassDevs(g guid, enumerator string, hwndParent uintptr, flags uint32) (windows.Handle, error) {
	r1, _, err := procSetupDiGetClassDevsW.Call(
		uintptr(unsafe.Pointer(&g)), 0, hwndParent, uintptr(flags),
	)
	if windows.Handle(r1) == windows.InvalidHandle {
		return 0, err
	}
	return windows.Handle(r1), nil
}

func setupDiEnumDeviceInterfaces(deviceInfoSet windows.Handle, deviceInfoData *spDeviceInfoData, g guid, memberIndex uint32) (*spDeviceInterfaceData, error) {
	data := &spDeviceInterfaceData{CbSize: uint32(unsafe.Sizeof(spDeviceInterfaceData{}))}
	r1, _, err := procSetupDiEnumDeviceInterfaces.Call(
		uintptr(deviceInfoSet), uintptr(unsafe.Pointer(deviceInfoData)),
		uintptr(unsafe.Pointer(&g)), uintptr(memberIndex), uintptr(unsafe.Pointer(data)),
	)
	if r1 == 0 {
		return nil, err
	}
	return data, nil
}

func setupDiGetDeviceInterfaceDetailW(deviceInfoSet windows.Handle, ifaceData *spDeviceInterfaceData) (*spDeviceInterfaceDetailData, *spDeviceInfoData, error) {
	var requiredSize uint32
	procSetupDiGetDeviceInterfaceDetailW.Call(
		uintptr(deviceInfoSet), uintptr(unsafe.Pointer(ifaceData)),
		0, 0, uintptr(unsafe.Pointer(&requiredSize)), 0,
	)
	buf := make([]byte, requiredSize)
	detail := (*spDeviceInterfaceDetailData)(unsafe.Pointer(&buf[0]))
	detail.CbSize = 8
	infoData := &spDeviceInfoData{CbSize: uint32(unsafe.Sizeof(spDeviceInfoData{}))}
	r1, _, err := procSetupDiGetDeviceInterfaceDetailW.Call(
		uintptr(deviceInfoSet), uintptr(unsafe.Pointer(ifaceData)),
		uintptr(unsafe.Pointer(detail)), uintptr(requiredSize),
		uintptr(unsafe.Pointer(&requiredSize)), uintptr(unsafe.Pointer(infoData)),
	)
	if r1 == 0 {
		return nil, nil, err
	}
	return detail, infoData, nil
}

func getAttributes(h windows.Handle) (hidAttributes, error) {
	attrs := hidAttributes{Size: uint32(unsafe.Sizeof(hidAttributes{}))}
	r1, _, err := procHidD_GetAttributes.Call(uintptr(h), uintptr(unsafe.Pointer(&attrs)))
	if r1 == 0 {
		return hidAttributes{}, err
	}
	return attrs, nil
}

func getManufacturerString(h windows.Handle) ([]byte, error) {
	buf := make([]byte, 126*2)
	r1, _, err := procHidD_GetManufacturerString.Call(uintptr(h), uintptr(unsafe.Pointer(&buf[0])), uintptr(len(buf)))
	if r1 == 0 {
		return nil, err
	}
	return buf, nil
}

func getProductString(h windows.Handle) ([]byte, error) {
	buf := make([]byte, 126*2)
	r1, _, err := procHidD_GetProductString.Call(uintptr(h), uintptr(unsafe.Pointer(&buf[0])), uintptr(len(buf)))
	if r1 == 0 {
		return nil, err
	}
	return buf, nil
}

func getSerialNumberString(h windows.Handle) ([]byte, error) {
	buf := make([]byte, 126*2)
	r1, _, err := procHidD_GetSerialNumberString.Call(uintptr(h), uintptr(unsafe.Pointer(&buf[0])), uintptr(len(buf)))
	if r1 == 0 {
		return nil, err
	}
	return buf, nil
}

func hidDGetPreparsedData(h windows.Handle) (hidpPreparsedData, error) {
	var ppd hidpPreparsedData
	r1, _, err := procHidD_GetPreparsedData.Call(uintptr(h), uintptr(unsafe.Pointer(&ppd)))
	if r1 == 0 {
		return 0, err
	}
	return ppd, nil
}

func freePreparsedData(ppd hidpPreparsedData) error {
	procHidD_FreePreparsedData.Call(uintptr(ppd))
	return nil
}

func getCaps(ppd hidpPreparsedData) (*hidpCaps, error) {
	caps := &hidpCaps{}
	r1, _, err := procHidP_GetCaps.Call(uintptr(ppd), uintptr(unsafe.Pointer(caps)))
	if r1 != hidpStatusSuccess {
		return nil, err
	}
	return caps, nil
}

const hidpStatusSuccess = 0x00110000
