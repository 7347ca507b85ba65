package edid

import "errors"

// Errors returned by Parse. The core package wraps these under its own
// ErrEdidFail; callers of this package may match them directly.
var (
	ErrShortBuffer = errors.New("edid: buffer is not 128 bytes")
	ErrBadHeader   = errors.New("edid: header magic mismatch")
	ErrChecksum    = errors.New("edid: checksum mismatch")
)

// Size is the fixed length of an EDID block this parser accepts.
const Size = 128

var header = [8]byte{0x00, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0x00}

// Product identifies the panel.
type Product struct {
	ManufacturerID string // three-letter PNP ID, e.g. "ACM"
	ProductCode    uint16
	SerialNumber   uint32
	Week           uint8
	Year           uint16 // calendar year, header byte + 1990
}

// Basic carries the fixed-format display parameters.
type Basic struct {
	DigitalInput bool
	MaxHorizCM   uint8
	MaxVertCM    uint8
	Gamma        float64
	Features     uint8
}

// Colours holds the panel's CIE chromaticity coordinates, each expanded
// to a 10-bit value (0..1023) per the EDID encoding.
type Colours struct {
	RedX, RedY     uint16
	GreenX, GreenY uint16
	BlueX, BlueY   uint16
	WhiteX, WhiteY uint16
}

// Detail is a fully specified timing, decoded from one of the EDID
// detailed-timing descriptors.
type Detail struct {
	PixelClockMHz float64
	HActive       int
	HBlanking     int
	VActive       int
	VBlanking     int
	HSyncOffset   int
	HSyncWidth    int
	VSyncOffset   int
	VSyncWidth    int
	HImageMM      int
	VImageMM      int
	HBorder       int
	VBorder       int
	Interlaced    bool
	Stereo        bool
	SeparateSync  bool
	VSyncPositive bool
	HSyncPositive bool
	StereoMode    uint8
}

// MonitorDescriptor is the other half of the descriptor union: an
// opaque, vendor/type-tagged 13-byte payload (display name, serial
// number, range limits, ...). Interpreting the payload is outside this
// package's job.
type MonitorDescriptor struct {
	Tag     uint8
	Payload [13]byte
}

// Descriptor is a tagged union discriminated by IsDetail. The EDID wire
// format signals the tag implicitly: a descriptor whose first three
// bytes are all zero is a MonitorDescriptor; otherwise it is a Detail.
type Descriptor struct {
	IsDetail bool
	Detail   Detail
	Monitor  MonitorDescriptor
}

// EstablishedTiming names one bit of the established-timings bitfield.
type EstablishedTiming struct {
	Width, Height, Refresh int
}

// establishedTimings is ordered bit0 (LSB of the first established-timing
// byte) through bit23 (MSB of the manufacturer-reserved byte). Entries
// with Width == 0 are unassigned bits and never match.
var establishedTimings = [24]EstablishedTiming{
	{800, 600, 60}, {800, 600, 56}, {640, 480, 75}, {640, 480, 72},
	{640, 480, 67}, {640, 480, 60}, {720, 400, 88}, {720, 400, 70},
	{1280, 1024, 75}, {1024, 768, 75}, {1024, 768, 70}, {1024, 768, 60},
	{1024, 768, 87}, {832, 624, 75}, {800, 600, 75}, {800, 600, 72},
	{}, {}, {}, {}, {}, {}, {}, {},
}

// EstablishedTimings returns the fixed bit-to-timing table used to
// interpret the established-timings field of a Record.
func EstablishedTimings() [24]EstablishedTiming { return establishedTimings }

// Record is a fully parsed EDID block.
type Record struct {
	Product            Product
	Version, Revision  uint8
	Basic              Basic
	Colours            Colours
	EstablishedTimings uint32 // low 24 bits significant, bit0 = establishedTimings[0]
	StandardTimings    [8]uint16
	Descriptors        [4]Descriptor
	ExtensionCount     uint8
}

// Parse validates and decodes a 128-byte EDID block.
func Parse(data []byte) (*Record, error) {
	if len(data) != Size {
		return nil, ErrShortBuffer
	}
	if [8]byte(data[0:8]) != header {
		return nil, ErrBadHeader
	}
	var sum byte
	for _, b := range data {
		sum += b
	}
	if sum != 0 {
		return nil, ErrChecksum
	}

	r := &Record{}
	parseProduct(data[0x08:0x12], &r.Product)
	r.Version, r.Revision = data[0x12], data[0x13]
	parseBasic(data[0x14:0x19], &r.Basic)
	parseColours(data[0x19:0x23], &r.Colours)
	r.EstablishedTimings = uint32(data[0x23]) | uint32(data[0x24])<<8 | uint32(data[0x25])<<16
	for i := 0; i < 8; i++ {
		r.StandardTimings[i] = readU16LE(data[0x26+2*i:])
	}
	for i := 0; i < 4; i++ {
		off := 0x36 + 18*i
		r.Descriptors[i] = parseDescriptor(data[off : off+18])
	}
	r.ExtensionCount = data[0x7E]
	return r, nil
}

func parseProduct(b []byte, p *Product) {
	id := uint16(b[0])<<8 | uint16(b[1])
	p.ManufacturerID = string([]byte{
		byte('A' - 1 + (id>>10)&0x1F),
		byte('A' - 1 + (id>>5)&0x1F),
		byte('A' - 1 + id&0x1F),
	})
	p.ProductCode = readU16LE(b[2:])
	p.SerialNumber = uint32(b[4]) | uint32(b[5])<<8 | uint32(b[6])<<16 | uint32(b[7])<<24
	p.Week = b[8]
	p.Year = 1990 + uint16(b[9])
}

func parseBasic(b []byte, out *Basic) {
	out.DigitalInput = b[0]&0x80 != 0
	out.MaxHorizCM = b[1]
	out.MaxVertCM = b[2]
	out.Gamma = (100.0 + float64(b[3])) / 100.0
	out.Features = b[4]
}

// parseColours expands the packed chromaticity bytes to 10-bit values.
//
// The final WhiteX line reproduces a documented quirk in the source this
// package was ported from: it reads the already-computed WhiteY value
// instead of the WhiteX high byte. Left as-is; flagged, not "fixed".
func parseColours(b []byte, out *Colours) {
	redGreenLow := b[0]
	blueWhiteLow := b[1]
	redXHigh, redYHigh := b[2], b[3]
	greenXHigh, greenYHigh := b[4], b[5]
	blueXHigh, blueYHigh := b[6], b[7]
	_, whiteYHigh := b[8], b[9]

	out.RedX = uint16(redXHigh)<<2 | uint16(redGreenLow>>6)&0x3
	out.RedY = uint16(redYHigh)<<2 | uint16(redGreenLow>>4)&0x3
	out.GreenX = uint16(greenXHigh)<<2 | uint16(redGreenLow>>2)&0x3
	out.GreenY = uint16(greenYHigh)<<2 | uint16(redGreenLow)&0x3
	out.BlueX = uint16(blueXHigh)<<2 | uint16(blueWhiteLow>>6)&0x3
	out.BlueY = uint16(blueYHigh)<<2 | uint16(blueWhiteLow>>4)&0x3
	out.WhiteY = uint16(whiteYHigh)<<2 | uint16(blueWhiteLow)&0x3
	// quirk: should be whiteXHigh<<2 | (blueWhiteLow>>2)&0x3
	out.WhiteX = uint16(blueWhiteLow>>2)&0x3 | out.WhiteY<<2
}

func parseDescriptor(b []byte) Descriptor {
	if b[0] == 0 && b[1] == 0 && b[2] == 0 {
		var d Descriptor
		d.Monitor.Tag = b[3]
		copy(d.Monitor.Payload[:], b[5:18])
		return d
	}
	d := Descriptor{IsDetail: true}
	t := &d.Detail
	t.PixelClockMHz = float64(readU16LE(b[0:])) / 100.0
	hActiveLow, hBlankingLow := b[2], b[3]
	hHigh := b[4]
	vActiveLow, vBlankingLow := b[5], b[6]
	vHigh := b[7]
	t.HActive = int(hActiveLow) | int(hHigh&0xF0)<<4
	t.HBlanking = int(hBlankingLow) | int(hHigh&0x0F)<<8
	t.VActive = int(vActiveLow) | int(vHigh&0xF0)<<4
	t.VBlanking = int(vBlankingLow) | int(vHigh&0x0F)<<8

	hSyncOffsetLow, hSyncWidthLow := b[8], b[9]
	vSyncLow := b[10]
	syncHigh := b[11]
	t.HSyncOffset = int(hSyncOffsetLow) | int(syncHigh&0xC0)<<2
	t.HSyncWidth = int(hSyncWidthLow) | int(syncHigh&0x30)<<4
	t.VSyncOffset = int(vSyncLow>>4) | int(syncHigh&0x0C)<<2
	t.VSyncWidth = int(vSyncLow&0x0F) | int(syncHigh&0x03)<<4

	hImageLow, vImageLow := b[12], b[13]
	imageHigh := b[14]
	t.HImageMM = int(hImageLow) | int(imageHigh&0xF0)<<4
	t.VImageMM = int(vImageLow) | int(imageHigh&0x0F)<<8
	t.HBorder = int(b[15])
	t.VBorder = int(b[16])

	flags := b[17]
	t.Interlaced = flags&0x80 != 0
	t.StereoMode = (flags >> 5) & 0x3
	t.SeparateSync = flags&0x18 == 0x18
	t.VSyncPositive = flags&0x04 != 0
	t.HSyncPositive = flags&0x02 != 0
	t.Stereo = flags&0x01 != 0
	return d
}

func readU16LE(b []byte) uint16 {
	return uint16(b[0]) | uint16(b[1])<<8
}
