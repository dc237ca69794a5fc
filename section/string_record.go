package section

import (
	"golang.org/x/text/encoding/charmap"

	"github.com/corvidlabs/uasig/endian"
	"github.com/corvidlabs/uasig/errs"
)

// stringFlagLatin1, set in a string record's flag byte, signals a
// non-UTF-8 legacy encoding. Practically every data file in the wild is
// plain ASCII/UTF-8; the Windows-1252 path exists only for the rare
// vendor distribution that still carries Latin-1 copyright or
// description text.
const stringFlagLatin1 = 0x01

// StringRecord is a length-prefixed byte run addressed by offset within
// the strings region.
//
// On-disk layout: 2 bytes length, 1 byte flag, N bytes data.
type StringRecord struct {
	Value string
	// Size is the total number of bytes this record occupies on disk,
	// used by the variable-size list to advance its cursor.
	Size int
}

// PeekStringHeader reports a string record's total size from just its
// 2-byte length prefix, without decoding or even reading its flag byte.
func PeekStringHeader(data []byte, engine endian.EndianEngine) (int, error) {
	if len(data) < 2 {
		return 0, errs.ErrInvalidHeaderSize
	}

	length := int(engine.Uint16(data[0:2]))

	return 3 + length, nil
}

// ParseStringRecord decodes one StringRecord starting at data[0].
func ParseStringRecord(data []byte, engine endian.EndianEngine) (StringRecord, error) {
	if len(data) < 3 {
		return StringRecord{}, errs.ErrInvalidHeaderSize
	}

	length := int(engine.Uint16(data[0:2]))
	flag := data[2]
	if len(data) < 3+length {
		return StringRecord{}, errs.ErrInvalidHeaderSize
	}

	raw := data[3 : 3+length]

	var value string
	if flag&stringFlagLatin1 != 0 {
		decoded, err := charmap.Windows1252.NewDecoder().Bytes(raw)
		if err != nil {
			return StringRecord{}, errs.ErrDatasetFormat
		}
		value = string(decoded)
	} else {
		value = string(raw)
	}

	return StringRecord{Value: value, Size: 3 + length}, nil
}
