// Package tapimage reads and validates the TAP container format (spec
// §3, §6) and writes new TAP files as the sink for the kernal encoder.
// TapImage replaces the original's process-wide tap_version variable: it
// is a plain value constructed once per file and passed on from there
// (spec §9).
package tapimage

import (
	"encoding/binary"
	"os"

	"c64taptool/internal/codecerr"
	"c64taptool/internal/constants"

	"github.com/pkg/errors"
)

// TapImage is a parsed .tap file: its version and the raw pulse-length
// payload starting at offset 0x14.
type TapImage struct {
	Version byte
	Payload []byte
}

// Read loads and parses the TAP file at path.
func Read(path string) (*TapImage, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(codecerr.ErrIO, "read %s: %v", path, err)
	}
	return Parse(data)
}

// Parse validates data as a TAP container and returns its version and
// payload. It checks the magic, the version byte, and that the declared
// payload length matches the number of bytes actually present.
func Parse(data []byte) (*TapImage, error) {
	if len(data) < constants.TapHeaderSize {
		return nil, errors.Wrap(codecerr.ErrTruncatedStream, "file shorter than tap header")
	}
	if string(data[0:12]) != constants.TapSignature {
		return nil, errors.Wrap(codecerr.ErrInvalidMagic, "missing C64-TAPE-RAW signature")
	}

	version := data[12]
	if version > constants.TapMaxVersion {
		return nil, errors.Wrapf(codecerr.ErrUnsupportedVersion, "version byte %d", version)
	}

	declared := binary.LittleEndian.Uint32(data[0x10:0x14])
	payload := data[constants.TapHeaderSize:]
	if uint32(len(payload)) != declared {
		return nil, errors.Wrapf(codecerr.ErrTruncatedStream,
			"declared payload length %d does not match actual %d", declared, len(payload))
	}

	return &TapImage{Version: version, Payload: payload}, nil
}
