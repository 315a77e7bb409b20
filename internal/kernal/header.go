package kernal

import "c64taptool/internal/constants"

// ParseHeader interprets block as a KernalHeader if its shape matches
// (§3, §4.4): exactly 202 bytes (9 countdown + 192 payload + 1 checksum)
// with a payload-first-byte (header type) in [0x01, 0x05]. It ignores
// the block's CountdownOK/ChecksumOK flags — a malformed header can
// still be shaped correctly enough to parse.
func ParseHeader(b Block) (*KernalHeader, bool) {
	if len(b.Bytes) != constants.CountdownLength+constants.HeaderPayloadSize+1 {
		return nil, false
	}
	payload := b.Bytes[constants.CountdownLength : len(b.Bytes)-1]
	if payload[0] < 0x01 || payload[0] > 0x05 {
		return nil, false
	}

	h := &KernalHeader{
		Type:        payload[0],
		LoadAddress: uint16(payload[1]) | uint16(payload[2])<<8,
		EndAddress:  uint16(payload[3]) | uint16(payload[4])<<8,
	}
	copy(h.FilenameDisplayed[:], payload[5:5+16])
	copy(h.FilenameHidden[:], payload[5+16:5+16+171])
	return h, true
}

// isHeaderShaped reports whether a block's length matches the fixed
// header block size, the same heuristic the exporter uses to tell a
// header block from a data block when pairing (spec §4.4).
func isHeaderShaped(b Block) bool {
	return len(b.Bytes) == constants.CountdownLength+constants.HeaderPayloadSize+1
}

// blockPayload returns a block's bytes with the countdown prefix and
// trailing checksum byte stripped.
func blockPayload(b Block) []byte {
	if len(b.Bytes) <= constants.CountdownLength {
		return nil
	}
	end := len(b.Bytes) - 1
	if end < constants.CountdownLength {
		return nil
	}
	return b.Bytes[constants.CountdownLength:end]
}
