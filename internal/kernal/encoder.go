package kernal

import (
	"c64taptool/internal/constants"
	"c64taptool/internal/pulse"
)

// Sink receives a run of count identical-category pulses. The TAP
// encoder and the WAVE encoder each implement Sink over the same Emit
// call so the pulse-stream construction in §4.5 is written exactly
// once and reused for both output formats.
type Sink interface {
	Pulses(cat pulse.Category, count int) error
}

func writeByte(sink Sink, value byte) error {
	if err := sink.Pulses(pulse.Long, 1); err != nil {
		return err
	}
	if err := sink.Pulses(pulse.Medium, 1); err != nil {
		return err
	}

	var parityBit byte = 1
	for i := 0; i < 8; i++ {
		bit := (value >> uint(i)) & 1
		if bit == 1 {
			parityBit ^= 1
			if err := sink.Pulses(pulse.Medium, 1); err != nil {
				return err
			}
			if err := sink.Pulses(pulse.Short, 1); err != nil {
				return err
			}
		} else {
			if err := sink.Pulses(pulse.Short, 1); err != nil {
				return err
			}
			if err := sink.Pulses(pulse.Medium, 1); err != nil {
				return err
			}
		}
	}

	// odd-parity cell: its own alternation must make the total count of
	// 1-cells, including itself, odd.
	if parityBit == 1 {
		if err := sink.Pulses(pulse.Medium, 1); err != nil {
			return err
		}
		return sink.Pulses(pulse.Short, 1)
	}
	if err := sink.Pulses(pulse.Short, 1); err != nil {
		return err
	}
	return sink.Pulses(pulse.Medium, 1)
}

func writeBlock(sink Sink, countdown [9]byte, payload []byte) error {
	for _, c := range countdown {
		if err := writeByte(sink, c); err != nil {
			return err
		}
	}
	var checksum byte
	for _, p := range payload {
		checksum ^= p
		if err := writeByte(sink, p); err != nil {
			return err
		}
	}
	return writeByte(sink, checksum)
}

func writeEndOfData(sink Sink) error {
	if err := sink.Pulses(pulse.Long, 1); err != nil {
		return err
	}
	return sink.Pulses(pulse.Short, 1)
}

// headerPayload builds the 192-byte KernalHeader payload for prg (spec
// §4.5, "Header synthesis").
func headerPayload(prg PrgFile) []byte {
	const displayedDefault = constants.DefaultDisplayedName

	payload := make([]byte, constants.HeaderPayloadSize)
	payload[0] = 0x01
	load := prg.LoadAddress
	end := prg.EndAddress()
	payload[1] = byte(load)
	payload[2] = byte(load >> 8)
	payload[3] = byte(end)
	payload[4] = byte(end >> 8)

	for i := 5; i < 5+16; i++ {
		payload[i] = 0x20
	}
	copy(payload[5:5+16], displayedDefault)

	for i := 5 + 16; i < len(payload); i++ {
		payload[i] = 0x20
	}
	return payload
}

// Emit writes the full fourteen-step pulse stream of spec §4.5 for prg
// to sink: leader, primary header+checksum, end-of-data marker, short
// leader, backup header+checksum, inter-block leader, primary data
// block+checksum, end-of-data marker, short leader, backup data
// block+checksum. There is no end-of-data marker between a backup
// header and the following leader, and none after the final backup
// data block.
func Emit(sink Sink, prg PrgFile) error {
	steps := []func() error{
		func() error { return sink.Pulses(pulse.Short, constants.LeadInPulseCount) },
		func() error { return writeBlock(sink, primaryCountdown, headerPayload(prg)) },
		func() error { return writeEndOfData(sink) },
		func() error { return sink.Pulses(pulse.Short, constants.ShortLeaderPulseCount) },
		func() error { return writeBlock(sink, backupCountdown, headerPayload(prg)) },
		func() error { return sink.Pulses(pulse.Short, constants.InterBlockLeadPulseCount) },
		func() error { return writeBlock(sink, primaryCountdown, prg.Bytes) },
		func() error { return writeEndOfData(sink) },
		func() error { return sink.Pulses(pulse.Short, constants.ShortLeaderPulseCount) },
		func() error { return writeBlock(sink, backupCountdown, prg.Bytes) },
	}
	for _, step := range steps {
		if err := step(); err != nil {
			return err
		}
	}
	return nil
}
