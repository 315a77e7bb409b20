// Package constants collects the numeric constants that define the TAP
// container format and the PAL kernal-tape pulse scheme.
package constants

const (
	// clock frequencies (cycles per second)
	ClockPAL  = 985248.0
	ClockNTSC = 1022727.0

	// .tap container layout
	TapHeaderSize = 0x14 // header size for C64-TAPE-RAW v0/v1
	TapSignature  = "C64-TAPE-RAW"
	TapMaxVersion = 1 // only versions 0 and 1 are supported

	// pulse classification thresholds, PAL reference (VICE)
	ShortPulseMin  = 288
	ShortPulseMax  = 432
	MediumPulseMin = 440
	MediumPulseMax = 584
	LongPulseMin   = 592
	LongPulseMax   = 800

	// target pulse lengths used when synthesizing a TAP/WAV stream
	ShortPulseCycles  = 360
	MediumPulseCycles = 524
	LongPulseCycles   = 687

	// the TAP payload bytes the encoder emits for each pulse category:
	// 45*8 = 360, 65*8 = 520 and 85*8 = 680 cycles. Only the Short byte
	// equals its target cycles / 8 exactly; the Medium and Long bytes fall
	// short of 524 and 687 but stay inside the Medium and Long intervals.
	ShortPulseByte  = 45
	MediumPulseByte = 65
	LongPulseByte   = 85

	// WAVE rendering frequencies, one inverted full sine period per pulse
	ShortPulseFreqHz  = 2737.0
	MediumPulseFreqHz = 1882.0
	LongPulseFreqHz   = 1434.0

	// format-defined pulse-run lengths for the TAP encoder (§4.5); these
	// are fixed by the kernal ROM loader protocol, not runtime-tunable.
	LeadInPulseCount         = 27135 // ~10s PAL sync before the header block
	ShortLeaderPulseCount    = 79    // leader before each backup copy
	InterBlockLeadPulseCount = 5671  // ~2s PAL sync before the data block

	// kernal block shape
	CountdownLength    = 9
	HeaderPayloadSize  = 192 // header payload bytes, excluding countdown/checksum
	HeaderBlockSize    = CountdownLength + HeaderPayloadSize + 1 // 202

	// default output parameters
	DefaultSampleRate       = 44100
	DefaultDisplayedName    = "C64-TAP-TOOL"
	DefaultTapVersionOutput = 0
)
