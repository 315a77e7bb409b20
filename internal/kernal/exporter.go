package kernal

import (
	"c64taptool/internal/codecerr"

	"github.com/pkg/errors"
)

// ExportedPRG is one program image recovered from a paired (header,
// data) quartet of kernal blocks.
type ExportedPRG struct {
	Header *KernalHeader
	Prg    PrgFile
}

// ExportPRGs walks blocks in order looking for the canonical
// (header_primary, header_backup, data_primary, data_backup) quartet
// (spec §4.4) and emits one ExportedPRG per quartet recovered.
//
// Unlike the original this never assumes the data block sits at a fixed
// offset from the header block: it matches each of the four blocks by
// its primary/backup bit and by whether its length matches the fixed
// header block size, and it skips forward one block at a time when the
// pattern does not hold at a candidate position rather than aborting
// the whole export (§9, §4.4). Every candidate it rejects is reported
// back as a codecerr.ErrUnexpectedBlockShape (spec §7: "export treats
// unpaired or mis-shaped blocks as a skip, not abort").
func ExportPRGs(blocks []Block) ([]ExportedPRG, []error) {
	var out []ExportedPRG
	var issues []error

	i := 0
	for i < len(blocks) {
		if !blocks[i].IsPrimary || !isHeaderShaped(blocks[i]) {
			i++
			continue
		}

		header, ok := ParseHeader(blocks[i])
		if !ok {
			issues = append(issues, errors.Wrapf(codecerr.ErrUnexpectedBlockShape,
				"block %d: header-shaped primary block did not parse as a KernalHeader", i))
			i++
			continue
		}

		if i+3 >= len(blocks) {
			issues = append(issues, errors.Wrapf(codecerr.ErrUnexpectedBlockShape,
				"block %d: header block has no following backup/data quartet", i))
			i++
			continue
		}
		headerBackup := blocks[i+1]
		dataPrimary := blocks[i+2]
		dataBackup := blocks[i+3]

		if headerBackup.IsPrimary || !isHeaderShaped(headerBackup) {
			issues = append(issues, errors.Wrapf(codecerr.ErrUnexpectedBlockShape,
				"block %d: expected header backup copy at block %d", i, i+1))
			i++
			continue
		}
		if !dataPrimary.IsPrimary || isHeaderShaped(dataPrimary) {
			issues = append(issues, errors.Wrapf(codecerr.ErrUnexpectedBlockShape,
				"block %d: expected data primary copy at block %d", i, i+2))
			i++
			continue
		}
		if dataBackup.IsPrimary || isHeaderShaped(dataBackup) {
			issues = append(issues, errors.Wrapf(codecerr.ErrUnexpectedBlockShape,
				"block %d: expected data backup copy at block %d", i, i+3))
			i++
			continue
		}

		out = append(out, ExportedPRG{
			Header: header,
			Prg: PrgFile{
				LoadAddress: header.LoadAddress,
				Bytes:       blockPayload(dataPrimary),
			},
		})
		i += 4
	}

	return out, issues
}
