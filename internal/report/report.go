// Package report renders the --analyze output: a per-block status
// listing followed by a per-header summary, columns aligned with
// text/tabwriter the way the teacher's internal/export/csv.go aligns
// its block listing.
package report

import (
	"fmt"
	"io"
	"text/tabwriter"

	"c64taptool/internal/kernal"
)

func tag(ok bool) string {
	if ok {
		return "OK"
	}
	return "Error"
}

// WriteAnalyze writes the block-by-block and header-by-header report
// for blocks (spec §6's --analyze description).
func WriteAnalyze(w io.Writer, blocks []kernal.Block) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)

	totalParityErrors := 0
	for _, b := range blocks {
		totalParityErrors += b.ParityErrors
	}

	fmt.Fprintf(tw, "blocks found: %d\n", len(blocks))
	fmt.Fprintf(tw, "parity errors: %d\n", totalParityErrors)
	fmt.Fprintln(tw, "index\tkind\tlength\t[Countdown]\t[CRC]\t[Parity]")
	for i, b := range blocks {
		kind := "backup"
		if b.IsPrimary {
			kind = "primary"
		}
		parityTag := "OK"
		if b.ParityErrors > 0 {
			parityTag = fmt.Sprintf("Error (%d)", b.ParityErrors)
		}
		fmt.Fprintf(tw, "%d\t%s\t%d\t[Countdown: %s]\t[CRC: %s]\t[Parity: %s]\n",
			i, kind, len(b.Bytes), tag(b.CountdownOK), tag(b.ChecksumOK), parityTag)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintln(w)
	fmt.Fprintln(tw, "index\ttype\tload\tend\tfilename")
	for i, b := range blocks {
		h, ok := kernal.ParseHeader(b)
		if !ok {
			continue
		}
		fmt.Fprintf(tw, "%d\t0x%02x\t0x%04x\t0x%04x\t%q\n",
			i, h.Type, h.LoadAddress, h.EndAddress, h.DisplayName())
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	for i, b := range blocks {
		for _, issue := range kernal.BlockIssues(b) {
			fmt.Fprintf(w, "[Error] block %d: %v\n", i, issue)
		}
	}
	return nil
}
