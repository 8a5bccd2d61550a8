package pathogenx

import (
	"bufio"
	"bytes"

	"github.com/csimplestring/go-csv/detector"
)

// sniffSize is how much of a stream is inspected to guess its delimiter.
const sniffSize = 64 * 1024

// DetermineDelimiter returns the single most likely rune that would delimit the
// values in the reader, assuming a CSV-like file. The reader is not consumed.
// Tabs win over the detector's guess when the first line contains one, since
// genotyping tools emit TSV and free-text metadata often contains commas.
func DetermineDelimiter(r *bufio.Reader) rune {
	head, _ := r.Peek(sniffSize)
	if len(head) == 0 {
		return '\t'
	}

	firstLine := head
	if i := bytes.IndexByte(head, '\n'); i >= 0 {
		firstLine = head[:i]
	}
	if bytes.IndexByte(firstLine, '\t') >= 0 {
		return '\t'
	}

	d := detector.New()
	delimiters := d.DetectDelimiter(bytes.NewReader(head), '"')

	if len(delimiters) > 0 {
		return rune(delimiters[0][0])
	}

	return ','
}
