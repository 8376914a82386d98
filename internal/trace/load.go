package trace

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"
)

// Load reads a trace with one key token per line. Integer tokens keep
// their numeric value; any other token is hashed, so traces of URLs,
// object IDs, and the like replay deterministically. Blank lines and
// '#' comments are skipped.
func Load(r io.Reader) ([]uint64, error) {
	var seq []uint64
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)
	for sc.Scan() {
		tok := strings.TrimSpace(sc.Text())
		if tok == "" || strings.HasPrefix(tok, "#") {
			continue
		}
		if k, err := strconv.ParseUint(tok, 10, 64); err == nil {
			seq = append(seq, k)
			continue
		}
		seq = append(seq, xxhash.Sum64String(tok))
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("trace: read: %w", err)
	}
	return seq, nil
}
