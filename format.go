package kvpairs

import (
	"bufio"
	"io"
	"slices"
	"strconv"
	"strings"
)

// Keys returns the keys of the mapping in lexical order.
func (p Pairs) Keys() []string {
	keys := make([]string, 0, len(p))
	for k := range p {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// Clone returns a deep copy. Empty lists stay non-nil.
func (p Pairs) Clone() Pairs {
	if p == nil {
		return nil
	}
	cp := make(Pairs, len(p))
	for k, v := range p {
		cp[k] = append(make([]int32, 0, len(v)), v...)
	}
	return cp
}

func (p Pairs) String() string {
	var b strings.Builder
	_ = Format(&b, p)
	return b.String()
}

// Format writes the mapping back in document form, one pair per line with
// the keys sorted. The output parses to an equal mapping.
func Format(w io.Writer, p Pairs) error {
	bw := bufio.NewWriter(w)
	for _, key := range p.Keys() {
		bw.WriteString(key)
		bw.WriteString(": ")
		bw.WriteString(FormatValues(p[key]))
		bw.WriteByte('\n')
	}
	return bw.Flush()
}

// FormatValues renders a value list, e.g. "[1, -2, 3]".
func FormatValues(values []int32) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = strconv.FormatInt(int64(v), 10)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
