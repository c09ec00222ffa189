package binlog

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Sequence extracts the numeric suffix of a binlog segment name such as
// "mysql-bin.000042". Ordering must be numeric: segment .9 precedes .10 even
// though it sorts after it as a string.
func Sequence(name string) (int, error) {
	idx := strings.LastIndex(name, ".")
	if idx < 0 || idx == len(name)-1 {
		return 0, fmt.Errorf("no sequence suffix in segment name %q", name)
	}
	seq, err := strconv.Atoi(name[idx+1:])
	if err != nil {
		return 0, fmt.Errorf("non-numeric sequence suffix in segment name %q", name)
	}
	return seq, nil
}

// IsSegment reports whether name is a log segment of the given base name.
func IsSegment(base, name string) bool {
	if !strings.HasPrefix(name, base+".") {
		return false
	}
	_, err := Sequence(name)
	return err == nil
}

// SortBySequence orders segment names by ascending sequence number.
func SortBySequence(names []string) {
	sort.Slice(names, func(i, j int) bool {
		si, _ := Sequence(names[i])
		sj, _ := Sequence(names[j])
		return si < sj
	})
}
