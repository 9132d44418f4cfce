package dataset

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// Labels assigns every sample to a group. Codes are consecutive
// integers starting from zero, in order of first appearance.
type Labels struct {
	Codes  []int
	Groups []string
}

// ParseLabels builds Labels from group names, one per sample.
func ParseLabels(fields []string) (*Labels, error) {
	if len(fields) == 0 {
		return nil, fmt.Errorf("%w: no labels", ErrFormat)
	}
	l := &Labels{Codes: make([]int, len(fields))}
	seen := make(map[string]int)
	for i, f := range fields {
		code, ok := seen[f]
		if !ok {
			code = len(l.Groups)
			seen[f] = code
			l.Groups = append(l.Groups, f)
		}
		l.Codes[i] = code
	}
	if len(l.Groups) < 2 {
		return nil, fmt.Errorf("%w: need at least two groups, got %d", ErrFormat, len(l.Groups))
	}
	return l, nil
}

// ReadLabels reads whitespace-separated group names.
func ReadLabels(r io.Reader) (*Labels, error) {
	var fields []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		fields = append(fields, strings.Fields(scanner.Text())...)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return ParseLabels(fields)
}

// NSamples returns the number of samples.
func (l *Labels) NSamples() int {
	return len(l.Codes)
}

// NGroups returns the number of groups.
func (l *Labels) NGroups() int {
	return len(l.Groups)
}

// GroupSizes returns the number of samples in each group.
func (l *Labels) GroupSizes() []int {
	sizes := make([]int, l.NGroups())
	for _, c := range l.Codes {
		sizes[c]++
	}
	return sizes
}
