package dataset

import (
	"errors"
	"strings"
	"testing"
)

func TestReadTSV(tst *testing.T) {
	in := "g1\t1.0\t2.0\t3.0\n" +
		"g2\t4.0\t5.0\t6.0\n"
	d, err := ReadTSV(strings.NewReader(in))
	if err != nil {
		tst.Fatal("Error: ", err)
	}
	if d.NFeatures() != 2 || d.NSamples() != 3 {
		tst.Fatalf("Expected 2x3, got %dx%d", d.NFeatures(), d.NSamples())
	}
	if d.Names[0] != "g1" || d.Names[1] != "g2" {
		tst.Error("Unexpected names:", d.Names)
	}
	row := d.Row(1)
	if row[0] != 4 || row[2] != 6 {
		tst.Error("Unexpected row:", row)
	}
}

func TestReadTSVNoNames(tst *testing.T) {
	in := "1 2\n3 4\n"
	d, err := ReadTSV(strings.NewReader(in))
	if err != nil {
		tst.Fatal("Error: ", err)
	}
	if d.Names != nil {
		tst.Error("Expected no names, got", d.Names)
	}
	if d.NFeatures() != 2 || d.NSamples() != 2 {
		tst.Fatalf("Expected 2x2, got %dx%d", d.NFeatures(), d.NSamples())
	}
}

func TestReadTSVHeader(tst *testing.T) {
	in := "s1\ts2\ts3\n" +
		"g1\t1.0\t2.0\t3.0\n" +
		"g2\t4.0\t5.0\t6.0\n"
	d, err := ReadTSV(strings.NewReader(in))
	if err != nil {
		tst.Fatal("Error: ", err)
	}
	if d.NFeatures() != 2 || d.NSamples() != 3 {
		tst.Fatalf("Expected 2x3, got %dx%d", d.NFeatures(), d.NSamples())
	}
	want := []string{"s1", "s2", "s3"}
	for i, s := range d.Samples {
		if s != want[i] {
			tst.Fatal("Unexpected sample names:", d.Samples)
		}
	}
	if d.Names[1] != "g2" {
		tst.Error("Unexpected names:", d.Names)
	}
}

func TestReadTSVHeaderCorner(tst *testing.T) {
	// corner field above the feature name column
	in := "gene\ts1\ts2\ts3\n" +
		"g1\t1.0\t2.0\t3.0\n"
	d, err := ReadTSV(strings.NewReader(in))
	if err != nil {
		tst.Fatal("Error: ", err)
	}
	if len(d.Samples) != 3 || d.Samples[0] != "s1" {
		tst.Error("Unexpected sample names:", d.Samples)
	}
}

func TestReadTSVHeaderMismatch(tst *testing.T) {
	in := "s1\ts2\n" +
		"g1\t1.0\t2.0\t3.0\n"
	if _, err := ReadTSV(strings.NewReader(in)); !errors.Is(err, ErrFormat) {
		tst.Error("Expected format error, got", err)
	}
}

func TestReadTSVRagged(tst *testing.T) {
	in := "1 2 3\n4 5\n"
	if _, err := ReadTSV(strings.NewReader(in)); !errors.Is(err, ErrFormat) {
		tst.Error("Expected format error, got", err)
	}
}

func TestReadTSVEmpty(tst *testing.T) {
	if _, err := ReadTSV(strings.NewReader("")); !errors.Is(err, ErrFormat) {
		tst.Error("Expected format error, got", err)
	}
}

func TestReadVector(tst *testing.T) {
	v, err := ReadVector(strings.NewReader("0.1\n0.2\n0.3\n"))
	if err != nil {
		tst.Fatal("Error: ", err)
	}
	if len(v) != 3 || v[1] != 0.2 {
		tst.Error("Unexpected vector:", v)
	}
}

func TestParseLabels(tst *testing.T) {
	l, err := ParseLabels([]string{"a", "b", "a", "b", "b"})
	if err != nil {
		tst.Fatal("Error: ", err)
	}
	if l.NGroups() != 2 || l.NSamples() != 5 {
		tst.Fatalf("Expected 2 groups, 5 samples, got %d, %d", l.NGroups(), l.NSamples())
	}
	want := []int{0, 1, 0, 1, 1}
	for i, c := range l.Codes {
		if c != want[i] {
			tst.Fatal("Unexpected codes:", l.Codes)
		}
	}
	sizes := l.GroupSizes()
	if sizes[0] != 2 || sizes[1] != 3 {
		tst.Error("Unexpected sizes:", sizes)
	}
}

func TestParseLabelsOneGroup(tst *testing.T) {
	if _, err := ParseLabels([]string{"a", "a"}); !errors.Is(err, ErrFormat) {
		tst.Error("Expected format error, got", err)
	}
}
