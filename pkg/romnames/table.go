package romnames

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"sort"
	"strings"

	"github.com/provide-io/labelsdb/pkg/labelsdb"
)

var linePattern = regexp.MustCompile(`"([^"]+)"\s*,\s*"([0-9A-Fa-f]{8})"`)

// Entry is one row of the name table
type Entry struct {
	Signature labelsdb.Signature
	Name      string // cleaned name, region and extras included
	Title     string
	Region    string
}

// ID renders the signature the way the table stores it
func (e Entry) ID() string {
	return labelsdb.FormatSignature(e.Signature)
}

// Table maps signatures to cleaned ROM names
type Table struct {
	byID map[labelsdb.Signature]Entry
}

// ParseCSV reads a name table. The first non-empty line is a header. Each
// following line must contain a quoted name and a quoted 8 digit hex
// signature; other lines are ignored. The first name seen for a signature
// wins.
func ParseCSV(r io.Reader) (*Table, error) {
	t := &Table{byID: make(map[labelsdb.Signature]Entry)}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	header := true
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		if header {
			header = false
			continue
		}

		m := linePattern.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		sig, err := labelsdb.ParseSignature(m[2])
		if err != nil {
			continue
		}
		if _, dup := t.byID[sig]; dup {
			continue
		}

		name := CleanName(m[1])
		title, region := SplitTitleAndRegion(name)
		t.byID[sig] = Entry{Signature: sig, Name: name, Title: title, Region: region}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading name table: %w", err)
	}
	return t, nil
}

// Len returns the number of distinct signatures
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.byID)
}

// Lookup returns the entry for sig
func (t *Table) Lookup(sig labelsdb.Signature) (Entry, bool) {
	if t == nil {
		return Entry{}, false
	}
	e, ok := t.byID[sig]
	return e, ok
}

// Entries returns all rows sorted by signature
func (t *Table) Entries() []Entry {
	if t == nil {
		return nil
	}
	out := make([]Entry, 0, len(t.byID))
	for _, e := range t.byID {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Signature < out[j].Signature })
	return out
}
