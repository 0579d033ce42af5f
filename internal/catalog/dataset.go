package catalog

// Dataset is the ordered, immutable record sequence of one load.
type Dataset struct {
	Source  string
	Schema  Schema
	Records []*Record
}

// Len returns the number of records.
func (d *Dataset) Len() int {
	if d == nil {
		return 0
	}
	return len(d.Records)
}

// LimitedCount returns how many records carry the limited marker.
func (d *Dataset) LimitedCount() int {
	n := 0
	for _, r := range d.Records {
		if r.Limited() {
			n++
		}
	}
	return n
}
