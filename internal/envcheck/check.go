package envcheck

import "strings"

// Status of one variable in a validation report.
type Status string

const (
	StatusSet     Status = "SET"
	StatusMissing Status = "MISSING"
	StatusNotSet  Status = "NOT SET"
)

// Entry is one line of a validation report.
type Entry struct {
	Name     string
	Required bool
	Status   Status
}

// Report is the outcome of validating an environment mapping against the
// catalog. Entries preserve catalog order, one per variable.
type Report struct {
	AllOK   bool
	Entries []Entry
}

// Check validates values against the catalog. A whitespace-only value counts
// as absent. Every variable is checked; missing required variables are
// aggregated rather than failing on the first one. Only required variables
// affect AllOK.
func Check(values map[string]string) Report {
	rep := Report{AllOK: true, Entries: make([]Entry, 0, len(Catalog))}
	for _, v := range Catalog {
		e := Entry{Name: v.Name, Required: v.Required}
		switch {
		case strings.TrimSpace(values[v.Name]) != "":
			e.Status = StatusSet
		case v.Required:
			e.Status = StatusMissing
			rep.AllOK = false
		default:
			e.Status = StatusNotSet
		}
		rep.Entries = append(rep.Entries, e)
	}
	return rep
}

// Missing returns the names of required variables absent from values.
func (r Report) Missing() []string {
	var out []string
	for _, e := range r.Entries {
		if e.Status == StatusMissing {
			out = append(out, e.Name)
		}
	}
	return out
}

// Counts tallies the report by status.
func (r Report) Counts() (set, missing, notSet int) {
	for _, e := range r.Entries {
		switch e.Status {
		case StatusSet:
			set++
		case StatusMissing:
			missing++
		default:
			notSet++
		}
	}
	return set, missing, notSet
}
