package sweep

import (
	"time"
)

// Disposition is what a sweep did with one entry.
type Disposition string

const (
	Relocated     Disposition = "relocated"
	WouldRelocate Disposition = "would_relocate"
	Protected     Disposition = "protected"
	Failed        Disposition = "failed"
)

// Decision records the outcome for one directory entry.
type Decision struct {
	Path        string      `yaml:"path" json:"path"`
	Kind        string      `yaml:"kind" json:"kind"`
	Disposition Disposition `yaml:"disposition" json:"disposition"`
	Reason      string      `yaml:"reason" json:"reason"`
	Size        int64       `yaml:"size" json:"size"`
	Error       string      `yaml:"error,omitempty" json:"error,omitempty"`
}

// Result summarizes one sweep. Deleted counts entries that were relocated,
// or would have been in dry-run mode, so both modes report the same numbers.
type Result struct {
	ID             string     `yaml:"id" json:"id"`
	TargetDir      string     `yaml:"target_dir" json:"target_dir"`
	DryRun         bool       `yaml:"dry_run" json:"dry_run"`
	Started        time.Time  `yaml:"started" json:"started"`
	Finished       time.Time  `yaml:"finished" json:"finished"`
	Seen           int        `yaml:"seen" json:"seen"`
	Deleted        int        `yaml:"deleted" json:"deleted"`
	Protected      int        `yaml:"protected" json:"protected"`
	Errors         int        `yaml:"errors" json:"errors"`
	BytesRelocated int64      `yaml:"bytes_relocated" json:"bytes_relocated"`
	Decisions      []Decision `yaml:"decisions" json:"decisions"`
}

// Duration is the wall time the sweep took.
func (r *Result) Duration() time.Duration {
	return r.Finished.Sub(r.Started)
}

// Paths returns the paths that ended with any of the given dispositions.
func (r *Result) Paths(dispositions ...Disposition) []string {
	var paths []string
	for _, d := range r.Decisions {
		for _, want := range dispositions {
			if d.Disposition == want {
				paths = append(paths, d.Path)
				break
			}
		}
	}
	return paths
}

func (r *Result) record(d Decision) {
	r.Seen++
	switch d.Disposition {
	case Relocated, WouldRelocate:
		r.Deleted++
		if d.Kind == "file" {
			r.BytesRelocated += d.Size
		}
	case Protected:
		r.Protected++
	case Failed:
		r.Errors++
	}
	r.Decisions = append(r.Decisions, d)
}
