package reconcile

import (
	"fmt"
	"sort"
	"strings"
)

// Kind classifies a reconciliation event.
type Kind string

const (
	KindSchemaMismatch  Kind = "schema_mismatch"
	KindCoercionFailure Kind = "coercion_failure"
	KindAmbiguousMerge  Kind = "ambiguous_merge"
	KindDroppedRecord   Kind = "dropped_record"
)

// Issue is one row- or record-level problem found while loading. Origin names
// the file or table the row came from. Row is the 1-based position in that
// batch, zero when not row-specific.
type Issue struct {
	Kind    Kind   `json:"kind"`
	Source  string `json:"source"`
	Origin  string `json:"origin,omitempty"`
	Row     int    `json:"row,omitempty"`
	Field   string `json:"field,omitempty"`
	Value   string `json:"value,omitempty"`
	Message string `json:"message"`
}

func (i Issue) String() string {
	var b strings.Builder
	b.WriteString(string(i.Kind))
	b.WriteString(" [")
	b.WriteString(i.Source)
	if i.Origin != "" {
		b.WriteString(" ")
		b.WriteString(i.Origin)
	}
	if i.Row > 0 {
		fmt.Fprintf(&b, " row %d", i.Row)
	}
	b.WriteString("]")
	if i.Field != "" {
		b.WriteString(" ")
		b.WriteString(i.Field)
	}
	if i.Value != "" {
		fmt.Fprintf(&b, "=%q", i.Value)
	}
	b.WriteString(": ")
	b.WriteString(i.Message)
	return b.String()
}

// Report accumulates issues. The zero value is ready to use.
type Report struct {
	Issues []Issue `json:"issues"`
}

func (r *Report) Add(issue Issue) {
	r.Issues = append(r.Issues, issue)
}

func (r *Report) Addf(kind Kind, source string, row int, field, value, format string, args ...any) {
	r.Add(Issue{
		Kind:    kind,
		Source:  source,
		Row:     row,
		Field:   field,
		Value:   value,
		Message: fmt.Sprintf(format, args...),
	})
}

// Merge appends every issue of other.
func (r *Report) Merge(other Report) {
	r.Issues = append(r.Issues, other.Issues...)
}

func (r Report) Len() int {
	return len(r.Issues)
}

func (r Report) Empty() bool {
	return len(r.Issues) == 0
}

// Count returns the number of issues of the given kind.
func (r Report) Count(kind Kind) int {
	n := 0
	for _, issue := range r.Issues {
		if issue.Kind == kind {
			n++
		}
	}
	return n
}

// OfKind returns the issues of the given kind in report order.
func (r Report) OfKind(kind Kind) []Issue {
	out := make([]Issue, 0, r.Count(kind))
	for _, issue := range r.Issues {
		if issue.Kind == kind {
			out = append(out, issue)
		}
	}
	return out
}

// Summary counts issues by kind.
func (r Report) Summary() map[Kind]int {
	out := make(map[Kind]int, 4)
	for _, issue := range r.Issues {
		out[issue.Kind]++
	}
	return out
}

// SummaryLine renders Summary as "kind=n" pairs in a stable order.
func (r Report) SummaryLine() string {
	summary := r.Summary()
	if len(summary) == 0 {
		return "no issues"
	}
	kinds := make([]string, 0, len(summary))
	for k := range summary {
		kinds = append(kinds, string(k))
	}
	sort.Strings(kinds)
	parts := make([]string, 0, len(kinds))
	for _, k := range kinds {
		parts = append(parts, fmt.Sprintf("%s=%d", k, summary[Kind(k)]))
	}
	return strings.Join(parts, " ")
}

// WithOrigin returns a copy of the report with Origin set on every issue that
// has none.
func (r Report) WithOrigin(origin string) Report {
	out := Report{Issues: make([]Issue, len(r.Issues))}
	for i, issue := range r.Issues {
		if issue.Origin == "" {
			issue.Origin = origin
		}
		out.Issues[i] = issue
	}
	return out
}
