package queries

// ListStatesQuery represents a query for the state list with an optional contiguity filter
type ListStatesQuery struct {
	// Contiguous is nil when no filter applies
	Contiguous *bool
}

// NewListStatesQuery builds the query from the raw ?contig value.
// Anything other than "true" or "false" leaves the filter unset.
func NewListStatesQuery(contig string) ListStatesQuery {
	var q ListStatesQuery
	switch contig {
	case "true":
		v := true
		q.Contiguous = &v
	case "false":
		v := false
		q.Contiguous = &v
	}
	return q
}

// Filtered reports whether a contiguity filter applies
func (q ListStatesQuery) Filtered() bool {
	return q.Contiguous != nil
}
