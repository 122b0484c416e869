package query

// The ordering of a returned set of records
type Ordering uint

const (
	Ascending Ordering = iota
	Descending
)

func (o Ordering) String() string {
	if o == Descending {
		return "desc"
	}
	return "asc"
}
