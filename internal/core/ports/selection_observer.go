package ports

// SelectionEvent holds info about a selection once it's done.
type SelectionEvent struct {
	Engine   string
	Strategy string
	Tier     string
	Outcome  string
	Inputs   int
}

// SearchEvent holds info about a run of the combinatorial coin search.
type SearchEvent struct {
	Mode       string
	Iterations int
	GaveUp     bool
}

// SelectionObserver is the abstraction for any kind of service intended to
// keep track of the selections made and of the searches behind them.
type SelectionObserver interface {
	ObserveSelection(event SelectionEvent)
	ObserveSearch(event SearchEvent)
}
