package statemachine

import "fmt"

// Transition moves From to To when Event fires.
type Transition[S, E comparable] struct {
	From  S
	Event E
	To    S
}

type edge[S, E comparable] struct {
	from  S
	event E
}

// Table is an immutable transition table. Safe for concurrent use.
type Table[S, E comparable] struct {
	next map[edge[S, E]]S
}

// New builds a table. Two transitions for the same state and event are
// rejected with ErrDuplicateTransition unless they agree on the target.
func New[S, E comparable](transitions ...Transition[S, E]) (*Table[S, E], error) {
	t := &Table[S, E]{next: make(map[edge[S, E]]S, len(transitions))}
	for _, tr := range transitions {
		k := edge[S, E]{from: tr.From, event: tr.Event}
		if to, ok := t.next[k]; ok && to != tr.To {
			return nil, fmt.Errorf("%w: %v on %v leads to both %v and %v", ErrDuplicateTransition, tr.From, tr.Event, to, tr.To)
		}
		t.next[k] = tr.To
	}
	return t, nil
}

// MustNew is New for package-level tables. It panics on conflicting transitions.
func MustNew[S, E comparable](transitions ...Transition[S, E]) *Table[S, E] {
	t, err := New(transitions...)
	if err != nil {
		panic(err)
	}
	return t
}

// Next returns the state event leads to from from, or a *NoTransitionError.
func (t *Table[S, E]) Next(from S, event E) (S, error) {
	to, ok := t.next[edge[S, E]{from: from, event: event}]
	if !ok {
		var zero S
		return zero, &NoTransitionError{From: fmt.Sprint(from), Event: fmt.Sprint(event)}
	}
	return to, nil
}

// Can reports whether event is allowed in from.
func (t *Table[S, E]) Can(from S, event E) bool {
	_, ok := t.next[edge[S, E]{from: from, event: event}]
	return ok
}
