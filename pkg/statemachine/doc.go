// Package statemachine provides immutable transition tables for states that
// live outside the process, such as a status field of a stored document.
//
// A Table answers which state an event leads to from a given state. It holds
// no current state, so one table serves every record:
//
//	flow := statemachine.MustNew(
//		statemachine.Transition[Status, Event]{From: Draft, Event: Publish, To: Live},
//		statemachine.Transition[Status, Event]{From: Live, Event: Archive, To: Archived},
//	)
//
//	next, err := flow.Next(doc.Status, Publish)
//	if statemachine.IsNoTransitionError(err) {
//		// the event is not allowed in the current state
//	}
package statemachine
