// Package output decides where the body of each decoded part goes.
//
// A Router looks at a part's header and returns a Route. File uploads go to
// the next of an ordered list of output targets, other fields are collected
// in memory so they can be printed, and file uploads that arrive after the
// targets have run out are discarded rather than stopping the run.
package output
