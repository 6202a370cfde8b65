// Package filter supplies services that transform frames in flight. A
// filter's Process defers work onto the frame's stacks rather than
// rendering, so filters compose for free and cost nothing until a
// consumer pulls the result.
package filter
