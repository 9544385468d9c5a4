// Package todotxt parses and renders single todo.txt task lines.
//
// A line has an optional header followed by free text:
//
//	x 2011-03-02 (A) 2011-03-01 Review pull request +TodoTxtTouch @github due:2016-05-30
//	│ │          │   │          └ description (scanned for +project, @context, key:value)
//	│ │          │   └ creation date
//	│ │          └ priority
//	│ └ completion date
//	└ completion marker
//
// # Header Recognition
//
// The header is recognized strictly left to right by a small state machine.
// A lowercase "x" is only a completion marker as the very first token. A date
// directly after "x" is the completion date. A priority "(A)" through "(Z)" is
// only recognized before the description starts. A date after the priority (or
// after the completion date) is the creation date.
//
// A line that starts with a bare date records it as the creation date and the
// date token also stays at the head of the description.
//
// # Metadata
//
// Project tags, context tags and key:value pairs are extracted from the body
// without removing them from the description, so rendering a task never has
// to re-emit them.
//
// # Malformed Input
//
// Nothing in this package returns an error. Tokens that do not conform to a
// header or metadata shape are plain description text.
package todotxt
