package todotxt

import "strings"

// Render formats a task as a todo.txt line: the completion marker, the
// completion date, the priority, the creation date and then the description.
//
// Tags and key:value pairs are not emitted separately; they already live in
// Description. A task that Parse produced from a line starting with its
// creation date keeps that date at the head of Description, so Render does
// not emit it twice.
//
// A completed task with a creation date but neither a completion date nor a
// priority renders as "x DATE ...", which Parse reads back as a completion
// date. The format has no way to express it.
func Render(t Task) string {
	var b strings.Builder
	if t.Completed {
		b.WriteString("x ")
	}
	if t.CompletionDate != nil {
		b.WriteString(t.CompletionDate.String())
		b.WriteByte(' ')
	}
	if t.Priority != nil {
		b.WriteString(t.Priority.Tag())
		b.WriteByte(' ')
	}
	if t.CreationDate != nil && !t.leadingCreationDate() {
		b.WriteString(t.CreationDate.String())
		b.WriteByte(' ')
	}
	b.WriteString(t.Description)
	return b.String()
}

// leadingCreationDate reports whether the creation date is already the first
// word of a header-less description.
func (t Task) leadingCreationDate() bool {
	if t.Completed || t.CompletionDate != nil || t.Priority != nil {
		return false
	}
	first, _, _ := strings.Cut(t.Description, " ")
	return first == t.CreationDate.String()
}
