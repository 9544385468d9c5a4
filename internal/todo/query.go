package todo

import "github.com/nibzard/todotxt-go/internal/todotxt"

// Counts summarizes a file.
type Counts struct {
	Total       int
	Pending     int
	Done        int
	Prioritized int
}

// Counts returns task totals for f.
func (f *File) Counts() Counts {
	var c Counts
	for _, e := range f.Entries {
		c.Total++
		if e.Task.Completed {
			c.Done++
		} else {
			c.Pending++
		}
		if e.Task.Priority != nil {
			c.Prioritized++
		}
	}
	return c
}

// Filter returns the entries for which keep returns true, in line order.
func (f *File) Filter(keep func(todotxt.Task) bool) []Entry {
	var out []Entry
	for _, e := range f.Entries {
		if keep(e.Task) {
			out = append(out, e)
		}
	}
	return out
}

// Pending returns tasks that are not completed.
func (f *File) Pending() []Entry {
	return f.Filter(func(t todotxt.Task) bool { return !t.Completed })
}

// Done returns completed tasks.
func (f *File) Done() []Entry {
	return f.Filter(func(t todotxt.Task) bool { return t.Completed })
}

// Prioritized returns tasks that carry a priority.
func (f *File) Prioritized() []Entry {
	return f.Filter(func(t todotxt.Task) bool { return t.Priority != nil })
}

// FilterByProject returns tasks tagged +project.
func (f *File) FilterByProject(project string) []Entry {
	return f.Filter(func(t todotxt.Task) bool { return t.HasProject(project) })
}

// FilterByContext returns tasks tagged @context.
func (f *File) FilterByContext(context string) []Entry {
	return f.Filter(func(t todotxt.Task) bool { return t.HasContext(context) })
}

// Next selects the task to work on next:
// 1. The pending task with the highest priority ('A' first), lowest line wins ties
// 2. Otherwise the first pending task without a priority
// Returns nil when every task is completed.
func (f *File) Next() *Entry {
	var selected *Entry
	for i := range f.Entries {
		e := &f.Entries[i]
		if e.Task.Completed {
			continue
		}
		if selected == nil {
			selected = e
			continue
		}
		if e.Task.Priority == nil {
			continue
		}
		if selected.Task.Priority == nil || *e.Task.Priority < *selected.Task.Priority {
			selected = e
		}
	}
	return selected
}
