package todotxt

import "strings"

// state is the position of the header recognizer within a line.
type state int

const (
	stateStart state = iota
	stateAfterX
	stateAfterPriority
	stateAfterCompletionDate
	stateBody
)

func (s state) String() string {
	switch s {
	case stateStart:
		return "start"
	case stateAfterX:
		return "after-x"
	case stateAfterPriority:
		return "after-priority"
	case stateAfterCompletionDate:
		return "after-completion-date"
	case stateBody:
		return "body"
	default:
		return "unknown"
	}
}

// Parse parses one todo.txt line, without its line terminator, into a Task.
//
// The line is split on single spaces; runs of spaces yield empty tokens that
// end the header and survive inside the description. Parse never fails:
// anything that is not a recognizable header field is description text.
func Parse(line string) Task {
	t := Task{
		Projects:  []string{},
		Contexts:  []string{},
		KeyValues: map[string]string{},
	}

	var body []string
	st := stateStart
	for _, token := range strings.Split(line, " ") {
		if st != stateBody {
			var consumed bool
			st, consumed = t.header(st, token)
			if consumed {
				continue
			}
		}
		t.scan(token)
		body = append(body, token)
	}

	t.Description = strings.TrimSpace(strings.Join(body, " "))
	return t
}

// header applies one token to the header state machine and returns the next
// state. consumed is false when the token belongs to the body; the returned
// state is then always stateBody.
func (t *Task) header(st state, token string) (next state, consumed bool) {
	switch st {
	case stateStart:
		if token == "x" {
			t.Completed = true
			return stateAfterX, true
		}
		if d, ok := RecognizeDate(token); ok {
			// A leading creation date ends the header and is kept as text.
			t.CreationDate = &d
			return stateBody, false
		}
		return t.priority(token)

	case stateAfterX:
		if d, ok := RecognizeDate(token); ok {
			t.CompletionDate = &d
			return stateAfterCompletionDate, true
		}
		return t.priority(token)

	case stateAfterCompletionDate:
		if d, ok := RecognizeDate(token); ok {
			t.CreationDate = &d
			return stateBody, true
		}
		return t.priority(token)

	case stateAfterPriority:
		if d, ok := RecognizeDate(token); ok {
			t.CreationDate = &d
			return stateBody, true
		}
	}
	return stateBody, false
}

func (t *Task) priority(token string) (state, bool) {
	if p, ok := RecognizePriority(token); ok {
		t.Priority = &p
		return stateAfterPriority, true
	}
	return stateBody, false
}

// scan extracts project, context and key:value metadata from a body token.
func (t *Task) scan(token string) {
	switch {
	case len(token) > 1 && token[0] == '+':
		t.Projects = append(t.Projects, token[1:])
	case len(token) > 1 && token[0] == '@':
		t.Contexts = append(t.Contexts, token[1:])
	default:
		if key, value, ok := splitKeyValue(token); ok {
			t.KeyValues[key] = value
		}
	}
}

// splitKeyValue matches a whole token of the form key:value where neither
// side is empty or contains a space or colon.
func splitKeyValue(token string) (key, value string, ok bool) {
	key, value, found := strings.Cut(token, ":")
	if !found || key == "" || value == "" {
		return "", "", false
	}
	if strings.Contains(key, " ") || strings.ContainsAny(value, ": ") {
		return "", "", false
	}
	return key, value, true
}
