package todotxt

// Task is one parsed todo.txt line.
//
// Projects, Contexts and KeyValues are views over Description: they are
// extracted from it but never removed, so Description alone carries them
// through Render.
type Task struct {
	Completed      bool              `json:"completed"`
	Priority       *Priority         `json:"priority,omitempty"`
	CompletionDate *Date             `json:"completion_date,omitempty"`
	CreationDate   *Date             `json:"creation_date,omitempty"`
	Description    string            `json:"description"`
	Projects       []string          `json:"projects"`
	Contexts       []string          `json:"contexts"`
	KeyValues      map[string]string `json:"key_values"`
}

// String renders the task as a todo.txt line.
func (t Task) String() string {
	return Render(t)
}

// HasProject reports whether the task carries the +project tag.
func (t Task) HasProject(project string) bool {
	return contains(t.Projects, project)
}

// HasContext reports whether the task carries the @context tag.
func (t Task) HasContext(context string) bool {
	return contains(t.Contexts, context)
}

// Value returns the value of a key:value pair in the description.
func (t Task) Value(key string) (string, bool) {
	v, ok := t.KeyValues[key]
	return v, ok
}

func contains(values []string, want string) bool {
	for _, v := range values {
		if v == want {
			return true
		}
	}
	return false
}
