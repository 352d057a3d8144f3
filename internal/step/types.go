package step

// Step is one unit of test action: a declarative descriptor, a functional
// step, or a group spliced inline by the runner.
type Step interface {
	// step is a private method to restrict implementers
	step()
}

// Fields holds the handler-specific keys of a declarative step.
// Values are literals, Ref lookups, or Resolver functions.
type Fields map[string]any

// Decl is a declarative step descriptor: a required type tag, an optional
// human-readable label, and handler-specific fields.
type Decl struct {
	Type   string
	Label  string
	Fields Fields
	Flags  Flags
}

func (Decl) step() {}

// Func is a user-supplied check or mutation step.
//
// Run receives the current context and reports success or failure.
// Returning a nil context with ok=true forwards the context unchanged;
// returning a non-nil context forwards it to the next step.
type Func struct {
	Run   func(Context) (Context, bool)
	Label string
	Flags Flags
}

func (Func) step() {}

// Group is a nested sequence of steps spliced inline by the runner.
// Splicing is one level deep: a Group inside a Group is rejected at
// validation time.
type Group []Step

func (Group) step() {}

// Flags carries per-step execution metadata. Nil pointers mean "use the
// per-type default"; non-nil values override it.
type Flags struct {
	// FlushAfter forces (or suppresses) a UI-flush wait after success.
	FlushAfter *bool

	// Screenshot forces (or suppresses) the per-step capture.
	Screenshot *bool
}

// mergedUnder returns f with unset values filled from defaults.
// Explicit per-step values always win.
func (f Flags) mergedUnder(defaults Flags) Flags {
	out := f
	if out.FlushAfter == nil {
		out.FlushAfter = defaults.FlushAfter
	}
	if out.Screenshot == nil {
		out.Screenshot = defaults.Screenshot
	}
	return out
}

// Bool returns a pointer to b, for populating Flags literals.
func Bool(b bool) *bool {
	return &b
}

// DisplayLabel returns the step's label, falling back to its type tag.
func (d Decl) DisplayLabel() string {
	if d.Label != "" {
		return d.Label
	}
	return d.Type
}

// DisplayLabel returns the step's label, falling back to "function".
func (f Func) DisplayLabel() string {
	if f.Label != "" {
		return f.Label
	}
	return "function"
}

// LabelOf returns the display label for any step.
func LabelOf(s Step) string {
	switch s := s.(type) {
	case Decl:
		return s.DisplayLabel()
	case Func:
		return s.DisplayLabel()
	case Group:
		return "group"
	default:
		return "unknown"
	}
}

// FlagsOf returns the explicit per-step flags for any step.
func FlagsOf(s Step) Flags {
	switch s := s.(type) {
	case Decl:
		return s.Flags
	case Func:
		return s.Flags
	default:
		return Flags{}
	}
}

// WithLabel returns a copy of the descriptor with the label set.
func (d Decl) WithLabel(label string) Decl {
	d.Label = label
	return d
}

// WithField returns a copy of the descriptor with one field added.
func (d Decl) WithField(key string, value any) Decl {
	fields := make(Fields, len(d.Fields)+1)
	for k, v := range d.Fields {
		fields[k] = v
	}
	fields[key] = value
	d.Fields = fields
	return d
}

// WithFlags returns a copy of the descriptor with the flags set.
func (d Decl) WithFlags(f Flags) Decl {
	d.Flags = f
	return d
}
