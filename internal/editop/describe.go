package editop

// Descriptor is the JSON/YAML view of an operation. DSL is authoritative:
// the other fields are informational and ignored when reading a descriptor back.
type Descriptor struct {
	Type       string   `json:"type"                 yaml:"type"`
	DSL        string   `json:"dsl"                  yaml:"dsl"`
	At         int      `json:"at"                   yaml:"at"`
	Run        int      `json:"run"                  yaml:"run"`
	Text       *string  `json:"text,omitempty"       yaml:"text,omitempty"`
	To         int      `json:"to,omitempty"         yaml:"to,omitempty"`
	ToRun      int      `json:"toRun,omitempty"      yaml:"toRun,omitempty"`
	InputText  string   `json:"inputText,omitempty"  yaml:"inputText,omitempty"`
	InputText2 string   `json:"inputText2,omitempty" yaml:"inputText2,omitempty"`
	Note       string   `json:"note,omitempty"       yaml:"note,omitempty"`
	Tags       []string `json:"tags,omitempty"       yaml:"tags,omitempty"`
}

// Describe returns the descriptor of op.
func Describe(op Operation) Descriptor {
	d := Descriptor{
		Type:      op.Kind().String(),
		DSL:       op.String(),
		At:        op.At(),
		Run:       op.Run(),
		InputText: op.InputText(),
		Note:      op.Note(),
		Tags:      op.Tags(),
	}

	switch o := op.(type) {
	case Replace:
		d.Text = &o.text
	case InsertBefore:
		d.Text = &o.text
	case InsertAfter:
		d.Text = &o.text
	case MoveBefore:
		d.To = o.to
	case MoveAfter:
		d.To = o.to
	case Swap:
		d.To, d.ToRun, d.InputText2 = o.to, o.toRun, o.inputText2
	}

	return d
}

// DescribeAll describes every operation of a script.
func DescribeAll(ops []Operation) []Descriptor {
	out := make([]Descriptor, 0, len(ops))
	for _, op := range ops {
		out = append(out, Describe(op))
	}

	return out
}

// Operation parses the descriptor's DSL.
func (d Descriptor) Operation() (Operation, error) {
	return Parse(d.DSL)
}

// ParseAll parses each text as one operation. A failure is reported as a
// *ScriptError wrapping the *ParseError.
func ParseAll(texts []string) ([]Operation, error) {
	ops := make([]Operation, 0, len(texts))

	for i, text := range texts {
		op, err := Parse(text)
		if err != nil {
			return nil, &ScriptError{Index: i, Err: err}
		}

		ops = append(ops, op)
	}

	return ops, nil
}
