package editop

import "slices"

// Execute replaces the span with the replacement text.
func (o Replace) Execute(input string) (string, error) {
	u, err := prepare(o, input)
	if err != nil {
		return "", err
	}

	if err := checkSpan(u, o.at, o.run); err != nil {
		return "", err
	}

	return splice(u, o.at-1, o.end()-1, toUnits(o.text)).String(), nil
}

// Execute removes the span.
func (o Delete) Execute(input string) (string, error) {
	u, err := prepare(o, input)
	if err != nil {
		return "", err
	}

	if err := checkSpan(u, o.at, o.run); err != nil {
		return "", err
	}

	return splice(u, o.at-1, o.end()-1, nil).String(), nil
}

// Execute inserts the text before position at, or prepends it when at is 0.
// The sentinel form also accepts empty input.
func (o InsertBefore) Execute(input string) (string, error) {
	if err := o.Validate(); err != nil {
		return "", err
	}

	if o.at == 0 {
		return o.text + input, nil
	}

	u, err := prepare(o, input)
	if err != nil {
		return "", err
	}

	if err := checkPosition(u, o.at); err != nil {
		return "", err
	}

	return splice(u, o.at-1, o.at-1, toUnits(o.text)).String(), nil
}

// Execute inserts the text after position at, or appends it when at is 0.
// The sentinel form also accepts empty input.
func (o InsertAfter) Execute(input string) (string, error) {
	if err := o.Validate(); err != nil {
		return "", err
	}

	if o.at == 0 {
		return input + o.text, nil
	}

	u, err := prepare(o, input)
	if err != nil {
		return "", err
	}

	if err := checkPosition(u, o.at); err != nil {
		return "", err
	}

	return splice(u, o.at, o.at, toUnits(o.text)).String(), nil
}

// Execute moves the span in front of position to.
func (o MoveBefore) Execute(input string) (string, error) {
	u, err := prepare(o, input)
	if err != nil {
		return "", err
	}

	removed, rest, err := cut(u, o.base, o.to)
	if err != nil {
		return "", err
	}

	to := o.to
	if to > o.at {
		to -= o.run
	}

	return splice(rest, to-1, to-1, removed).String(), nil
}

// Execute moves the span behind position to.
func (o MoveAfter) Execute(input string) (string, error) {
	u, err := prepare(o, input)
	if err != nil {
		return "", err
	}

	removed, rest, err := cut(u, o.base, o.to)
	if err != nil {
		return "", err
	}

	// to == at only passes validation for a single character moved after
	// itself, which must stay a no-op.
	to := o.to
	if to >= o.at {
		to -= o.run
	}

	return splice(rest, to, to, removed).String(), nil
}

// Execute exchanges the two spans.
func (o Swap) Execute(input string) (string, error) {
	u, err := prepare(o, input)
	if err != nil {
		return "", err
	}

	if err := checkSpan(u, o.at, o.run); err != nil {
		return "", err
	}

	if err := checkSpan(u, o.to, o.toRun); err != nil {
		return "", err
	}

	lo := span{start: o.at - 1, end: o.end() - 1}
	hi := span{start: o.to - 1, end: o.to - 1 + o.toRun}

	if hi.start < lo.start {
		lo, hi = hi, lo
	}

	loText := slices.Clone(u[lo.start:lo.end])
	hiText := slices.Clone(u[hi.start:hi.end])

	// Rewrite the higher span first so the lower span's offsets stay valid.
	u = splice(u, hi.start, hi.end, loText)
	u = splice(u, lo.start, lo.end, hiText)

	return u.String(), nil
}

// span is a 0-based half-open range of code units.
type span struct {
	start, end int
}

// prepare validates the operation and converts a non-empty input to code units.
func prepare(op Operation, input string) (units, error) {
	if err := op.Validate(); err != nil {
		return nil, err
	}

	if input == "" {
		return nil, ErrEmptyInput
	}

	return toUnits(input), nil
}

func checkSpan(u units, at, run int) error {
	if at < 1 || run < 1 || at-1+run > len(u) {
		return outOfRangef("span @%dx%d exceeds text of length %d", at, run, len(u))
	}

	return nil
}

func checkPosition(u units, pos int) error {
	if pos < 1 || pos > len(u) {
		return outOfRangef("position %d outside text of length %d", pos, len(u))
	}

	return nil
}

// cut removes the span described by b and returns the removed text and the rest.
func cut(u units, b base, to int) (units, units, error) {
	if err := checkSpan(u, b.at, b.run); err != nil {
		return nil, nil, err
	}

	if err := checkPosition(u, to); err != nil {
		return nil, nil, err
	}

	removed := slices.Clone(u[b.at-1 : b.end()-1])

	return removed, splice(u, b.at-1, b.end()-1, nil), nil
}

// ApplyAll applies ops to input in order, each to the result of the previous one.
// A failure is reported as a *ScriptError.
func ApplyAll(input string, ops []Operation) (string, error) {
	text := input

	for i, op := range ops {
		out, err := op.Execute(text)
		if err != nil {
			return "", &ScriptError{Index: i, Op: op, Err: err}
		}

		text = out
	}

	return text, nil
}
