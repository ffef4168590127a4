package editop

// adjust fuses each delete with the one operation that adds the same text
// elsewhere, turning the pair into a move. Text added by more than one
// operation is ambiguous and never merged. A merge is kept only when the
// script still produces the same result.
func adjust(script []Operation, source, target string, insertOnly bool) []Operation {
	want, err := ApplyAll(source, script)
	if err != nil || want != target {
		return script
	}

	for d := 0; d < len(script); d++ {
		del, ok := script[d].(Delete)
		if !ok {
			continue
		}

		a := partner(script, d, del.inputText, insertOnly)
		if a < 0 {
			continue
		}

		merged, ok := merge(script, d, a)
		if !ok {
			continue
		}

		if out, err := ApplyAll(source, merged); err != nil || out != want {
			continue
		}

		// Every merge consumes an add, so rescanning terminates.
		script = merged
		d = -1
	}

	return script
}

// partner returns the index of the only operation adding text, or -1.
func partner(script []Operation, d int, text string, insertOnly bool) int {
	found := -1

	for a, op := range script {
		if a == d {
			continue
		}

		added, ok := addedText(op)
		if !ok || added != text {
			continue
		}

		if found >= 0 {
			return -1
		}

		found = a
	}

	if found < 0 || script[found].At() == 0 {
		return -1
	}

	if insertOnly && script[found].Kind() == KindReplace {
		return -1
	}

	return found
}

func addedText(op Operation) (string, bool) {
	switch o := op.(type) {
	case Replace:
		return o.text, true
	case InsertBefore:
		return o.text, true
	case InsertAfter:
		return o.text, true
	default:
		return "", false
	}
}

// merge replaces the delete at d and the add at a with a move placed at the
// earlier of the two. A replace partner leaves behind a delete of the text it
// overwrote.
func merge(script []Operation, d, a int) ([]Operation, bool) {
	del := script[d].(Delete)
	add := script[a]
	meta := mergedMeta(del.base, add.meta())
	p := add.At()

	var move Operation

	var residue Operation

	if add.Kind() == KindReplace {
		residue = Delete{base: base{at: p + del.run, run: add.Run(), inputText: add.InputText()}}
	}

	var at, to int

	if d < a {
		// The add was numbered after the delete: undo the length changes of the
		// operations in between, then map back over the removed span.
		at = del.at
		to = p - netDelta(script[d+1:a]) + del.run
	} else {
		// The text still sits later in the string when the add runs.
		at = del.at - netDelta(script[a:d])
		to = p
	}

	meta.at, meta.run = at, del.run

	if add.Kind() == KindInsertAfter {
		move = MoveAfter{base: meta, to: to}
	} else {
		move = MoveBefore{base: meta, to: to}
	}

	if move.Validate() != nil {
		return nil, false
	}

	first, second := min(d, a), max(d, a)
	out := make([]Operation, 0, len(script)+1)

	for i, op := range script {
		switch i {
		case first:
			out = append(out, move)
			if a < d && residue != nil {
				out = append(out, residue)
			}
		case second:
			if d < a && residue != nil {
				out = append(out, residue)
			}
		default:
			out = append(out, op)
		}
	}

	return out, true
}

// mergedMeta carries the delete's text and annotation, falling back to the
// add's annotation when the delete has none.
func mergedMeta(del, add base) base {
	meta := base{inputText: del.inputText, note: del.note, tags: del.tags}

	if meta.note == "" {
		meta.note = add.note
	}

	if len(meta.tags) == 0 {
		meta.tags = add.tags
	}

	return meta
}

// netDelta is the total length change, in code units, made by ops.
func netDelta(ops []Operation) int {
	n := 0

	for _, op := range ops {
		switch o := op.(type) {
		case Replace:
			n += Len(o.text) - o.run
		case Delete:
			n -= o.run
		case InsertBefore:
			n += Len(o.text)
		case InsertAfter:
			n += Len(o.text)
		}
	}

	return n
}
