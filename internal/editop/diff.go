package editop

import "slices"

// DiffOption configures Diff.
type DiffOption func(*diffConfig)

type diffConfig struct {
	includeInputText bool
	adjust           bool
	insertOnly       bool
}

// IncludeInputText controls whether deletes and replaces record the text they
// remove. Defaults to true.
func IncludeInputText(include bool) DiffOption {
	return func(c *diffConfig) {
		c.includeInputText = include
	}
}

// Adjust controls whether matching delete/insert pairs are merged into moves.
// Defaults to true.
func Adjust(adjust bool) DiffOption {
	return func(c *diffConfig) {
		c.adjust = adjust
	}
}

// InsertOnly restricts move merging to insert partners, leaving replaces alone.
// Defaults to false.
func InsertOnly(insertOnly bool) DiffOption {
	return func(c *diffConfig) {
		c.insertOnly = insertOnly
	}
}

// Diff returns an edit script turning source into target: applying the
// operations in order, each to the result of the previous one, yields target.
// Equal inputs give an empty script.
//
// The alignment is greedy, not minimal. Surrogate pairs are never split.
func Diff(source, target string, opts ...DiffOption) []Operation {
	cfg := diffConfig{includeInputText: true, adjust: true}
	for _, opt := range opts {
		opt(&cfg)
	}

	if source == target {
		return nil
	}

	var script []Operation

	switch {
	case source == "":
		script = []Operation{InsertAfter{base: base{at: 0, run: 1}, text: target}}
	case target == "":
		script = []Operation{Delete{base: base{at: 1, run: Len(source), inputText: source}}}
	default:
		script = align([]rune(source), []rune(target))
		if cfg.adjust {
			script = adjust(script, source, target, cfg.insertOnly)
		}
	}

	if !cfg.includeInputText {
		script = stripInputText(script)
	}

	return script
}

// align walks source and target with two cursors. position is the 1-based
// offset of the source cursor in the text as edited so far.
func align(src, dst []rune) []Operation {
	var script []Operation

	i, j, position := 0, 0, 1

	for i < len(src) && j < len(dst) {
		if src[i] == dst[j] {
			position += runeWidth(src[i])
			i++
			j++

			continue
		}

		nextInSource := indexFrom(src, dst[j], i)
		nextInTarget := indexFrom(dst, src[i], j)

		switch {
		case nextInSource >= 0 && (nextInTarget < 0 || nextInSource-i <= nextInTarget-j):
			script = append(script, deleteRunes(position, src[i:nextInSource]))
			i = nextInSource
		case nextInTarget >= 0:
			text := string(dst[j:nextInTarget])
			script = append(script, InsertBefore{base: base{at: position, run: 1}, text: text})
			position += Len(text)
			j = nextInTarget
		default:
			script = append(script, Replace{
				base: base{at: position, run: runeWidth(src[i]), inputText: string(src[i])},
				text: string(dst[j]),
			})
			position += runeWidth(dst[j])
			i++
			j++
		}
	}

	if i < len(src) {
		script = append(script, deleteRunes(position, src[i:]))
	}

	if j < len(dst) {
		script = append(script, InsertAfter{base: base{at: position - 1, run: 1}, text: string(dst[j:])})
	}

	return script
}

func deleteRunes(at int, removed []rune) Delete {
	text := string(removed)

	return Delete{base: base{at: at, run: Len(text), inputText: text}}
}

func indexFrom(rs []rune, r rune, from int) int {
	if idx := slices.Index(rs[from:], r); idx >= 0 {
		return from + idx
	}

	return -1
}

func stripInputText(script []Operation) []Operation {
	out := make([]Operation, len(script))

	for i, op := range script {
		switch o := op.(type) {
		case Replace:
			o.base = o.withoutInput()
			out[i] = o
		case Delete:
			o.base = o.withoutInput()
			out[i] = o
		case MoveBefore:
			o.base = o.withoutInput()
			out[i] = o
		case MoveAfter:
			o.base = o.withoutInput()
			out[i] = o
		case Swap:
			o.base = o.withoutInput()
			o.inputText2 = ""
			out[i] = o
		default:
			out[i] = op
		}
	}

	return out
}
