package editop

import (
	"errors"
	"regexp"
	"strconv"
	"strings"
)

// Sub-patterns shared by the per-variant grammars.
const (
	quotedPattern = `"((?:[^"\\]|\\.)*)"`
	coordPattern  = `@(\d+)(?:[x×](\d+))?`
	targetPattern = `@(\d+)`
	optionalInput = `(?:` + quotedPattern + `\s*)?`
)

var (
	quotedRe = regexp.MustCompile(quotedPattern)
	noteRe   = regexp.MustCompile(`\(([^)]*)\)`)
	tagsRe   = regexp.MustCompile(`\[([^\]]*)\]`)

	// Group layout: input?, pos, len?, text.
	replaceRe = regexp.MustCompile(`^` + optionalInput + coordPattern + `\s*=\s*` + quotedPattern + `$`)
	// Group layout: input?, pos, len?.
	deleteRe = regexp.MustCompile(`^` + optionalInput + coordPattern + `\s*!$`)
	// Group layout: pos, len?, text.
	insertBeforeRe = regexp.MustCompile(`^` + coordPattern + `\s*\+=\s*` + quotedPattern + `$`)
	insertAfterRe  = regexp.MustCompile(`^` + coordPattern + `\s*=\+\s*` + quotedPattern + `$`)
	// Group layout: input?, pos, len?, to.
	moveBeforeRe = regexp.MustCompile(`^` + optionalInput + coordPattern + `\s*>\s*` + targetPattern + `$`)
	moveAfterRe  = regexp.MustCompile(`^` + optionalInput + coordPattern + `\s*->\s*` + targetPattern + `$`)
	// Group layout: input?, pos, len?, input2?, to, toLen?.
	swapRe = regexp.MustCompile(`^` + optionalInput + coordPattern + `\s*<>\s*` + optionalInput + coordPattern + `$`)
)

// grammar is the sub-grammar of one operation variant.
type grammar struct {
	kind    Kind
	token   string
	pattern *regexp.Regexp
	build   func(m match, opts []Option) (Operation, error)
}

// grammars is ordered by dispatch priority: operator tokens overlap, so "->"
// must be tried before ">" and "=" must come last.
var grammars = []grammar{
	{KindDelete, "!", deleteRe, buildDelete},
	{KindInsertBefore, "+=", insertBeforeRe, buildInsertBefore},
	{KindInsertAfter, "=+", insertAfterRe, buildInsertAfter},
	{KindSwap, "<>", swapRe, buildSwap},
	{KindMoveAfter, "->", moveAfterRe, buildMoveAfter},
	{KindMoveBefore, ">", moveBeforeRe, buildMoveBefore},
	{KindReplace, "=", replaceRe, buildReplace},
}

// Parse parses one operation written in the edit DSL.
// Failures are reported as *ParseError.
func Parse(text string) (Operation, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return nil, &ParseError{Text: text, Offset: -1, Reason: "empty operation"}
	}

	offset := strings.Index(text, trimmed)
	body, tail := splitAnnotation(trimmed)

	opts, err := parseAnnotation(tail, offset+len(body))
	if err != nil {
		return nil, err
	}

	body = strings.TrimSpace(body)
	g, ok := dispatch(body)

	if !ok {
		return nil, &ParseError{Text: trimmed, Offset: offset, Reason: "no edit operator found"}
	}

	idx := g.pattern.FindStringSubmatchIndex(body)
	if idx == nil {
		return nil, &ParseError{Text: trimmed, Offset: offset, Reason: "malformed " + g.kind.String() + " operation"}
	}

	op, err := g.build(match{text: body, idx: idx, offset: offset}, opts)
	if err != nil {
		var pe *ParseError
		if errors.As(err, &pe) {
			return nil, pe
		}

		return nil, &ParseError{Text: trimmed, Offset: offset, Reason: err.Error(), Err: err}
	}

	return op, nil
}

// dispatch picks the grammar by operator containment. Quoted strings are
// blanked first so payload text cannot look like an operator.
func dispatch(body string) (grammar, bool) {
	bare := quotedRe.ReplaceAllString(body, `""`)

	for _, g := range grammars {
		if strings.Contains(bare, g.token) {
			return g, true
		}
	}

	return grammar{}, false
}

// splitAnnotation splits text at the first '(' or '[' outside a quoted string.
func splitAnnotation(text string) (string, string) {
	inQuote := false

	for i := 0; i < len(text); i++ {
		switch c := text[i]; {
		case inQuote && c == '\\':
			i++
		case c == '"':
			inQuote = !inQuote
		case !inQuote && (c == '(' || c == '['):
			return text[:i], text[i:]
		}
	}

	return text, ""
}

// parseAnnotation extracts the note and tag list from the annotation tail,
// in either order.
func parseAnnotation(tail string, offset int) ([]Option, error) {
	if tail == "" {
		return nil, nil
	}

	var opts []Option

	rest := tail

	if m := noteRe.FindStringSubmatch(rest); m != nil {
		opts = append(opts, WithNote(m[1]))
		rest = strings.Replace(rest, m[0], "", 1)
	}

	if m := tagsRe.FindStringSubmatch(rest); m != nil {
		opts = append(opts, WithTags(m[1]))
		rest = strings.Replace(rest, m[0], "", 1)
	}

	if strings.TrimSpace(rest) != "" {
		return nil, &ParseError{Text: tail, Offset: offset, Reason: "unexpected text in annotation"}
	}

	return opts, nil
}

// match is a successful sub-grammar match over an operation body.
type match struct {
	text   string
	idx    []int
	offset int // offset of text within the parsed input
}

// group returns the n-th capture group and whether it participated in the match.
func (m match) group(n int) (string, bool) {
	start, end := m.idx[2*n], m.idx[2*n+1]
	if start < 0 {
		return "", false
	}

	return m.text[start:end], true
}

// quoted returns the unescaped n-th capture group.
func (m match) quoted(n int) string {
	s, _ := m.group(n)

	return unquote(s)
}

// number returns the n-th capture group as an integer, or def when absent.
func (m match) number(n, def int) (int, error) {
	s, ok := m.group(n)
	if !ok {
		return def, nil
	}

	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, &ParseError{Text: s, Offset: m.offset + m.idx[2*n], Reason: "number out of range", Err: err}
	}

	return v, nil
}

// numbers reads several integer groups. Absent groups default to 1.
func (m match) numbers(groups ...int) ([]int, error) {
	out := make([]int, len(groups))

	for i, n := range groups {
		v, err := m.number(n, 1)
		if err != nil {
			return nil, err
		}

		out[i] = v
	}

	return out, nil
}

func buildReplace(m match, opts []Option) (Operation, error) {
	n, err := m.numbers(2, 3)
	if err != nil {
		return nil, err
	}

	return NewReplace(n[0], n[1], m.quoted(4), append(opts, WithInputText(m.quoted(1)))...)
}

func buildDelete(m match, opts []Option) (Operation, error) {
	n, err := m.numbers(2, 3)
	if err != nil {
		return nil, err
	}

	return NewDelete(n[0], n[1], append(opts, WithInputText(m.quoted(1)))...)
}

func buildInsertBefore(m match, opts []Option) (Operation, error) {
	n, err := m.numbers(1, 2)
	if err != nil {
		return nil, err
	}

	if n[1] < 1 {
		return nil, invalidf("length must be at least 1, got %d", n[1])
	}

	return NewInsertBefore(n[0], m.quoted(3), opts...)
}

func buildInsertAfter(m match, opts []Option) (Operation, error) {
	n, err := m.numbers(1, 2)
	if err != nil {
		return nil, err
	}

	if n[1] < 1 {
		return nil, invalidf("length must be at least 1, got %d", n[1])
	}

	return NewInsertAfter(n[0], m.quoted(3), opts...)
}

func buildMoveBefore(m match, opts []Option) (Operation, error) {
	n, err := m.numbers(2, 3, 4)
	if err != nil {
		return nil, err
	}

	return NewMoveBefore(n[0], n[1], n[2], append(opts, WithInputText(m.quoted(1)))...)
}

func buildMoveAfter(m match, opts []Option) (Operation, error) {
	n, err := m.numbers(2, 3, 4)
	if err != nil {
		return nil, err
	}

	return NewMoveAfter(n[0], n[1], n[2], append(opts, WithInputText(m.quoted(1)))...)
}

func buildSwap(m match, opts []Option) (Operation, error) {
	n, err := m.numbers(2, 3, 5, 6)
	if err != nil {
		return nil, err
	}

	return NewSwap(n[0], n[1], n[2], n[3],
		append(opts, WithInputText(m.quoted(1)), WithSecondInputText(m.quoted(4)))...)
}

func unquote(s string) string {
	if !strings.Contains(s, `\`) {
		return s
	}

	var b strings.Builder

	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+1 < len(s) {
			i++
		}

		b.WriteByte(s[i])
	}

	return b.String()
}
