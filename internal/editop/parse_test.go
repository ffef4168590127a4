package editop_test

import (
	"errors"
	"testing"

	"github.com/serroba/editops/internal/editop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_Variants(t *testing.T) {
	t.Parallel()

	tests := []struct {
		text string
		want editop.Descriptor
	}{
		{`@2="X"`, editop.Describe(must(editop.NewReplace(2, 1, "X")))},
		{`@2x3="XY"`, editop.Describe(must(editop.NewReplace(2, 3, "XY")))},
		{`@2×3="XY"`, editop.Describe(must(editop.NewReplace(2, 3, "XY")))},
		{`"bcd"@2x3="XY"`, editop.Describe(must(editop.NewReplace(2, 3, "XY", editop.WithInputText("bcd"))))},
		{`@2!`, editop.Describe(must(editop.NewDelete(2, 1)))},
		{`"bc"@2x2!`, editop.Describe(must(editop.NewDelete(2, 2, editop.WithInputText("bc"))))},
		{`@0+="X"`, editop.Describe(must(editop.NewInsertBefore(0, "X")))},
		{`@3+="XY"`, editop.Describe(must(editop.NewInsertBefore(3, "XY")))},
		{`@0=+"X"`, editop.Describe(must(editop.NewInsertAfter(0, "X")))},
		{`@3=+"XY"`, editop.Describe(must(editop.NewInsertAfter(3, "XY")))},
		{`"de"@4x2>@1`, editop.Describe(must(editop.NewMoveBefore(4, 2, 1, editop.WithInputText("de"))))},
		{`@1->@3`, editop.Describe(must(editop.NewMoveAfter(1, 1, 3)))},
		{`"b"@2<>"d"@4`, editop.Describe(must(editop.NewSwap(2, 1, 4, 1,
			editop.WithInputText("b"), editop.WithSecondInputText("d"))))},
		{`@1x2<>@4x2`, editop.Describe(must(editop.NewSwap(1, 2, 4, 2)))},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			t.Parallel()

			op, err := editop.Parse(tt.text)
			require.NoError(t, err)
			assert.Equal(t, tt.want, editop.Describe(op))
		})
	}
}

func TestParse_Whitespace(t *testing.T) {
	t.Parallel()

	op, err := editop.Parse(`  "bc" @2x2 = "XY"  `)
	require.NoError(t, err)

	replace, ok := op.(editop.Replace)
	require.True(t, ok, "expected Replace, got %T", op)

	if replace.At() != 2 || replace.Run() != 2 || replace.Text() != "XY" || replace.InputText() != "bc" {
		t.Errorf("unexpected fields: %s", replace)
	}
}

func TestParse_OperatorInsideQuotedText(t *testing.T) {
	t.Parallel()

	// "!" and "->" inside quotes must not steer dispatch away from Replace.
	op, err := editop.Parse(`"a!b"@2x3="c->d"`)
	require.NoError(t, err)

	if op.Kind() != editop.KindReplace {
		t.Fatalf("expected replace, got %s", op.Kind())
	}

	if op.(editop.Replace).Text() != "c->d" {
		t.Errorf("expected text c->d, got %q", op.(editop.Replace).Text())
	}
}

func TestParse_EscapedQuotes(t *testing.T) {
	t.Parallel()

	op, err := editop.Parse(`@1="say \"hi\" \\o/"`)
	require.NoError(t, err)

	if got := op.(editop.Replace).Text(); got != `say "hi" \o/` {
		t.Errorf("unexpected text %q", got)
	}
}

func TestParse_Annotation(t *testing.T) {
	t.Parallel()

	tests := []string{
		`@2! (typo) [ortho hand]`,
		`@2! [ortho hand] (typo)`,
		`@2!(typo)[ortho  hand ortho]`,
	}

	for _, text := range tests {
		op, err := editop.Parse(text)
		require.NoError(t, err, text)

		assert.Equal(t, "typo", op.Note(), text)
		assert.Equal(t, []string{"ortho", "hand"}, op.Tags(), text)
	}
}

func TestParse_AnnotationCharactersInsideQuotes(t *testing.T) {
	t.Parallel()

	op, err := editop.Parse(`"(x)"@1x3="[y]" (note)`)
	require.NoError(t, err)

	assert.Equal(t, "(x)", op.InputText())
	assert.Equal(t, "[y]", op.(editop.Replace).Text())
	assert.Equal(t, "note", op.Note())
}

func TestParse_Failures(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		text string
	}{
		{"empty", ""},
		{"blank", "   "},
		{"garbage with operator", "invalid!!"},
		{"no operator", "@2x3"},
		{"delete at zero", "@0!"},
		{"move at zero", "@0>@2"},
		{"move to zero", "@2>@0"},
		{"zero length", "@2x0!"},
		{"negative insert", `@-1+="x"`},
		{"move target with length", "@2->@3x2"},
		{"missing payload", "@2="},
		{"unquoted payload", "@2=X"},
		{"overlapping swap", "@2x3<>@4x2"},
		{"move target inside span", "@2x3>@3"},
		{"trailing junk after annotation", "@2! (note) junk"},
		{"number overflow", "@99999999999999999999999!"},
		{"insert with zero length", `@2x0+="x"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			op, err := editop.Parse(tt.text)
			if err == nil {
				t.Fatalf("expected error, parsed %s", op)
			}

			var parseErr *editop.ParseError
			if !errors.As(err, &parseErr) {
				t.Fatalf("expected *ParseError, got %T: %v", err, err)
			}

			if !errors.Is(err, editop.ErrSyntax) {
				t.Errorf("expected ErrSyntax in chain, got %v", err)
			}
		})
	}
}

func TestParse_FailureDetails(t *testing.T) {
	t.Parallel()

	_, err := editop.Parse("@2x0!")

	var parseErr *editop.ParseError
	require.ErrorAs(t, err, &parseErr)
	require.ErrorIs(t, err, editop.ErrInvalidOperation)

	_, err = editop.Parse("  @99999999999999999999999!")
	require.ErrorAs(t, err, &parseErr)

	if parseErr.Text != "99999999999999999999999" {
		t.Errorf("expected offending number, got %q", parseErr.Text)
	}

	if parseErr.Offset != 3 {
		t.Errorf("expected offset 3, got %d", parseErr.Offset)
	}
}

func TestString_Format(t *testing.T) {
	t.Parallel()

	tests := []struct {
		op   editop.Operation
		want string
	}{
		{must(editop.NewReplace(2, 3, "XY", editop.WithInputText("bcd"))), `"bcd"@2x3="XY"`},
		{must(editop.NewReplace(2, 1, "X")), `@2="X"`},
		{must(editop.NewDelete(2, 1, editop.WithNote("typo"), editop.WithTags("a", "b"))), `@2! (typo) [a b]`},
		{must(editop.NewInsertBefore(0, "X", editop.WithTags("t"))), `@0+="X" [t]`},
		{must(editop.NewInsertAfter(4, `"q"`)), `@4=+"\"q\""`},
		{must(editop.NewMoveBefore(2, 2, 5, editop.WithInputText("bc"))), `"bc"@2x2>@5`},
		{must(editop.NewMoveAfter(1, 1, 3)), `@1->@3`},
		{must(editop.NewSwap(1, 2, 4, 1, editop.WithSecondInputText("d"))), `@1x2<>"d"@4`},
	}

	for _, tt := range tests {
		if got := tt.op.String(); got != tt.want {
			t.Errorf("expected %s, got %s", tt.want, got)
		}
	}
}

func TestParse_RoundTrip(t *testing.T) {
	t.Parallel()

	ops := []editop.Operation{
		must(editop.NewReplace(2, 3, `a "quoted" \ text`, editop.WithInputText("bcd"), editop.WithNote("fix"))),
		must(editop.NewDelete(7, 2, editop.WithInputText("(x)"), editop.WithTags("ortho", "scribe"))),
		must(editop.NewInsertBefore(0, "→", editop.WithNote("arrow"), editop.WithTags("sym"))),
		must(editop.NewInsertAfter(12, "[sic]")),
		must(editop.NewMoveBefore(4, 2, 1, editop.WithInputText("de"))),
		must(editop.NewMoveAfter(1, 3, 9)),
		must(editop.NewSwap(2, 1, 4, 3, editop.WithInputText("b"), editop.WithSecondInputText("def"))),
	}

	for _, op := range ops {
		parsed, err := editop.Parse(op.String())
		require.NoError(t, err, op.String())

		assert.Equal(t, editop.Describe(op), editop.Describe(parsed))
	}
}

func TestWithTags_Normalizes(t *testing.T) {
	t.Parallel()

	op := must(editop.NewDelete(1, 1, editop.WithTags("b", "", "a b", " c "), editop.WithTags("a")))

	assert.Equal(t, []string{"b", "a", "c"}, op.Tags())
}

func TestParseAll(t *testing.T) {
	t.Parallel()

	ops, err := editop.ParseAll([]string{"@1!", `@1+="x"`})
	require.NoError(t, err)
	require.Len(t, ops, 2)

	_, err = editop.ParseAll([]string{"@1!", "nope"})

	var scriptErr *editop.ScriptError
	require.ErrorAs(t, err, &scriptErr)
	assert.Equal(t, 1, scriptErr.Index)
	require.ErrorIs(t, err, editop.ErrSyntax)
}
