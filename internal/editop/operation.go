// Package editop implements character-level edit operations: their data model,
// the compact edit DSL (e.g. `"abc"@2x3="XY" (typo) [ortho]`), execution against
// text, and a greedy diff that derives an operation script from two strings.
//
// Positions are 1-based and count UTF-16 code units.
package editop

import (
	"fmt"
	"slices"
	"strings"
)

// Operation represents a single edit. The set of implementations is closed:
// Replace, Delete, InsertBefore, InsertAfter, MoveBefore, MoveAfter and Swap.
// Operations are immutable values and safe for concurrent use.
type Operation interface {
	Kind() Kind
	// At returns the 1-based start of the primary span. InsertBefore and
	// InsertAfter use 0 as a boundary sentinel.
	At() int
	// Run returns the length of the primary span. Always 1 for inserts.
	Run() int
	// InputText returns the documentary copy of the primary span's original text.
	InputText() string
	Note() string
	Tags() []string

	// Execute applies the operation to input and returns the edited text.
	Execute(input string) (string, error)
	// String encodes the operation in the edit DSL.
	String() string
	// Validate checks the coordinate invariants of the operation.
	Validate() error

	meta() base
}

// base holds the fields shared by all variants.
type base struct {
	at        int
	run       int
	inputText string
	note      string
	tags      []string
}

func (b base) At() int { return b.at }

func (b base) Run() int { return b.run }

func (b base) InputText() string { return b.inputText }

func (b base) Note() string { return b.note }

func (b base) Tags() []string { return slices.Clone(b.tags) }

func (b base) meta() base { return b }

// end returns the exclusive, 1-based end of the primary span.
func (b base) end() int { return b.at + b.run }

func (b base) withoutInput() base {
	b.inputText = ""

	return b
}

// Option sets an optional field while constructing an operation.
type Option func(*options)

type options struct {
	inputText  string
	inputText2 string
	note       string
	tags       []string
}

// WithInputText records the original text of the primary span.
func WithInputText(text string) Option {
	return func(o *options) {
		o.inputText = text
	}
}

// WithSecondInputText records the original text of a swap's second span.
func WithSecondInputText(text string) Option {
	return func(o *options) {
		o.inputText2 = text
	}
}

// WithNote attaches a free-form note.
func WithNote(note string) Option {
	return func(o *options) {
		o.note = strings.TrimSpace(note)
	}
}

// WithTags appends tags. Tags containing whitespace are split, empty and
// duplicate tags are dropped, and the first-seen order is kept.
func WithTags(tags ...string) Option {
	return func(o *options) {
		o.tags = normalizeTags(append(o.tags, tags...))
	}
}

func normalizeTags(tags []string) []string {
	var out []string

	for _, tag := range tags {
		for _, field := range strings.Fields(tag) {
			if !slices.Contains(out, field) {
				out = append(out, field)
			}
		}
	}

	return out
}

func newBase(at, run int, opts []Option) (base, options) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	return base{
		at:        at,
		run:       run,
		inputText: o.inputText,
		note:      o.note,
		tags:      o.tags,
	}, o
}

// Replace replaces the span [at, at+run) with Text.
type Replace struct {
	base
	text string
}

// NewReplace creates a validated replace operation.
func NewReplace(at, run int, text string, opts ...Option) (Replace, error) {
	b, _ := newBase(at, run, opts)
	op := Replace{base: b, text: text}

	if err := op.Validate(); err != nil {
		return Replace{}, err
	}

	return op, nil
}

func (Replace) Kind() Kind { return KindReplace }

// Text returns the replacement text.
func (o Replace) Text() string { return o.text }

func (o Replace) Validate() error { return validateSpan(o.base) }

// Delete removes the span [at, at+run).
type Delete struct {
	base
}

// NewDelete creates a validated delete operation.
func NewDelete(at, run int, opts ...Option) (Delete, error) {
	b, _ := newBase(at, run, opts)
	op := Delete{base: b}

	if err := op.Validate(); err != nil {
		return Delete{}, err
	}

	return op, nil
}

func (Delete) Kind() Kind { return KindDelete }

func (o Delete) Validate() error { return validateSpan(o.base) }

// InsertBefore inserts Text before the character at position at.
// At 0 it prepends Text to the whole input.
type InsertBefore struct {
	base
	text string
}

// NewInsertBefore creates a validated insert-before operation.
func NewInsertBefore(at int, text string, opts ...Option) (InsertBefore, error) {
	b, _ := newBase(at, 1, opts)
	op := InsertBefore{base: b, text: text}

	if err := op.Validate(); err != nil {
		return InsertBefore{}, err
	}

	return op, nil
}

func (InsertBefore) Kind() Kind { return KindInsertBefore }

// Text returns the inserted text.
func (o InsertBefore) Text() string { return o.text }

func (o InsertBefore) Validate() error { return validateInsert(o.base) }

// InsertAfter inserts Text after the character at position at.
//
// At 0 it APPENDS Text to the whole input. This is the opposite boundary from
// InsertBefore's sentinel and is kept for compatibility with existing scripts.
type InsertAfter struct {
	base
	text string
}

// NewInsertAfter creates a validated insert-after operation.
func NewInsertAfter(at int, text string, opts ...Option) (InsertAfter, error) {
	b, _ := newBase(at, 1, opts)
	op := InsertAfter{base: b, text: text}

	if err := op.Validate(); err != nil {
		return InsertAfter{}, err
	}

	return op, nil
}

func (InsertAfter) Kind() Kind { return KindInsertAfter }

// Text returns the inserted text.
func (o InsertAfter) Text() string { return o.text }

func (o InsertAfter) Validate() error { return validateInsert(o.base) }

// MoveBefore moves the span [at, at+run) so that it precedes the character
// originally at position to.
type MoveBefore struct {
	base
	to int
}

// NewMoveBefore creates a validated move-before operation.
func NewMoveBefore(at, run, to int, opts ...Option) (MoveBefore, error) {
	b, _ := newBase(at, run, opts)
	op := MoveBefore{base: b, to: to}

	if err := op.Validate(); err != nil {
		return MoveBefore{}, err
	}

	return op, nil
}

func (MoveBefore) Kind() Kind { return KindMoveBefore }

// To returns the anchor position in original input coordinates.
func (o MoveBefore) To() int { return o.to }

func (o MoveBefore) Validate() error {
	if err := validateSpan(o.base); err != nil {
		return err
	}

	if o.to < 1 {
		return invalidf("move target must be at least 1, got %d", o.to)
	}

	if o.at < o.to && o.to < o.end() {
		return invalidf("move target %d lies inside the moved span @%dx%d", o.to, o.at, o.run)
	}

	return nil
}

// MoveAfter moves the span [at, at+run) so that it follows the character
// originally at position to.
type MoveAfter struct {
	base
	to int
}

// NewMoveAfter creates a validated move-after operation.
func NewMoveAfter(at, run, to int, opts ...Option) (MoveAfter, error) {
	b, _ := newBase(at, run, opts)
	op := MoveAfter{base: b, to: to}

	if err := op.Validate(); err != nil {
		return MoveAfter{}, err
	}

	return op, nil
}

func (MoveAfter) Kind() Kind { return KindMoveAfter }

// To returns the anchor position in original input coordinates.
func (o MoveAfter) To() int { return o.to }

func (o MoveAfter) Validate() error {
	if err := validateSpan(o.base); err != nil {
		return err
	}

	if o.to < 1 {
		return invalidf("move target must be at least 1, got %d", o.to)
	}

	// Anchoring after the span's own last character is a no-op, not an overlap.
	if o.at <= o.to && o.to < o.end()-1 {
		return invalidf("move target %d lies inside the moved span @%dx%d", o.to, o.at, o.run)
	}

	return nil
}

// Swap exchanges the spans [at, at+run) and [to, to+toRun).
type Swap struct {
	base
	to         int
	toRun      int
	inputText2 string
}

// NewSwap creates a validated swap operation.
func NewSwap(at, run, to, toRun int, opts ...Option) (Swap, error) {
	b, o := newBase(at, run, opts)
	op := Swap{base: b, to: to, toRun: toRun, inputText2: o.inputText2}

	if err := op.Validate(); err != nil {
		return Swap{}, err
	}

	return op, nil
}

func (Swap) Kind() Kind { return KindSwap }

// To returns the start of the second span.
func (o Swap) To() int { return o.to }

// ToRun returns the length of the second span.
func (o Swap) ToRun() int { return o.toRun }

// InputText2 returns the documentary copy of the second span's original text.
func (o Swap) InputText2() string { return o.inputText2 }

func (o Swap) Validate() error {
	if err := validateSpan(o.base); err != nil {
		return err
	}

	if err := validateSpan(base{at: o.to, run: o.toRun}); err != nil {
		return err
	}

	if o.overlaps() {
		return fmt.Errorf("%w: %w: @%dx%d and @%dx%d", ErrInvalidOperation, ErrOverlappingSpans, o.at, o.run, o.to, o.toRun)
	}

	return nil
}

func (o Swap) overlaps() bool {
	return o.at < o.to+o.toRun && o.to < o.end()
}

func validateSpan(b base) error {
	if b.at < 1 {
		return invalidf("position must be at least 1, got %d", b.at)
	}

	if b.run < 1 {
		return invalidf("length must be at least 1, got %d", b.run)
	}

	return nil
}

func validateInsert(b base) error {
	if b.at < 0 {
		return invalidf("insert position must not be negative, got %d", b.at)
	}

	return nil
}

// Ensure every variant implements Operation.
var (
	_ Operation = Replace{}
	_ Operation = Delete{}
	_ Operation = InsertBefore{}
	_ Operation = InsertAfter{}
	_ Operation = MoveBefore{}
	_ Operation = MoveAfter{}
	_ Operation = Swap{}
)
