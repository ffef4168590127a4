package editop

import (
	"strconv"
	"strings"
)

func (o Replace) String() string {
	return formatInput(o.inputText) + formatCoord(o.at, o.run) + "=" + formatQuoted(o.text) + formatAnnotation(o.base)
}

func (o Delete) String() string {
	return formatInput(o.inputText) + formatCoord(o.at, o.run) + "!" + formatAnnotation(o.base)
}

func (o InsertBefore) String() string {
	return formatCoord(o.at, 1) + "+=" + formatQuoted(o.text) + formatAnnotation(o.base)
}

func (o InsertAfter) String() string {
	return formatCoord(o.at, 1) + "=+" + formatQuoted(o.text) + formatAnnotation(o.base)
}

func (o MoveBefore) String() string {
	return formatInput(o.inputText) + formatCoord(o.at, o.run) + ">" + formatCoord(o.to, 1) + formatAnnotation(o.base)
}

func (o MoveAfter) String() string {
	return formatInput(o.inputText) + formatCoord(o.at, o.run) + "->" + formatCoord(o.to, 1) + formatAnnotation(o.base)
}

func (o Swap) String() string {
	return formatInput(o.inputText) + formatCoord(o.at, o.run) + "<>" +
		formatInput(o.inputText2) + formatCoord(o.to, o.toRun) + formatAnnotation(o.base)
}

// formatCoord writes @POS, or @POSxLEN when the length is not 1.
func formatCoord(at, run int) string {
	if run == 1 {
		return "@" + strconv.Itoa(at)
	}

	return "@" + strconv.Itoa(at) + "x" + strconv.Itoa(run)
}

func formatInput(text string) string {
	if text == "" {
		return ""
	}

	return formatQuoted(text)
}

var quoteEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`)

func formatQuoted(text string) string {
	return `"` + quoteEscaper.Replace(text) + `"`
}

// formatAnnotation writes " (note)" then " [tag tag]", skipping empty parts.
func formatAnnotation(b base) string {
	var sb strings.Builder

	if b.note != "" {
		sb.WriteString(" (" + b.note + ")")
	}

	if len(b.tags) > 0 {
		sb.WriteString(" [" + strings.Join(b.tags, " ") + "]")
	}

	return sb.String()
}
