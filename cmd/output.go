package cmd

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/serroba/editops/internal/editop"
	"gopkg.in/yaml.v3"
)

const (
	formatText = "text"
	formatJSON = "json"
	formatYAML = "yaml"
)

var errUnknownFormat = errors.New("unknown output format")

// writeStructured writes v as JSON or YAML. It reports false for the text format.
func writeStructured(w io.Writer, format string, v any) (bool, error) {
	switch format {
	case formatText:
		return false, nil
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")

		return true, enc.Encode(v)
	case formatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)

		if err := enc.Encode(v); err != nil {
			return true, err
		}

		return true, enc.Close()
	default:
		return true, fmt.Errorf("%w %q (want text, json or yaml)", errUnknownFormat, format)
	}
}

// renderOperationTable renders ops as an aligned table.
func renderOperationTable(w io.Writer, ops []editop.Operation) error {
	var tableBuffer bytes.Buffer

	table := tablewriter.NewWriter(&tableBuffer)
	table.SetHeader([]string{"#", "Type", "At", "Run", "Operation"})
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetAutoWrapText(false)
	table.SetColumnAlignment([]int{
		tablewriter.ALIGN_RIGHT,
		tablewriter.ALIGN_LEFT,
		tablewriter.ALIGN_RIGHT,
		tablewriter.ALIGN_RIGHT,
		tablewriter.ALIGN_LEFT,
	})

	for i, op := range ops {
		table.Append([]string{
			strconv.Itoa(i + 1),
			op.Kind().String(),
			strconv.Itoa(op.At()),
			strconv.Itoa(op.Run()),
			op.String(),
		})
	}

	table.Render()

	_, err := w.Write(tableBuffer.Bytes())

	return err
}
