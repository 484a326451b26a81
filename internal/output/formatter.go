package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/olekukonko/tablewriter"
	"gopkg.in/yaml.v3"

	"github.com/Layr-Labs/disputectl/internal/claims"
	"github.com/Layr-Labs/disputectl/internal/forms"
)

type Formatter struct {
	format string
	out    io.Writer
}

func NewFormatter(format string) *Formatter {
	return NewFormatterWithWriter(format, os.Stdout)
}

func NewFormatterWithWriter(format string, out io.Writer) *Formatter {
	if format == "" {
		format = "table"
	}
	return &Formatter{format: format, out: out}
}

func (f *Formatter) Format() string {
	return f.format
}

// AllowanceOutput is the machine readable form of the allowance view.
type AllowanceOutput struct {
	Account   string `json:"account" yaml:"account"`
	Allowance string `json:"allowance" yaml:"allowance"`
	Spender   string `json:"spender" yaml:"spender"`
}

func (f *Formatter) PrintClaim(claim *claims.Claim) error {
	if claim == nil {
		fmt.Fprintln(f.out, "No claim loaded")
		return nil
	}
	switch f.format {
	case "json":
		return f.printJSON(claim)
	case "yaml":
		return f.printYAML(claimYAML(claim))
	case "table":
		table := f.newTable([]string{"FIELD", "VALUE"})
		for _, row := range forms.ClaimInfo(claim) {
			table.Append([]string{row.Label, row.Value})
		}
		table.Render()
		return nil
	default:
		return fmt.Errorf("unsupported output format: %s", f.format)
	}
}

func (f *Formatter) PrintAllowance(data AllowanceOutput, view forms.Allowance) error {
	switch f.format {
	case "json":
		return f.printJSON(data)
	case "yaml":
		return f.printYAML(data)
	case "table":
		table := f.newTable([]string{"ACCOUNT", "SPENDER", "ALLOWANCE (MTH)"})
		table.Append([]string{data.Account, data.Spender, view.Display})
		table.Render()

		if view.ShowApproveInput {
			fmt.Fprintf(f.out, "\nNo allowance set. Run `disputectl allowance approve --tokens %d` to allow staking.\n", forms.DefaultApproveAmount)
		}
		if view.ShowClear {
			fmt.Fprintln(f.out, "\nRun `disputectl allowance clear` to revoke it.")
		}
		return nil
	default:
		return fmt.Errorf("unsupported output format: %s", f.format)
	}
}

func (f *Formatter) PrintPanels(panels forms.Panels) error {
	switch f.format {
	case "json":
		return f.printJSON(panels)
	case "yaml":
		return f.printYAML(panels)
	case "table":
		table := f.newTable([]string{"ACTION", "ENABLED"})
		table.Append([]string{"accept", enabled(panels.Accept && panels.AcceptAllowed)})
		table.Append([]string{"resolve", enabled(panels.Resolve)})
		table.Append([]string{"close", enabled(panels.Close)})
		table.Render()
		if panels.Accept && !panels.AcceptAllowed {
			fmt.Fprintln(f.out, "\nThe claim awaits acceptance but the allowance does not cover the requester's stake.")
		}
		return nil
	default:
		return fmt.Errorf("unsupported output format: %s", f.format)
	}
}

// Print formats and prints a flat map, used for contexts and settings.
func (f *Formatter) Print(data map[string]interface{}) error {
	switch f.format {
	case "json":
		return f.printJSON(data)
	case "yaml":
		return f.printYAML(data)
	case "table":
		keys := make([]string, 0, len(data))
		for k := range data {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		table := f.newTable([]string{"FIELD", "VALUE"})
		for _, k := range keys {
			table.Append([]string{k, fmt.Sprintf("%v", data[k])})
		}
		table.Render()
		return nil
	default:
		return fmt.Errorf("unsupported output format: %s", f.format)
	}
}

func (f *Formatter) newTable(header []string) *tablewriter.Table {
	table := tablewriter.NewWriter(f.out)
	table.SetHeader(header)
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(true)
	table.SetBorder(true)
	return table
}

func (f *Formatter) printJSON(data interface{}) error {
	encoder := json.NewEncoder(f.out)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

func (f *Formatter) printYAML(data interface{}) error {
	encoder := yaml.NewEncoder(f.out)
	defer func(encoder *yaml.Encoder) {
		if err := encoder.Close(); err != nil {
			fmt.Fprintf(f.out, "error closing output: %v\n\n", err)
		}
	}(encoder)
	return encoder.Encode(data)
}

// claimYAML goes through JSON so YAML output uses the same field names and
// value encodings.
func claimYAML(claim *claims.Claim) interface{} {
	raw, err := json.Marshal(claim)
	if err != nil {
		return claim
	}
	var m map[string]interface{}
	if err := json.Unmarshal(raw, &m); err != nil {
		return claim
	}
	return m
}

func enabled(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
