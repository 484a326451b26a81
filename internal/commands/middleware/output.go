package middleware

import (
	"github.com/urfave/cli/v2"

	"github.com/Layr-Labs/disputectl/internal/output"
)

// OutputFormatter returns a formatter for the --output flag writing to the
// app's writer.
func OutputFormatter(c *cli.Context) *output.Formatter {
	return output.NewFormatterWithWriter(c.String("output"), c.App.Writer)
}
