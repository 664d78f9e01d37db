package commands

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/autorest/internal/cli/output"
	"github.com/leapstack-labs/autorest/internal/server"
)

// NewSchemaCommand creates the schema command.
func NewSchemaCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "schema",
		Short: "Show the tables and columns that would be served",
		Long: `Connect to the target database, discover its schema with the configured
table filter and print every table with its columns and JSON types.`,
		Example: `  autorest schema
  autorest schema -o yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cc, cleanup, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			reg, err := cc.Engine.Discover(cmd.Context())
			if err != nil {
				return err
			}
			docs := server.Describe(reg)
			return cc.Renderer.Render(docs, func(w io.Writer) error {
				return renderSchemaText(w, docs)
			})
		},
	}
}

func renderSchemaText(w io.Writer, docs []server.TableDoc) error {
	if len(docs) == 0 {
		_, err := fmt.Fprintln(w, "No tables found.")
		return err
	}
	for i, doc := range docs {
		if i > 0 {
			_, _ = fmt.Fprintln(w)
		}
		_, _ = fmt.Fprintf(w, "%s (/api/%s)\n", doc.Name, doc.Name)

		rows := make([][]any, 0, len(doc.Columns))
		for _, c := range doc.Columns {
			def := ""
			if c.Default != nil {
				def = *c.Default
			}
			rows = append(rows, []any{c.Name, c.Type, c.JSONType, yesNo(c.Nullable), def})
		}
		output.Table(w, []string{"column", "type", "json", "nullable", "default"}, rows)
	}
	return nil
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
