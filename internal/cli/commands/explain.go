package commands

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/autorest/internal/engine"
	"github.com/leapstack-labs/autorest/pkg/core"
	"github.com/leapstack-labs/autorest/pkg/query"
)

// ExplainResult is the statement a request would run.
type ExplainResult struct {
	Method string `json:"method" yaml:"method"`
	Table  string `json:"table" yaml:"table"`
	SQL    string `json:"sql" yaml:"sql"`
	Args   []any  `json:"args" yaml:"args"`
	Inline string `json:"inline" yaml:"inline"`
}

// NewExplainCommand creates the explain command.
func NewExplainCommand() *cobra.Command {
	var body string

	cmd := &cobra.Command{
		Use:   "explain <method> <table> [key=value ...]",
		Short: "Print the SQL a request would run, without running it",
		Long: `Build the statement for a request against the discovered schema and print
it with its bind arguments. Nothing is executed.

Each key=value argument is a query parameter, exactly as it would appear in
the request URL.`,
		Example: `  autorest explain GET users select=id,name age=gte.18 order=name.desc limit=10
  autorest explain PATCH users id=eq.3 --body '{"name": "bo"}'`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			method, ok := core.ParseMethod(args[0])
			if !ok {
				return fmt.Errorf("unsupported method %q, expected GET, POST, PUT, PATCH or DELETE", args[0])
			}
			params, err := parseParams(args[2:])
			if err != nil {
				return err
			}

			cc, cleanup, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			if _, err := cc.Engine.Discover(cmd.Context()); err != nil {
				return err
			}

			st, err := cc.Engine.Explain(engine.Request{
				Method: method,
				Table:  args[1],
				Params: params,
				Body:   body,
			})
			if err != nil {
				return err
			}

			res := ExplainResult{
				Method: method.String(),
				Table:  st.Table.Name,
				SQL:    st.SQL,
				Args:   st.Args,
				Inline: st.Inline(),
			}
			if res.Args == nil {
				res.Args = []any{}
			}
			return cc.Renderer.Render(res, func(w io.Writer) error {
				return renderExplainText(w, res)
			})
		},
	}

	cmd.Flags().StringVar(&body, "body", "", "JSON object body for POST, PUT and PATCH")

	return cmd
}

// parseParams turns key=value arguments into query parameters.
func parseParams(args []string) (query.Params, error) {
	params := make(query.Params, len(args))
	for _, arg := range args {
		k, v, ok := strings.Cut(arg, "=")
		if !ok || k == "" {
			return nil, fmt.Errorf("invalid parameter %q, expected key=value", arg)
		}
		params[k] = v
	}
	return params, nil
}

func renderExplainText(w io.Writer, res ExplainResult) error {
	_, _ = fmt.Fprintf(w, "SQL:    %s\n", res.SQL)
	if len(res.Args) > 0 {
		parts := make([]string, len(res.Args))
		for i, a := range res.Args {
			parts[i] = fmt.Sprintf("$%d=%v", i+1, a)
		}
		_, _ = fmt.Fprintf(w, "Args:   %s\n", strings.Join(parts, " "))
	}
	_, err := fmt.Fprintf(w, "Inline: %s\n", res.Inline)
	return err
}
