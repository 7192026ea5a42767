package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/template"

	"github.com/spf13/cobra"

	spec "github.com/nihei9/lilac/spec/grammar"
)

func init() {
	cmd := &cobra.Command{
		Use:     "describe [grammar file path]",
		Short:   "Print the sets and the conflicts of a grammar in readable format",
		Example: `  lilac describe grammar.txt`,
		Args:    cobra.MaximumNArgs(1),
		RunE:    runDescribe,
	}
	rootCmd.AddCommand(cmd)
}

func runDescribe(cmd *cobra.Command, args []string) error {
	_, report, err := compileGrammarArg(args)
	if err != nil {
		return err
	}
	return writeDescription(os.Stdout, report)
}

const descTemplate = `# Conflicts

{{ printConflictSummary . }}

# Terminals

{{ range .Terminals -}}
{{ printTerminal . }}
{{ end }}
# Productions

{{ range .Productions -}}
{{ printProduction . }}
{{ end }}
# Non-terminals

{{ range .NonTerminals -}}
{{ printNonTerminal . }}
{{ end }}
{{- if .Conflicts }}
# Conflict details

{{ range .Conflicts -}}
{{ printConflict . }}
{{ end }}
{{- end }}`

func writeDescription(w io.Writer, report *spec.Report) error {
	symbols := func(syms []int) string {
		if len(syms) == 0 {
			return "-"
		}
		s := make([]string, len(syms))
		for i, sym := range syms {
			s[i] = report.SymbolString(sym)
		}
		return strings.Join(s, " ")
	}

	fns := template.FuncMap{
		"printConflictSummary": func(report *spec.Report) string {
			switch count := len(report.Conflicts); {
			case count == 1:
				return "1 conflict was detected."
			case count > 1:
				return fmt.Sprintf("%v conflicts were detected.", count)
			}
			return "No conflict was detected."
		},
		"printTerminal": func(term *spec.Terminal) string {
			return fmt.Sprintf("%4v %v", term.Number, term.Name)
		},
		"printProduction": func(prod *spec.Production) string {
			return fmt.Sprintf("%4v %v\n     FIRST*: %v", prod.Number, report.ProductionString(prod), symbols(prod.FirstStar))
		},
		"printNonTerminal": func(nonTerm *spec.NonTerminal) string {
			var b strings.Builder
			fmt.Fprintf(&b, "%4v %v", nonTerm.Number, nonTerm.Name)
			if nonTerm.Nullable {
				fmt.Fprintf(&b, " (nullable)")
			}
			fmt.Fprintf(&b, "\n     FIRST:  %v", symbols(nonTerm.First))
			fmt.Fprintf(&b, "\n     FOLLOW: %v", symbols(nonTerm.Follow))
			return b.String()
		},
		"printConflict": func(con *spec.Conflict) string {
			prods := make([]string, len(con.Productions))
			for i, p := range con.Productions {
				prods[i] = fmt.Sprint(p)
			}
			return fmt.Sprintf("%v on %v: productions %v; adopted %v",
				report.SymbolString(-con.NonTerminal), report.SymbolString(con.Terminal), strings.Join(prods, ", "), con.AdoptedProduction)
		},
	}

	tmpl, err := template.New("").Funcs(fns).Parse(descTemplate)
	if err != nil {
		return err
	}

	return tmpl.Execute(w, report)
}
