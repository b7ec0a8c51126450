// Command exprdsl is a developer tool for the content expression language:
// it parses expressions to JSON ASTs, reports their external references, and
// evaluates them against a Context loaded from a YAML file.
package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"
	"github.com/goccy/go-yaml"

	"github.com/coursekit/exprdsl/pkg/evaluator"
	"github.com/coursekit/exprdsl/pkg/ext"
	"github.com/coursekit/exprdsl/pkg/functions"
	"github.com/coursekit/exprdsl/pkg/parser"
	"github.com/coursekit/exprdsl/pkg/refs"
	"github.com/coursekit/exprdsl/pkg/types"
)

// CLI is the top-level command-line interface.
type CLI struct {
	Debug bool `help:"Enable debug logging." short:"d"`

	Parse ParseCmd `cmd:"" help:"Parse an expression and print its AST as JSON."`
	Refs  RefsCmd  `cmd:"" help:"Print the external references of an expression or prose text."`
	Eval  EvalCmd  `cmd:"" help:"Evaluate an expression against a YAML context file."`
	Fns   FnsCmd   `cmd:"" help:"List the registered function names."`
}

// ParseCmd parses a single expression and dumps the AST.
type ParseCmd struct {
	Expression string `arg:"" help:"Expression source text."`
}

// Run executes the parse command.
func (c *ParseCmd) Run() error {
	expr, err := parser.Parse(c.Expression)
	if err != nil {
		return err
	}
	return printJSON(expr.AST())
}

// RefsCmd reports the partitioned reference set of an expression, or of
// every {{ expression }} span in a prose file.
type RefsCmd struct {
	Expression string `arg:"" optional:"" help:"Expression source text."`
	Text       string `help:"Prose file to scan for {{ expression }} spans." type:"existingfile" xor:"input"`
}

// Run executes the refs command.
func (c *RefsCmd) Run() error {
	var out types.References
	switch {
	case c.Text != "":
		data, err := os.ReadFile(c.Text)
		if err != nil {
			return err
		}
		out = refs.ExtractInterpolationRefs(string(data))
	case c.Expression != "":
		out = refs.ExtractStructuredRefs(c.Expression)
	default:
		return fmt.Errorf("an expression argument or --text file is required")
	}
	return printJSON(struct {
		ComponentState []types.ComponentStateRef `json:"componentState"`
		OLXContent     []types.ContentRef        `json:"olxContent"`
		GlobalVars     []types.GlobalRef         `json:"globalVar"`
	}{out.ComponentState, out.OLXContent, out.GlobalVars})
}

// EvalCmd evaluates an expression against a Context loaded from YAML.
type EvalCmd struct {
	Expression string `arg:"" help:"Expression source text."`
	Context    string `help:"YAML file with componentState/olxContent/globalVar maps." short:"c" type:"existingfile"`
}

// contextFile is the YAML shape of a context file.
type contextFile struct {
	ComponentState map[string]any `yaml:"componentState"`
	OLXContent     map[string]any `yaml:"olxContent"`
	GlobalVars     map[string]any `yaml:"globalVar"`
}

// Run executes the eval command with all extension functions registered.
func (c *EvalCmd) Run() error {
	var ctx types.Context
	if c.Context != "" {
		data, err := os.ReadFile(c.Context)
		if err != nil {
			return err
		}
		var file contextFile
		if err := yaml.Unmarshal(data, &file); err != nil {
			return fmt.Errorf("loading context: %w", err)
		}
		ctx = types.Context{
			ComponentState: file.ComponentState,
			OLXContent:     file.OLXContent,
			GlobalVars:     file.GlobalVars,
		}
	}

	expr, err := parser.Parse(c.Expression)
	if err != nil {
		return err
	}

	reg := functions.NewRegistry()
	ext.RegisterAll(reg)
	result, err := evaluator.New(evaluator.WithRegistry(reg)).Eval(expr, &ctx)
	if err != nil {
		return err
	}
	return printJSON(result)
}

// FnsCmd lists the callable names available to expressions.
type FnsCmd struct{}

// Run executes the fns command.
func (c *FnsCmd) Run() error {
	reg := functions.NewRegistry()
	ext.RegisterAll(reg)
	names := append([]string{"wordCount"}, reg.Names()...)
	return printJSON(names)
}

func printJSON(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}

func main() {
	var cli CLI
	ktx := kong.Parse(&cli,
		kong.Name("exprdsl"),
		kong.Description("Parse, inspect and evaluate content expressions."),
		kong.UsageOnError(),
	)

	level := slog.LevelWarn
	if cli.Debug {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	ktx.FatalIfErrorf(ktx.Run())
}
