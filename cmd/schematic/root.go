package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/reoring/schematic"
	"github.com/reoring/schematic/catalog"
	"github.com/reoring/schematic/i18n"
)

// errInvalid signals that issues were already reported.
var errInvalid = errors.New("input is invalid")

type options struct {
	catalog  string
	typeName string
	collect  bool
	recovery string
	maxDepth int
	lang     string
	verbose  bool
	noColor  bool
}

func newRootCmd() *cobra.Command {
	opts := &options{}
	root := &cobra.Command{
		Use:           "schematic",
		Short:         "Validate and normalize documents against a schematic type catalog",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			if opts.noColor || !isatty.IsTerminal(os.Stdout.Fd()) {
				color.NoColor = true
			}
			i18n.SetLanguage(opts.lang)
		},
	}
	pf := root.PersistentFlags()
	pf.StringVarP(&opts.catalog, "catalog", "c", "", "path to the YAML type catalog")
	pf.BoolVarP(&opts.verbose, "verbose", "v", false, "log registration events")
	pf.BoolVar(&opts.noColor, "no-color", false, "disable colored output")
	pf.StringVar(&opts.lang, "lang", "en", "message language (en, ja)")
	_ = root.MarkPersistentFlagRequired("catalog")

	root.AddCommand(newValidateCmd(opts), newNormalizeCmd(opts), newTypesCmd(opts))
	return root
}

func addInputFlags(cmd *cobra.Command, opts *options) {
	f := cmd.Flags()
	f.StringVarP(&opts.typeName, "type", "t", "", "registered type of the document root")
	f.BoolVar(&opts.collect, "collect", false, "report every issue instead of stopping at the first")
	f.StringVar(&opts.recovery, "recovery", "undefined", "recovery value in collect mode (value, null, undefined)")
	f.IntVar(&opts.maxDepth, "max-depth", 0, "maximum nesting depth of JSON input (0 = unlimited)")
	_ = cmd.MarkFlagRequired("type")
}

func newValidateCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate [file|-]",
		Short: "Materialize a document and report schema issues",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, issues, err := run(cmd, opts, args)
			if err != nil {
				return err
			}
			if len(issues) > 0 {
				printIssues(cmd.ErrOrStderr(), issues)
				return errInvalid
			}
			fmt.Fprintln(cmd.OutOrStdout(), color.GreenString("ok"))
			return nil
		},
	}
	addInputFlags(cmd, opts)
	return cmd
}

func newNormalizeCmd(opts *options) *cobra.Command {
	var indent string
	cmd := &cobra.Command{
		Use:   "normalize [file|-]",
		Short: "Print the materialized document as JSON",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			inst, issues, err := run(cmd, opts, args)
			if err != nil {
				return err
			}
			if len(issues) > 0 {
				printIssues(cmd.ErrOrStderr(), issues)
				if !opts.collect {
					return errInvalid
				}
			}
			out, err := schematic.EncodeJSON(inst, indent)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(out))
			if len(issues) > 0 {
				return errInvalid
			}
			return nil
		},
	}
	addInputFlags(cmd, opts)
	cmd.Flags().StringVar(&indent, "indent", "  ", "indentation; empty for compact output")
	return cmd
}

func newTypesCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "types",
		Short: "List the registered types of the catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			scope, err := openCatalog(cmd, opts)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			for _, name := range scope.Names() {
				d, _ := scope.Lookup(name)
				var traits []string
				switch {
				case d.IsLeaf():
					traits = append(traits, "leaf")
				default:
					traits = append(traits, strings.Join(d.Keys(), ","))
				}
				if kt, ok := d.KeyType(); ok {
					traits = append(traits, "keys:"+kt)
				}
				if !d.PreservePropertyOrder() {
					traits = append(traits, "normalized")
				}
				fmt.Fprintf(w, "%s\t%s\n", color.CyanString(name), strings.Join(traits, " "))
			}
			return nil
		},
	}
}

func openCatalog(cmd *cobra.Command, opts *options) (*schematic.Scope, error) {
	data, err := os.ReadFile(opts.catalog)
	if err != nil {
		return nil, err
	}
	level := zerolog.WarnLevel
	if opts.verbose {
		level = zerolog.DebugLevel
	}
	log := zerolog.New(zerolog.ConsoleWriter{Out: cmd.ErrOrStderr(), NoColor: color.NoColor}).
		Level(level).With().Timestamp().Logger()
	return catalog.Open(data, schematic.ScopeOpt{Logger: &log})
}

func run(cmd *cobra.Command, opts *options, args []string) (*schematic.Instance, schematic.Issues, error) {
	scope, err := openCatalog(cmd, opts)
	if err != nil {
		return nil, nil, err
	}
	d, ok := scope.Lookup(opts.typeName)
	if !ok {
		return nil, nil, fmt.Errorf("type %q is not registered in %s", opts.typeName, opts.catalog)
	}
	input, err := readInput(cmd.InOrStdin(), args, opts.maxDepth)
	if err != nil {
		return nil, nil, err
	}
	if opts.collect {
		ctx := schematic.Collect(schematic.ParseRecovery(opts.recovery))
		inst, _ := d.New(input, ctx)
		return inst, ctx.Issues(), nil
	}
	inst, err := d.New(input)
	if iss, ok := schematic.AsIssues(err); ok {
		return nil, iss, nil
	}
	return inst, nil, err
}

func readInput(stdin io.Reader, args []string, maxDepth int) (any, error) {
	name := "-"
	if len(args) > 0 {
		name = args[0]
	}
	var data []byte
	var err error
	if name == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(name)
	}
	if err != nil {
		return nil, err
	}
	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml":
		return schematic.DecodeYAML(data)
	}
	return schematic.DecodeJSON(data, schematic.DecodeOpt{MaxDepth: maxDepth})
}

func printIssues(w io.Writer, issues schematic.Issues) {
	for _, it := range issues {
		path := "-"
		if it.Path != nil {
			path = it.Path.String()
		}
		line := fmt.Sprintf("%s %s", color.YellowString(path), color.RedString(i18n.T(it.Message, map[string]string{"type": it.Type})))
		if it.Key != nil {
			line += fmt.Sprintf(" (key %q)", *it.Key)
		}
		fmt.Fprintln(w, line)
	}
}
