// orizon-autodiff inspects differentiation parameter selections:
// it loads a function signature description from YAML, applies a
// selection, and prints the canonical selection string, the selected
// parameter types, and the lowered (tuple-exploded) parameter mask.
// Flags:
//
//	-sig        signature description file (YAML).
//	-select     canonical selection string ([FM][SU]+).
//	-all        select every parameter (including self for methods).
//	-uncurried  treat the signature as self-uncurried: (P..., Self) -> R.
//	-offsets    print the derivative table offsets for orders 1..N.
//	-watch      re-run whenever the signature file changes.
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/fsnotify/fsnotify"
	"gopkg.in/yaml.v3"

	"github.com/orizon-lang/orizon-autodiff/internal/autodiff"
	"github.com/orizon-lang/orizon-autodiff/internal/types"
)

// signatureFile is the YAML description of a function signature.
// Each parameter is either a type name or a nested list for a tuple:
//
//	self: true
//	params:
//	  - A
//	  - [B, C]
//	  - D
//	result: R
type signatureFile struct {
	Params []yaml.Node `yaml:"params"`
	Result string      `yaml:"result"`
	Self   bool        `yaml:"self"`
}

func main() {
	var (
		sigPath   string
		selection string
		selectAll bool
		uncurried bool
		offsets   int
		watch     bool
	)

	flag.StringVar(&sigPath, "sig", "", "signature description file (YAML)")
	flag.StringVar(&selection, "select", "", "canonical selection string ([FM][SU]+)")
	flag.BoolVar(&selectAll, "all", false, "select every parameter")
	flag.BoolVar(&uncurried, "uncurried", false, "treat the signature as self-uncurried")
	flag.IntVar(&offsets, "offsets", 0, "print derivative table offsets for orders 1..N")
	flag.BoolVar(&watch, "watch", false, "re-run when the signature file changes")
	flag.Parse()

	if offsets > 0 {
		printOffsetTable(offsets)
	}

	if sigPath == "" {
		if offsets > 0 {
			return
		}

		fmt.Fprintln(os.Stderr, "orizon-autodiff: -sig is required (see -h)")
		os.Exit(1)
	}

	if err := run(sigPath, selection, selectAll, uncurried); err != nil {
		fmt.Fprintf(os.Stderr, "orizon-autodiff: %v\n", err)
		os.Exit(1)
	}

	if watch {
		if err := watchAndRerun(sigPath, selection, selectAll, uncurried); err != nil {
			fmt.Fprintf(os.Stderr, "orizon-autodiff: %v\n", err)
			os.Exit(1)
		}
	}
}

func run(sigPath, selection string, selectAll, uncurried bool) error {
	fn, err := loadSignature(sigPath, uncurried)
	if err != nil {
		return err
	}

	ctx := autodiff.NewContext()

	set, err := buildSelection(ctx, fn, selection, selectAll, uncurried)
	if err != nil {
		return err
	}

	fmt.Printf("signature: %s\n", fn)
	fmt.Printf("selection: %s\n", set)

	subset := set.SubsetParameterTypes(fn, uncurried)
	names := make([]string, len(subset))
	for i, t := range subset {
		names[i] = t.String()
	}

	fmt.Printf("selected:  [%s]\n", strings.Join(names, ", "))
	fmt.Printf("lowered:   %s\n", set.Lower(fn, uncurried))

	return nil
}

// loadSignature reads and converts a YAML signature description. With
// uncurried set, a self signature is built flat as (P..., Self) -> R;
// otherwise it is built curried as (Self) -> (P...) -> R.
func loadSignature(path string, uncurried bool) (*types.Function, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var sig signatureFile
	if err := yaml.Unmarshal(data, &sig); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	if len(sig.Params) == 0 {
		return nil, fmt.Errorf("%s: signature has no parameters", path)
	}

	if sig.Result == "" {
		sig.Result = "R"
	}

	params := make([]types.Type, len(sig.Params))
	for i := range sig.Params {
		t, err := convertTypeNode(&sig.Params[i])
		if err != nil {
			return nil, fmt.Errorf("%s: param %d: %w", path, i, err)
		}

		params[i] = t
	}

	result := types.Named(sig.Result)

	if !sig.Self {
		return types.NewFunction(params, result), nil
	}

	if uncurried {
		return types.UncurriedMethodType(params, types.Named("Self"), result), nil
	}

	return types.MethodType(types.Named("Self"), types.NewFunction(params, result)), nil
}

func convertTypeNode(node *yaml.Node) (types.Type, error) {
	switch node.Kind {
	case yaml.ScalarNode:
		if node.Value == "" {
			return nil, fmt.Errorf("empty type name")
		}

		return types.Named(node.Value), nil
	case yaml.SequenceNode:
		elems := make([]types.Type, len(node.Content))

		for i, child := range node.Content {
			e, err := convertTypeNode(child)
			if err != nil {
				return nil, err
			}

			elems[i] = e
		}

		return types.NewTuple(elems...), nil
	default:
		return nil, fmt.Errorf("unsupported YAML node for a type (line %d)", node.Line)
	}
}

// buildSelection turns the flags into a parameter index set sized for
// fn. Exactly one of -select and -all must be given.
func buildSelection(
	ctx *autodiff.Context, fn *types.Function, selection string, selectAll, uncurried bool,
) (*autodiff.ParameterIndexSet, error) {
	if selectAll == (selection != "") {
		return nil, fmt.Errorf("give exactly one of -select and -all")
	}

	bitCount := fn.NumParams()
	if fn.HasSelfParam && !uncurried {
		inner, ok := fn.Result().(*types.Function)
		if !ok {
			return nil, fmt.Errorf("curried method result is not a function type")
		}

		bitCount = inner.NumParams() + 1
	}

	if selectAll {
		tag := "F"
		if fn.HasSelfParam {
			tag = "M"
		}

		selection = tag + strings.Repeat("S", bitCount)
	}

	set, ok := ctx.ParseParameterIndexSet(selection)
	if !ok {
		return nil, fmt.Errorf("malformed selection string %q", selection)
	}

	if set.IsMethod() != fn.HasSelfParam {
		return nil, fmt.Errorf("selection %q does not match the signature's receiver", selection)
	}

	if set.Bits().Len() != bitCount {
		return nil, fmt.Errorf("selection %q has %d bits, signature needs %d",
			selection, set.Bits().Len(), bitCount)
	}

	return set, nil
}

func printOffsetTable(maxOrder int) {
	fmt.Println("order  kind  offset")

	for order := uint(1); order <= uint(maxOrder); order++ {
		for _, kind := range []autodiff.AssociatedFunctionKind{autodiff.JVP, autodiff.VJP} {
			fmt.Printf("%5d  %s   %6d\n", order, kind, autodiff.AssociatedFunctionOffset(order, kind))
		}
	}
}

// watchAndRerun re-runs the inspection whenever the signature file is
// rewritten. Editors that replace the file are covered by watching for
// create events as well.
func watchAndRerun(sigPath, selection string, selectAll, uncurried bool) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	if err := w.Add(sigPath); err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "watching %s\n", sigPath)

	for {
		select {
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}

			if ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}

			fmt.Println()

			if err := run(sigPath, selection, selectAll, uncurried); err != nil {
				fmt.Fprintf(os.Stderr, "orizon-autodiff: %v\n", err)
			}
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}

			fmt.Fprintf(os.Stderr, "orizon-autodiff: watch: %v\n", err)
		}
	}
}
