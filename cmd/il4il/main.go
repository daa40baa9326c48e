package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/il4il/il4il-go/capi"
	"github.com/il4il/il4il-go/disasm"
	"github.com/il4il/il4il-go/il4il"
)

func main() {
	var (
		create      = flag.Bool("new", false, "Create a new module")
		name        = flag.String("name", "", "Module name for -new")
		imports     = flag.String("imports", "", "Module imports for -new (comma-separated)")
		out         = flag.String("o", "", "Output path for -new")
		dump        = flag.String("dump", "", "Disassemble a module file")
		validate    = flag.String("validate", "", "Validate a module file")
		interactive = flag.String("i", "", "Browse a module file interactively")
		verbose     = flag.Bool("v", false, "Enable debug logging")
	)
	flag.Parse()

	logger := zap.NewNop()
	if *verbose {
		l, err := zap.NewDevelopment()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		logger = l
		capi.SetLogger(l)
	}
	defer logger.Sync()

	var err error
	switch {
	case *create:
		err = runCreate(logger, *name, *imports, *out)
	case *dump != "":
		err = runDump(logger, *dump)
	case *validate != "":
		err = runValidate(logger, *validate)
	case *interactive != "":
		err = runInteractive(*interactive)
	default:
		fmt.Fprintln(os.Stderr, "Usage: il4il -new -name <name> -o <file.il4il>")
		fmt.Fprintln(os.Stderr, "       il4il -dump <file.il4il>")
		fmt.Fprintln(os.Stderr, "       il4il -validate <file.il4il>")
		fmt.Fprintln(os.Stderr, "       il4il -i <file.il4il>  (interactive browser)")
		os.Exit(1)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runCreate(logger *zap.Logger, name, imports, out string) error {
	if name == "" || out == "" {
		return fmt.Errorf("-new requires -name and -o")
	}

	m := il4il.NewModule()
	id, err := il4il.NewIdentifier(name)
	if err != nil {
		return err
	}
	if err := m.AddMetadataName(id); err != nil {
		return err
	}

	if imports != "" {
		var names []il4il.ModuleName
		for _, dep := range strings.Split(imports, ",") {
			depID, err := il4il.NewIdentifier(strings.TrimSpace(dep))
			if err != nil {
				return err
			}
			names = append(names, il4il.ModuleName{Name: depID})
		}
		if err := m.AddModuleImport(names...); err != nil {
			return err
		}
	}

	if err := m.WriteFile(out); err != nil {
		return err
	}
	logger.Debug("module written", zap.String("name", name), zap.String("path", out))
	fmt.Printf("wrote %s\n", out)
	return nil
}

func runDump(logger *zap.Logger, path string) error {
	m, err := il4il.ReadModuleFile(path)
	if err != nil {
		return err
	}
	logger.Debug("module decoded", zap.String("path", path))
	return disasm.Fprint(os.Stdout, m)
}

func runValidate(logger *zap.Logger, path string) error {
	m, err := il4il.ReadModuleFile(path)
	if err != nil {
		return err
	}
	browser, err := m.Validate()
	if err != nil {
		return err
	}
	logger.Debug("module validated", zap.String("path", path),
		zap.Int("metadata", browser.MetadataCount()))
	if name, ok := browser.Name(); ok {
		fmt.Printf("%s: valid module %q, %d metadata entries\n", path, name, browser.MetadataCount())
	} else {
		fmt.Printf("%s: valid unnamed module, %d metadata entries\n", path, browser.MetadataCount())
	}
	return nil
}
