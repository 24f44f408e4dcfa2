// symtabctl inspects and builds shared symbol table snapshots for use with
// the catalog package's manifest-backed catalog.
//
// Usage:
//   symtabctl dump -in table.cbor
//   symtabctl promote -name greek -version 1 -out greek.cbor symbol...
//   symtabctl check-import -manifest catalog.toml -name greek -version 1
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/chazu/symtab/catalog"
	"github.com/chazu/symtab/symtab"
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: symtabctl <command> [options]\n\n")
		fmt.Fprintf(os.Stderr, "Commands:\n")
		fmt.Fprintf(os.Stderr, "  dump          print a snapshot's symbols to stdout\n")
		fmt.Fprintf(os.Stderr, "  promote       build a shared table snapshot from a list of symbols\n")
		fmt.Fprintf(os.Stderr, "  check-import  verify a manifest can resolve a given (name, version)\n")
	}

	if len(os.Args) < 2 {
		flag.Usage()
		os.Exit(1)
	}

	var err error
	switch os.Args[1] {
	case "dump":
		err = runDump(os.Args[2:])
	case "promote":
		err = runPromote(os.Args[2:])
	case "check-import":
		err = runCheckImport(os.Args[2:])
	default:
		fmt.Fprintf(os.Stderr, "symtabctl: unknown command %q\n", os.Args[1])
		flag.Usage()
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "symtabctl: %v\n", err)
		os.Exit(1)
	}
}

func runDump(args []string) error {
	fs := flag.NewFlagSet("dump", flag.ExitOnError)
	in := fs.String("in", "", "snapshot file to dump")
	fs.Parse(args)

	if *in == "" {
		return fmt.Errorf("dump: -in is required")
	}
	t, err := catalog.LoadSnapshot(*in)
	if err != nil {
		return err
	}

	fmt.Printf("%s version %d, max_id=%d\n", t.Name(), t.Version(), t.MaxID())
	for sid := 1; sid <= t.MaxID(); sid++ {
		if text, ok := t.FindKnownText(sid); ok {
			fmt.Printf("  $%d = %q\n", sid, text)
		} else {
			fmt.Printf("  $%d = <unknown>\n", sid)
		}
	}
	return nil
}

func runPromote(args []string) error {
	fs := flag.NewFlagSet("promote", flag.ExitOnError)
	name := fs.String("name", "", "name of the resulting shared table")
	version := fs.Int("version", 1, "version of the resulting shared table")
	out := fs.String("out", "", "output snapshot path")
	fs.Parse(args)

	symbols := fs.Args()
	if *name == "" || *out == "" || len(symbols) == 0 {
		return fmt.Errorf("promote: -name, -out, and at least one symbol are required")
	}

	local := symtab.NewLocalTable(symtab.SystemTable())
	for _, s := range symbols {
		if _, err := local.AddSymbol(s); err != nil {
			return fmt.Errorf("adding %q: %w", s, err)
		}
	}
	shared, err := local.PromoteToShared(*name, *version)
	if err != nil {
		return fmt.Errorf("promote: %w", err)
	}
	if err := catalog.SaveSnapshot(shared, *out); err != nil {
		return err
	}
	fmt.Printf("wrote %s (%d symbols)\n", *out, shared.MaxID())
	return nil
}

func runCheckImport(args []string) error {
	fs := flag.NewFlagSet("check-import", flag.ExitOnError)
	manifestPath := fs.String("manifest", "", "catalog manifest TOML file")
	name := fs.String("name", "", "table name to resolve")
	version := fs.Int("version", 1, "requested table version")
	fs.Parse(args)

	if *manifestPath == "" || *name == "" {
		return fmt.Errorf("check-import: -manifest and -name are required")
	}

	m, err := catalog.LoadManifest(*manifestPath)
	if err != nil {
		return err
	}
	cat := catalog.NewManifestCatalog(m)

	t, ok := cat.GetTable(*name, *version)
	if !ok {
		return fmt.Errorf("no entry resolves %q version %d", *name, *version)
	}
	if t.Version() != *version {
		fmt.Printf("resolved %q to version %d (requested %d)\n", *name, t.Version(), *version)
	} else {
		fmt.Printf("resolved %q version %d, max_id=%d\n", *name, t.Version(), t.MaxID())
	}
	return nil
}
