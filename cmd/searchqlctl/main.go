// Command searchqlctl is an interactive REPL for parsing search queries
// against a loaded field catalog and inspecting the resulting AST.
package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/quillhq/searchql"
	"github.com/quillhq/searchql/catalog"
)

const helpText = `searchqlctl interactive REPL

Commands:
  new <name>            Create a new empty catalog
  default <name>        Create the built-in default catalog
  load <name> <file>    Load a catalog from a YAML file
  unload <name>         Remove a loaded catalog
  list                  List all loaded catalogs
  use <name>            Set the active catalog for parsing
  diag                  Toggle printing of recovered syntax errors
  help                  Show this help message
  exit / quit           Exit the REPL

Any other input is parsed as a search query against the active catalog.
`

func main() {
	catalogs := make(map[string]*catalog.Config)
	var active string
	showDiag := false

	scanner := bufio.NewScanner(os.Stdin)
	fmt.Println("searchqlctl — search query parser")
	fmt.Println(`Type "help" for available commands.`)
	fmt.Println()

	for {
		if active != "" {
			fmt.Printf("[%s]> ", active)
		} else {
			fmt.Print("> ")
		}

		if !scanner.Scan() {
			break
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		parts := strings.Fields(line)
		cmd := strings.ToLower(parts[0])

		switch cmd {
		case "exit", "quit":
			return

		case "help":
			fmt.Print(helpText)

		case "list":
			if len(catalogs) == 0 {
				fmt.Println("(no catalogs loaded)")
				continue
			}
			for name := range catalogs {
				marker := " "
				if name == active {
					marker = "*"
				}
				fmt.Printf("  %s %s\n", marker, name)
			}

		case "new":
			if len(parts) < 2 {
				fmt.Fprintln(os.Stderr, "usage: new <name>")
				continue
			}
			name := parts[1]
			catalogs[name] = &catalog.Config{}
			if active == "" {
				active = name
			}
			fmt.Printf("created empty catalog %q\n", name)

		case "default":
			if len(parts) < 2 {
				fmt.Fprintln(os.Stderr, "usage: default <name>")
				continue
			}
			name := parts[1]
			catalogs[name] = catalog.Default()
			if active == "" {
				active = name
			}
			fmt.Printf("created default catalog %q\n", name)

		case "use":
			if len(parts) < 2 {
				fmt.Fprintln(os.Stderr, "usage: use <name>")
				continue
			}
			name := parts[1]
			if _, ok := catalogs[name]; !ok {
				fmt.Fprintf(os.Stderr, "no catalog named %q\n", name)
				continue
			}
			active = name
			fmt.Printf("active catalog set to %q\n", name)

		case "load":
			if len(parts) < 3 {
				fmt.Fprintln(os.Stderr, "usage: load <name> <file>")
				continue
			}
			name, path := parts[1], parts[2]
			cfg, err := catalog.LoadFile(path)
			if err != nil {
				fmt.Fprintf(os.Stderr, "error loading %q: %v\n", path, err)
				continue
			}
			catalogs[name] = cfg
			if active == "" {
				active = name
			}
			fmt.Printf("loaded %q (%d fields)\n", name, len(cfg.FieldDefinitions))

		case "unload":
			if len(parts) < 2 {
				fmt.Fprintln(os.Stderr, "usage: unload <name>")
				continue
			}
			name := parts[1]
			if _, ok := catalogs[name]; !ok {
				fmt.Fprintf(os.Stderr, "no catalog named %q\n", name)
				continue
			}
			delete(catalogs, name)
			if active == name {
				active = ""
			}
			fmt.Printf("unloaded %q\n", name)

		case "diag":
			showDiag = !showDiag
			fmt.Printf("diagnostics: %v\n", showDiag)

		default:
			if active == "" {
				fmt.Fprintln(os.Stderr, "no active catalog — use 'default' or 'load' first")
				continue
			}
			runQuery(line, catalogs[active], showDiag)
		}
	}
}

func runQuery(query string, cfg *catalog.Config, showDiag bool) {
	doc, diags := searchql.ParseDiagnostic(query, cfg)
	if showDiag {
		for _, d := range diags {
			fmt.Fprintf(os.Stderr, "syntax: %v\n", d)
		}
	}

	roundTrip := searchql.Join(doc, searchql.JoinOptions{})
	if roundTrip != query {
		fmt.Fprintf(os.Stderr, "warning: round-trip mismatch (got %q)\n", roundTrip)
	}

	b, err := searchql.MarshalJSON(doc)
	if err != nil {
		fmt.Fprintf(os.Stderr, "marshal error: %v\n", err)
		return
	}
	var pretty map[string]any
	if err := json.Unmarshal(b, &pretty); err == nil {
		out, _ := json.MarshalIndent(pretty, "", "  ")
		fmt.Println(string(out))
		return
	}
	fmt.Println(string(b))
}
