// Command accordc is Accord's reference CLI: load a protocol written
// in the protoyaml front-end (§6's "surface syntax is external"), run
// it through the validation pipeline, and either emit model-checker
// artifacts, explore its reachable state graph, or run it live as a
// monitor in front of a configured transport.Upstream.
//
// There is no teacher precedent for a CLI entrypoint (jsmorph-plax's
// own cmd/plaxrun ships no main.go in the retrieved pack), so this
// file is stdlib flag/subcommand plumbing; every subcommand's actual
// work is one line into an already-grounded package.
package main

import (
	"fmt"
	"os"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	var err error
	switch os.Args[1] {
	case "emit":
		err = runEmit(os.Args[2:])
	case "check":
		err = runCheck(os.Args[2:])
	case "serve":
		err = runServe(os.Args[2:])
	case "-h", "-help", "--help", "help":
		usage()
		return
	default:
		fmt.Fprintf(os.Stderr, "accordc: unknown subcommand %q\n", os.Args[1])
		usage()
		os.Exit(2)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "accordc: %v\n", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprint(os.Stderr, `usage: accordc <subcommand> [flags]

subcommands:
  emit    validate a protocol and emit model-checker spec/config text
  check   validate a protocol and report errors/warnings (optionally
          cross-checking reachability against internal/explore)
  serve   run a protocol as a live monitor in front of an upstream
`)
}
