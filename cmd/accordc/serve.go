package main

import (
	"bufio"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/accord-lang/accord/compile"
	"github.com/accord-lang/accord/config"
	"github.com/accord-lang/accord/internal/actx"
	"github.com/accord-lang/accord/ir/validate"
	"github.com/accord-lang/accord/monitor"
	"github.com/accord-lang/accord/protoyaml"
)

// inboundLine is the newline-delimited JSON wire shape serve reads
// from stdin: one line per message, "type" choosing Call vs Cast and
// "message" carrying the tagged tuple (a JSON array whose first
// element is the tag string) decompose expects.
type inboundLine struct {
	Type    string      `json:"type"`
	Message interface{} `json:"message"`
}

func runServe(args []string) error {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	protocolPath := fs.String("protocol", "", "path to a protoyaml protocol file (required)")
	sessionPath := fs.String("config", "", "path to a session config file (upstream, policy, timeout)")
	debug := fs.Bool("debug", false, "enable debug logging")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *protocolPath == "" {
		return fmt.Errorf("serve: -protocol is required")
	}

	in, err := protoyaml.Load(*protocolPath)
	if err != nil {
		return fmt.Errorf("loading %s: %w", *protocolPath, err)
	}
	result := validate.RunDefault(in)
	if !result.OK() {
		for _, r := range result.Reports.Errors() {
			fmt.Fprintln(os.Stderr, r.String())
		}
		return fmt.Errorf("serve: validation failed at pass %s", result.FailedAt)
	}

	table, err := compile.BuildTransitionTable(result.IR)
	if err != nil {
		return fmt.Errorf("serve: building transition table: %w", err)
	}

	sc := &sessionConfig{}
	if *sessionPath != "" {
		sc, err = loadSessionConfig(*sessionPath)
		if err != nil {
			return err
		}
	}

	ctx := actx.NewCtx(nil).WithDebug(*debug)
	if sc.Name != "" {
		ctx = ctx.WithName(sc.Name)
	}

	upstream, err := sc.buildUpstream(ctx)
	if err != nil {
		return fmt.Errorf("serve: %w", err)
	}
	policy, err := sc.buildPolicy()
	if err != nil {
		return fmt.Errorf("serve: %w", err)
	}

	session := monitor.NewSession(result.IR, table, upstream, policy)
	session.CallTimeoutMs = sc.CallTimeoutMs
	if session.CallTimeoutMs <= 0 {
		session.CallTimeoutMs = config.DefaultCallTimeoutMs
	}

	ctx.Logf("serve: %s ready at state %s", result.IR.Name, session.CurrentState)
	return dispatchStdin(ctx, session, os.Stdin, os.Stdout)
}

// dispatchStdin feeds one inboundLine per input line to session,
// writing its result back as one JSON line per message. It stops at
// EOF or once the session reports Terminated.
func dispatchStdin(ctx *actx.Ctx, session *monitor.Session, r io.Reader, w io.Writer) error {
	scanner := bufio.NewScanner(r)
	enc := json.NewEncoder(w)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var req inboundLine
		if err := json.Unmarshal(line, &req); err != nil {
			enc.Encode(map[string]string{"error": err.Error()})
			continue
		}

		switch req.Type {
		case "cast":
			res, err := session.Cast(ctx, req.Message)
			if err != nil {
				return fmt.Errorf("serve: internal error handling cast: %w", err)
			}
			enc.Encode(map[string]interface{}{"violation": res.Violation, "terminated": res.Terminated})
		default:
			res, err := session.Call(ctx, req.Message)
			if err != nil {
				return fmt.Errorf("serve: internal error handling call: %w", err)
			}
			enc.Encode(map[string]interface{}{"reply": res.Reply, "violation": res.Violation, "terminated": res.Terminated})
		}

		if session.Terminated() {
			ctx.Logf("serve: session terminated at state %s", session.CurrentState)
			break
		}
	}
	return scanner.Err()
}
