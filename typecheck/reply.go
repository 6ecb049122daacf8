package typecheck

import (
	"fmt"

	"github.com/accord-lang/accord/ir"
)

// BranchCandidate is one (Type, next-state-name) pair CheckReply
// chooses among: next is already resolved from a Branch's StateRef
// (SAME substituted for the current state) by the caller, since
// check_reply itself has no notion of "current state".
type BranchCandidate struct {
	Type ir.Type
	Next string
}

// CheckReply implements §4.5's check_reply: returns the Next of the
// first candidate whose Type the reply matches, or an error
// describing all candidates tried (for a server-blame invalid_reply
// Violation's Expected field). First-match semantics come directly
// from the ordering of candidates, which callers must supply in
// declaration order (Testable Property #4).
func CheckReply(reply interface{}, candidates []BranchCandidate) (string, error) {
	var errs []error
	for _, c := range candidates {
		if err := Check(reply, c.Type); err == nil {
			return c.Next, nil
		} else {
			errs = append(errs, err)
		}
	}
	return "", fmt.Errorf("reply %#v matched none of %d candidate reply types: %v", reply, len(candidates), errs)
}
