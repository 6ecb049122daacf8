package typecheck

import (
	"github.com/Comcast/sheens/match"
)

// MatchPattern runs a Sheens structural match of target against
// pattern, grounded on the teacher's own use of match.Match in
// dsl/spec.go's Recv.Exec. It is used by the model-checker back-end's
// case-resolution logic (§4.7) to decide which case arm matches a
// branch's reply shape; CheckReply itself classifies replies with
// Check and does not call it.
func MatchPattern(pattern, target interface{}) (bool, match.Bindings, error) {
	bss, err := match.Match(pattern, target, match.NewBindings())
	if err != nil {
		return false, nil, err
	}
	if len(bss) == 0 {
		return false, nil, nil
	}
	return true, bss[0], nil
}
