package compile

import "github.com/accord-lang/accord/ir"

// BuildTrackInit derives the name -> default mapping from the IR's
// track declarations.
func BuildTrackInit(in *ir.IR) map[string]interface{} {
	out := make(map[string]interface{}, len(in.Tracks))
	for _, tr := range in.Tracks {
		out[tr.Name] = tr.Default
	}
	return out
}
