package monitor

import "reflect"

// decompose splits an inbound message into its dispatch tag and
// positional arguments, mirroring typecheck's tagged-tuple
// convention: a bare symbol is just its tag with no args; anything
// else must be a tuple (slice) whose first element is the tag.
func decompose(msg interface{}) (tag string, args []interface{}, ok bool) {
	if s, is := msg.(string); is {
		return s, nil, true
	}

	elems, is := asSlice(msg)
	if !is || len(elems) == 0 {
		return "", nil, false
	}
	t, is := elems[0].(string)
	if !is {
		return "", nil, false
	}
	return t, elems[1:], true
}

func asSlice(value interface{}) ([]interface{}, bool) {
	if s, ok := value.([]interface{}); ok {
		return s, true
	}
	rv := reflect.ValueOf(value)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}
	out := make([]interface{}, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out, true
}
