package controller

import (
	"encoding/json"
	"fmt"
	"math"
)

// DecodeError describes why a frame could not be turned into a snapshot.
type DecodeError struct {
	Path   string // e.g. "sticks[1].position.x"; empty for the frame itself
	Reason string
}

func (e *DecodeError) Error() string {
	if e.Path == "" {
		return "decode: " + e.Reason
	}
	return fmt.Sprintf("decode %s: %s", e.Path, e.Reason)
}

func fail(path, format string, args ...any) (Snapshot, error) {
	return Snapshot{}, &DecodeError{Path: path, Reason: fmt.Sprintf(format, args...)}
}

// DecodeJSON parses one inbound text frame and decodes it.
func DecodeJSON(data []byte) (Snapshot, error) {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return Snapshot{}, &DecodeError{Reason: "invalid JSON: " + err.Error()}
	}
	return Decode(raw)
}

// Decode validates a generically parsed JSON value (as produced by
// encoding/json into an any) and builds a snapshot from it. It never returns
// a partially filled snapshot: on error the returned snapshot is the zero
// value.
func Decode(raw any) (Snapshot, error) {
	obj, ok := raw.(map[string]any)
	if !ok {
		return fail("", "expected object, got %s", kindOf(raw))
	}

	rawButtons, err := field(obj, "", "buttons")
	if err != nil {
		return Snapshot{}, err
	}
	buttonList, ok := rawButtons.([]any)
	if !ok {
		return fail("buttons", "expected array, got %s", kindOf(rawButtons))
	}

	rawSticks, err := field(obj, "", "sticks")
	if err != nil {
		return Snapshot{}, err
	}
	stickList, ok := rawSticks.([]any)
	if !ok {
		return fail("sticks", "expected array, got %s", kindOf(rawSticks))
	}

	buttons := make([]Button, 0, len(buttonList))
	for i, v := range buttonList {
		b, err := decodeButton(fmt.Sprintf("buttons[%d]", i), v)
		if err != nil {
			return Snapshot{}, err
		}
		buttons = append(buttons, b)
	}

	sticks := make([]Stick, 0, len(stickList))
	for i, v := range stickList {
		s, err := decodeStick(fmt.Sprintf("sticks[%d]", i), v)
		if err != nil {
			return Snapshot{}, err
		}
		sticks = append(sticks, s)
	}

	return Snapshot{buttons: buttons, sticks: sticks}, nil
}

func decodeButton(path string, v any) (Button, error) {
	obj, ok := v.(map[string]any)
	if !ok {
		return Button{}, &DecodeError{Path: path, Reason: "expected object, got " + kindOf(v)}
	}
	name, err := stringField(obj, path, "name")
	if err != nil {
		return Button{}, err
	}
	rawStatus, err := field(obj, path, "status")
	if err != nil {
		return Button{}, err
	}

	var status Status
	switch s := rawStatus.(type) {
	case bool:
		status = Released
		if s {
			status = Pressed
		}
	case string:
		st, ok := ParseStatus(s)
		if !ok {
			return Button{}, &DecodeError{Path: path + ".status", Reason: fmt.Sprintf("unrecognized status %q", s)}
		}
		status = st
	default:
		return Button{}, &DecodeError{Path: path + ".status", Reason: "expected string or boolean, got " + kindOf(rawStatus)}
	}

	return Button{Name: name, Status: status}, nil
}

func decodeStick(path string, v any) (Stick, error) {
	obj, ok := v.(map[string]any)
	if !ok {
		return Stick{}, &DecodeError{Path: path, Reason: "expected object, got " + kindOf(v)}
	}
	name, err := stringField(obj, path, "name")
	if err != nil {
		return Stick{}, err
	}
	rawPos, err := field(obj, path, "position")
	if err != nil {
		return Stick{}, err
	}
	posPath := path + ".position"
	pos, ok := rawPos.(map[string]any)
	if !ok {
		return Stick{}, &DecodeError{Path: posPath, Reason: "expected object, got " + kindOf(rawPos)}
	}
	x, err := numberField(pos, posPath, "x")
	if err != nil {
		return Stick{}, err
	}
	y, err := numberField(pos, posPath, "y")
	if err != nil {
		return Stick{}, err
	}
	return Stick{Name: name, Position: Position{X: x, Y: y}}, nil
}

func join(path, key string) string {
	if path == "" {
		return key
	}
	return path + "." + key
}

func field(obj map[string]any, path, key string) (any, error) {
	v, ok := obj[key]
	if !ok {
		return nil, &DecodeError{Path: join(path, key), Reason: "missing"}
	}
	return v, nil
}

func stringField(obj map[string]any, path, key string) (string, error) {
	v, err := field(obj, path, key)
	if err != nil {
		return "", err
	}
	s, ok := v.(string)
	if !ok {
		return "", &DecodeError{Path: join(path, key), Reason: "expected string, got " + kindOf(v)}
	}
	return s, nil
}

func numberField(obj map[string]any, path, key string) (float64, error) {
	v, err := field(obj, path, key)
	if err != nil {
		return 0, err
	}
	var f float64
	switch n := v.(type) {
	case float64:
		f = n
	case json.Number:
		f, err = n.Float64()
		if err != nil {
			return 0, &DecodeError{Path: join(path, key), Reason: "invalid number " + n.String()}
		}
	case int:
		f = float64(n)
	default:
		return 0, &DecodeError{Path: join(path, key), Reason: "expected number, got " + kindOf(v)}
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, &DecodeError{Path: join(path, key), Reason: "not a finite number"}
	}
	return f, nil
}

func kindOf(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case map[string]any:
		return "object"
	case []any:
		return "array"
	case string:
		return "string"
	case bool:
		return "boolean"
	case float64, json.Number, int:
		return "number"
	default:
		return fmt.Sprintf("%T", v)
	}
}
