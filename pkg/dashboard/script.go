package dashboard

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/kballard/go-shellquote"

	brerrors "github.com/matzehuels/brushlink/pkg/errors"
	"github.com/matzehuels/brushlink/pkg/view"
)

// ParseScript reads an interaction script. Each non-blank line holds one
// command; '#' starts a comment line. Arguments are split with shell quoting
// rules, so dimension names with spaces can be quoted.
func ParseScript(r io.Reader) ([]Event, error) {
	var events []Event
	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		args, err := shellquote.Split(text)
		if err != nil {
			return nil, brerrors.Wrap(brerrors.ErrCodeInvalidEvent, err, "line %d", line)
		}
		ev, err := parseCommand(args)
		if err != nil {
			return nil, brerrors.Wrap(brerrors.ErrCodeInvalidEvent, err, "line %d: %s", line, text)
		}
		events = append(events, ev)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return events, nil
}

// ParseCommand parses one script line.
func ParseCommand(line string) (Event, error) {
	args, err := shellquote.Split(line)
	if err != nil {
		return nil, brerrors.Wrap(brerrors.ErrCodeInvalidEvent, err, "%s", line)
	}
	if len(args) == 0 {
		return nil, brerrors.New(brerrors.ErrCodeInvalidEvent, "empty command")
	}
	ev, err := parseCommand(args)
	if err != nil {
		return nil, brerrors.Wrap(brerrors.ErrCodeInvalidEvent, err, "%s", line)
	}
	return ev, nil
}

func parseCommand(args []string) (Event, error) {
	cmd, args := strings.ToLower(args[0]), args[1:]
	switch cmd {
	case "down", "move", "up":
		if err := arity(cmd, args, 3); err != nil {
			return nil, err
		}
		nums, err := floats(args[1:])
		if err != nil {
			return nil, err
		}
		action := map[string]PointerAction{"down": PointerDown, "move": PointerMove, "up": PointerUp}[cmd]
		return PointerEvent{View: args[0], Action: action, Point: view.Point{X: nums[0], Y: nums[1]}}, nil
	case "leave":
		if err := arity(cmd, args, 1); err != nil {
			return nil, err
		}
		return PointerEvent{View: args[0], Action: PointerLeave}, nil
	case "drag":
		if err := arity(cmd, args, 5); err != nil {
			return nil, err
		}
		nums, err := floats(args[1:])
		if err != nil {
			return nil, err
		}
		return DragEvent{View: args[0], From: view.Point{X: nums[0], Y: nums[1]}, To: view.Point{X: nums[2], Y: nums[3]}}, nil
	case "axis", "range":
		if err := arity(cmd, args, 4); err != nil {
			return nil, err
		}
		nums, err := floats(args[2:])
		if err != nil {
			return nil, err
		}
		return AxisEvent{View: args[0], Dim: args[1], From: nums[0], To: nums[1], Data: cmd == "range"}, nil
	case "clear":
		switch len(args) {
		case 0:
			return ClearEvent{}, nil
		case 1:
			return ClearEvent{View: args[0]}, nil
		case 2:
			return ClearEvent{View: args[0], Axis: args[1]}, nil
		}
		return nil, brerrors.New(brerrors.ErrCodeInvalidEvent, "clear takes at most 2 arguments")
	case "config":
		if len(args) < 2 {
			return nil, brerrors.New(brerrors.ErrCodeInvalidEvent, "config needs a view and at least one key=value")
		}
		return ConfigEvent{View: args[0], Set: args[1:]}, nil
	case "resize":
		if err := arity(cmd, args, 3); err != nil {
			return nil, err
		}
		nums, err := floats(args[1:])
		if err != nil {
			return nil, err
		}
		return ResizeEvent{View: args[0], Width: nums[0], Height: nums[1]}, nil
	}
	return nil, brerrors.New(brerrors.ErrCodeInvalidEvent, "unknown command %q", cmd)
}

// FormatEvent writes ev back as a script line.
func FormatEvent(ev Event) string {
	f := func(x float64) string { return strconv.FormatFloat(x, 'g', -1, 64) }
	switch e := ev.(type) {
	case PointerEvent:
		if e.Action == PointerLeave {
			return shellquote.Join("leave", e.View)
		}
		return shellquote.Join(e.Action.String(), e.View, f(e.Point.X), f(e.Point.Y))
	case DragEvent:
		return shellquote.Join("drag", e.View, f(e.From.X), f(e.From.Y), f(e.To.X), f(e.To.Y))
	case AxisEvent:
		cmd := "axis"
		if e.Data {
			cmd = "range"
		}
		return shellquote.Join(cmd, e.View, e.Dim, f(e.From), f(e.To))
	case ClearEvent:
		args := []string{"clear"}
		if e.View != "" {
			args = append(args, e.View)
		}
		if e.Axis != "" {
			args = append(args, e.Axis)
		}
		return shellquote.Join(args...)
	case ConfigEvent:
		set := e.Set
		if e.Config != nil {
			set = append(configPairs(*e.Config), set...)
		}
		return shellquote.Join(append([]string{"config", e.View}, set...)...)
	case ResizeEvent:
		return shellquote.Join("resize", e.View, f(e.Width), f(e.Height))
	}
	return ""
}

func configPairs(c view.AxisConfig) []string {
	var out []string
	if len(c.Axes) > 0 {
		dims := make([]string, len(c.Axes))
		for i, a := range c.Axes {
			dims[i] = a.Dim
			if a.Invert {
				dims[i] = "-" + a.Dim
			}
		}
		out = append(out, "axes="+strings.Join(dims, ","))
	} else {
		out = append(out, "x="+c.X.Dim, "y="+c.Y.Dim,
			"invert-x="+strconv.FormatBool(c.X.Invert), "invert-y="+strconv.FormatBool(c.Y.Invert))
		if c.Size != "" {
			out = append(out, "size="+c.Size)
		}
	}
	if c.Color != "" {
		out = append(out, "color="+c.Color)
	}
	return out
}

func arity(cmd string, args []string, n int) error {
	if len(args) != n {
		return brerrors.New(brerrors.ErrCodeInvalidEvent, "%s takes %d arguments, got %d", cmd, n, len(args))
	}
	return nil
}

func floats(args []string) ([]float64, error) {
	out := make([]float64, len(args))
	for i, a := range args {
		f, err := strconv.ParseFloat(a, 64)
		if err != nil {
			return nil, brerrors.New(brerrors.ErrCodeInvalidEvent, "%q is not a number", a)
		}
		out[i] = f
	}
	return out, nil
}
