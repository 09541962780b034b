package command

import "slices"

// Command holds one command in both representations. Args is canonical;
// String is its rendering unless the string was the last thing edited, in
// which case Args is derived from it. ArgsText is the array editor content,
// which may hold unparsable text while Err is set.
type Command struct {
	String   string   `json:"commandString"`
	Args     []string `json:"commandArgs"`
	ArgsText string   `json:"commandArray"`
	Err      string   `json:"jsonError"`
}

// New returns the empty command.
func New() Command {
	return Command{
		String:   "",
		Args:     []string{},
		ArgsText: "[]",
	}
}

// EditString replaces the string form and recomputes the array form.
func (c Command) EditString(text string) Command {
	args := ToArgs(text)
	return Command{
		String:   text,
		Args:     args,
		ArgsText: FormatArgsJSON(args),
	}
}

// EditArgs replaces the array text. On a parse failure the text is kept
// verbatim, String and Args are left as they were and the error is recorded.
func (c Command) EditArgs(text string) (Command, error) {
	args, err := ParseArgsJSON(text)
	if err != nil {
		next := c.Clone()
		next.ArgsText = text
		next.Err = err.Error()
		return next, err
	}
	return Command{
		String:   ToCommandString(args),
		Args:     args,
		ArgsText: text,
	}, nil
}

// Valid reports whether the last edit left both forms in agreement.
func (c Command) Valid() bool {
	return c.Err == ""
}

// Clone returns a copy that shares no slices with c.
func (c Command) Clone() Command {
	c.Args = slices.Clone(c.Args)
	if c.Args == nil {
		c.Args = []string{}
	}
	return c
}
