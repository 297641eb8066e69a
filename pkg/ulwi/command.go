package ulwi

import (
	"bytes"
	"io"
	"strings"
)

// Wire format bytes.
const (
	// Separator delimits fields (ASCII unit separator).
	Separator byte = 0x1f
	// Terminator ends every command and short reply.
	Terminator = "\r\n"

	mnemonicSep byte = ' '
)

// Command is a single request line.
type Command struct {
	Mnemonic string
	Fields   []string
}

// NewCommand creates a Command.
func NewCommand(mnemonic string, fields ...string) *Command {
	return &Command{Mnemonic: mnemonic, Fields: fields}
}

// name is the mnemonic without trailing spaces, as the space before the
// fields is added by the encoder.
func (c *Command) name() string {
	return strings.TrimRight(c.Mnemonic, " ")
}

// Validate checks the command can be framed without ambiguity.
// There is no escaping on the wire, so reserved bytes are rejected.
func (c *Command) Validate() error {
	name := c.name()
	if name == "" {
		return &FieldError{Index: -1, Reason: "is empty"}
	}
	if strings.IndexAny(name, " \x1f\r\n") >= 0 {
		return &FieldError{Index: -1, Reason: "contains reserved byte"}
	}
	for n, field := range c.Fields {
		if strings.IndexAny(field, "\x1f\r\n") >= 0 {
			return &FieldError{Index: n, Reason: "contains reserved byte"}
		}
	}
	return nil
}

// Len returns the encoded length.
func (c *Command) Len() int {
	l := len(c.name()) + len(Terminator)
	for _, field := range c.Fields {
		l += len(field) + 1
	}
	return l
}

// Bytes returns encoded bytes for sending.
func (c *Command) Bytes() ([]byte, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	b := make([]byte, 0, c.Len())
	b = append(b, c.name()...)
	for n, field := range c.Fields {
		if n == 0 {
			b = append(b, mnemonicSep)
		} else {
			b = append(b, Separator)
		}
		b = append(b, field...)
	}
	return append(b, Terminator...), nil
}

// WriteTo writes encoded bytes in a single Write.
func (c *Command) WriteTo(w io.Writer) (int64, error) {
	b, err := c.Bytes()
	if err != nil {
		return 0, err
	}
	n, err := w.Write(b)
	return int64(n), err
}

// String returns the command line without terminator, fields shown
// separated by '|' for logging.
func (c *Command) String() string {
	if len(c.Fields) == 0 {
		return c.name()
	}
	return c.name() + " " + strings.Join(c.Fields, "|")
}

// ParseCommand decodes a command line, the inverse of Bytes.
func ParseCommand(line []byte) (*Command, error) {
	if !bytes.HasSuffix(line, []byte(Terminator)) {
		return nil, &FieldError{Index: -1, Reason: "not terminated"}
	}
	line = line[:len(line)-len(Terminator)]
	cmd := &Command{}
	pos := bytes.IndexByte(line, mnemonicSep)
	if pos < 0 {
		cmd.Mnemonic = string(line)
	} else {
		cmd.Mnemonic = string(line[:pos])
		for _, field := range bytes.Split(line[pos+1:], []byte{Separator}) {
			cmd.Fields = append(cmd.Fields, string(field))
		}
	}
	if err := cmd.Validate(); err != nil {
		return nil, err
	}
	return cmd, nil
}
