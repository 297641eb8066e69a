package sh

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"

	"github.com/abiosoft/ishell"

	"github.com/robotalks/companion.go/pkg/companion"
	"github.com/robotalks/companion.go/pkg/env"
	fx "github.com/robotalks/companion.go/pkg/framework"
	"github.com/robotalks/companion.go/pkg/link"
)

// Shell provides ishell backed interactive shell.
type Shell struct {
	Interactive bool
	OutputJSON  bool
	AutoConnect bool

	Shell  *ishell.Shell
	Config *env.Config
	Conn   *Conn
}

// Conn is an opened link with its read pump running.
type Conn struct {
	Link   *env.Link
	Runner *fx.Runner
}

const (
	shellKey          = "$shell"
	unconnectedPrompt = "[none] > "
)

var (
	// flags

	evalOnly   bool
	outputJSON bool

	// commands
	commands = []*ishell.Cmd{
		&PortsCmd,
		&ConnectCmd,
		&DisconnectCmd,
	}
)

func init() {
	flag.BoolVar(&evalOnly, "e", evalOnly, "Evaluation only, no interactive shell.")
	flag.BoolVar(&outputJSON, "json", outputJSON, "Print output in JSON.")
}

// AddCmds is used by other commands providers during init func.
func AddCmds(cmds ...*ishell.Cmd) {
	commands = append(commands, cmds...)
}

// New creates a new shell.
func New(conf *env.Config) *Shell {
	s := &Shell{
		Interactive: !evalOnly,
		OutputJSON:  outputJSON,

		Shell:  ishell.New(),
		Config: conf,
	}
	s.Shell.Set(shellKey, s)
	s.Shell.SetPrompt(unconnectedPrompt)
	for _, cmd := range commands {
		s.Shell.AddCmd(cmd)
	}
	return s
}

// ShellFrom gets Shell from ishell context.
func ShellFrom(c *ishell.Context) *Shell {
	return c.Get(shellKey).(*Shell)
}

// Device returns the connected companion, nil if not connected.
func (s *Shell) Device() *companion.Device {
	if s.Conn == nil {
		return nil
	}
	return s.Conn.Link.Device
}

// DeviceFunc is a command func operating on a connected companion.
type DeviceFunc func(ctx context.Context, c *ishell.Context, d *companion.Device) (interface{}, error)

// OnDevice wraps a DeviceFunc into a command func. It requires a
// connection and prints the result.
func OnDevice(fn DeviceFunc) func(c *ishell.Context) {
	return func(c *ishell.Context) {
		s := ShellFrom(c)
		if s.Conn == nil {
			c.Err(fmt.Errorf("not connected"))
			return
		}
		result, err := fn(s.Conn.Runner.Context, c, s.Conn.Link.Device)
		if err != nil {
			c.Err(err)
			return
		}
		s.Print(c, result)
	}
}

// Print prints a command result. A nil result prints OK.
func (s *Shell) Print(c *ishell.Context, result interface{}) {
	if s.OutputJSON {
		if result == nil {
			result = map[string]bool{"ok": true}
		}
		out, err := json.Marshal(result)
		if err != nil {
			c.Err(err)
			return
		}
		c.Println(string(out))
		return
	}
	if result == nil {
		c.Println("OK")
		return
	}
	switch v := result.(type) {
	case []byte:
		c.Println(string(v))
	default:
		c.Println(v)
	}
}

// WithAutoConnect sets AutoConnect.
func (s *Shell) WithAutoConnect(en bool) *Shell {
	s.AutoConnect = en
	return s
}

// Connect opens the link specified by linkURL, or the configured one if
// empty, and starts its read pump.
func (s *Shell) Connect(linkURL string) error {
	conf := *s.Config
	if linkURL != "" {
		conf.LinkURL = linkURL
	}
	l, err := conf.Open()
	if err != nil {
		return err
	}
	s.Disconnect()
	conn := &Conn{Link: l, Runner: fx.NewRunner()}
	conn.Runner.Go(fx.NamedRun("link", l.Stream))
	s.Conn = conn
	s.Shell.SetPrompt(fmt.Sprintf("%s > ", conf.LinkURL))
	return nil
}

// Disconnect closes current link.
func (s *Shell) Disconnect() {
	if s.Conn == nil {
		return
	}
	s.Conn.Runner.Stop()
	s.Conn.Link.Stream.Close()
	if err := s.Conn.Runner.Wait(); err != nil {
		log.Printf("link stopped: %v", err)
	}
	s.Conn = nil
	s.Shell.SetPrompt(unconnectedPrompt)
}

// Run runs the shell.
func (s *Shell) Run(args ...string) {
	if s.AutoConnect && s.Config.LinkURL != "" {
		if s.Interactive {
			s.Shell.Printf("Connecting %s ...\n", s.Config.LinkURL)
		}
		if err := s.Connect(""); err != nil {
			log.Fatalf("connect %q failed: %v", s.Config.LinkURL, err)
		}
		defer s.Disconnect()
	}

	if len(args) > 0 {
		if err := s.Shell.Process(args...); err != nil {
			log.Fatalln(err)
		}
		return
	}
	if s.Interactive {
		s.Shell.Run()
		return
	}
	log.Fatalln("command expected")
}

var (
	// PortsCmd lists serial ports.
	PortsCmd = ishell.Cmd{
		Name:    "ports",
		Aliases: []string{"list", "l"},
		Help:    "",
		Func: func(c *ishell.Context) {
			s := ShellFrom(c)
			ports, err := link.ListSerial()
			if err != nil {
				c.Err(err)
				return
			}
			if s.OutputJSON {
				if ports == nil {
					ports = []string{}
				}
				s.Print(c, ports)
				return
			}
			if len(ports) == 0 {
				c.Println("No serial ports found")
				return
			}
			for _, port := range ports {
				c.Println(port)
			}
		},
	}

	// ConnectCmd opens a link.
	ConnectCmd = ishell.Cmd{
		Name:    "connect",
		Aliases: []string{"c"},
		Help:    "[LINK-URL]",
		Func: func(c *ishell.Context) {
			var linkURL string
			if len(c.Args) > 0 {
				linkURL = c.Args[0]
			}
			if err := ShellFrom(c).Connect(linkURL); err != nil {
				c.Err(err)
			}
		},
	}

	// DisconnectCmd closes current link.
	DisconnectCmd = ishell.Cmd{
		Name:    "disconnect",
		Aliases: []string{"d"},
		Help:    "",
		Func: func(c *ishell.Context) {
			ShellFrom(c).Disconnect()
		},
	}
)

// Main is a helper to provide a single call in main.
func Main() {
	flag.Parse()
	New(env.NewConfig()).WithAutoConnect(true).Run(flag.Args()...)
}
