package http

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/abiosoft/ishell"
	"github.com/golang/glog"

	"github.com/robotalks/companion.go/pkg/cli/sh"
	"github.com/robotalks/companion.go/pkg/companion"
	"github.com/robotalks/companion.go/pkg/ulwi"
)

// Progress polling in http.fetch.
var (
	ProgressInterval = 200 * time.Millisecond
	FetchTimeout     = 30 * time.Second
)

// FetchResult is the output of http.fetch.
type FetchResult struct {
	Status int    `json:"status"`
	Body   string `json:"body"`
}

func parseHandle(args []string) (companion.Handle, error) {
	if len(args) < 1 {
		return companion.InvalidHandle, fmt.Errorf("HANDLE required")
	}
	n, err := strconv.Atoi(args[0])
	if err != nil || n < 0 {
		return companion.InvalidHandle, fmt.Errorf("invalid HANDLE %q", args[0])
	}
	return companion.Handle(n), nil
}

func parseContent(arg string) (companion.HTTPContent, error) {
	switch strings.ToLower(arg) {
	case "", "body", "c":
		return companion.HTTPBody, nil
	case "headers", "h":
		return companion.HTTPHeaders, nil
	}
	return 0, fmt.Errorf("invalid content %q, expect body or headers", arg)
}

// Fetch runs a complete exchange: setup, transmit, wait for completion and
// read the status and body. The reply is deleted afterwards, also when
// any step after the setup fails.
func Fetch(ctx context.Context, d *companion.Device, op companion.HTTPOperation, url, params string) (result *FetchResult, err error) {
	h, err := d.SetupHTTP(ctx, op, url)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err == nil {
			return
		}
		if delErr := d.DeleteHTTPReply(context.Background(), h); delErr != nil {
			glog.Warningf("delete HTTP reply %s: %v", h, delErr)
		}
	}()
	if op == companion.HTTPPost {
		if err = d.SetHTTPPostParams(ctx, h, params); err != nil {
			return nil, err
		}
	}
	if err = d.TransmitHTTP(ctx, h); err != nil {
		return nil, err
	}
	deadline := d.Engine.Now().Add(FetchTimeout)
	for {
		st, err := d.HTTPProgress(ctx, h)
		if err != nil {
			return nil, err
		}
		switch st {
		case ulwi.Successful:
		case ulwi.InProgress, ulwi.Unresponsive:
			// the companion stays silent during TLS handshakes.
			if !d.Engine.Now().Before(deadline) {
				return nil, fmt.Errorf("request %s: %w", h, companion.ErrUnresponsive)
			}
			if err = ctx.Err(); err != nil {
				return nil, err
			}
			d.Engine.Sleep(ProgressInterval)
			continue
		default:
			return nil, fmt.Errorf("request %s: %s", h, st)
		}
		break
	}
	code, err := d.HTTPStatusCode(ctx, h)
	if err != nil {
		return nil, err
	}
	body, err := d.HTTPReply(ctx, h, companion.HTTPBody, true)
	if err != nil {
		return nil, err
	}
	return &FetchResult{Status: code, Body: string(body)}, nil
}

var (
	// GetCmd creates a GET exchange.
	GetCmd = ishell.Cmd{
		Name: "http.get",
		Help: "URL",
		Func: sh.OnDevice(func(ctx context.Context, c *ishell.Context, d *companion.Device) (interface{}, error) {
			if len(c.Args) < 1 {
				return nil, fmt.Errorf("URL required")
			}
			return d.SetupHTTP(ctx, companion.HTTPGet, c.Args[0])
		}),
	}

	// PostCmd creates a POST exchange.
	PostCmd = ishell.Cmd{
		Name: "http.post",
		Help: "URL [PARAMS]",
		Func: sh.OnDevice(func(ctx context.Context, c *ishell.Context, d *companion.Device) (interface{}, error) {
			if len(c.Args) < 1 {
				return nil, fmt.Errorf("URL required")
			}
			h, err := d.SetupHTTP(ctx, companion.HTTPPost, c.Args[0])
			if err != nil || len(c.Args) < 2 {
				return h, err
			}
			return h, d.SetHTTPPostParams(ctx, h, strings.Join(c.Args[1:], " "))
		}),
	}

	// HeadersCmd sets request headers.
	HeadersCmd = ishell.Cmd{
		Name: "http.headers",
		Help: "HANDLE HEADERS",
		Func: sh.OnDevice(func(ctx context.Context, c *ishell.Context, d *companion.Device) (interface{}, error) {
			h, err := parseHandle(c.Args)
			if err != nil {
				return nil, err
			}
			return nil, d.SetHTTPHeaders(ctx, h, strings.Join(c.Args[1:], " "))
		}),
	}

	// SendCmd transmits the request.
	SendCmd = ishell.Cmd{
		Name: "http.send",
		Help: "HANDLE",
		Func: sh.OnDevice(func(ctx context.Context, c *ishell.Context, d *companion.Device) (interface{}, error) {
			h, err := parseHandle(c.Args)
			if err != nil {
				return nil, err
			}
			return nil, d.TransmitHTTP(ctx, h)
		}),
	}

	// ProgressCmd shows the request progress.
	ProgressCmd = ishell.Cmd{
		Name: "http.progress",
		Help: "HANDLE",
		Func: sh.OnDevice(func(ctx context.Context, c *ishell.Context, d *companion.Device) (interface{}, error) {
			h, err := parseHandle(c.Args)
			if err != nil {
				return nil, err
			}
			st, err := d.HTTPProgress(ctx, h)
			return st.String(), err
		}),
	}

	// StatusCmd shows the reply status code.
	StatusCmd = ishell.Cmd{
		Name: "http.status",
		Help: "HANDLE",
		Func: sh.OnDevice(func(ctx context.Context, c *ishell.Context, d *companion.Device) (interface{}, error) {
			h, err := parseHandle(c.Args)
			if err != nil {
				return nil, err
			}
			return d.HTTPStatusCode(ctx, h)
		}),
	}

	// ReplyCmd reads the reply body or headers.
	ReplyCmd = ishell.Cmd{
		Name: "http.reply",
		Help: "HANDLE [body|headers] [delete]",
		Func: sh.OnDevice(func(ctx context.Context, c *ishell.Context, d *companion.Device) (interface{}, error) {
			h, err := parseHandle(c.Args)
			if err != nil {
				return nil, err
			}
			var part string
			if len(c.Args) > 1 {
				part = c.Args[1]
			}
			content, err := parseContent(part)
			if err != nil {
				return nil, err
			}
			data, err := d.HTTPReply(ctx, h, content, len(c.Args) > 2 && c.Args[2] == "delete")
			return string(data), err
		}),
	}

	// DeleteCmd deletes the reply.
	DeleteCmd = ishell.Cmd{
		Name: "http.delete",
		Help: "HANDLE",
		Func: sh.OnDevice(func(ctx context.Context, c *ishell.Context, d *companion.Device) (interface{}, error) {
			h, err := parseHandle(c.Args)
			if err != nil {
				return nil, err
			}
			return nil, d.DeleteHTTPReply(ctx, h)
		}),
	}

	// FetchCmd runs a complete GET, or POST when PARAMS present.
	FetchCmd = ishell.Cmd{
		Name:    "http.fetch",
		Aliases: []string{"fetch"},
		Help:    "URL [PARAMS]",
		Func: sh.OnDevice(func(ctx context.Context, c *ishell.Context, d *companion.Device) (interface{}, error) {
			if len(c.Args) < 1 {
				return nil, fmt.Errorf("URL required")
			}
			op := companion.HTTPGet
			if len(c.Args) > 1 {
				op = companion.HTTPPost
			}
			return Fetch(ctx, d, op, c.Args[0], strings.Join(c.Args[1:], " "))
		}),
	}
)

func init() {
	sh.AddCmds(&GetCmd, &PostCmd, &HeadersCmd, &SendCmd, &ProgressCmd,
		&StatusCmd, &ReplyCmd, &DeleteCmd, &FetchCmd)
}
