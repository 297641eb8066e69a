package companion

import (
	"bytes"
	"context"
	"fmt"
	"strconv"

	"github.com/golang/glog"

	"github.com/robotalks/companion.go/pkg/ulwi"
)

// Handle identifies an HTTP exchange kept by the companion. It's valid
// until the reply is deleted or the companion disconnects.
type Handle int

// InvalidHandle is returned when no exchange was created.
const InvalidHandle Handle = -1

// String implements fmt.Stringer.
func (h Handle) String() string {
	return strconv.Itoa(int(h))
}

// HTTPOperation is the request method.
type HTTPOperation byte

// HTTP operations.
const (
	HTTPGet  HTTPOperation = 'G'
	HTTPPost HTTPOperation = 'P'
)

// HTTPContent selects a part of the reply.
type HTTPContent byte

// Reply parts.
const (
	HTTPBody    HTTPContent = 'C'
	HTTPHeaders HTTPContent = 'H'
	httpStatus  HTTPContent = 'S'
)

// parseNumber interprets a reply carrying a number, where a leading 'U'
// means the companion rejected the request.
func parseNumber(data []byte, terminated bool) (int, error) {
	if len(data) > 0 && data[0] == 'U' {
		return -1, ErrRejected
	}
	if !terminated {
		return -1, ErrUnresponsive
	}
	text := string(bytes.TrimSuffix(data, []byte(ulwi.Terminator)))
	n, err := strconv.Atoi(text)
	if err != nil {
		return -1, fmt.Errorf("invalid number %q: %w", text, err)
	}
	return n, nil
}

// SetupHTTP creates an HTTP exchange on the companion.
func (d *Device) SetupHTTP(ctx context.Context, op HTTPOperation, url string) (Handle, error) {
	data, err := d.Engine.QueryLine(ctx, ulwi.NewCommand(CmdHTTPInit, string(op), url), ulwi.Terminator, ReplyTimeout, 8)
	if err != nil {
		return InvalidHandle, err
	}
	n, err := parseNumber(data, bytes.HasSuffix(data, []byte(ulwi.Terminator)))
	if err != nil {
		return InvalidHandle, err
	}
	glog.V(1).Infof("HTTP %c %s: handle %d", op, url, n)
	return Handle(n), nil
}

// SetHTTPPostParams sets the request body of a POST exchange.
func (d *Device) SetHTTPPostParams(ctx context.Context, h Handle, data string) error {
	return d.ack(ctx, ulwi.NewCommand(CmdHTTPPostParams, h.String(), data))
}

// SetHTTPHeaders sets request headers.
func (d *Device) SetHTTPHeaders(ctx context.Context, h Handle, data string) error {
	return d.ack(ctx, ulwi.NewCommand(CmdHTTPHeaders, h.String(), data))
}

// TransmitHTTP sends the request.
func (d *Device) TransmitHTTP(ctx context.Context, h Handle) error {
	return d.ack(ctx, ulwi.NewCommand(CmdHTTPTransmit, h.String()))
}

// HTTPProgress returns the progress of a transmitted request.
// The companion may not answer while busy with TLS handshakes,
// which shows as Unresponsive.
func (d *Device) HTTPProgress(ctx context.Context, h Handle) (ulwi.Status, error) {
	return d.status(ctx, ulwi.NewCommand(CmdHTTPStatus, h.String()))
}

// HTTPStatusCode returns the response status code, keeping the reply.
func (d *Device) HTTPStatusCode(ctx context.Context, h Handle) (int, error) {
	cmd := ulwi.NewCommand(CmdHTTPGetResponse, h.String(), string(httpStatus), flagFalse)
	data, err := d.Engine.QueryFramed(ctx, cmd, ulwi.Channel1, ReplyTimeout, 8)
	if err != nil {
		return -1, err
	}
	return parseNumber(data, len(data) > 0)
}

// HTTPReply returns a part of the response, optionally deleting the
// reply from the companion afterwards.
func (d *Device) HTTPReply(ctx context.Context, h Handle, field HTTPContent, deleteReply bool) ([]byte, error) {
	cmd := ulwi.NewCommand(CmdHTTPGetResponse, h.String(), string(field), boolFlag(deleteReply))
	return d.Engine.QueryFramed(ctx, cmd, ulwi.Channel1, BulkTimeout, 64)
}

// DeleteHTTPReply frees the exchange, invalidating h.
func (d *Device) DeleteHTTPReply(ctx context.Context, h Handle) error {
	return d.ack(ctx, ulwi.NewCommand(CmdHTTPDelResponse, h.String()))
}
