// Package companion implements the operations of a ULWI Wi-Fi companion
// module on top of the ulwi protocol engine.
package companion

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/robotalks/companion.go/pkg/ulwi"
)

// Timeouts used by companion operations.
const (
	ReplyTimeout    = time.Second
	BulkTimeout     = 2 * time.Second
	ScanTimeout     = 10 * time.Second
	ResetSettleTime = 750 * time.Millisecond
)

// LibraryVersion is the ULWI instruction set version this package speaks,
// as replied by the companion including the terminator.
const LibraryVersion = "0.1.0" + ulwi.Terminator

// Command mnemonics.
const (
	CmdNop              = "nop"
	CmdVersion          = "ver"
	CmdReset            = "rst"
	CmdConnectAP        = "cap"
	CmdListAP           = "lap"
	CmdStatusAP         = "sap"
	CmdDisconnectAP     = "dap"
	CmdGetIP            = "gip"
	CmdHTTPInit         = "ihr"
	CmdHTTPPostParams   = "phr"
	CmdHTTPHeaders      = "hhr"
	CmdHTTPTransmit     = "thr"
	CmdHTTPStatus       = "shr"
	CmdHTTPGetResponse  = "ghr"
	CmdHTTPDelResponse  = "dhr"
	CmdMQTTConfigure    = "mcg"
	CmdMQTTIsConnected  = "mic"
	CmdMQTTSubscribe    = "msb"
	CmdMQTTUnsubscribe  = "mus"
	CmdMQTTNewData      = "mnd"
	CmdMQTTGetSubData   = "mgs"
	CmdMQTTPublish      = "mpb"
	flagTrue, flagFalse = "T", "F"
)

// Reply candidate sets.
var (
	ackCandidates  = ulwi.ParseCandidates("S;U;short;long")
	boolCandidates = ulwi.ParseCandidates("T;F;short;long")
	nopCandidates  = ulwi.Candidates{ulwi.Terminator}
)

var (
	// ErrUnresponsive indicates no reply within the timeout.
	ErrUnresponsive = errors.New("companion unresponsive")
	// ErrRejected indicates the companion replied the operation failed.
	ErrRejected = errors.New("rejected by companion")
)

// ReplyError wraps error tokens other than a plain rejection.
type ReplyError struct {
	Token string
}

// Error implements error.
func (e *ReplyError) Error() string {
	return fmt.Sprintf("companion replied %q", e.Token)
}

// Device is a companion module reached through an Engine.
// It keeps no state about the module; handles and subscriptions are
// tracked by callers.
type Device struct {
	Engine *ulwi.Engine
}

// New creates a Device.
func New(e *ulwi.Engine) *Device {
	return &Device{Engine: e}
}

// NewWithTransport creates a Device with a default Engine.
func NewWithTransport(t ulwi.Transport) *Device {
	return New(ulwi.NewEngine(t))
}

func boolFlag(v bool) string {
	if v {
		return flagTrue
	}
	return flagFalse
}

func (d *Device) ack(ctx context.Context, cmd *ulwi.Command) error {
	index, err := d.Engine.Query(ctx, cmd, ackCandidates, ReplyTimeout)
	if err != nil {
		return err
	}
	switch index {
	case 0:
		return nil
	case 1:
		return ErrRejected
	case ulwi.NoMatch:
		return ErrUnresponsive
	}
	return &ReplyError{Token: ackCandidates[index]}
}

func boolResult(index int) (bool, error) {
	switch index {
	case 0:
		return true, nil
	case 1:
		return false, nil
	case ulwi.NoMatch:
		return false, ErrUnresponsive
	}
	return false, &ReplyError{Token: boolCandidates[index]}
}

func (d *Device) status(ctx context.Context, cmd *ulwi.Command) (ulwi.Status, error) {
	index, err := d.Engine.Query(ctx, cmd, ulwi.StatusCandidates, ReplyTimeout)
	return ulwi.StatusFromIndex(index), err
}
