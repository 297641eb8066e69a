// Package ulwi provides the host side of the ULWI protocol.
package ulwi

// ULWI is spoken between a host and a Wi-Fi companion co-processor over a
// plain byte stream (usually a UART). It has no framing, no sequence numbers
// and no error detection:
//
//   - commands are single ASCII lines: a mnemonic, then optional fields
//     separated by 0x1F, terminated by CRLF;
//   - short replies are bare tokens (e.g. "S", "U", "P", "N") followed by CRLF;
//   - bulk replies are bracketed by a flow control marker pair (XON/XOFF
//     style) on the same stream.
//
// Exactly one command is outstanding at a time. Stale input is drained
// before every command since there is no correlation between a reply and
// the command that produced it.
//
// Producer: companion firmware
// Consumer: host (this package)
