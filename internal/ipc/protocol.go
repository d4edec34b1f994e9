// Package ipc lets a second BinkyBox process, or `binkybox -send`, control
// the running instance. Each connection carries one newline-terminated JSON
// request and one JSON response.
package ipc

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/TanaroSch/binkybox/internal/userutil"
)

const (
	defaultPipePrefix = `\\.\pipe\BinkyBox-`

	maxFrameBytes      = 4 * 1024
	defaultConnTimeout = 5 * time.Second
)

// Commands understood by the running instance.
const (
	CommandReload   = "reload"
	CommandSettings = "settings"
	CommandQuit     = "quit"
	CommandSwitch   = "switch"
)

// ErrUnsupported is returned where named pipes are not available.
var ErrUnsupported = errors.New("instance control is only available on Windows")

// Request is one control command. Desktop is the 1-based desktop of a
// switch command.
type Request struct {
	Command string `json:"command"`
	Desktop int    `json:"desktop,omitempty"`
}

func (r Request) String() string {
	if r.Command == CommandSwitch {
		return fmt.Sprintf("%s:%d", r.Command, r.Desktop)
	}
	return r.Command
}

// Response reports whether the command was accepted.
type Response struct {
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

// Handler executes control requests.
type Handler interface {
	Handle(req Request) Response
}

// HandlerFunc adapts a function to Handler.
type HandlerFunc func(Request) Response

func (f HandlerFunc) Handle(req Request) Response { return f(req) }

// ParseCommand parses the text form used on the command line:
// reload, settings, quit or switch:N.
func ParseCommand(s string) (Request, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	name, arg, hasArg := strings.Cut(s, ":")

	switch name {
	case CommandReload, CommandSettings, CommandQuit:
		if hasArg {
			return Request{}, fmt.Errorf("command '%s' takes no argument", name)
		}
		return Request{Command: name}, nil
	case CommandSwitch:
		n, err := strconv.Atoi(arg)
		if !hasArg || err != nil || n < 1 {
			return Request{}, fmt.Errorf("switch needs a desktop number, e.g. switch:2")
		}
		return Request{Command: CommandSwitch, Desktop: n}, nil
	default:
		return Request{}, fmt.Errorf("unknown command '%s'", s)
	}
}

// DefaultPipeName returns the per-user pipe of the running instance.
func DefaultPipeName() string {
	return defaultPipePrefix + userutil.CurrentUsername()
}

// serveConn handles one request on conn.
func serveConn(conn net.Conn, h Handler) {
	defer conn.Close()
	if err := conn.SetDeadline(time.Now().Add(defaultConnTimeout)); err != nil {
		log.Printf("IPC: failed to set connection deadline: %v", err)
		return
	}

	raw, err := readFrame(bufio.NewReaderSize(conn, maxFrameBytes+1))
	if errors.Is(err, io.EOF) {
		return
	}
	if err != nil {
		writeFrame(conn, Response{Error: fmt.Sprintf("invalid request: %v", err)})
		return
	}

	var req Request
	if err := json.Unmarshal(raw, &req); err != nil {
		writeFrame(conn, Response{Error: fmt.Sprintf("invalid request: %v", err)})
		return
	}
	log.Printf("IPC: received '%s'", req)
	writeFrame(conn, safeHandle(h, req))
}

func safeHandle(h Handler, req Request) (resp Response) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("RECOVERED FROM PANIC IN IPC HANDLER (%s): %v", req, r)
			resp = Response{Error: "internal error"}
		}
	}()
	return h.Handle(req)
}

// roundTrip sends req on conn and reads the response.
func roundTrip(conn net.Conn, req Request) (Response, error) {
	if err := conn.SetDeadline(time.Now().Add(defaultConnTimeout)); err != nil {
		return Response{}, fmt.Errorf("set deadline: %w", err)
	}
	if err := writeFrame(conn, req); err != nil {
		return Response{}, err
	}
	raw, err := readFrame(bufio.NewReaderSize(conn, maxFrameBytes+1))
	if err != nil {
		return Response{}, err
	}
	var resp Response
	if err := json.Unmarshal(raw, &resp); err != nil {
		return Response{}, fmt.Errorf("invalid response: %w", err)
	}
	return resp, nil
}

func writeFrame(w io.Writer, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	raw = append(raw, '\n')
	if _, err := w.Write(raw); err != nil {
		return fmt.Errorf("write: %w", err)
	}
	return nil
}

func readFrame(r *bufio.Reader) ([]byte, error) {
	raw, err := r.ReadSlice('\n')
	if errors.Is(err, bufio.ErrBufferFull) {
		return nil, fmt.Errorf("frame exceeds %d bytes", maxFrameBytes)
	}
	if errors.Is(err, io.EOF) {
		if len(raw) == 0 {
			return nil, io.EOF
		}
		return raw, nil
	}
	if err != nil {
		return nil, err
	}
	return raw, nil
}
