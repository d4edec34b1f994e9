package ipc

import (
	"net"
	"strings"
	"testing"
)

func TestParseCommand(t *testing.T) {
	tests := []struct {
		in      string
		want    Request
		wantErr bool
	}{
		{in: "reload", want: Request{Command: CommandReload}},
		{in: " Settings ", want: Request{Command: CommandSettings}},
		{in: "quit", want: Request{Command: CommandQuit}},
		{in: "switch:3", want: Request{Command: CommandSwitch, Desktop: 3}},
		{in: "switch", wantErr: true},
		{in: "switch:0", wantErr: true},
		{in: "switch:x", wantErr: true},
		{in: "quit:now", wantErr: true},
		{in: "dance", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseCommand(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseCommand(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseCommand(%q) = %+v, want %+v", tt.in, got, tt.want)
			}
		})
	}
}

func TestRequestString(t *testing.T) {
	if got := (Request{Command: CommandSwitch, Desktop: 4}).String(); got != "switch:4" {
		t.Errorf("String() = %q", got)
	}
	if got := (Request{Command: CommandReload}).String(); got != "reload" {
		t.Errorf("String() = %q", got)
	}
}

func TestDefaultPipeName(t *testing.T) {
	t.Setenv("USERNAME", "unit user!")
	if got, want := DefaultPipeName(), `\\.\pipe\BinkyBox-unit_user_`; got != want {
		t.Fatalf("DefaultPipeName() = %q, want %q", got, want)
	}
}

func TestRoundTrip(t *testing.T) {
	client, server := net.Pipe()
	defer client.Close()

	var got Request
	go serveConn(server, HandlerFunc(func(req Request) Response {
		got = req
		return Response{OK: true}
	}))

	resp, err := roundTrip(client, Request{Command: CommandSwitch, Desktop: 2})
	if err != nil {
		t.Fatalf("roundTrip() error = %v", err)
	}
	if !resp.OK {
		t.Errorf("response = %+v", resp)
	}
	if got != (Request{Command: CommandSwitch, Desktop: 2}) {
		t.Errorf("handler got %+v", got)
	}
}

func TestServeConnRecoversHandlerPanic(t *testing.T) {
	client, server := net.Pipe()
	defer client.Close()

	go serveConn(server, HandlerFunc(func(Request) Response { panic("boom") }))

	resp, err := roundTrip(client, Request{Command: CommandQuit})
	if err != nil {
		t.Fatalf("roundTrip() error = %v", err)
	}
	if resp.OK || resp.Error == "" {
		t.Errorf("response = %+v, want an error", resp)
	}
}

func TestServeConnRejectsGarbage(t *testing.T) {
	client, server := net.Pipe()
	defer client.Close()

	go serveConn(server, HandlerFunc(func(Request) Response {
		t.Error("handler called for invalid request")
		return Response{}
	}))

	if _, err := client.Write([]byte("not json\n")); err != nil {
		t.Fatal(err)
	}
	buf := make([]byte, 256)
	n, err := client.Read(buf)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(buf[:n]), "invalid request") {
		t.Errorf("response = %s", buf[:n])
	}
}
