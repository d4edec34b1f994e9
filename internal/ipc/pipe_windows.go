//go:build windows

package ipc

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"sync"
	"time"

	"github.com/Microsoft/go-winio"
)

const dialTimeout = 2 * time.Second

// Serve accepts control connections on pipeName until ctx is done.
func Serve(ctx context.Context, pipeName string, h Handler) error {
	if h == nil {
		return errors.New("ipc server requires a handler")
	}
	if pipeName == "" {
		pipeName = DefaultPipeName()
	}

	l, err := winio.ListenPipe(pipeName, &winio.PipeConfig{
		InputBufferSize:  maxFrameBytes,
		OutputBufferSize: maxFrameBytes,
	})
	if err != nil {
		return fmt.Errorf("listen %s: %w", pipeName, err)
	}
	log.Printf("IPC: listening on %s", pipeName)

	go func() {
		<-ctx.Done()
		l.Close()
	}()

	var wg sync.WaitGroup
	defer wg.Wait()

	failures := 0
	for {
		conn, err := l.Accept()
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, winio.ErrPipeListenerClosed) || errors.Is(err, net.ErrClosed) {
				return nil
			}
			failures++
			log.Printf("IPC: accept failed: %v", err)
			if failures > 10 {
				time.Sleep(500 * time.Millisecond)
			}
			continue
		}
		failures = 0

		wg.Add(1)
		go func() {
			defer wg.Done()
			serveConn(conn, h)
		}()
	}
}

// Send delivers req to the instance listening on pipeName.
func Send(pipeName string, req Request) (Response, error) {
	if pipeName == "" {
		pipeName = DefaultPipeName()
	}
	timeout := dialTimeout
	conn, err := winio.DialPipe(pipeName, &timeout)
	if err != nil {
		return Response{}, fmt.Errorf("connect to running instance: %w", err)
	}
	defer conn.Close()
	return roundTrip(conn, req)
}
