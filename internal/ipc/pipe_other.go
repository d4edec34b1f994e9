//go:build !windows

package ipc

import "context"

// Serve returns ErrUnsupported outside Windows.
func Serve(context.Context, string, Handler) error { return ErrUnsupported }

// Send returns ErrUnsupported outside Windows.
func Send(string, Request) (Response, error) { return Response{}, ErrUnsupported }
