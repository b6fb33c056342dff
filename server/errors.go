package server

import "errors"

var (
	ErrNoRoutes = errors.New("server: route tree is required")
	ErrListen   = errors.New("server: failed to listen")
	ErrAccept   = errors.New("server: failed to accept connection")
	ErrShutdown = errors.New("server: connections still open after shutdown timeout")
)
