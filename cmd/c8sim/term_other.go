//go:build !linux && !darwin

package main

import "errors"

func newTerminalFrontend() (Frontend, error) {
	return nil, errors.New("terminal frontend requires linux or darwin")
}
