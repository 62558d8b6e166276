//go:build !sdl

package main

import "errors"

func newSDLFrontend() (Frontend, error) {
	return nil, errors.New("built without SDL support, rebuild with -tags sdl")
}
