//go:build !linux && !darwin

package ui

func disableInputEcho(int) (func(), error) { return nil, nil }
