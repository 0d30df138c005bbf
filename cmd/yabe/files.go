package main

import (
	"bytes"
	"errors"
	"io"
	"os"
)

func readInput(path string) ([]byte, error) {
	if path == "" || path == "-" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(path)
}

// writeOutput writes data to path, or stdout for "-". Files already holding
// data are left untouched and reported as unchanged.
func writeOutput(path string, data []byte) (bool, error) {
	if path == "" || path == "-" {
		_, err := os.Stdout.Write(data)
		return err == nil, err
	}
	existing, err := os.ReadFile(path)
	if err == nil && bytes.Equal(existing, data) {
		return false, nil
	}
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return false, err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return false, err
	}
	return true, nil
}
