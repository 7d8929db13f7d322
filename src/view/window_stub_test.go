//go:build !ebiten

package view

import (
	"errors"
	"testing"

	"torlife/src/universe"
)

func TestShowWindowWithoutTag(t *testing.T) {
	u, _ := universe.NewEmpty(2, 2)
	if err := ShowWindow(u, WindowOptions{}); !errors.Is(err, ErrNoWindow) {
		t.Fatalf("got %v", err)
	}
}
