package cmd

import (
	"os"

	"golang.org/x/term"
)

type snapshotSize struct {
	Width          int
	Height         int
	DetectedWidth  int
	DetectedHeight int
}

// resolveSnapshotSize prefers the flag values, then the detected terminal
// size, then 80x24.
func resolveSnapshotSize(flagWidth, flagHeight, detectedWidth, detectedHeight int) snapshotSize {
	width, height := flagWidth, flagHeight
	if width <= 0 || height <= 0 {
		if detectedWidth <= 0 || detectedHeight <= 0 {
			w, h := detectTerminalSize()
			if detectedWidth <= 0 {
				detectedWidth = w
			}
			if detectedHeight <= 0 {
				detectedHeight = h
			}
		}
		if width <= 0 && detectedWidth > 0 {
			width = detectedWidth
		}
		if height <= 0 && detectedHeight > 0 {
			height = detectedHeight
		}
	}
	if width <= 0 {
		width = 80
	}
	if height <= 0 {
		height = 24
	}
	return snapshotSize{Width: width, Height: height, DetectedWidth: detectedWidth, DetectedHeight: detectedHeight}
}

var termGetSize = term.GetSize

func detectTerminalSize() (int, int) {
	w, h, err := termGetSize(int(os.Stdout.Fd()))
	if err != nil {
		return 0, 0
	}
	return w, h
}
