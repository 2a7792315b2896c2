// Package display maps timer state to what the running screen shows.
package display

import (
	"fmt"
	"strconv"

	"coachtimer/internal/core/phase"
)

// Background is the colour class of the running display.
type Background string

const (
	BackgroundWork      Background = "work"
	BackgroundRest      Background = "rest"
	BackgroundCountdown Background = "countdown"
)

// TextSize is the size class of the running display text.
type TextSize string

const (
	TextSizeDefault   TextSize = "default"
	TextSizeBreak     TextSize = "break"
	TextSizeCountdown TextSize = "countdown"
)

const (
	BreakText = "BREAK!"
	GoText    = "GO!"

	// countdownFrom is the last rest second shown as a bare digit.
	countdownFrom = 4
)

// View is the rendered state of the running display.
type View struct {
	Text       string
	Background Background
	TextSize   TextSize
}

// Render computes the display for a phase and remaining seconds.
func Render(current phase.Phase, remaining, restSeconds int) View {
	if current != phase.Rest {
		return View{Text: FormatClock(remaining), Background: BackgroundWork, TextSize: TextSizeDefault}
	}

	switch {
	case remaining == restSeconds:
		return View{Text: BreakText, Background: BackgroundRest, TextSize: TextSizeBreak}
	case remaining > 0 && remaining <= countdownFrom:
		return View{Text: strconv.Itoa(remaining), Background: BackgroundCountdown, TextSize: TextSizeCountdown}
	case remaining == 0:
		// work background announces the upcoming phase
		return View{Text: GoText, Background: BackgroundWork, TextSize: TextSizeCountdown}
	default:
		return View{Text: FormatClock(remaining), Background: BackgroundRest, TextSize: TextSizeDefault}
	}
}

// FormatClock converts seconds into m:ss with unpadded minutes.
func FormatClock(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
}
