package loop

import (
	"fmt"
	"time"

	"github.com/tomz197/lasereye/internal/draw"
	"github.com/tomz197/lasereye/internal/game"
)

// drawUI draws the text overlay for the current phase.
func (s *Session) drawUI(now time.Time) {
	termWidth := s.canvas.TerminalWidth()
	termHeight := s.canvas.TerminalHeight()
	centerX := termWidth / 2
	centerY := termHeight / 2

	if s.state.Phase == PhaseShutdown {
		s.drawShutdownScreen(now, centerX, centerY)
		return
	}
	if s.state.idle {
		s.drawInactivityScreen(now, centerX, centerY)
		return
	}

	switch s.state.Phase {
	case PhaseStart:
		s.drawStartScreen(now, centerX, centerY)
	case PhasePlaying:
		s.drawPlayingHUD(termWidth, termHeight)
	}
}

var titleArt = []string{
	` _      _   ___ ___ ___   _____   _____ `,
	`| |    /_\ / __| __| _ \ | __\ \ / / __|`,
	`| |__ / _ \\__ \ _||   / | _| \ V /| _| `,
	`|____/_/ \_\___/___|_|_\ |___| |_| |___|`,
}

// drawStartScreen draws the title screen.
func (s *Session) drawStartScreen(now time.Time, centerX, centerY int) {
	cw := s.cw
	titleWidth := len(titleArt[0])
	titleY := centerY - 7
	for i, line := range titleArt {
		cw.WriteColorAt(centerX-titleWidth/2, titleY+i, draw.Red, line)
	}

	subtitle := "~ shoot the sky with your eyes ~"
	cw.WriteAt(centerX-len(subtitle)/2, titleY+len(titleArt)+1, subtitle)

	controlsY := titleY + len(titleArt) + 3
	header := "Controls"
	cw.WriteAt(centerX-len(header)/2, controlsY, header)
	controls := []string{
		"Mouse  . . . . . . .  Aim",
		"Click  . . . . . . . Fire",
		"Right click / P  . . Power",
		"Esc  . . . . . . .  Title",
		"Q  . . . . . . . . . Quit",
	}
	for i, line := range controls {
		cw.WriteAt(centerX-len(line)/2, controlsY+1+i, line)
	}

	if now.UnixMilli()/600%2 == 0 {
		prompt := ">>  Click or press SPACE to start  <<"
		cw.WriteAt(centerX-len(prompt)/2, controlsY+len(controls)+2, prompt)
	} else {
		cw.WriteAt(centerX-20, controlsY+len(controls)+2, fmt.Sprintf("%-40s", ""))
	}

	if s.opts.Hub != nil {
		online := fmt.Sprintf("Players online: %d", s.opts.Hub.Count())
		cw.WriteAt(centerX-len(online)/2, controlsY+len(controls)+4, online)
	}
}

// powerLabel renders the power indicator with a fixed width.
func powerLabel(ind game.PowerIndicator) (string, draw.Color) {
	switch ind {
	case game.IndicatorReady:
		return "POWER  READY   ", draw.Green
	case game.IndicatorCharging:
		return "POWER  CHARGING", draw.Yellow
	}
	return "POWER  ----    ", draw.Gray
}

// drawPlayingHUD draws score, power and frame rate. Fields are fixed-width so
// shrinking values leave nothing behind.
func (s *Session) drawPlayingHUD(termWidth, termHeight int) {
	cw := s.cw
	cw.WriteAt(2, 1, fmt.Sprintf("Score: %-8d", s.scene.Score()))

	label, col := powerLabel(s.scene.Indicator())
	cw.WriteColorAt(termWidth-len(label)-1, 1, col, label)

	cw.WriteAt(2, termHeight, fmt.Sprintf("FPS: %-4d", s.engine.FPS()))

	if name := displayName(s.opts.Username); name != "" {
		text := fmt.Sprintf("%*s", MaxUsernameLength, name)
		cw.WriteAt(termWidth-len(text)-1, termHeight, text)
	}
}

// displayName truncates a username for the HUD.
func displayName(name string) string {
	r := []rune(name)
	if len(r) > MaxUsernameLength {
		return string(r[:MaxUsernameLength-1]) + "…"
	}
	return name
}

// drawInactivityScreen warns before an idle disconnect.
func (s *Session) drawInactivityScreen(now time.Time, centerX, centerY int) {
	cw := s.cw
	title := "INACTIVITY WARNING"
	cw.WriteAt(centerX-len(title)/2, centerY-2, title)

	left := s.opts.IdleTimeout - now.Sub(s.state.lastInput)
	msg := fmt.Sprintf("You will be disconnected in %2d seconds.", int(left.Seconds()))
	cw.WriteAt(centerX-len(msg)/2, centerY, msg)

	hint := "Move the mouse or press any key to continue"
	cw.WriteAt(centerX-len(hint)/2, centerY+2, hint)
}

// drawShutdownScreen draws the server shutdown notice.
func (s *Session) drawShutdownScreen(now time.Time, centerX, centerY int) {
	cw := s.cw
	title := "SERVER SHUTTING DOWN"
	cw.WriteColorAt(centerX-len(title)/2, centerY-3, draw.Yellow, title)

	msg1 := "The server is restarting for maintenance."
	cw.WriteAt(centerX-len(msg1)/2, centerY-1, msg1)
	msg2 := "Please reconnect in a moment."
	cw.WriteAt(centerX-len(msg2)/2, centerY, msg2)

	remaining := int(s.state.shutdownAt.Sub(now).Seconds()) + 1
	countdown := fmt.Sprintf("Disconnecting in %2d seconds...", remaining)
	cw.WriteAt(centerX-len(countdown)/2, centerY+2, countdown)

	hint := "Press Q to disconnect now"
	cw.WriteAt(centerX-len(hint)/2, centerY+4, hint)
}
