package viewer

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"cosmossdk.io/log"
	"github.com/gdamore/tcell/v2"

	"github.com/oxygene76/orrery/internal/types"
	"github.com/oxygene76/orrery/pkg/astronomy/catalog"
	"github.com/oxygene76/orrery/pkg/orrery/control"
)

const (
	scaleStep = 0.25
	speedStep = 0.5
)

// Controls is the subset of the simulation the viewer drives from the keyboard
type Controls interface {
	TogglePause() bool
	SetSpeed(v float64) float64
	SetScale(v float64) float64
	ToggleSkybox() bool
	SelectBody(id catalog.BodyID) catalog.BodyID
	ClearSelection()
	State() control.State
}

// Viewer draws frames as a top-down map in the terminal and maps keys to
// control actions
type Viewer struct {
	screen tcell.Screen
	ctrl   Controls
	bodies []types.BodyInfo
	styles map[string]tcell.Style
	logger log.Logger

	mu        sync.Mutex
	last      types.FrameMessage
	closeOnce sync.Once
}

// New creates a viewer on an initialised screen
func New(screen tcell.Screen, ctrl Controls, bodies []types.BodyInfo, logger log.Logger) *Viewer {
	if logger == nil {
		logger = log.NewNopLogger()
	}
	v := &Viewer{
		screen: screen,
		ctrl:   ctrl,
		bodies: bodies,
		styles: make(map[string]tcell.Style, len(bodies)),
		logger: logger.With("component", "viewer"),
	}
	for _, b := range bodies {
		v.styles[b.ID] = tcell.StyleDefault.Foreground(tcell.GetColor(b.Color))
	}
	return v
}

// OnFrame stores and draws frame
func (v *Viewer) OnFrame(_ context.Context, frame types.FrameMessage) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.last = frame
	v.draw()
	return nil
}

// Close restores the terminal
func (v *Viewer) Close() error {
	v.closeOnce.Do(v.screen.Fini)
	return nil
}

// Run handles input until q is pressed or ctx is cancelled
func (v *Viewer) Run(ctx context.Context) error {
	go func() {
		<-ctx.Done()
		_ = v.screen.PostEvent(tcell.NewEventInterrupt(nil))
	}()

	for {
		switch ev := v.screen.PollEvent().(type) {
		case nil:
			return nil
		case *tcell.EventInterrupt:
			if ctx.Err() != nil {
				return nil
			}
		case *tcell.EventResize:
			v.screen.Sync()
			v.redraw()
		case *tcell.EventKey:
			if !v.HandleKey(ev.Key(), ev.Rune()) {
				return nil
			}
		}
	}
}

// HandleKey applies the action bound to a key. It returns false for quit.
func (v *Viewer) HandleKey(key tcell.Key, r rune) bool {
	switch key {
	case tcell.KeyEscape:
		v.ctrl.ClearSelection()
		return true
	case tcell.KeyCtrlC:
		return false
	case tcell.KeyRune:
	default:
		return true
	}

	st := v.ctrl.State()
	switch {
	case r == 'q':
		return false
	case r == ' ':
		v.ctrl.TogglePause()
	case r == '+' || r == '=':
		v.ctrl.SetScale(st.Scale + scaleStep)
	case r == '-':
		v.ctrl.SetScale(st.Scale - scaleStep)
	case r == ']':
		v.ctrl.SetSpeed(st.Speed + speedStep)
	case r == '[':
		v.ctrl.SetSpeed(st.Speed - speedStep)
	case r == 'r':
		v.ctrl.SetSpeed(-st.Speed)
	case r == 's':
		v.ctrl.ToggleSkybox()
	case r >= '0' && r <= '9':
		if i := int(r - '0'); i < len(v.bodies) {
			v.ctrl.SelectBody(catalog.BodyID(v.bodies[i].ID))
		}
	}
	return true
}

func (v *Viewer) redraw() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.draw()
}

// draw renders the last frame; callers hold mu
func (v *Viewer) draw() {
	s := v.screen
	s.Clear()
	w, h := s.Size()
	if w < 10 || h < 5 {
		s.Show()
		return
	}

	f := v.last
	if f.Control.Skybox {
		drawStars(s, w, h-1)
	}

	if len(f.Bodies) > 0 {
		center := f.Bodies[0].World
		extent := Extent(f)
		// draw back to front so the center stays on top
		for i := len(f.Bodies) - 1; i >= 0; i-- {
			b := f.Bodies[i]
			if i == 0 && f.Control.Reveal == 0 {
				continue
			}
			x, y := Project(b.World, center, extent, w, h-1)
			v.drawBody(x, y, b, i == 0, b.ID == f.Control.Selected)
		}
	}

	drawText(s, 0, h-1, tcell.StyleDefault.Reverse(true), padRight(StatusLine(f), w))
	s.Show()
}

func (v *Viewer) drawBody(x, y int, b types.BodyPose, isCenter, selected bool) {
	style, ok := v.styles[b.ID]
	if !ok {
		style = tcell.StyleDefault
	}
	glyph := v.glyph(b.ID, isCenter)
	if isCenter {
		style = style.Bold(true)
	}
	if selected {
		v.screen.SetContent(x-1, y, '[', nil, style)
		v.screen.SetContent(x+1, y, ']', nil, style)
		style = style.Reverse(true)
	}
	v.screen.SetContent(x, y, glyph, nil, style)
}

func (v *Viewer) glyph(id string, isCenter bool) rune {
	if isCenter {
		return '@'
	}
	for _, b := range v.bodies {
		if b.ID == id && b.Name != "" {
			return []rune(strings.ToLower(b.Name))[0]
		}
	}
	return 'o'
}

// StatusLine summarises the control state of a frame
func StatusLine(f types.FrameMessage) string {
	c := f.Control
	parts := []string{
		fmt.Sprintf("phase %s", c.Phase),
		fmt.Sprintf("speed %+.2fx", c.Speed),
		fmt.Sprintf("scale %.2f", c.Scale),
	}
	if c.Paused {
		parts = append(parts, "PAUSED")
	}
	if c.Selected != "" {
		parts = append(parts, "selected "+c.Selected)
	}
	if !c.Skybox {
		parts = append(parts, "skybox off")
	}
	return " " + strings.Join(parts, " | ")
}

// drawStars scatters a fixed star field
func drawStars(s tcell.Screen, w, h int) {
	style := tcell.StyleDefault.Foreground(tcell.ColorGray)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if (x*7919+y*104729)%97 == 0 {
				s.SetContent(x, y, '.', nil, style)
			}
		}
	}
}

func drawText(s tcell.Screen, x, y int, style tcell.Style, text string) {
	for _, r := range text {
		s.SetContent(x, y, r, nil, style)
		x++
	}
}

func padRight(text string, w int) string {
	n := len([]rune(text))
	if n >= w {
		return string([]rune(text)[:w])
	}
	return text + strings.Repeat(" ", w-n)
}
