package input

import (
	"github.com/veandco/go-sdl2/sdl"

	"github.com/Faultbox/midgard-shade/internal/engine/camera"
)

// panSpeed is the keyboard pan rate in HandleMovement units per second.
const panSpeed = 60

// OrbitController drives an orbit camera: left drag rotates, the wheel
// zooms and WASD/QE pan the center.
type OrbitController struct {
	Camera *camera.OrbitCamera

	dragging bool
	held     map[sdl.Scancode]bool
}

// NewOrbitController returns a controller for c.
func NewOrbitController(c *camera.OrbitCamera) *OrbitController {
	return &OrbitController{Camera: c, held: make(map[sdl.Scancode]bool)}
}

// Dragging reports whether a rotate drag is in progress.
func (o *OrbitController) Dragging() bool {
	return o.dragging
}

// Apply feeds one frame of events and advances held-key panning by dt seconds.
func (o *OrbitController) Apply(events []Event, dt float32) {
	for _, e := range events {
		switch e.Type {
		case EventMouseDown:
			if e.Button == sdl.BUTTON_LEFT {
				o.dragging = true
			}
		case EventMouseUp:
			if e.Button == sdl.BUTTON_LEFT {
				o.dragging = false
			}
		case EventMouseMove:
			if o.dragging {
				o.Camera.HandleDrag(float32(e.RelX), float32(e.RelY))
			}
		case EventMouseWheel:
			o.Camera.HandleZoom(e.Wheel)
		case EventKeyDown:
			o.held[e.Key] = true
		case EventKeyUp:
			delete(o.held, e.Key)
		}
	}

	forward := o.axis(sdl.SCANCODE_W, sdl.SCANCODE_S)
	right := o.axis(sdl.SCANCODE_D, sdl.SCANCODE_A)
	up := o.axis(sdl.SCANCODE_E, sdl.SCANCODE_Q)
	if forward != 0 || right != 0 || up != 0 {
		o.Camera.HandleMovement(forward*panSpeed*dt, right*panSpeed*dt, up*panSpeed*dt)
	}
}

func (o *OrbitController) axis(pos, neg sdl.Scancode) float32 {
	var v float32
	if o.held[pos] {
		v++
	}
	if o.held[neg] {
		v--
	}
	return v
}
