package scene

import (
	stdmath "math"

	"scene-editor/core"
	"scene-editor/math"
)

const (
	// Clip planes of the projection.
	cameraNear = 0.1
	cameraFar  = 100.0

	// Pitch is kept inside this range so front never lines up with worldUp.
	maxPitch = 89.0

	// orbitSpeed scales orbit offsets; it is independent of MouseSensitivity.
	orbitSpeed = 1.0
	// zoomSpeed is the dolly distance per scroll unit.
	zoomSpeed = 0.1
	// panFactor is multiplied by MouseSensitivity to get the pan speed.
	panFactor = 0.05
	// focusFactor scales the target's bounding size into a viewing distance.
	focusFactor = 0.2

	// Scroll keeps the camera between these distances from the world origin.
	minOriginDistance = 1.0
	maxOriginDistance = 80.0
)

// CameraConfig holds the tunables a Camera is built with. Start from
// DefaultCameraConfig; non-positive speeds and zoom fall back to the defaults.
type CameraConfig struct {
	Position         math.Vec3
	Yaw              float32
	Pitch            float32
	MovementSpeed    float32
	MouseSensitivity float32
	Zoom             float32
}

// DefaultCameraConfig looks down -Z from three units back.
func DefaultCameraConfig() CameraConfig {
	return CameraConfig{
		Position:         math.NewVec3(0, 0, 3),
		Yaw:              -90,
		Pitch:            0,
		MovementSpeed:    2.5,
		MouseSensitivity: 0.1,
		Zoom:             45,
	}
}

// Camera is a yaw/pitch fly camera that can also orbit, dolly and pan.
//
// Front, Right and Up are derived from Yaw, Pitch and WorldUp by
// updateVectors and are never assigned anywhere else. Pitch stays in
// [-89, 89] degrees.
type Camera struct {
	position math.Vec3
	front    math.Vec3
	up       math.Vec3
	right    math.Vec3
	worldUp  math.Vec3

	yaw   float32
	pitch float32

	movementSpeed    float32
	mouseSensitivity float32
	zoom             float32

	fpsMode bool
}

// NewCamera returns a camera with the default configuration.
func NewCamera() *Camera {
	return NewCameraWithConfig(DefaultCameraConfig())
}

// NewCameraWithConfig builds a camera from cfg.
func NewCameraWithConfig(cfg CameraConfig) *Camera {
	def := DefaultCameraConfig()
	if cfg.MovementSpeed <= 0 {
		cfg.MovementSpeed = def.MovementSpeed
	}
	if cfg.MouseSensitivity <= 0 {
		cfg.MouseSensitivity = def.MouseSensitivity
	}
	if cfg.Zoom <= 0 {
		cfg.Zoom = def.Zoom
	}

	c := &Camera{
		position:         cfg.Position,
		worldUp:          math.Vec3Up,
		yaw:              cfg.Yaw,
		pitch:            math.Clamp(cfg.Pitch, -maxPitch, maxPitch),
		movementSpeed:    cfg.MovementSpeed,
		mouseSensitivity: cfg.MouseSensitivity,
		zoom:             cfg.Zoom,
	}
	c.updateVectors()
	return c
}

// ProjectionMatrix returns the perspective projection for the given aspect
// ratio, using Zoom as the vertical field of view.
func (c *Camera) ProjectionMatrix(aspectRatio float32) math.Mat4 {
	return math.Mat4Perspective(math.Radians(c.zoom), aspectRatio, cameraNear, cameraFar)
}

// ViewMatrix looks from Position along Front.
func (c *Camera) ViewMatrix() math.Mat4 {
	return math.Mat4LookAt(c.position, c.position.Add(c.front), c.up)
}

// ProcessKeyboard moves the camera for W/S (along Front) and A/D (along
// Right). FPS mode doubles the speed. Other keys are ignored.
func (c *Camera) ProcessKeyboard(key int, deltaTime float32) {
	velocity := c.movementSpeed * deltaTime
	if c.fpsMode {
		velocity *= 2
	}

	switch key {
	case core.KeyW:
		c.position = c.position.Add(c.front.Mul(velocity))
	case core.KeyS:
		c.position = c.position.Sub(c.front.Mul(velocity))
	case core.KeyA:
		c.position = c.position.Sub(c.right.Mul(velocity))
	case core.KeyD:
		c.position = c.position.Add(c.right.Mul(velocity))
	}
}

// ProcessMouseMovement turns the camera in place (mouse-look).
func (c *Camera) ProcessMouseMovement(xoffset, yoffset float32) {
	c.rotate(xoffset*c.mouseSensitivity, yoffset*c.mouseSensitivity)
}

// ProcessMouseOrbit turns the camera and then places it on the sphere around
// target whose radius is the distance before the call.
func (c *Camera) ProcessMouseOrbit(xoffset, yoffset float32, target math.Vec3) {
	distance := target.Sub(c.position).Length()
	c.rotate(xoffset*orbitSpeed, yoffset*orbitSpeed)
	c.position = target.Sub(c.front.Mul(distance))
}

// ProcessMouseScroll dollies along Front, then clamps the distance from the
// world origin (not from any orbit target) into [1, 80].
func (c *Camera) ProcessMouseScroll(yoffset float32) {
	c.position = c.position.Add(c.front.Mul(yoffset * zoomSpeed))

	dist := c.position.Length()
	switch {
	case dist == 0:
		// No direction to push along; back off along Front instead.
		c.position = c.front.Mul(-minOriginDistance)
	case dist < minOriginDistance:
		c.position = c.position.Normalize().Mul(minOriginDistance)
	case dist > maxOriginDistance:
		c.position = c.position.Normalize().Mul(maxOriginDistance)
	}
}

// ProcessMousePan slides the camera in its own Right/Up plane. Dragging right
// moves the camera left, dragging down moves it up, so the scene follows the
// cursor.
func (c *Camera) ProcessMousePan(xoffset, yoffset float32) {
	panSpeed := c.mouseSensitivity * panFactor
	c.position = c.position.Add(c.right.Mul(-xoffset * panSpeed))
	c.position = c.position.Sub(c.up.Mul(yoffset * panSpeed))
}

// ResetFocus keeps the current orientation and backs the camera away from
// target by a fifth of the size's length.
func (c *Camera) ResetFocus(target, size math.Vec3) {
	distance := size.Length() * focusFactor
	c.position = target.Sub(c.front.Mul(distance))
	c.updateVectors()
}

func (c *Camera) EnableFPSMode(enable bool) {
	c.fpsMode = enable
}

func (c *Camera) IsFPSModeEnabled() bool {
	return c.fpsMode
}

// Update is called once per frame. It has nothing to do yet.
func (c *Camera) Update(deltaTime float32) {}

func (c *Camera) Position() math.Vec3       { return c.position }
func (c *Camera) Front() math.Vec3          { return c.front }
func (c *Camera) Right() math.Vec3          { return c.right }
func (c *Camera) Up() math.Vec3             { return c.up }
func (c *Camera) WorldUp() math.Vec3        { return c.worldUp }
func (c *Camera) Yaw() float32              { return c.yaw }
func (c *Camera) Pitch() float32            { return c.pitch }
func (c *Camera) Zoom() float32             { return c.zoom }
func (c *Camera) MovementSpeed() float32    { return c.movementSpeed }
func (c *Camera) MouseSensitivity() float32 { return c.mouseSensitivity }

func (c *Camera) rotate(dyaw, dpitch float32) {
	c.yaw += dyaw
	c.pitch = math.Clamp(c.pitch+dpitch, -maxPitch, maxPitch)
	c.updateVectors()
}

// updateVectors is the only place the basis is derived.
func (c *Camera) updateVectors() {
	yaw := float64(math.Radians(c.yaw))
	pitch := float64(math.Radians(c.pitch))

	front := math.Vec3{
		X: float32(stdmath.Cos(yaw) * stdmath.Cos(pitch)),
		Y: float32(stdmath.Sin(pitch)),
		Z: float32(stdmath.Sin(yaw) * stdmath.Cos(pitch)),
	}
	c.front = front.Normalize()
	c.right = c.front.Cross(c.worldUp).Normalize()
	c.up = c.right.Cross(c.front).Normalize()
}
