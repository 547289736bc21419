package core

// Key and mouse button codes. The values are glfw's, so events coming out of
// the platform window compare directly against them.
const (
	KeyA            = 65
	KeyD            = 68
	KeyF            = 70
	KeyS            = 83
	KeyW            = 87
	KeyY            = 89
	KeyZ            = 90
	KeyEscape       = 256
	KeyDelete       = 261
	KeyLeftShift    = 340
	KeyLeftControl  = 341
	KeyLeftAlt      = 342
	KeyRightShift   = 344
	KeyRightControl = 345
	KeyRightAlt     = 346
)

const (
	MouseLeft   = 0
	MouseRight  = 1
	MouseMiddle = 2
)
