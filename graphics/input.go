package graphics

// Key, MouseButton, ModifierKey and Action carry the host input layer's
// native codes unchanged. With the GLFW backend a key can be given as
// graphics.Key(glfw.KeyLeft) or as a capital ASCII letter such as 'P'.
type (
	Key         int
	MouseButton int
	ModifierKey int
	Action      int
)

// Codes the framework interprets itself. Values match GLFW.
const (
	Release Action = 0
	Press   Action = 1
	Repeat  Action = 2

	KeyEscape Key = 256

	MouseButtonLeft   MouseButton = 0
	MouseButtonRight  MouseButton = 1
	MouseButtonMiddle MouseButton = 2
)
