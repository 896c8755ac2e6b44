package builtin

// MaxTouches is twice the number of physical touch points, so a frame can
// report five touches ending and five beginning.
const MaxTouches = 10

type ButtonState struct {
	Pressed           bool
	PressedThisFrame  bool
	ReleasedThisFrame bool
}

// ScreenPosition is in [0, 1] with the origin at the top-left corner.
type ScreenPosition struct {
	X, Y float32
}

type Cursor struct {
	Position ScreenPosition
	// Delta is the movement since last frame, also when the cursor is outside
	// the window.
	Delta ScreenPosition
}

type Mouse struct {
	Cursor       Cursor
	ScrollDelta  Vec2
	ButtonLeft   ButtonState
	ButtonRight  ButtonState
	ButtonMiddle ButtonState
	IsPresent    bool
}

type TouchPhase int32

const (
	TouchBegan TouchPhase = iota
	TouchMoved
	TouchStationary
	TouchEnded
)

func (p TouchPhase) String() string {
	switch p {
	case TouchBegan:
		return "began"
	case TouchMoved:
		return "moved"
	case TouchStationary:
		return "stationary"
	case TouchEnded:
		return "ended"
	}
	return "unknown"
}

type TouchInput struct {
	TouchID  uintptr
	Phase    TouchPhase
	Position ScreenPosition
	Delta    ScreenPosition
}

// InputState is the keyboard, mouse and touch state for the current frame.
type InputState struct {
	Letters [26]ButtonState // a-z
	Space   ButtonState
	Digits  [10]ButtonState // 0-9

	Mouse Mouse

	TouchList  [MaxTouches]TouchInput
	TouchesLen uintptr
}

// Key returns the state of a letter, digit or space key. Letters match
// either case; other keys report released.
func (s *InputState) Key(c rune) ButtonState {
	switch {
	case c >= 'a' && c <= 'z':
		return s.Letters[c-'a']
	case c >= 'A' && c <= 'Z':
		return s.Letters[c-'A']
	case c >= '0' && c <= '9':
		return s.Digits[c-'0']
	case c == ' ':
		return s.Space
	}
	return ButtonState{}
}

// KeyMut is Key for hosts writing input.
func (s *InputState) KeyMut(c rune) *ButtonState {
	switch {
	case c >= 'a' && c <= 'z':
		return &s.Letters[c-'a']
	case c >= 'A' && c <= 'Z':
		return &s.Letters[c-'A']
	case c >= '0' && c <= '9':
		return &s.Digits[c-'0']
	case c == ' ':
		return &s.Space
	}
	return nil
}

// Touches returns all active touches.
func (s *InputState) Touches() []TouchInput {
	n := min(int(s.TouchesLen), MaxTouches)
	return s.TouchList[:n]
}

func (s *InputState) TouchesBegan() []TouchInput { return s.touchesIn(TouchBegan) }

func (s *InputState) TouchesMoved() []TouchInput { return s.touchesIn(TouchMoved) }

func (s *InputState) TouchesEnded() []TouchInput { return s.touchesIn(TouchEnded) }

func (s *InputState) touchesIn(phase TouchPhase) []TouchInput {
	var out []TouchInput
	for _, t := range s.Touches() {
		if t.Phase == phase {
			out = append(out, t)
		}
	}
	return out
}
