package greeter

//go:generate mockgen -source=repaint.go -destination=../mock/repainter_mock.go -package=mock

// Repainter asks the rendering loop to draw a new frame. It must not block.
type Repainter interface {
	RequestRepaint()
}

// RepaintFunc adapts a function to Repainter.
type RepaintFunc func()

// RequestRepaint calls f.
func (f RepaintFunc) RequestRepaint() { f() }

type noRepaint struct{}

func (noRepaint) RequestRepaint() {}
