//go:build !cgo

package hal

type hostKeyboard struct{}

func newHostKeyboard() *hostKeyboard { return &hostKeyboard{} }

func (k *hostKeyboard) Held() KeySet    { return 0 }
func (k *hostKeyboard) Pressed() KeySet { return 0 }

func (k *hostKeyboard) poll() {
	// No keyboard support without the window backend.
}
