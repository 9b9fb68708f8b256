package sysfunc

import (
	"runtime"
	"unicode/utf16"
	"unsafe"

	"github.com/ebitengine/purego"
	"github.com/pkg/errors"

	"github.com/hassan/script/internal/parser/ast"
	"github.com/hassan/script/internal/value"
)

// registerMedia wires `show_msg_box` and `play_music`, the two
// platform-gated UI/media primitives from spec.md §4.6. Both bind a
// Windows DLL export through purego rather than cgo; off Windows they
// fail with a host-error rather than silently no-op-ing, per spec.md
// §7's "no error is silently swallowed".
func (r *Registry) registerMedia() {
	r.register("show_msg_box", func(h Host, args []*ast.Node, call *ast.Node) (*value.Value, error) {
		if runtime.GOOS != "windows" {
			return nil, errors.New("show_msg_box is only available on windows")
		}
		title, err := argString(h, args, 0)
		if err != nil {
			return nil, err
		}
		msg, err := argString(h, args, 1)
		if err != nil {
			return nil, err
		}
		handle, err := purego.Dlopen("user32.dll", purego.RTLD_NOW)
		if err != nil {
			return nil, errors.Wrap(err, "show_msg_box: loading user32.dll")
		}
		sym, err := purego.Dlsym(handle, "MessageBoxW")
		if err != nil {
			return nil, errors.Wrap(err, "show_msg_box: resolving MessageBoxW")
		}
		msgPtr := utf16PtrFromString(msg)
		titlePtr := utf16PtrFromString(title)
		r1, _, _ := purego.SyscallN(sym, 0,
			uintptr(unsafe.Pointer(msgPtr)),
			uintptr(unsafe.Pointer(titlePtr)), 0)
		return value.InferUnsigned(uint64(r1)), nil
	})

	r.register("play_music", func(h Host, args []*ast.Node, call *ast.Node) (*value.Value, error) {
		if runtime.GOOS != "windows" {
			return nil, errors.New("play_music is only available on windows")
		}
		path, err := argString(h, args, 0)
		if err != nil {
			return nil, err
		}
		handle, err := purego.Dlopen("winmm.dll", purego.RTLD_NOW)
		if err != nil {
			return nil, errors.Wrap(err, "play_music: loading winmm.dll")
		}
		sym, err := purego.Dlsym(handle, "PlaySoundW")
		if err != nil {
			return nil, errors.Wrap(err, "play_music: resolving PlaySoundW")
		}
		const sndSync = 0x0000
		pathPtr := utf16PtrFromString(path)
		r1, _, _ := purego.SyscallN(sym, uintptr(unsafe.Pointer(pathPtr)), 0, sndSync)
		return value.Bool(r1 != 0), nil
	})
}

func utf16PtrFromString(s string) *uint16 {
	buf := utf16.Encode([]rune(s + "\x00"))
	return &buf[0]
}
