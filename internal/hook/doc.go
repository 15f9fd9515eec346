// Package hook delivers system-wide keyboard events to a handler and lets
// the handler suppress ("capture") individual events.
//
// On Linux the Evdev source grabs a keyboard device exclusively and
// re-emits every event the handler does not capture through a uinput
// virtual keyboard, so captured events never reach other applications.
//
//	vk, err := hook.NewVirtualKeyboard("keyfocus")
//	src := hook.NewEvdev("", vk, logger)
//	err = src.Run(ctx, func(ev hook.Event) bool {
//	    return dispatcher.Handle(ev)
//	})
//
// Events are delivered from a single goroutine in device order.
package hook
