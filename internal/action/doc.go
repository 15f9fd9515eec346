// Package action executes the side effect bound to a recognized gesture.
//
// An action identifier selects the executor by namespace prefix:
//
//	"Firefox"            focus the application (no prefix)
//	"app:Firefox"        focus the application
//	"key:Escape"         release the gesture keys, then tap Escape
//	"key:ControlLeft+C"  release the gesture keys, then tap Ctrl+C
//	"lua:focus('Mail')"  run a Lua chunk
//
// Executors run synchronously. Wrap them in a Worker to move side effects
// off the input thread; the worker runs jobs one at a time in submission
// order.
//
//	router := action.NewRouter(action.NewFocuser())
//	router.Register("key", action.NewSynth(vk, keymap.Mapper{}))
//	worker := action.NewWorker(router, action.WithLogger(logger))
//	worker.Start()
//	defer worker.Stop()
//
//	_ = worker.Execute(ctx, action.Request{Action: "Firefox"})
package action
