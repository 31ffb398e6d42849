// Package signal provides observable values backed by a genref.Arena.
//
// An Owned signal keeps its value, a dirty flag and a list of subscribers in
// one arena slot. Signal is the copyable handle that widgets and callbacks
// hold on to; it goes stale when the Owned signal is released.
//
//	arena := genref.NewArena()
//	height := signal.New(arena, 100.0)
//	defer height.Release()
//
//	h := height.Signal()
//	h.Subscribe(func(v *float64) bool {
//	    fmt.Println("height is now", *v)
//	    return true // stay subscribed
//	})
//	h.Set(200)
//
// Subscribers run while the signal is borrowed exclusively. A subscriber
// that tries to borrow or update the signal it is notified from gets
// genref.ErrAliasing.
package signal
