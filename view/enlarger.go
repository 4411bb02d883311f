package view

import (
	"image"
	"sync"
)

// enlarger runs at most one render at a time, coalescing any request
// that arrives while one is in flight down to the most recent page,
// per §5's "one outstanding request at a time, coalesced by page".
type enlarger struct {
	mu         sync.Mutex
	inFlight   bool
	hasPending bool
	pending    int

	pendingRender func() (image.Image, error)
	pendingReady  func(image.Image)
}

func (e *enlarger) request(page int, render func() (image.Image, error), onReady func(image.Image)) {
	e.mu.Lock()
	if e.inFlight {
		e.pending = page
		e.hasPending = true
		e.pendingRender, e.pendingReady = render, onReady
		e.mu.Unlock()
		return
	}
	e.inFlight = true
	e.mu.Unlock()
	go e.run(page, render, onReady)
}

func (e *enlarger) run(page int, render func() (image.Image, error), onReady func(image.Image)) {
	img, err := render()
	e.mu.Lock()
	e.inFlight = false
	next, has := e.pending, e.hasPending
	nextRender, nextReady := e.pendingRender, e.pendingReady
	e.hasPending = false
	e.pendingRender, e.pendingReady = nil, nil
	e.mu.Unlock()
	if err == nil && onReady != nil {
		onReady(img)
	}
	if has {
		e.request(next, nextRender, nextReady)
	}
}
