package router

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
)

// Fan copies every value from its input to all current subscribers. A slow
// subscriber stalls the whole fan, so subscribers must keep draining.
type Fan[T any] struct {
	debug   bool
	name    string
	mu      sync.Mutex
	input   <-chan T
	outputs map[string]chan T
	closed  bool
}

func NewFan[T any](name string, input <-chan T) *Fan[T] {
	return &Fan[T]{
		name:    name,
		input:   input,
		outputs: make(map[string]chan T),
	}
}

func (f *Fan[T]) SetDebug(debug bool) {
	f.debug = debug
}

func (f *Fan[T]) Subscribe(client string) <-chan T {
	if f.debug {
		slog.Debug("subscribing to fan", "fan", f.name, "client", client)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.outputs[client]; ok {
		panic(fmt.Sprintf("router: %s already subscribed to %s", client, f.name))
	}
	c := make(chan T, 1)
	if f.closed {
		close(c)
		return c
	}
	f.outputs[client] = c
	return c
}

func (f *Fan[T]) Unsubscribe(client string) {
	if f.debug {
		slog.Debug("unsubscribing from fan", "fan", f.name, "client", client)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.outputs[client]
	if !ok {
		return
	}
	close(c)
	delete(f.outputs, client)
}

// Run forwards values until the input is closed or ctx is done, then closes
// every subscriber channel.
func (f *Fan[T]) Run(ctx context.Context) error {
	defer f.closeAll()
	done := ctx.Done()
	for {
		var v T
		var ok bool
		select {
		case <-done:
			return nil
		case v, ok = <-f.input:
			if !ok {
				return nil
			}
		}
		if f.debug {
			slog.Debug("fan received value", "fan", f.name, "value", v)
		}
		if !f.send(done, v) {
			return nil
		}
	}
}

func (f *Fan[T]) send(done <-chan struct{}, v T) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	for k, ch := range f.outputs {
		select {
		case ch <- v:
		case <-done:
			return false
		}
		if f.debug {
			slog.Debug("fan sent value", "subscriber", k, "fan", f.name, "value", v)
		}
	}
	return true
}

func (f *Fan[T]) closeAll() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	for k, ch := range f.outputs {
		close(ch)
		delete(f.outputs, k)
	}
}

// Merge returns a channel carrying the values of all inputs. It is closed
// once every input is closed or ctx is done.
func Merge[T any](ctx context.Context, inputs ...<-chan T) <-chan T {
	out := make(chan T, len(inputs))
	var wg sync.WaitGroup
	for _, in := range inputs {
		wg.Add(1)
		go func(in <-chan T) {
			defer wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				case v, ok := <-in:
					if !ok {
						return
					}
					select {
					case out <- v:
					case <-ctx.Done():
						return
					}
				}
			}
		}(in)
	}
	go func() {
		wg.Wait()
		close(out)
	}()
	return out
}
