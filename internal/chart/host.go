package chart

import (
	"fmt"
	"sync"
)

// Instance is a live rendered chart.
type Instance interface {
	ID() string
	Destroy() error
}

// Renderer draws a Spec and returns the resulting Instance.
type Renderer interface {
	Render(s *Spec) (Instance, error)
}

// Host owns at most one live Instance. Showing a new chart destroys the
// previous one first.
type Host struct {
	mu       sync.Mutex
	renderer Renderer
	current  Instance
}

// NewHost wraps r.
func NewHost(r Renderer) *Host {
	return &Host{renderer: r}
}

// Show releases the current instance and renders s.
func (h *Host) Show(s *Spec) (Instance, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if err := h.releaseLocked(); err != nil {
		return nil, err
	}
	inst, err := h.renderer.Render(s)
	if err != nil {
		return nil, fmt.Errorf("render %s chart: %w", s.Kind, err)
	}
	h.current = inst
	return inst, nil
}

// Adopt makes inst the live instance when none is held, so the next Show
// destroys it. A nil inst is ignored.
func (h *Host) Adopt(inst Instance) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.current == nil && inst != nil {
		h.current = inst
	}
}

// Current returns the live instance, or nil.
func (h *Host) Current() Instance {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.current
}

// Close destroys the live instance, if any.
func (h *Host) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.releaseLocked()
}

func (h *Host) releaseLocked() error {
	if h.current == nil {
		return nil
	}
	id := h.current.ID()
	err := h.current.Destroy()
	h.current = nil
	if err != nil {
		return fmt.Errorf("destroy chart %s: %w", id, err)
	}
	return nil
}
