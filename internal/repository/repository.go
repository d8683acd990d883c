// Package repository holds the currently loaded thrust series.
package repository

import (
	"sync"

	"codeberg.org/mutker/thrustctl/internal/errors"
	"codeberg.org/mutker/thrustctl/internal/loader"
	"codeberg.org/mutker/thrustctl/internal/thrust"
)

// Repository holds at most one loaded dataset. Replacement is whole
// value, so readers never observe a partially replaced series.
type Repository struct {
	mu      sync.RWMutex
	current *loader.Result
	loads   int
}

func New() *Repository {
	return &Repository{}
}

// Set replaces the current dataset unconditionally
func (r *Repository) Set(res loader.Result) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.current = &res
	r.loads++
}

// SetSeries stores a series without source or raw table
func (r *Repository) SetSeries(s thrust.Series) {
	r.Set(loader.Result{Series: s})
}

// Current returns the held series, or false if nothing has been loaded
func (r *Repository) Current() (thrust.Series, bool) {
	res, ok := r.CurrentResult()
	return res.Series, ok
}

// CurrentResult returns the full load result including the raw table
func (r *Repository) CurrentResult() (loader.Result, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.current == nil {
		return loader.Result{}, false
	}
	return *r.current, true
}

// MustCurrent is Current reporting ErrNoSeries when empty
func (r *Repository) MustCurrent() (thrust.Series, error) {
	s, ok := r.Current()
	if !ok {
		return thrust.Series{}, errors.New().New(ErrNoSeries)
	}
	return s, nil
}

// Loads returns how many times a dataset has been stored
func (r *Repository) Loads() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.loads
}

// LoadFile loads path and stores it on success. A failed load leaves
// the previously held dataset in place.
func (r *Repository) LoadFile(path string) (loader.Result, error) {
	res, err := loader.LoadFile(path)
	if err != nil {
		return loader.Result{}, err
	}

	r.Set(res)
	return res, nil
}
