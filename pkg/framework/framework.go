// Package framework performs the one-time registration of every built-in
// container format, decoder and filter stage kind.
package framework

import (
	"sync"

	"github.com/user/chromakey/pkg/codec"
	"github.com/user/chromakey/pkg/container"
	"github.com/user/chromakey/pkg/filter"
)

var once sync.Once

// Init registers all built-in components. It is safe to call repeatedly and
// from multiple goroutines; registration happens once.
func Init() {
	once.Do(func() {
		container.RegisterAll()
		codec.RegisterAll()
		filter.RegisterAll()
	})
}
