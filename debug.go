package canopy

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

// frameStats holds per-frame timing. Only populated when the scene is in
// debug mode.
type frameStats struct {
	frame      uint64
	renderTime time.Duration
	primitives int
}

// debugLog writes frame stats at debug level.
func (s *Scene) debugLog(stats frameStats) {
	if !s.debug {
		return
	}
	s.log.Debug().
		Uint64("frame", stats.frame).
		Dur("render", stats.renderTime).
		Int("primitives", stats.primitives).
		Str("mode", s.mode.String()).
		Msg("frame")
}

type destroyable interface {
	IsDestroyed() bool
}

// debugCheckDestroyed panics when a destroyed collection is used. Callers
// skip this entirely outside debug mode.
func debugCheckDestroyed(obj destroyable, op string) {
	if obj.IsDestroyed() {
		panic(fmt.Sprintf("canopy debug: %s on destroyed %T", op, obj))
	}
}

// debugMaxCollectionSize is the member count above which a warning is logged.
const debugMaxCollectionSize = 10000

// debugLogger mirrors the most recently set Scene logger for checks that
// lack a Scene pointer.
var debugLogger = zerolog.Nop()

// debugWarn receives debug warnings. Replaced by tests.
var debugWarn = func(msg string) {
	debugLogger.Warn().Msg(msg)
}

func debugCheckCount(c *PrimitiveCollection) {
	if len(c.primitives) > debugMaxCollectionSize {
		debugWarn(fmt.Sprintf("collection has %d primitives (threshold %d)",
			len(c.primitives), debugMaxCollectionSize))
	}
}
