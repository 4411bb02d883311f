// Package log is a thin, category-gated wrapper around the standard
// library's log package, ported from original_source's src/log.h
// debug_msg/debug_verbose macros: a message is printed only if its
// category bit is set in the configured DebugFlag mask (debug_msg), or
// additionally only if DebugVerbose is also set (debug_verbose). No
// logging library appears in any example repo's go.mod, so this stays
// on the standard library deliberately (see DESIGN.md).
package log

import (
	"fmt"
	"log"
	"sync/atomic"

	"github.com/slidepresenter/engine/config"
)

var level atomic.Uint32

// SetLevel sets the active debug mask, mirroring
// preferences()->debug_level. Safe to call concurrently with Msg/Verbose.
func SetLevel(f config.DebugFlag) { level.Store(uint32(f)) }

// Level returns the currently configured debug mask.
func Level() config.DebugFlag { return config.DebugFlag(level.Load()) }

// Msg prints args under msgType if msgType is set in the active level,
// the Go equivalent of debug_msg.
func Msg(msgType config.DebugFlag, args ...interface{}) {
	if Level()&msgType != 0 {
		log.Println(append([]interface{}{msgType}, args...)...)
	}
}

// Msgf is Msg with fmt.Sprintf-style formatting.
func Msgf(msgType config.DebugFlag, format string, args ...interface{}) {
	if Level()&msgType != 0 {
		log.Println(msgType, fmt.Sprintf(format, args...))
	}
}

// Verbose prints args under msgType only if both msgType and
// config.DebugVerbose are set in the active level, the Go equivalent
// of debug_verbose's stricter "(level & (msgType|DebugVerbose)) ==
// (msgType|DebugVerbose)" comparison.
func Verbose(msgType config.DebugFlag, args ...interface{}) {
	want := msgType | config.DebugVerbose
	if Level()&want == want {
		log.Println(append([]interface{}{msgType}, args...)...)
	}
}

// Verbosef is Verbose with fmt.Sprintf-style formatting.
func Verbosef(msgType config.DebugFlag, format string, args ...interface{}) {
	want := msgType | config.DebugVerbose
	if Level()&want == want {
		log.Println(msgType, fmt.Sprintf(format, args...))
	}
}
