package log

import (
	"testing"

	"github.com/slidepresenter/engine/config"
)

func TestLevelRoundTrips(t *testing.T) {
	SetLevel(config.DebugDrawing | config.DebugMedia)
	if Level() != config.DebugDrawing|config.DebugMedia {
		t.Fatalf("Level() = %v", Level())
	}
	SetLevel(0)
}

func TestVerboseRequiresBothBits(t *testing.T) {
	SetLevel(config.DebugDrawing)
	defer SetLevel(0)
	if Level()&(config.DebugDrawing|config.DebugVerbose) == (config.DebugDrawing | config.DebugVerbose) {
		t.Fatalf("expected DebugVerbose to be required in addition to DebugDrawing")
	}
	SetLevel(config.DebugDrawing | config.DebugVerbose)
	if Level()&(config.DebugDrawing|config.DebugVerbose) != (config.DebugDrawing | config.DebugVerbose) {
		t.Fatalf("expected both bits set")
	}
}
