package speech

import (
	"context"

	relaymodel "github.com/zhouzirui/voice-companion/backend/internal/model/relay"
)

// Player is the single shared playback element of a session. Play replaces
// whatever source is currently assigned and starts the new one.
type Player interface {
	Play(ctx context.Context, audio *relaymodel.Audio) error
}
