package httputil

import (
	"context"

	"github.com/alexedwards/scs/v2"
)

const flashKey = "flash"

type FlashLevel string

const (
	FlashSuccess FlashLevel = "success"
	FlashInfo    FlashLevel = "info"
	FlashWarning FlashLevel = "warning"
	FlashError   FlashLevel = "error"
)

type Flash struct {
	Level   FlashLevel
	Message string
}

// PutFlash queues a message for the next page render.
func PutFlash(sm *scs.SessionManager, ctx context.Context, level FlashLevel, message string) {
	flashes := flashesFrom(sm.Get(ctx, flashKey))
	flashes = append(flashes, string(level)+"|"+message)
	sm.Put(ctx, flashKey, flashes)
}

// PopFlashes returns and clears the queued messages.
func PopFlashes(sm *scs.SessionManager, ctx context.Context) []Flash {
	raw := flashesFrom(sm.Pop(ctx, flashKey))
	flashes := make([]Flash, 0, len(raw))
	for _, entry := range raw {
		level, message := FlashInfo, entry
		for i := 0; i < len(entry); i++ {
			if entry[i] == '|' {
				level, message = FlashLevel(entry[:i]), entry[i+1:]
				break
			}
		}
		flashes = append(flashes, Flash{Level: level, Message: message})
	}
	return flashes
}

func flashesFrom(v any) []string {
	flashes, _ := v.([]string)
	return flashes
}
