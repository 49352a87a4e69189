package inline

import (
	"fmt"
	"io"
	"strings"

	"github.com/samber/mo"
	"github.com/tubular-cli/tubular/auth"
	"github.com/tubular-cli/tubular/gateway"
)

// Intent is an engagement change applied before the snapshot is printed.
type Intent string

const (
	IntentLike      Intent = "like"
	IntentDislike   Intent = "dislike"
	IntentSubscribe Intent = "subscribe"
)

// Intents lists every accepted intent.
var Intents = []Intent{IntentLike, IntentDislike, IntentSubscribe}

type Options struct {
	Out     io.Writer
	Gateway gateway.Gateway
	Auth    auth.Source
	VideoID string
	// Intent toggles like, dislike or the channel subscription.
	Intent mo.Option[Intent]
	// Full prints the whole description instead of the preview.
	Full bool
	Json bool
}

// ParseIntent validates a user-supplied intent name.
func ParseIntent(name string) (Intent, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, intent := range Intents {
		if string(intent) == name {
			return intent, nil
		}
	}
	return "", fmt.Errorf("unknown intent: %s (expected like, dislike or subscribe)", name)
}
