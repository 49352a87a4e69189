// Package inline is the non-interactive mode: it opens a video, optionally applies one
// engagement intent and prints the result.
package inline

import (
	"context"
	"fmt"
	"os"

	"github.com/tubular-cli/tubular/gateway"
	"github.com/tubular-cli/tubular/log"
	"github.com/tubular-cli/tubular/player"
	"github.com/tubular-cli/tubular/session"
)

func Run(ctx context.Context, options *Options) error {
	if options.Out == nil {
		options.Out = os.Stdout
	}

	// the runtime is never marked ready, so no player is started
	deps := session.Deps{
		Metadata:   options.Gateway,
		Engagement: session.NewEngagement(options.Gateway, options.Auth),
		Factory:    func() (player.Handle, error) { return nil, fmt.Errorf("inline mode does not play") },
		Runtime:    player.NewRuntime(),
	}

	watch, err := session.Open(ctx, deps, options.VideoID)
	if err != nil {
		return err
	}
	defer watch.Close()

	if intent, ok := options.Intent.Get(); ok {
		if err := apply(ctx, watch, intent); err != nil {
			return err
		}
		log.WithFields(log.Fields{"video": options.VideoID, "intent": intent}).Info("intent applied")
	}

	out := newOutput(watch.Snapshot(), options.Full)
	if options.Json {
		data, err := asJson(out)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(options.Out, string(data))
		return err
	}

	return writePlain(options, out)
}

func apply(ctx context.Context, watch *session.Watch, intent Intent) error {
	switch intent {
	case IntentLike:
		return watch.RequestToggleRating(ctx, session.PressLike)
	case IntentDislike:
		return watch.RequestToggleRating(ctx, session.PressDislike)
	case IntentSubscribe:
		return watch.RequestToggleSubscription(ctx)
	default:
		return fmt.Errorf("unknown intent: %s", intent)
	}
}

func writePlain(options *Options, out *Output) error {
	channel := out.Video.ChannelTitle
	if out.Channel != nil {
		channel = gateway.DisplayTitle(out.Channel.Title)
	}

	_, err := fmt.Fprintf(options.Out, "%s\n%s · %s · %s\n%s\n%s\nrating: %s  subscribed: %t\n",
		out.Video.Title,
		channel,
		out.Views,
		out.Published,
		out.Description,
		out.ShareURL,
		out.Engagement.Rating,
		out.Engagement.Subscribed,
	)
	return err
}
