package alert

import (
	"github.com/slack-go/slack"
)

// SlackNotifier sends operational alerts to a Slack channel.
type SlackNotifier struct {
	api       *slack.Client
	channelID string
}
