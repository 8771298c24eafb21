package alert

import (
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/slack-go/slack"
)

// NewClient creates a new Slack notifier.
func NewClient(token, channelID string) *SlackNotifier {
	api := slack.New(token)
	return &SlackNotifier{
		api:       api,
		channelID: channelID,
	}
}

// NewClientWithAPI creates a new Slack notifier with a custom API client. Used for testing.
func NewClientWithAPI(api *slack.Client, channelID string) *SlackNotifier {
	return &SlackNotifier{
		api:       api,
		channelID: channelID,
	}
}

// SendLongWaitAlert posts a message when a session has been searching past
// the configured bound. The queue fires this at most once per session.
func (c *SlackNotifier) SendLongWaitAlert(playerID, sessionID string, waited time.Duration, dryRun bool) error {
	blocks := make([]slack.Block, 0)

	headerText := slack.NewTextBlockObject("plain_text", "⏳ Long matchmaking wait", true, false)
	blocks = append(blocks, slack.NewHeaderBlock(headerText))

	detailsText := fmt.Sprintf("Player: %s\nSession: %s\nWaiting: %s", playerID, sessionID, waited.Round(time.Second))
	blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", detailsText, true, false), nil, nil))

	return c.send(slack.NewBlockMessage(blocks...), dryRun)
}

// SendEvaluationFailureAlert posts a message when an evaluation cycle fails.
func (c *SlackNotifier) SendEvaluationFailureAlert(reason string, dryRun bool) error {
	blocks := make([]slack.Block, 0)

	headerText := slack.NewTextBlockObject("plain_text", "🚨 Queue evaluation failure", true, false)
	blocks = append(blocks, slack.NewHeaderBlock(headerText))
	blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", reason, false, false), nil, nil))

	return c.send(slack.NewBlockMessage(blocks...), dryRun)
}

func (c *SlackNotifier) send(msg slack.Message, dryRun bool) error {
	if c.api == nil || c.channelID == "" {
		log.Warn("Slack client or channel ID is not configured. Skipping alert.")
		return errors.New("slack client or channel ID is not configured")
	}

	if dryRun {
		log.Info("Dry run mode: Slack alert not sent.", "msg", msg)
		return nil
	}

	_, _, err := c.api.PostMessage(c.channelID, slack.MsgOptionBlocks(msg.Blocks.BlockSet...))
	if err != nil {
		log.Error("Failed to send Slack alert", "error", err)
		return err
	}
	return nil
}
