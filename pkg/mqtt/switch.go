package mqtt

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
)

// SwitchFn exposes an ON/OFF switch under <prefix>/switch/<name>/. Commands
// call onFn or offFn and the state from stateFn is republished every 5s.
func (c *Client) SwitchFn(ctx context.Context, name string, onFn func(), offFn func(), stateFn func() bool) func() error {
	topicPrefix := fmt.Sprintf("%s/switch/%s/", c.topicPrefix, name)
	commandTopic := topicPrefix + "command"
	stateTopic := topicPrefix + "state"

	return func() error {
		t := time.NewTicker(5 * time.Second)
		defer t.Stop()

		for !c.client.IsConnected() {
			select {
			case <-ctx.Done():
				return nil
			case <-t.C:
			}
		}

		slog.Debug("subscribing to mqtt switch", "switch", name, "topic", commandTopic)
		err := c.Subscribe(commandTopic, func(client paho.Client, msg paho.Message) {
			slog.Debug("mqtt switch command received", "switch", name, "command", msg.Payload(), "topic", commandTopic)
			if bytes.Equal(msg.Payload(), []byte("ON")) {
				onFn()
			} else {
				offFn()
			}
		})
		if err != nil {
			return fmt.Errorf("switch %s: %w", name, err)
		}

		for {
			select {
			case <-ctx.Done():
				return nil
			case <-t.C:
				if !c.client.IsConnected() {
					slog.Error("mqtt client not connected", "switch", name)
					continue
				}
				c.Publish(stateTopic, switchState(stateFn()))
			}
		}
	}
}

func switchState(on bool) string {
	if on {
		return "ON"
	}
	return "OFF"
}
