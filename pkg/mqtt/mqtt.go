package mqtt

import (
	"context"
	"crypto/md5"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/mikesmitty/dew/pkg/env"
	"github.com/mikesmitty/dew/pkg/units"
)

type Client struct {
	client      paho.Client
	clientID    string
	topicPrefix string
	qos         byte
	retained    bool
	sampleRate  int
	hassSensors map[string]HassSensor
	enabled     atomic.Bool
	mu          sync.Mutex
}

func NewClient(broker *url.URL, sampleRate int) *Client {
	c := &Client{}

	var urls []*url.URL
	urls = append(urls, broker)

	hostname, _ := os.Hostname()
	hostname = strings.Split(hostname, ".")[0]
	clientID := hostname
	if clientID == "" {
		now := time.Now().UnixNano()
		clientID = fmt.Sprintf("dew-%x", md5.Sum([]byte(strconv.FormatInt(now, 10))))
		hostname = clientID
	}
	if sampleRate < 1 {
		sampleRate = 1
	}

	c.qos = 1
	c.topicPrefix = "dew/" + hostname
	c.clientID = clientID
	c.hassSensors = make(map[string]HassSensor)
	c.sampleRate = sampleRate
	c.enabled.Store(true)

	slog.Info("connecting to mqtt", "url", broker, "clientid", clientID)
	c.client = paho.NewClient(&paho.ClientOptions{
		Servers:        urls,
		ClientID:       clientID,
		ConnectRetry:   true,
		ConnectTimeout: 30 * time.Second,
	})

	return c
}

func (c *Client) Connect() error {
	if token := c.client.Connect(); token.Wait() && token.Error() != nil {
		slog.Error("mqtt connection failed", "error", token.Error())
		return token.Error()
	}
	return nil
}

func (c *Client) Disconnect() {
	c.client.Disconnect(250)
}

func (c *Client) Subscribe(topic string, handler paho.MessageHandler) error {
	if token := c.client.Subscribe(topic, c.qos, handler); token.Wait() && token.Error() != nil {
		slog.Error("mqtt subscription failed", "error", token.Error())
		return token.Error()
	}
	return nil
}

// Enable and Disable pause sensor state publishing without dropping the
// connection.
func (c *Client) Enable()       { c.enabled.Store(true) }
func (c *Client) Disable()      { c.enabled.Store(false) }
func (c *Client) Enabled() bool { return c.enabled.Load() }

// GetPublisher publishes reference readings and probe temperatures until
// ctx is done or both channels are closed. Probe sensors are registered
// with Home Assistant the first time a probe reports.
func (c *Client) GetPublisher(ctx context.Context, refChan <-chan env.Env, probeChan <-chan env.Probe) func() error {
	refTemp := c.RegisterHassSensor(c.NewHassSensor("Temperature", HassSensorTemperature))
	refHumidity := c.RegisterHassSensor(c.NewHassSensor("Humidity", HassSensorHumidity))
	refDewpoint := c.RegisterHassSensor(c.NewHassSensor("Dewpoint", HassSensorTemperature))

	refSample := NewSample(c.sampleRate)
	probeSensors := make(map[string]string)
	probeSamples := make(map[string]*Sample)

	return func() error {
		for refChan != nil || probeChan != nil {
			select {
			case <-ctx.Done():
				return nil
			case ref, ok := <-refChan:
				if !ok {
					refChan = nil
					continue
				}
				if !refSample.Ready() || !c.Enabled() {
					continue
				}
				slog.Debug("mqtt publishing", "field", "ref", "value", ref)
				c.HassPublishSensor(refTemp, formatCelsius(ref.Temperature.Celsius()))
				c.HassPublishSensor(refHumidity, strconv.FormatFloat(units.PercentOf(ref.Humidity), 'f', 2, 64))
				c.HassPublishSensor(refDewpoint, formatCelsius(ref.Dewpoint.Celsius()))
			case probe, ok := <-probeChan:
				if !ok {
					probeChan = nil
					continue
				}
				id, known := probeSensors[probe.Name]
				if !known {
					id = c.RegisterHassSensor(c.NewHassSensor("Probe "+probe.Name, HassSensorTemperature))
					probeSensors[probe.Name] = id
					probeSamples[probe.Name] = NewSample(c.sampleRate)
					c.HassAnnounceSensor(c.hassSensor(id))
				}
				if !probeSamples[probe.Name].Ready() || !c.Enabled() {
					continue
				}
				slog.Debug("mqtt publishing", "field", "probe", "name", probe.Name, "value", probe.Temperature)
				c.HassPublishSensor(id, formatCelsius(probe.Temperature.Celsius()))
			}
		}
		return nil
	}
}

func formatCelsius(v float64) string {
	return strconv.FormatFloat(v, 'f', 3, 64)
}

func (p *Client) Publish(topic string, msg string) {
	t := p.client.Publish(topic, p.qos, p.retained, msg)
	go func() {
		_ = t.WaitTimeout(5 * time.Second)
		if t.Error() != nil {
			slog.Error("mqtt message publish failed", "error", t.Error())
		}
	}()
}
