package dreame

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/vosola/dreamebridge/internal/hass"
)

const commandTimeout = 15 * time.Second

// entity wires the vacuum into the platform over MQTT: one retained
// discovery document, state/attribute publishes on every poll, and three
// command subscriptions.
type entity struct {
	svc      *Service
	bridge   *hass.Bridge
	log      *logrus.Entry
	objectID string
}

func newEntity(svc *Service, bridge *hass.Bridge) *entity {
	return &entity{
		svc:      svc,
		bridge:   bridge,
		log:      logrus.WithField("plugin", "dreame"),
		objectID: svc.cfg.UniqueID(),
	}
}

func (e *entity) stateTopic() string        { return e.bridge.Topic("vacuum", e.objectID, "state") }
func (e *entity) availabilityTopic() string { return e.bridge.Topic("vacuum", e.objectID, "availability") }
func (e *entity) attributesTopic() string   { return e.bridge.Topic("vacuum", e.objectID, "attributes") }
func (e *entity) commandTopic() string      { return e.bridge.Topic("vacuum", e.objectID, "command") }
func (e *entity) fanSpeedTopic() string     { return e.bridge.Topic("vacuum", e.objectID, "set_fan_speed") }
func (e *entity) sendCommandTopic() string  { return e.bridge.Topic("vacuum", e.objectID, "send_command") }

func (e *entity) announce() error {
	doc := hass.VacuumDiscovery{
		Name:                e.svc.cfg.Name,
		UniqueID:            e.objectID,
		Schema:              "state",
		StateTopic:          e.stateTopic(),
		CommandTopic:        e.commandTopic(),
		SetFanSpeedTopic:    e.fanSpeedTopic(),
		SendCommandTopic:    e.sendCommandTopic(),
		JSONAttributesTopic: e.attributesTopic(),
		FanSpeedList:        FanSpeeds(),
		SupportedFeatures: []string{
			"start", "stop", "pause", "return_home", "battery",
			"status", "locate", "fan_speed", "send_command",
		},
		Availability: []hass.Availability{
			{Topic: e.bridge.AvailabilityTopic()},
			{Topic: e.availabilityTopic()},
		},
		AvailabilityMode: "all",
		Device: hass.DeviceInfo{
			Identifiers:  []string{e.objectID},
			Name:         e.svc.cfg.Name,
			Model:        "dreame.vacuum.mc1808",
			Manufacturer: "Dreame",
		},
	}
	if err := e.bridge.PublishDiscovery("vacuum", e.objectID, doc); err != nil {
		return err
	}

	if _, err := e.bridge.Subscribe(e.commandTopic(), e.handleCommand); err != nil {
		return err
	}
	if _, err := e.bridge.Subscribe(e.fanSpeedTopic(), e.handleFanSpeed); err != nil {
		return err
	}
	if _, err := e.bridge.Subscribe(e.sendCommandTopic(), e.handleSendCommand); err != nil {
		return err
	}

	e.svc.OnUpdate(e.publishState)
	return nil
}

func (e *entity) publishState(status Status) {
	availability := hass.PayloadNotAvailable
	if status.Available {
		availability = hass.PayloadAvailable
	}
	if err := e.bridge.Publish(e.availabilityTopic(), true, []byte(availability)); err != nil {
		e.log.WithError(err).Warn("publish availability")
	}

	if !status.Seen {
		return
	}

	battery := status.Battery
	state := hass.VacuumState{
		State:        string(status.Activity()),
		BatteryLevel: &battery,
		FanSpeed:     FanSpeedName(status.FanSpeed),
	}
	payload, err := json.Marshal(state)
	if err != nil {
		e.log.WithError(err).Warn("encode state")
		return
	}
	if err := e.bridge.Publish(e.stateTopic(), true, payload); err != nil {
		e.log.WithError(err).Warn("publish state")
	}

	attrs, err := json.Marshal(status.Attributes())
	if err != nil {
		e.log.WithError(err).Warn("encode attributes")
		return
	}
	if err := e.bridge.Publish(e.attributesTopic(), true, attrs); err != nil {
		e.log.WithError(err).Warn("publish attributes")
	}
}

func (e *entity) handleCommand(payload []byte) {
	command := strings.TrimSpace(string(payload))
	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()
	if err := e.svc.Dispatch(ctx, command); err != nil {
		e.log.WithError(err).WithField("command", command).Error("command failed")
	}
}

func (e *entity) handleFanSpeed(payload []byte) {
	name := strings.TrimSpace(string(payload))
	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()
	if err := e.svc.SetFanSpeed(ctx, name); err != nil {
		e.log.WithError(err).WithField("fan_speed", name).Error("set fan speed failed")
	}
}

// handleSendCommand accepts a bare method name or a JSON document with
// method and params.
func (e *entity) handleSendCommand(payload []byte) {
	method := strings.TrimSpace(string(payload))
	var params []any

	var doc struct {
		Command string `json:"command"`
		Params  []any  `json:"params"`
	}
	if err := json.Unmarshal(payload, &doc); err == nil && doc.Command != "" {
		method = doc.Command
		params = doc.Params
	}

	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()
	if err := e.svc.SendCommand(ctx, method, params); err != nil {
		e.log.WithError(err).WithField("method", method).Error("send command failed")
	}
}
