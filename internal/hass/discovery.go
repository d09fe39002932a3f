package hass

import "encoding/json"

// Availability payloads shared by the bridge and entity topics.
const (
	PayloadAvailable    = "online"
	PayloadNotAvailable = "offline"
)

// DeviceInfo groups entities under one device in the platform registry.
type DeviceInfo struct {
	Identifiers  []string `json:"identifiers"`
	Name         string   `json:"name"`
	Model        string   `json:"model,omitempty"`
	Manufacturer string   `json:"manufacturer,omitempty"`
	SWVersion    string   `json:"sw_version,omitempty"`
}

// Availability is one entry of a discovery availability list.
type Availability struct {
	Topic               string `json:"topic"`
	PayloadAvailable    string `json:"payload_available,omitempty"`
	PayloadNotAvailable string `json:"payload_not_available,omitempty"`
}

// VacuumDiscovery is the MQTT vacuum discovery document (state schema).
type VacuumDiscovery struct {
	Name                string         `json:"name"`
	UniqueID            string         `json:"unique_id"`
	Schema              string         `json:"schema"`
	StateTopic          string         `json:"state_topic"`
	CommandTopic        string         `json:"command_topic"`
	SetFanSpeedTopic    string         `json:"set_fan_speed_topic,omitempty"`
	SendCommandTopic    string         `json:"send_command_topic,omitempty"`
	JSONAttributesTopic string         `json:"json_attributes_topic,omitempty"`
	FanSpeedList        []string       `json:"fan_speed_list,omitempty"`
	SupportedFeatures   []string       `json:"supported_features,omitempty"`
	Availability        []Availability `json:"availability,omitempty"`
	AvailabilityMode    string         `json:"availability_mode,omitempty"`
	Device              DeviceInfo     `json:"device"`
}

// VacuumState is the state-schema payload published to the state topic.
type VacuumState struct {
	State        string `json:"state"`
	BatteryLevel *int   `json:"battery_level,omitempty"`
	FanSpeed     string `json:"fan_speed,omitempty"`
}

// PublishDiscovery announces an entity config document, retained so the
// platform re-reads it after restarts.
func (b *Bridge) PublishDiscovery(component, objectID string, doc any) error {
	payload, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	return b.Publish(b.DiscoveryTopic(component, objectID), true, payload)
}
