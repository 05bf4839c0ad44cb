package mqtt

import "testing"

func TestTopicsBare(t *testing.T) {
	topics := Topics{ClientID: "a1b2c3"}

	tests := []struct {
		name string
		got  string
		want string
	}{
		{"config", topics.ConfigTopic(), "conf/a1b2c3"},
		{"command", topics.CommandTopic(), "cmnd/a1b2c3"},
		{"status", topics.StatusTopic(), "stat/a1b2c3"},
		{"telemetry", topics.TelemetryTopic(), "tele/a1b2c3"},
		{"log", topics.LogTopic(), "log/a1b2c3"},
		{"availability", topics.AvailabilityTopic(), "stat/a1b2c3/lwt"},
		{"adoption", topics.AdoptionTopic(), "stat/a1b2c3/adopt"},
	}

	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("%s topic = %q, want %q", tt.name, tt.got, tt.want)
		}
	}
}

func TestTopicsWithPrefixAndSuffix(t *testing.T) {
	topics := Topics{Prefix: "site", Suffix: "attic", ClientID: "a1b2c3"}

	if got, want := topics.ConfigTopic(), "site/conf/a1b2c3/attic"; got != want {
		t.Errorf("ConfigTopic() = %q, want %q", got, want)
	}
	if got, want := topics.AvailabilityTopic(), "site/stat/a1b2c3/attic/lwt"; got != want {
		t.Errorf("AvailabilityTopic() = %q, want %q", got, want)
	}
}

func TestTopicsPrefixOnly(t *testing.T) {
	topics := Topics{Prefix: "site", ClientID: "a1b2c3"}

	if got, want := topics.CommandTopic(), "site/cmnd/a1b2c3"; got != want {
		t.Errorf("CommandTopic() = %q, want %q", got, want)
	}
}
