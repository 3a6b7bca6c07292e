package config

import (
	"testing"
	"time"
)

func TestDeriveWsUrl(t *testing.T) {
	cases := []struct{ in, want string }{
		{"http://localhost:8000", "ws://localhost:8000"},
		{"https://chat.example.com", "wss://chat.example.com"},
	}
	for _, c := range cases {
		if got := DeriveWsUrl(c.in); got != c.want {
			t.Fatalf("DeriveWsUrl(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestApplyDefaults(t *testing.T) {
	conf := new(Config)
	conf.applyDefaults()

	if conf.MainConfig.ApiUrl == "" || conf.MainConfig.WsUrl == "" {
		t.Fatalf("backend urls not defaulted: %+v", conf.MainConfig)
	}
	if conf.ReconnectConfig.ReconnectDelay() != 3*time.Second {
		t.Fatalf("reconnect delay = %v, want 3s", conf.ReconnectConfig.ReconnectDelay())
	}
	if conf.WidgetConfig.Position != "bottom-right" {
		t.Fatalf("widget position = %q", conf.WidgetConfig.Position)
	}
	if conf.TokenConfig.StorePath == "" {
		t.Fatal("token store path not defaulted")
	}
}
