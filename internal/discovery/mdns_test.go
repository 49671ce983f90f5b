package discovery

import (
	"net"
	"testing"
	"time"

	"github.com/grandcat/zeroconf"
)

func TestScanner_parseServiceEntry(t *testing.T) {
	scanner := NewScanner()

	tests := []struct {
		name     string
		entry    *zeroconf.ServiceEntry
		wantNil  bool
		wantName string
		wantIP   string
		wantPort int
	}{
		{
			name: "server with IPv4 and TXT records",
			entry: &zeroconf.ServiceEntry{
				ServiceRecord: zeroconf.ServiceRecord{Instance: "Home"},
				HostName:      "homeassistant.local.",
				Port:          8123,
				AddrIPv4:      []net.IP{net.ParseIP("192.168.1.10")},
				Text:          []string{"location_name=Home", "version=2024.6.1"},
			},
			wantNil:  false,
			wantName: "Home",
			wantIP:   "192.168.1.10",
			wantPort: 8123,
		},
		{
			name: "server with custom port",
			entry: &zeroconf.ServiceEntry{
				HostName: "ha.local",
				Port:     8443,
				AddrIPv4: []net.IP{net.ParseIP("10.0.0.5")},
			},
			wantNil:  false,
			wantIP:   "10.0.0.5",
			wantPort: 8443,
		},
		{
			name: "no port specified (should default to 8123)",
			entry: &zeroconf.ServiceEntry{
				HostName: "homeassistant.local",
				Port:     0,
				AddrIPv4: []net.IP{net.ParseIP("172.16.0.1")},
			},
			wantNil:  false,
			wantIP:   "172.16.0.1",
			wantPort: 8123,
		},
		{
			name: "no IP address",
			entry: &zeroconf.ServiceEntry{
				HostName: "homeassistant.local",
				Port:     8123,
				AddrIPv4: []net.IP{},
				AddrIPv6: []net.IP{},
			},
			wantNil: true,
		},
		{
			name: "IPv6 only server",
			entry: &zeroconf.ServiceEntry{
				HostName: "homeassistant.local",
				Port:     8123,
				AddrIPv6: []net.IP{net.ParseIP("fe80::1")},
			},
			wantNil:  false,
			wantIP:   "fe80::1",
			wantPort: 8123,
		},
		{
			name: "both IPv4 and IPv6 (should prefer IPv4)",
			entry: &zeroconf.ServiceEntry{
				HostName: "homeassistant.local",
				Port:     8123,
				AddrIPv4: []net.IP{net.ParseIP("192.168.1.50")},
				AddrIPv6: []net.IP{net.ParseIP("fe80::2")},
			},
			wantNil:  false,
			wantIP:   "192.168.1.50",
			wantPort: 8123,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			instance := scanner.parseServiceEntry(tt.entry)

			if tt.wantNil {
				if instance != nil {
					t.Errorf("parseServiceEntry() = %v, want nil", instance)
				}
				return
			}

			if instance == nil {
				t.Fatal("parseServiceEntry() = nil, want non-nil instance")
			}

			if tt.wantName != "" && instance.Name != tt.wantName {
				t.Errorf("instance.Name = %v, want %v", instance.Name, tt.wantName)
			}

			if instance.IP != tt.wantIP {
				t.Errorf("instance.IP = %v, want %v", instance.IP, tt.wantIP)
			}

			if instance.Port != tt.wantPort {
				t.Errorf("instance.Port = %v, want %v", instance.Port, tt.wantPort)
			}

			if instance.Hostname != tt.entry.HostName {
				t.Errorf("instance.Hostname = %v, want %v", instance.Hostname, tt.entry.HostName)
			}

			// Check that DiscoveredAt is recent (within last second)
			if time.Since(instance.DiscoveredAt) > time.Second {
				t.Errorf("instance.DiscoveredAt is not recent: %v", instance.DiscoveredAt)
			}
		})
	}
}

func TestScanner_parseServiceEntry_Metadata(t *testing.T) {
	scanner := NewScanner()

	entry := &zeroconf.ServiceEntry{
		HostName: "homeassistant.local",
		Port:     8123,
		AddrIPv4: []net.IP{net.ParseIP("192.168.1.10")},
		Text: []string{
			"location_name=Home",
			"version=2024.6.1",
			"base_url=https://ha.example.com",
			"requires_api_password",
		},
	}

	instance := scanner.parseServiceEntry(entry)
	if instance == nil {
		t.Fatal("parseServiceEntry() = nil, want instance")
	}

	// Check metadata parsing
	expectedMetadata := map[string]string{
		"location_name":         "Home",
		"version":               "2024.6.1",
		"base_url":              "https://ha.example.com",
		"requires_api_password": "", // Key without value
	}

	if len(instance.Metadata) != len(expectedMetadata) {
		t.Errorf("instance.Metadata has %d entries, want %d", len(instance.Metadata), len(expectedMetadata))
	}

	for key, expectedValue := range expectedMetadata {
		if actualValue, ok := instance.Metadata[key]; !ok {
			t.Errorf("instance.Metadata missing key %q", key)
		} else if actualValue != expectedValue {
			t.Errorf("instance.Metadata[%q] = %q, want %q", key, actualValue, expectedValue)
		}
	}

	if instance.Version != "2024.6.1" {
		t.Errorf("instance.Version = %q, want 2024.6.1", instance.Version)
	}
	if instance.Name != "Home" {
		t.Errorf("instance.Name = %q, want Home", instance.Name)
	}
}

func TestInstanceBaseURL(t *testing.T) {
	plain := &Instance{IP: "192.168.1.10", Port: 8123}
	if got := plain.BaseURL(); got != "http://192.168.1.10:8123" {
		t.Errorf("BaseURL() = %q", got)
	}

	advertised := &Instance{
		IP:       "192.168.1.10",
		Port:     8123,
		Metadata: map[string]string{"base_url": "https://ha.example.com"},
	}
	if got := advertised.BaseURL(); got != "https://ha.example.com" {
		t.Errorf("BaseURL() = %q, want advertised base_url", got)
	}
}

func TestNewScanner(t *testing.T) {
	scanner := NewScanner()

	if scanner == nil {
		t.Fatal("NewScanner() = nil, want scanner")
	}

	if scanner.Timeout != DefaultScanTimeout {
		t.Errorf("scanner.Timeout = %v, want %v", scanner.Timeout, DefaultScanTimeout)
	}
}

// Note: Integration tests with live mDNS discovery require network access
// and should be run manually with:
// go test -tags=integration ./internal/discovery/
