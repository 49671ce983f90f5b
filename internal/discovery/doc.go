// Package discovery provides mDNS-based discovery of Home Assistant servers.
//
// This package implements multicast DNS (mDNS) service discovery to
// automatically locate Home Assistant instances on the local network.
// Home Assistant advertises itself using the "_home-assistant._tcp"
// service type.
//
// # Discovery Process
//
// The discovery process works as follows:
//  1. Broadcasts mDNS queries on the local network
//  2. Listens for service advertisements from Home Assistant instances
//  3. Collects server information (hostname, IP, port, version, location name)
//  4. Returns a list of discovered instances after the timeout period
//
// # Usage Example
//
//	// Discover servers with 10-second timeout
//	instances, err := discovery.Scan(10 * time.Second)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	for _, instance := range instances {
//	    fmt.Printf("Found: %s (%s)\n", instance.Name, instance.BaseURL())
//	}
//
// # Server Information
//
// Each discovered instance includes:
//   - Name: The location name the server advertises (e.g., "Home")
//   - IP: IPv4 address (IPv6 as fallback)
//   - Port: HTTP port (typically 8123)
//   - Version: Home Assistant version from the TXT records
//   - Metadata: Remaining TXT record data (base_url, uuid, ...)
//
// # Network Requirements
//
// - Requires multicast support on the network interface
// - The server must be on the same local network segment
// - Firewall must allow mDNS (UDP port 5353)
//
// # Thread Safety
//
// This package is safe for concurrent use. Multiple discovery sessions can run
// simultaneously without interference.
package discovery
