// Package discovery finds tablekit bridges on the local network over mDNS.
//
// Bridges started with `tablekit serve --advertise` register the
// "_tablekit._tcp" service with TXT records for their version, title and
// WebSocket path. A Scanner browses for that service and turns each answer
// into a Bridge.
//
// # Usage Example
//
//	scanner := discovery.NewScanner()
//	bridges, err := scanner.Scan(ctx)
//	if err != nil {
//	    return err
//	}
//	for _, b := range bridges {
//	    fmt.Println(b, b.URL())
//	}
//
// # Network Requirements
//
// - Requires multicast support on the network interface
// - Bridges must be on the same local network segment
// - Firewall must allow mDNS (UDP port 5353)
package discovery
