// Package bridge drives remote viewers of a table over WebSocket.
//
// A Hub is a table.Host. Each host request becomes a JSON Event broadcast to
// every connected viewer, and viewers send back Commands (tap, accessory,
// delete, index_title, snapshot) that are run on the table's control
// goroutine through its dispatcher. A viewer receives a hello event carrying
// a full snapshot as soon as it connects.
//
// Server wraps a Hub in an HTTP server with /ws, /snapshot and /healthz
// routes and can advertise itself over mDNS for discovery.Scanner to find.
package bridge
