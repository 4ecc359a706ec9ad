// Package defaults holds the default addresses and paths of the daemons.
package defaults

// ControlAPISocket is the default control socket of the manager.
const ControlAPISocket = "unix:///var/run/fdbd/control.sock"

// RemoteAPIAddr is the default address agents connect to.
const RemoteAPIAddr = "tcp://0.0.0.0:4343"

// StateDir is the default state directory.
const StateDir = "/var/lib/fdbd"
