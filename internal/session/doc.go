// Package session settles OctoPrint's asynchronous admin login state.
//
// OctoPrint pushes userLogged and userLoggedOut before its session reflects
// the change. Machine moves from Unknown to Checking when such a notification
// arrives and to Settled once a probe confirms it, giving up after MaxProbes
// probes spaced ProbeInterval apart.
package session
