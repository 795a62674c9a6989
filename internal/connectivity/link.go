// internal/connectivity/link.go
package connectivity

import "net"

// netLink watches a host network interface.
// The agent does not manage the interface; it only waits for it.
type netLink struct {
	iface string // empty: any non-loopback interface
}

// NewLink returns a Link for the named interface, or for any
// non-loopback interface when name is empty.
func NewLink(name string) Link {
	return netLink{iface: name}
}

func (l netLink) Up() bool {
	if l.iface != "" {
		ifc, err := net.InterfaceByName(l.iface)
		if err != nil {
			return false
		}
		return usable(*ifc)
	}

	ifcs, err := net.Interfaces()
	if err != nil {
		return false
	}
	for _, ifc := range ifcs {
		if ifc.Flags&net.FlagLoopback != 0 {
			continue
		}
		if usable(ifc) {
			return true
		}
	}
	return false
}

// usable: administratively up with at least one routable address.
func usable(ifc net.Interface) bool {
	if ifc.Flags&net.FlagUp == 0 {
		return false
	}
	addrs, err := ifc.Addrs()
	if err != nil {
		return false
	}
	for _, a := range addrs {
		if ipn, ok := a.(*net.IPNet); ok && ipn.IP.IsGlobalUnicast() {
			return true
		}
	}
	return false
}
