// internal/connectivity/topics.go
package connectivity

// Topics names every topic the agent publishes or subscribes to.
type Topics struct {
	Prefix    string // protocol namespace, spBv1.0
	Group     string
	Node      string
	Device    string
	Telemetry string // data topic root, sensors
}

func (t Topics) NodeBirth() string { return t.Prefix + "/" + t.Group + "/NBIRTH/" + t.Node }
func (t Topics) NodeDeath() string { return t.Prefix + "/" + t.Group + "/NDEATH/" + t.Node }
func (t Topics) NodeCommand() string {
	return t.Prefix + "/" + t.Group + "/NCMD/" + t.Node
}

func (t Topics) DeviceBirth() string {
	return t.Prefix + "/" + t.Group + "/DBIRTH/" + t.Node + "/" + t.Device
}

func (t Topics) DeviceCommand() string {
	return t.Prefix + "/" + t.Group + "/DCMD/" + t.Node + "/" + t.Device
}

// Data is the flat telemetry topic.
func (t Topics) Data() string { return t.Telemetry + "/" + t.Node }
