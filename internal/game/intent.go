package game

// IntentKey is one discrete human command
type IntentKey uint8

const (
	ThrustUp IntentKey = iota
	ThrustDown
	YawLeft
	YawRight
	Fire
	Boost
	SpecialFire
	SwitchWeapon
	intentKeyCount
)

var intentNames = [intentKeyCount]string{
	"thrust_up", "thrust_down", "yaw_left", "yaw_right",
	"fire", "boost", "special_fire", "switch_weapon",
}

func (k IntentKey) String() string {
	if k < intentKeyCount {
		return intentNames[k]
	}
	return "unknown"
}

// ParseIntentKey maps a wire name to a key
func ParseIntentKey(name string) (IntentKey, bool) {
	for i, n := range intentNames {
		if n == name {
			return IntentKey(i), true
		}
	}
	return 0, false
}

// OneShot reports whether k is edge-triggered rather than held
func (k IntentKey) OneShot() bool {
	return k == SpecialFire || k == SwitchWeapon
}

// Intent holds held levels and latched one-shot presses for a human ship
type Intent struct {
	held    uint16
	latched uint16
}

// Press marks k down. One-shot keys latch only on the up→down edge.
func (in *Intent) Press(k IntentKey) {
	bit := uint16(1) << k
	if k.OneShot() && in.held&bit == 0 {
		in.latched |= bit
	}
	in.held |= bit
}

// Release marks k up
func (in *Intent) Release(k IntentKey) {
	in.held &^= uint16(1) << k
}

// Held reports whether k is currently down
func (in *Intent) Held(k IntentKey) bool {
	return in.held&(uint16(1)<<k) != 0
}

// Consume returns true once per latched press of k
func (in *Intent) Consume(k IntentKey) bool {
	bit := uint16(1) << k
	if in.latched&bit == 0 {
		return false
	}
	in.latched &^= bit
	return true
}

// Clear releases every key and drops pending latches
func (in *Intent) Clear() {
	in.held = 0
	in.latched = 0
}
