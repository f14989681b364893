// Package level interprets decoded Wolfenstein 3D tile planes.
package level

// Structure plane code ranges.
const (
	WallCodeMin  = 1
	WallCodeMax  = 49
	FloorCodeMin = 108
	FloorCodeMax = 143
)

// PushwallCode marks a movable wall on the object plane.
const PushwallCode = 98

// Floor markers sit on the structure plane in place of a floor code
// (ambush tiles and the secret elevator trigger).
var floorMarkers = [...]uint16{106, 107}

// Door codes and their textures, indexed by door sub-type
// (normal, gold key, silver key, elevator).
var (
	DoorEWCodes = [...]uint16{90, 92, 94, 100}
	DoorNSCodes = [...]uint16{91, 93, 95, 101}
	DoorEWPics  = [...]int{99, 105, 105, 103}
	DoorEWSides = [...]int{100, 100, 100, 100}
	DoorNSPics  = [...]int{98, 104, 104, 102}
	DoorNSSides = [...]int{101, 101, 101, 101}
)

// Facing selects one of the two texture slots each wall code has.
// North/south facing quads use the lighter (even) slot.
type Facing int

const (
	FacingNS Facing = 0
	FacingEW Facing = 1
)

// Axis is the orientation of a door leaf.
type Axis int

const (
	AxisNone Axis = iota
	AxisEW        // Leaf runs north-south; passage is east-west
	AxisNS        // Leaf runs east-west; passage is north-south
)

// String returns the axis name.
func (a Axis) String() string {
	switch a {
	case AxisEW:
		return "east-west"
	case AxisNS:
		return "north-south"
	default:
		return "none"
	}
}

// IsWall reports whether code is a generic solid wall.
func IsWall(code uint16) bool {
	return code >= WallCodeMin && code <= WallCodeMax
}

// IsFloor reports whether code is a floor (room area) code.
func IsFloor(code uint16) bool {
	return code >= FloorCodeMin && code <= FloorCodeMax
}

// IsFloorMarker reports whether code is an ambush or elevator marker.
func IsFloorMarker(code uint16) bool {
	for _, m := range floorMarkers {
		if code == m {
			return true
		}
	}
	return false
}

// IsPushwall reports whether an object plane code marks a pushwall.
func IsPushwall(objectCode uint16) bool {
	return objectCode == PushwallCode
}

// Door returns the axis and sub-type index of a door code.
// The axis is AxisNone for codes that are not doors.
func Door(code uint16) (Axis, int) {
	for i, c := range DoorEWCodes {
		if code == c {
			return AxisEW, i
		}
	}
	for i, c := range DoorNSCodes {
		if code == c {
			return AxisNS, i
		}
	}
	return AxisNone, -1
}

// DoorTextures returns the leaf and side texture ids for a door.
func DoorTextures(axis Axis, index int) (leaf, side int) {
	if axis == AxisNS {
		return DoorNSPics[index], DoorNSSides[index]
	}
	return DoorEWPics[index], DoorEWSides[index]
}

// WallTexture returns the texture page for a wall code seen from facing.
func WallTexture(code uint16, facing Facing) int {
	return (int(code)-1)*2 + int(facing)
}
