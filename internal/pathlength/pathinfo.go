package pathlength

// PathInfo is a path together with its length.
type PathInfo struct {
	Path   string `json:"path"`
	Length int    `json:"length"`
}

// NewPathInfo measures path in the given unit.
func NewPathInfo(path string, unit LengthUnit) PathInfo {
	return PathInfo{Path: path, Length: unit.Length(path)}
}

// Equal reports whether two results name the same path.
func (p PathInfo) Equal(other PathInfo) bool {
	return p.Path == other.Path
}
