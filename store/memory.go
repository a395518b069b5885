package store

// Memory implements Store without touching disk.
// Used in bench mode when no state file is configured.
type Memory struct {
	angle int
}

// NewMemory creates an in-memory store starting at angle 0.
func NewMemory() *Memory {
	return &Memory{}
}

// LoadAngle implements Store.LoadAngle.
func (m *Memory) LoadAngle() (int, error) {
	return m.angle, nil
}

// SaveAngle implements Store.SaveAngle.
func (m *Memory) SaveAngle(angle int) error {
	m.angle = angle
	return nil
}
