package model

// UploadState is the upload state machine position.
type UploadState int

const (
	UploadEmpty UploadState = iota
	UploadPreviewing
)

func (s UploadState) String() string {
	switch s {
	case UploadEmpty:
		return "empty"
	case UploadPreviewing:
		return "previewing"
	default:
		return "unknown"
	}
}

// UploadModel owns the single current image. The zero value is Empty and
// usable. Mutated on the UI thread only.
type UploadModel struct {
	slot *ImageSlot
}

func NewUploadModel() *UploadModel { return &UploadModel{} }

// State reports Empty or Previewing.
func (m *UploadModel) State() UploadState {
	if m == nil || m.slot == nil {
		return UploadEmpty
	}
	return UploadPreviewing
}

// Slot returns the current image slot, nil when Empty.
func (m *UploadModel) Slot() *ImageSlot {
	if m == nil {
		return nil
	}
	return m.slot
}

// Replace installs slot as the current image, discarding any prior one.
func (m *UploadModel) Replace(slot *ImageSlot) {
	if m == nil || slot == nil {
		return
	}
	m.slot = slot
}

// Clear drops the current image.
func (m *UploadModel) Clear() {
	if m == nil {
		return
	}
	m.slot = nil
}
