package form

// ChangeKind tags the payload carried by a FieldChange.
type ChangeKind int

const (
	ChangeText ChangeKind = iota
	ChangeNumber
	ChangeChecked
	ChangeFile
	ChangeValue
)

// FileHandle describes a file picked by the user. The engine never reads the
// file; it only stores the handle.
type FileHandle struct {
	Name        string
	Size        int64
	ContentType string
}

// FieldChange is the value a UI adapter builds from an input event. Only the
// member matching Kind is meaningful.
type FieldChange struct {
	Kind    ChangeKind
	Text    string
	Number  float64
	Checked bool
	File    *FileHandle
	Raw     any
}

// Text builds a change for text-like inputs.
func Text(value string) FieldChange {
	return FieldChange{Kind: ChangeText, Text: value}
}

// Number builds a change for numeric inputs.
func Number(value float64) FieldChange {
	return FieldChange{Kind: ChangeNumber, Number: value}
}

// Checked builds a change for checkboxes and toggles.
func Checked(value bool) FieldChange {
	return FieldChange{Kind: ChangeChecked, Checked: value}
}

// File builds a change for file pickers. A nil handle clears the field.
func File(handle *FileHandle) FieldChange {
	return FieldChange{Kind: ChangeFile, File: handle}
}

// Raw builds a change carrying an arbitrary value (selects, composite widgets).
func Raw(value any) FieldChange {
	return FieldChange{Kind: ChangeValue, Raw: value}
}

// Value returns the value to store for the change.
func (c FieldChange) Value() any {
	switch c.Kind {
	case ChangeText:
		return c.Text
	case ChangeNumber:
		return c.Number
	case ChangeChecked:
		return c.Checked
	case ChangeFile:
		if c.File == nil {
			return nil
		}
		return c.File
	default:
		return c.Raw
	}
}
