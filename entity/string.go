package entity

// NoStringOffset marks a string-reference field as absent (e.g. a
// Property with no JavaScriptName, or a Value with no Description). The
// binary format reserves the all-ones offset for this, mirroring
// RootNodeOffset's use of the same sentinel for "no parent".
const NoStringOffset = 0xFFFFFFFF

// stringAt resolves a string-region offset to its decoded value, treating
// NoStringOffset as the empty string.
func (ds *Dataset) stringAt(offset uint32) (string, error) {
	if offset == NoStringOffset {
		return "", nil
	}

	rec, err := ds.Strings.GetByOffset(int64(offset))
	if err != nil {
		return "", err
	}

	return rec.Value, nil
}
