package layout

// Standard field names of a certificate template.
const (
	FieldName   = "name"
	FieldCourse = "course"
	FieldID     = "id"
)

// DefaultBoxes maps a field name to the box used when template metadata lacks it.
//
// Geometry may be relative to the template image: W <= 0 means
// imageWidth - 2*X and a negative Y is measured up from the bottom edge.
type DefaultBoxes map[string]FieldBox

// StandardDefaults returns the built-in table.
func StandardDefaults() DefaultBoxes {
	return DefaultBoxes{
		FieldName:   {X: 100, Y: 300, W: 0, H: 120, Align: "center", Font: "24px sans-serif"},
		FieldCourse: {X: 100, Y: 420, W: 0, H: 100, Align: "center", Font: "48px sans-serif"},
		FieldID:     {X: 50, Y: -80, W: 600, H: 40, Align: "left", Font: "20px monospace"},
	}
}

// Merge returns a copy of d with the entries of override replacing same-named ones.
func (d DefaultBoxes) Merge(override DefaultBoxes) DefaultBoxes {
	out := make(DefaultBoxes, len(d)+len(override))
	for k, v := range d {
		out[k] = v
	}
	for k, v := range override {
		out[k] = v
	}
	return out
}

// Resolve picks the template's own box for field, falling back to the default
// table resolved against the image size. ok is false when neither exists.
func (d DefaultBoxes) Resolve(field string, fields map[string]FieldBox, width, height int) (FieldBox, bool) {
	if box, found := fields[field]; found {
		return box, true
	}
	def, found := d[field]
	if !found {
		return FieldBox{}, false
	}
	return def.Anchored(width, height), true
}

// Anchored turns relative default geometry into absolute pixels.
func (f FieldBox) Anchored(width, height int) FieldBox {
	if f.W <= 0 {
		f.W = float64(width) - 2*f.X
	}
	if f.Y < 0 {
		f.Y = float64(height) + f.Y
	}
	return f
}
