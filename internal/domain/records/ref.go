package records

// SpecimenRef es la referencia de un registro a un ejemplar: linked(id) o unlinked.
// El valor cero es unlinked.
type SpecimenRef struct {
	id string
}

func Linked(id string) SpecimenRef {
	return SpecimenRef{id: id}
}

func Unlinked() SpecimenRef {
	return SpecimenRef{}
}

// RefFromPtr adapta columnas/JSON nullable.
func RefFromPtr(p *string) SpecimenRef {
	if p == nil {
		return Unlinked()
	}
	return Linked(*p)
}

func (r SpecimenRef) ID() (string, bool) {
	return r.id, r.id != ""
}

func (r SpecimenRef) IsLinked() bool {
	return r.id != ""
}

// PointsTo indica si la referencia apunta exactamente a specimenID.
func (r SpecimenRef) PointsTo(specimenID string) bool {
	return r.id != "" && r.id == specimenID
}

func (r SpecimenRef) Ptr() *string {
	if r.id == "" {
		return nil
	}
	id := r.id
	return &id
}
