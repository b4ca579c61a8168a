package records

import (
	"strings"
	"time"
)

// MoltEntry es un registro de muda o alimentación.
type MoltEntry struct {
	ID          string
	OwnerUserID string

	// Specimen es el nombre libre histórico; se conserva aunque exista SpecimenRef.
	Specimen    string
	Species     string
	SpecimenRef SpecimenRef

	Date      time.Time
	EntryType EntryType
	Stage     Stage

	OldSize     *float64
	NewSize     *float64
	Humidity    *float64
	Temperature *float64

	FeedingPrey    string
	FeedingOutcome FeedingOutcome
	FeedingAmount  string

	ReminderDate *time.Time
	Notes        string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// HealthEntry es un control de salud.
type HealthEntry struct {
	ID          string
	OwnerUserID string

	Specimen    string
	Species     string
	SpecimenRef SpecimenRef

	Date       time.Time
	Weight     *float64
	WeightUnit string
	Condition  Condition

	Behavior     string
	HealthIssues string
	Treatment    string
	FollowUpDate *time.Time
	Notes        string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// BreedingEntry tiene dos slots de ejemplar (hembra y macho) que se resuelven por separado.
// Species aplica a ambos.
type BreedingEntry struct {
	ID          string
	OwnerUserID string

	FemaleSpecimen string
	MaleSpecimen   string
	Species        string
	FemaleRef      SpecimenRef
	MaleRef        SpecimenRef

	PairingDate  time.Time
	Status       BreedingStatus
	EggSacStatus EggSacStatus
	EggSacDate   *time.Time
	EggSacCount  *int
	HatchDate    *time.Time
	SlingCount   *int
	FollowUpDate *time.Time
	Notes        string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// NeedsLink indica si el registro tiene nombre pero no referencia.
func (e MoltEntry) NeedsLink() bool {
	return strings.TrimSpace(e.Specimen) != "" && !e.SpecimenRef.IsLinked()
}

func (e HealthEntry) NeedsLink() bool {
	return strings.TrimSpace(e.Specimen) != "" && !e.SpecimenRef.IsLinked()
}

func (e BreedingEntry) FemaleNeedsLink() bool {
	return strings.TrimSpace(e.FemaleSpecimen) != "" && !e.FemaleRef.IsLinked()
}

func (e BreedingEntry) MaleNeedsLink() bool {
	return strings.TrimSpace(e.MaleSpecimen) != "" && !e.MaleRef.IsLinked()
}

func (e BreedingEntry) NeedsLink() bool {
	return e.FemaleNeedsLink() || e.MaleNeedsLink()
}

// CloneFor copia el registro para otro owner: id nuevo, timestamps nuevos,
// sin referencia a ejemplar y sin punteros compartidos con el original.
func (e MoltEntry) CloneFor(ownerUserID, id string, now time.Time) MoltEntry {
	c := e
	c.ID = id
	c.OwnerUserID = ownerUserID
	c.SpecimenRef = Unlinked()
	c.OldSize = cloneFloat(e.OldSize)
	c.NewSize = cloneFloat(e.NewSize)
	c.Humidity = cloneFloat(e.Humidity)
	c.Temperature = cloneFloat(e.Temperature)
	c.ReminderDate = cloneTime(e.ReminderDate)
	c.CreatedAt = now
	c.UpdatedAt = now
	return c
}

func (e HealthEntry) CloneFor(ownerUserID, id string, now time.Time) HealthEntry {
	c := e
	c.ID = id
	c.OwnerUserID = ownerUserID
	c.SpecimenRef = Unlinked()
	c.Weight = cloneFloat(e.Weight)
	c.FollowUpDate = cloneTime(e.FollowUpDate)
	c.CreatedAt = now
	c.UpdatedAt = now
	return c
}

func (e BreedingEntry) CloneFor(ownerUserID, id string, now time.Time) BreedingEntry {
	c := e
	c.ID = id
	c.OwnerUserID = ownerUserID
	c.FemaleRef = Unlinked()
	c.MaleRef = Unlinked()
	c.EggSacDate = cloneTime(e.EggSacDate)
	c.EggSacCount = cloneInt(e.EggSacCount)
	c.HatchDate = cloneTime(e.HatchDate)
	c.SlingCount = cloneInt(e.SlingCount)
	c.FollowUpDate = cloneTime(e.FollowUpDate)
	c.CreatedAt = now
	c.UpdatedAt = now
	return c
}

func cloneFloat(p *float64) *float64 {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func cloneInt(p *int) *int {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func cloneTime(p *time.Time) *time.Time {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
