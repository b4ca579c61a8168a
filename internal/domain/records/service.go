package records

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"tarantula-log/internal/domain/identity"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput = errors.New("invalid input")
)

const (
	maxNameLen  = 160
	maxNotesLen = 2000
	maxTextLen  = 500
)

// ValidationError describe el campo inválido; errors.Is(err, ErrInvalidInput) es true.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error { return ErrInvalidInput }

func invalid(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// SpecimenResolver evita el import cíclico con specimens.
type SpecimenResolver interface {
	// Owns indica si el ejemplar existe y pertenece al owner.
	Owns(ctx context.Context, ownerUserID, specimenID string) (bool, error)
	// EnsureID devuelve el id del ejemplar con esa identidad, creándolo en el primer uso.
	EnsureID(ctx context.Context, ownerUserID, name, species string) (string, error)
}

type Service struct {
	molts     MoltRepository
	health    HealthRepository
	breeding  BreedingRepository
	specimens SpecimenResolver
	now       func() time.Time
}

func NewService(molts MoltRepository, health HealthRepository, breeding BreedingRepository, specimens SpecimenResolver) *Service {
	return &Service{
		molts:     molts,
		health:    health,
		breeding:  breeding,
		specimens: specimens,
		now:       time.Now,
	}
}

type CreateMoltInput struct {
	SpecimenID string
	Specimen   string
	Species    string

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
}

func (s *Service) CreateMolt(ctx context.Context, ownerUserID string, in CreateMoltInput) (MoltEntry, error) {
	if strings.TrimSpace(ownerUserID) == "" {
		return MoltEntry{}, ErrInvalidInput
	}
	if in.Date.IsZero() {
		return MoltEntry{}, invalid("date", "required")
	}
	if in.EntryType == "" {
		in.EntryType = EntryTypeMolt
	}
	if !in.EntryType.Valid() {
		return MoltEntry{}, invalid("entry_type", "must be molt or feeding")
	}
	if in.Stage != "" && !in.Stage.Valid() {
		return MoltEntry{}, invalid("stage", "must be Pre-molt, Molt or Post-molt")
	}
	if in.FeedingOutcome != "" && !in.FeedingOutcome.Valid() {
		return MoltEntry{}, invalid("feeding_outcome", "must be Offered, Ate, Refused or Not Observed")
	}
	if err := checkNames(in.Specimen, in.Species); err != nil {
		return MoltEntry{}, err
	}
	if utf8.RuneCountInString(in.FeedingPrey) > maxTextLen || utf8.RuneCountInString(in.FeedingAmount) > maxTextLen {
		return MoltEntry{}, invalid("feeding", "too long")
	}
	if utf8.RuneCountInString(in.Notes) > maxNotesLen {
		return MoltEntry{}, invalid("notes", "must be at most 2000 characters")
	}

	ref, err := s.resolve(ctx, ownerUserID, in.SpecimenID, in.Specimen, in.Species)
	if err != nil {
		return MoltEntry{}, err
	}

	now := s.now()
	e := MoltEntry{
		ID:             uuid.NewString(),
		OwnerUserID:    ownerUserID,
		Specimen:       strings.TrimSpace(in.Specimen),
		Species:        strings.TrimSpace(in.Species),
		SpecimenRef:    ref,
		Date:           in.Date,
		EntryType:      in.EntryType,
		Stage:          in.Stage,
		OldSize:        in.OldSize,
		NewSize:        in.NewSize,
		Humidity:       in.Humidity,
		Temperature:    in.Temperature,
		FeedingPrey:    strings.TrimSpace(in.FeedingPrey),
		FeedingOutcome: in.FeedingOutcome,
		FeedingAmount:  strings.TrimSpace(in.FeedingAmount),
		ReminderDate:   in.ReminderDate,
		Notes:          strings.TrimSpace(in.Notes),
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := s.molts.Create(ctx, e); err != nil {
		return MoltEntry{}, err
	}
	return e, nil
}

func (s *Service) GetMolt(ctx context.Context, ownerUserID, id string) (MoltEntry, error) {
	return s.molts.GetByID(ctx, ownerUserID, id)
}

func (s *Service) ListMolts(ctx context.Context, ownerUserID string) ([]MoltEntry, error) {
	return s.molts.ListByOwner(ctx, ownerUserID)
}

type CreateHealthInput struct {
	SpecimenID string
	Specimen   string
	Species    string

	Date       time.Time
	Weight     *float64
	WeightUnit string
	Condition  Condition

	Behavior     string
	HealthIssues string
	Treatment    string
	FollowUpDate *time.Time
	Notes        string
}

func (s *Service) CreateHealth(ctx context.Context, ownerUserID string, in CreateHealthInput) (HealthEntry, error) {
	if strings.TrimSpace(ownerUserID) == "" {
		return HealthEntry{}, ErrInvalidInput
	}
	if in.Date.IsZero() {
		return HealthEntry{}, invalid("date", "required")
	}
	if in.Condition == "" {
		in.Condition = ConditionStable
	}
	if !in.Condition.Valid() {
		return HealthEntry{}, invalid("condition", "must be Stable, Observation or Critical")
	}
	unit := strings.TrimSpace(in.WeightUnit)
	if unit == "" {
		unit = "g"
	}
	if unit != "g" && unit != "oz" {
		return HealthEntry{}, invalid("weight_unit", "must be g or oz")
	}
	if in.Weight != nil && *in.Weight < 0 {
		return HealthEntry{}, invalid("weight", "must not be negative")
	}
	if err := checkNames(in.Specimen, in.Species); err != nil {
		return HealthEntry{}, err
	}
	for field, v := range map[string]string{"behavior": in.Behavior, "health_issues": in.HealthIssues, "treatment": in.Treatment} {
		if utf8.RuneCountInString(v) > maxNotesLen {
			return HealthEntry{}, invalid(field, "must be at most 2000 characters")
		}
	}
	if utf8.RuneCountInString(in.Notes) > maxNotesLen {
		return HealthEntry{}, invalid("notes", "must be at most 2000 characters")
	}

	ref, err := s.resolve(ctx, ownerUserID, in.SpecimenID, in.Specimen, in.Species)
	if err != nil {
		return HealthEntry{}, err
	}

	now := s.now()
	e := HealthEntry{
		ID:           uuid.NewString(),
		OwnerUserID:  ownerUserID,
		Specimen:     strings.TrimSpace(in.Specimen),
		Species:      strings.TrimSpace(in.Species),
		SpecimenRef:  ref,
		Date:         in.Date,
		Weight:       in.Weight,
		WeightUnit:   unit,
		Condition:    in.Condition,
		Behavior:     strings.TrimSpace(in.Behavior),
		HealthIssues: strings.TrimSpace(in.HealthIssues),
		Treatment:    strings.TrimSpace(in.Treatment),
		FollowUpDate: in.FollowUpDate,
		Notes:        strings.TrimSpace(in.Notes),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.health.Create(ctx, e); err != nil {
		return HealthEntry{}, err
	}
	return e, nil
}

func (s *Service) GetHealth(ctx context.Context, ownerUserID, id string) (HealthEntry, error) {
	return s.health.GetByID(ctx, ownerUserID, id)
}

func (s *Service) ListHealth(ctx context.Context, ownerUserID string) ([]HealthEntry, error) {
	return s.health.ListByOwner(ctx, ownerUserID)
}

type CreateBreedingInput struct {
	FemaleSpecimenID string
	FemaleSpecimen   string
	MaleSpecimenID   string
	MaleSpecimen     string
	Species          string

	PairingDate  time.Time
	Status       BreedingStatus
	EggSacStatus EggSacStatus
	EggSacDate   *time.Time
	EggSacCount  *int
	HatchDate    *time.Time
	SlingCount   *int
	FollowUpDate *time.Time
	Notes        string
}

func (s *Service) CreateBreeding(ctx context.Context, ownerUserID string, in CreateBreedingInput) (BreedingEntry, error) {
	if strings.TrimSpace(ownerUserID) == "" {
		return BreedingEntry{}, ErrInvalidInput
	}
	if in.PairingDate.IsZero() {
		return BreedingEntry{}, invalid("pairing_date", "required")
	}
	if in.Status == "" {
		in.Status = BreedingPlanned
	}
	if !in.Status.Valid() {
		return BreedingEntry{}, invalid("status", "must be Planned, Attempted, Successful, Failed or Observation")
	}
	if in.EggSacStatus == "" {
		in.EggSacStatus = EggSacNotLaid
	}
	if !in.EggSacStatus.Valid() {
		return BreedingEntry{}, invalid("egg_sac_status", "unknown value")
	}
	if in.EggSacCount != nil && *in.EggSacCount < 0 {
		return BreedingEntry{}, invalid("egg_sac_count", "must not be negative")
	}
	if in.SlingCount != nil && *in.SlingCount < 0 {
		return BreedingEntry{}, invalid("sling_count", "must not be negative")
	}
	if err := checkNames(in.FemaleSpecimen, in.Species); err != nil {
		return BreedingEntry{}, err
	}
	if err := checkNames(in.MaleSpecimen, ""); err != nil {
		return BreedingEntry{}, err
	}
	if utf8.RuneCountInString(in.Notes) > maxNotesLen {
		return BreedingEntry{}, invalid("notes", "must be at most 2000 characters")
	}

	femaleRef, err := s.resolve(ctx, ownerUserID, in.FemaleSpecimenID, in.FemaleSpecimen, in.Species)
	if err != nil {
		return BreedingEntry{}, err
	}
	maleRef, err := s.resolve(ctx, ownerUserID, in.MaleSpecimenID, in.MaleSpecimen, in.Species)
	if err != nil {
		return BreedingEntry{}, err
	}

	now := s.now()
	e := BreedingEntry{
		ID:             uuid.NewString(),
		OwnerUserID:    ownerUserID,
		FemaleSpecimen: strings.TrimSpace(in.FemaleSpecimen),
		MaleSpecimen:   strings.TrimSpace(in.MaleSpecimen),
		Species:        strings.TrimSpace(in.Species),
		FemaleRef:      femaleRef,
		MaleRef:        maleRef,
		PairingDate:    in.PairingDate,
		Status:         in.Status,
		EggSacStatus:   in.EggSacStatus,
		EggSacDate:     in.EggSacDate,
		EggSacCount:    in.EggSacCount,
		HatchDate:      in.HatchDate,
		SlingCount:     in.SlingCount,
		FollowUpDate:   in.FollowUpDate,
		Notes:          strings.TrimSpace(in.Notes),
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := s.breeding.Create(ctx, e); err != nil {
		return BreedingEntry{}, err
	}
	return e, nil
}

func (s *Service) GetBreeding(ctx context.Context, ownerUserID, id string) (BreedingEntry, error) {
	return s.breeding.GetByID(ctx, ownerUserID, id)
}

func (s *Service) ListBreeding(ctx context.Context, ownerUserID string) ([]BreedingEntry, error) {
	return s.breeding.ListByOwner(ctx, ownerUserID)
}

// resolve decide la referencia de un registro nuevo:
// id explícito (debe ser del owner), si no el nombre (crea el ejemplar en el primer uso),
// si no unlinked.
func (s *Service) resolve(ctx context.Context, ownerUserID, specimenID, name, species string) (SpecimenRef, error) {
	if id := strings.TrimSpace(specimenID); id != "" {
		if _, err := uuid.Parse(id); err != nil {
			return SpecimenRef{}, invalid("specimen_id", "must be a uuid")
		}
		ok, err := s.specimens.Owns(ctx, ownerUserID, id)
		if err != nil {
			return SpecimenRef{}, err
		}
		if !ok {
			return SpecimenRef{}, invalid("specimen_id", "unknown specimen")
		}
		return Linked(id), nil
	}

	if _, ok := identity.New(ownerUserID, name, species); !ok {
		return Unlinked(), nil
	}
	id, err := s.specimens.EnsureID(ctx, ownerUserID, name, species)
	if err != nil {
		return SpecimenRef{}, err
	}
	return Linked(id), nil
}

func checkNames(name, species string) error {
	if utf8.RuneCountInString(strings.TrimSpace(name)) > maxNameLen {
		return invalid("specimen", "must be at most 160 characters")
	}
	if utf8.RuneCountInString(strings.TrimSpace(species)) > maxNameLen {
		return invalid("species", "must be at most 160 characters")
	}
	return nil
}
