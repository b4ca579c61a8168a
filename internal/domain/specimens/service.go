package specimens

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"tarantula-log/internal/domain/covers"
	"tarantula-log/internal/domain/identity"
	"tarantula-log/internal/domain/records"
	"tarantula-log/internal/platform/logger"
	"tarantula-log/internal/platform/metrics"
	"tarantula-log/internal/ports/tx"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

var (
	ErrInvalidInput = errors.New("invalid input")
)

const (
	maxNameLen     = 160
	maxSpeciesLen  = 160
	maxNotesLen    = 2000
	maxReasonLen   = 200
	maxImageURLLen = 2048
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

// Stores agrupa los repos que toca el ciclo de vida de un ejemplar.
type Stores struct {
	Specimens Repository
	Covers    covers.Repository
	Molts     records.MoltRepository
	Health    records.HealthRepository
	Breeding  records.BreedingRepository
	Tx        tx.Runner
}

type Service struct {
	st      Stores
	log     logger.Logger
	metrics *metrics.Metrics
	now     func() time.Time
}

// NewService: log y m pueden ser nil.
func NewService(st Stores, log logger.Logger, m *metrics.Metrics) *Service {
	if log == nil {
		log = logger.NewNop()
	}
	return &Service{
		st:      st,
		log:     log.With(map[string]any{"component": "specimens"}),
		metrics: m,
		now:     time.Now,
	}
}

type CreateInput struct {
	Name     string
	Species  string
	Sex      string
	ImageURL string
	Notes    string
}

func (s *Service) Create(ctx context.Context, ownerUserID string, in CreateInput) (Specimen, error) {
	if strings.TrimSpace(ownerUserID) == "" {
		return Specimen{}, ErrInvalidInput
	}

	sp := Specimen{
		OwnerUserID: ownerUserID,
		Name:        strings.TrimSpace(in.Name),
		Species:     strings.TrimSpace(in.Species),
		Sex:         Sex(strings.TrimSpace(in.Sex)),
		ImageURL:    strings.TrimSpace(in.ImageURL),
		Notes:       strings.TrimSpace(in.Notes),
	}
	if err := validate(sp); err != nil {
		return Specimen{}, err
	}

	now := s.now()
	sp.ID = uuid.NewString()
	sp.CreatedAt = now
	sp.UpdatedAt = now

	if err := s.st.Specimens.Create(ctx, sp); err != nil {
		return Specimen{}, err
	}
	return sp, nil
}

func (s *Service) Get(ctx context.Context, ownerUserID, id string) (Specimen, error) {
	return s.st.Specimens.GetByID(ctx, ownerUserID, id)
}

// List devuelve los ejemplares del owner. Sin imagen propia, usa la portada heredada del nombre.
func (s *Service) List(ctx context.Context, ownerUserID string, includeArchived bool) ([]Specimen, error) {
	items, err := s.st.Specimens.ListByOwner(ctx, ownerUserID, includeArchived)
	if err != nil {
		return nil, err
	}

	cs, err := s.st.Covers.ListByOwner(ctx, ownerUserID)
	if err != nil {
		return nil, err
	}
	byKey := covers.ByKey(cs)

	for i := range items {
		if items[i].ImageURL == "" {
			items[i].ImageURL = byKey[items[i].Name]
		}
	}
	return items, nil
}

// OptionalString distingue "no enviado" de "null".
// Present=false: no tocar. Present=true y Value=nil: limpiar.
type OptionalString struct {
	Present bool
	Value   *string
}

type UpdateInput struct {
	// Name no admite null.
	Name           *string
	Species        OptionalString
	Sex            OptionalString
	ImageURL       OptionalString
	Notes          OptionalString
	Archived       *bool
	ArchivedReason OptionalString
}

func (s *Service) Update(ctx context.Context, ownerUserID, id string, in UpdateInput) (Specimen, error) {
	current, err := s.st.Specimens.GetByID(ctx, ownerUserID, id)
	if err != nil {
		return Specimen{}, err
	}

	next := current
	if in.Name != nil {
		next.Name = strings.TrimSpace(*in.Name)
	}
	if in.Species.Present {
		next.Species = trimmed(in.Species.Value)
	}
	if in.Sex.Present {
		next.Sex = Sex(trimmed(in.Sex.Value))
	}
	if in.ImageURL.Present {
		next.ImageURL = trimmed(in.ImageURL.Value)
	}
	if in.Notes.Present {
		next.Notes = trimmed(in.Notes.Value)
	}

	now := s.now()
	if in.Archived != nil {
		if *in.Archived {
			if !current.Archived {
				next.ArchivedAt = &now
			}
			next.Archived = true
		} else {
			// Desarchivar limpia los tres campos.
			next.Archived = false
			next.ArchivedAt = nil
			next.ArchivedReason = ""
		}
	}
	if in.ArchivedReason.Present && next.Archived {
		next.ArchivedReason = trimmed(in.ArchivedReason.Value)
	}

	if err := validate(next); err != nil {
		return Specimen{}, err
	}

	next.UpdatedAt = now
	if err := s.st.Specimens.Update(ctx, next); err != nil {
		return Specimen{}, err
	}
	return next, nil
}

// DetachResult cuenta los registros que quedaron sin referencia.
type DetachResult struct {
	Molt     int64
	Health   int64
	Breeding int64
}

// Delete desvincula los registros de los tres stores y recién después borra el ejemplar.
// Los registros conservan su nombre libre.
func (s *Service) Delete(ctx context.Context, ownerUserID, id string) (DetachResult, error) {
	if _, err := s.st.Specimens.GetByID(ctx, ownerUserID, id); err != nil {
		return DetachResult{}, err
	}

	var res DetachResult
	err := s.st.Tx.RunInTx(ctx, func(ctx context.Context) error {
		var err error
		if res.Molt, err = s.st.Molts.DetachSpecimen(ctx, ownerUserID, id); err != nil {
			return fmt.Errorf("detach molt entries: %w", err)
		}
		if res.Health, err = s.st.Health.DetachSpecimen(ctx, ownerUserID, id); err != nil {
			return fmt.Errorf("detach health entries: %w", err)
		}
		if res.Breeding, err = s.st.Breeding.DetachSpecimen(ctx, ownerUserID, id); err != nil {
			return fmt.Errorf("detach breeding entries: %w", err)
		}
		return s.st.Specimens.Delete(ctx, ownerUserID, id)
	})
	if err != nil {
		return DetachResult{}, err
	}

	s.log.Info("specimen deleted", map[string]any{
		"owner_user_id":     ownerUserID,
		"specimen_id":       id,
		"detached_molt":     res.Molt,
		"detached_health":   res.Health,
		"detached_breeding": res.Breeding,
	})
	return res, nil
}

type CopyInput struct {
	SourceOwnerID     string
	Specimen          string
	RequestingOwnerID string
}

type CopyResult struct {
	Molt     int
	Health   int
	Breeding int
	Cover    bool
}

// Copy duplica el historial de un ejemplar de otro owner bajo el owner que lo pide.
// Los clones son independientes: ids nuevos y sin referencia a ejemplares del origen;
// quedan enlazados a ejemplares del owner que pide la copia.
func (s *Service) Copy(ctx context.Context, in CopyInput) (CopyResult, error) {
	name := strings.TrimSpace(in.Specimen)
	source := strings.TrimSpace(in.SourceOwnerID)
	if name == "" {
		return CopyResult{}, &ValidationError{Field: "specimen", Reason: "required"}
	}
	if source == "" {
		return CopyResult{}, &ValidationError{Field: "owner_id", Reason: "required"}
	}
	if strings.TrimSpace(in.RequestingOwnerID) == "" {
		return CopyResult{}, ErrInvalidInput
	}
	if source == in.RequestingOwnerID {
		return CopyResult{}, &ValidationError{Field: "owner_id", Reason: "must be another owner"}
	}

	src, err := s.readByName(ctx, source, name)
	if err != nil {
		return CopyResult{}, err
	}

	now := s.now()
	molts := make([]records.MoltEntry, 0, len(src.Molts))
	for _, e := range src.Molts {
		molts = append(molts, e.CloneFor(in.RequestingOwnerID, uuid.NewString(), now))
	}
	health := make([]records.HealthEntry, 0, len(src.Health))
	for _, e := range src.Health {
		health = append(health, e.CloneFor(in.RequestingOwnerID, uuid.NewString(), now))
	}
	breeding := make([]records.BreedingEntry, 0, len(src.Breeding))
	for _, e := range src.Breeding {
		breeding = append(breeding, e.CloneFor(in.RequestingOwnerID, uuid.NewString(), now))
	}

	err = s.st.Tx.RunInTx(ctx, func(ctx context.Context) error {
		// La portada va primero para que los ejemplares nuevos la hereden.
		if src.Cover != nil {
			err := s.st.Covers.Upsert(ctx, covers.Cover{
				OwnerUserID: in.RequestingOwnerID,
				Key:         name,
				ImageURL:    src.Cover.ImageURL,
				CreatedAt:   now,
				UpdatedAt:   now,
			})
			if err != nil {
				return fmt.Errorf("upsert cover: %w", err)
			}
		}
		if err := s.linkClones(ctx, in.RequestingOwnerID, molts, health, breeding); err != nil {
			return fmt.Errorf("link copied records: %w", err)
		}
		if len(molts) > 0 {
			if err := s.st.Molts.InsertMany(ctx, molts); err != nil {
				return fmt.Errorf("insert molt entries: %w", err)
			}
		}
		if len(health) > 0 {
			if err := s.st.Health.InsertMany(ctx, health); err != nil {
				return fmt.Errorf("insert health entries: %w", err)
			}
		}
		if len(breeding) > 0 {
			if err := s.st.Breeding.InsertMany(ctx, breeding); err != nil {
				return fmt.Errorf("insert breeding entries: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return CopyResult{}, err
	}

	res := CopyResult{
		Molt:     len(molts),
		Health:   len(health),
		Breeding: len(breeding),
		Cover:    src.Cover != nil,
	}
	s.metrics.SpecimenCopied(string(records.StoreMolt), res.Molt)
	s.metrics.SpecimenCopied(string(records.StoreHealth), res.Health)
	s.metrics.SpecimenCopied(string(records.StoreBreeding), res.Breeding)

	s.log.Info("specimen copied", map[string]any{
		"source_owner_id":     source,
		"requesting_owner_id": in.RequestingOwnerID,
		"specimen":            name,
		"molt":                res.Molt,
		"health":              res.Health,
		"breeding":            res.Breeding,
		"cover":               res.Cover,
	})
	return res, nil
}

// linkClones enlaza cada clon con el ejemplar del owner que recibe la copia,
// creándolo en el primer uso. Los registros sin nombre quedan unlinked.
func (s *Service) linkClones(
	ctx context.Context,
	ownerUserID string,
	molts []records.MoltEntry,
	health []records.HealthEntry,
	breeding []records.BreedingEntry,
) error {
	ids := map[string]string{}
	ensure := func(name, species string) (records.SpecimenRef, error) {
		key, ok := identity.New(ownerUserID, name, species)
		if !ok {
			return records.Unlinked(), nil
		}
		if id, ok := ids[key.String()]; ok {
			return records.Linked(id), nil
		}
		id, err := s.EnsureID(ctx, ownerUserID, key.Name, key.Species)
		if err != nil {
			return records.SpecimenRef{}, err
		}
		ids[key.String()] = id
		return records.Linked(id), nil
	}

	for i := range molts {
		ref, err := ensure(molts[i].Specimen, molts[i].Species)
		if err != nil {
			return err
		}
		molts[i].SpecimenRef = ref
	}
	for i := range health {
		ref, err := ensure(health[i].Specimen, health[i].Species)
		if err != nil {
			return err
		}
		health[i].SpecimenRef = ref
	}
	for i := range breeding {
		female, err := ensure(breeding[i].FemaleSpecimen, breeding[i].Species)
		if err != nil {
			return err
		}
		male, err := ensure(breeding[i].MaleSpecimen, breeding[i].Species)
		if err != nil {
			return err
		}
		breeding[i].FemaleRef = female
		breeding[i].MaleRef = male
	}
	return nil
}

// SharedView es la vista pública de solo lectura de un ejemplar por nombre.
type SharedView struct {
	Molts    []records.MoltEntry
	Health   []records.HealthEntry
	Breeding []records.BreedingEntry
	Cover    *covers.Cover
}

func (s *Service) Shared(ctx context.Context, ownerUserID, name string) (SharedView, error) {
	name = strings.TrimSpace(name)
	if strings.TrimSpace(ownerUserID) == "" || name == "" {
		return SharedView{}, &ValidationError{Field: "specimen", Reason: "missing specimen or owner"}
	}

	v, err := s.readByName(ctx, ownerUserID, name)
	if err != nil {
		return SharedView{}, err
	}

	sort.SliceStable(v.Molts, func(i, j int) bool { return v.Molts[i].Date.After(v.Molts[j].Date) })
	sort.SliceStable(v.Health, func(i, j int) bool { return v.Health[i].Date.After(v.Health[j].Date) })
	sort.SliceStable(v.Breeding, func(i, j int) bool { return v.Breeding[i].PairingDate.After(v.Breeding[j].PairingDate) })
	return v, nil
}

// readByName lee en paralelo los tres stores y la portada de (owner, nombre).
func (s *Service) readByName(ctx context.Context, ownerUserID, name string) (SharedView, error) {
	var v SharedView
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		items, err := s.st.Molts.FindByName(gctx, ownerUserID, name)
		if err != nil {
			return fmt.Errorf("find molt entries: %w", err)
		}
		v.Molts = items
		return nil
	})
	g.Go(func() error {
		items, err := s.st.Health.FindByName(gctx, ownerUserID, name)
		if err != nil {
			return fmt.Errorf("find health entries: %w", err)
		}
		v.Health = items
		return nil
	})
	g.Go(func() error {
		items, err := s.st.Breeding.FindByName(gctx, ownerUserID, name)
		if err != nil {
			return fmt.Errorf("find breeding entries: %w", err)
		}
		v.Breeding = items
		return nil
	})
	g.Go(func() error {
		c, err := s.st.Covers.FindByKeyFold(gctx, ownerUserID, name)
		if err != nil {
			if errors.Is(err, covers.ErrNotFound) {
				return nil
			}
			return fmt.Errorf("find cover: %w", err)
		}
		v.Cover = &c
		return nil
	})

	if err := g.Wait(); err != nil {
		return SharedView{}, err
	}
	return v, nil
}

func validate(sp Specimen) error {
	if n := utf8.RuneCountInString(sp.Name); n < 1 || n > maxNameLen {
		return &ValidationError{Field: "name", Reason: "must be between 1 and 160 characters"}
	}
	if utf8.RuneCountInString(sp.Species) > maxSpeciesLen {
		return &ValidationError{Field: "species", Reason: "must be at most 160 characters"}
	}
	if sp.Sex != "" && !sp.Sex.Valid() {
		return &ValidationError{Field: "sex", Reason: "must be one of Male, Female, Unknown, Unsexed"}
	}
	if utf8.RuneCountInString(sp.Notes) > maxNotesLen {
		return &ValidationError{Field: "notes", Reason: "must be at most 2000 characters"}
	}
	if utf8.RuneCountInString(sp.ArchivedReason) > maxReasonLen {
		return &ValidationError{Field: "archived_reason", Reason: "must be at most 200 characters"}
	}
	if len(sp.ImageURL) > maxImageURLLen {
		return &ValidationError{Field: "image_url", Reason: "too long"}
	}
	return nil
}

func trimmed(p *string) string {
	if p == nil {
		return ""
	}
	return strings.TrimSpace(*p)
}
