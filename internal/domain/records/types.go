package records

type EntryType string

const (
	EntryTypeMolt    EntryType = "molt"
	EntryTypeFeeding EntryType = "feeding"
)

type Stage string

const (
	StagePreMolt  Stage = "Pre-molt"
	StageMolt     Stage = "Molt"
	StagePostMolt Stage = "Post-molt"
)

type FeedingOutcome string

const (
	FeedingOffered     FeedingOutcome = "Offered"
	FeedingAte         FeedingOutcome = "Ate"
	FeedingRefused     FeedingOutcome = "Refused"
	FeedingNotObserved FeedingOutcome = "Not Observed"
)

type Condition string

const (
	ConditionStable      Condition = "Stable"
	ConditionObservation Condition = "Observation"
	ConditionCritical    Condition = "Critical"
)

type BreedingStatus string

const (
	BreedingPlanned     BreedingStatus = "Planned"
	BreedingAttempted   BreedingStatus = "Attempted"
	BreedingSuccessful  BreedingStatus = "Successful"
	BreedingFailed      BreedingStatus = "Failed"
	BreedingObservation BreedingStatus = "Observation"
)

type EggSacStatus string

const (
	EggSacNotLaid EggSacStatus = "Not Laid"
	EggSacLaid    EggSacStatus = "Laid"
	EggSacPulled  EggSacStatus = "Pulled"
	EggSacFailed  EggSacStatus = "Failed"
	EggSacHatched EggSacStatus = "Hatched"
)

// Store nombra cada colección de registros (logs y métricas).
type Store string

const (
	StoreMolt     Store = "molt"
	StoreHealth   Store = "health"
	StoreBreeding Store = "breeding"
)

func (t EntryType) Valid() bool {
	return t == EntryTypeMolt || t == EntryTypeFeeding
}

func (s Stage) Valid() bool {
	switch s {
	case StagePreMolt, StageMolt, StagePostMolt:
		return true
	}
	return false
}

func (o FeedingOutcome) Valid() bool {
	switch o {
	case FeedingOffered, FeedingAte, FeedingRefused, FeedingNotObserved:
		return true
	}
	return false
}

func (c Condition) Valid() bool {
	switch c {
	case ConditionStable, ConditionObservation, ConditionCritical:
		return true
	}
	return false
}

func (s BreedingStatus) Valid() bool {
	switch s {
	case BreedingPlanned, BreedingAttempted, BreedingSuccessful, BreedingFailed, BreedingObservation:
		return true
	}
	return false
}

func (s EggSacStatus) Valid() bool {
	switch s {
	case EggSacNotLaid, EggSacLaid, EggSacPulled, EggSacFailed, EggSacHatched:
		return true
	}
	return false
}
