package postgres

import "tarantula-log/internal/domain/specimens"

// NewStores arma los repos sobre el mismo pool; todos se suman a la tx del contexto.
func NewStores(db DB) specimens.Stores {
	return specimens.Stores{
		Specimens: NewSpecimensRepo(db),
		Covers:    NewCoversRepo(db),
		Molts:     NewMoltRepo(db),
		Health:    NewHealthRepo(db),
		Breeding:  NewBreedingRepo(db),
		Tx:        NewTxManager(db),
	}
}
