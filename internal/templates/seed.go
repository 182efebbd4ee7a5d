package templates

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/2beens/liftlog/internal/workout"
	log "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

var ErrInvalidSeed = errors.New("invalid seed")

// Seed is the catalog file loaded by the seed command and the local mode.
type Seed struct {
	Exercises []workout.ExerciseInfo `yaml:"exercises"`
	Templates []workout.Template     `yaml:"templates"`
}

// Writer is implemented by the postgres and sqlite stores.
type Writer interface {
	UpsertExercise(ctx context.Context, e workout.ExerciseInfo) error
	UpsertTemplate(ctx context.Context, tmpl workout.Template) error
}

func LoadSeed(path string) (*Seed, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}
	return ParseSeed(data)
}

func ParseSeed(data []byte) (*Seed, error) {
	seed := &Seed{}
	if err := yaml.Unmarshal(data, seed); err != nil {
		return nil, fmt.Errorf("unmarshal seed: %w", err)
	}
	if err := seed.Validate(); err != nil {
		return nil, err
	}
	return seed, nil
}

// Validate checks that every planned exercise exists in the catalog, and
// that order indexes are unique and positive within a template.
func (s *Seed) Validate() error {
	catalog := make(map[string]bool, len(s.Exercises))
	for _, e := range s.Exercises {
		if e.ID == "" || e.Name == "" {
			return fmt.Errorf("%w: exercise needs id and name", ErrInvalidSeed)
		}
		if catalog[e.ID] {
			return fmt.Errorf("%w: duplicate exercise %s", ErrInvalidSeed, e.ID)
		}
		catalog[e.ID] = true
	}

	templateIDs := make(map[string]bool, len(s.Templates))
	for _, t := range s.Templates {
		if t.ID == "" {
			return fmt.Errorf("%w: template needs an id", ErrInvalidSeed)
		}
		if templateIDs[t.ID] {
			return fmt.Errorf("%w: duplicate template %s", ErrInvalidSeed, t.ID)
		}
		templateIDs[t.ID] = true

		if len(t.Exercises) == 0 {
			return fmt.Errorf("%w: template %s has no exercises", ErrInvalidSeed, t.ID)
		}
		orders := make(map[int]bool, len(t.Exercises))
		for _, p := range t.Exercises {
			if !catalog[p.ExerciseID] {
				return fmt.Errorf("%w: template %s: unknown exercise %s", ErrInvalidSeed, t.ID, p.ExerciseID)
			}
			if p.OrderIndex <= 0 || orders[p.OrderIndex] {
				return fmt.Errorf("%w: template %s: bad order index %d", ErrInvalidSeed, t.ID, p.OrderIndex)
			}
			orders[p.OrderIndex] = true
			if p.TargetSets <= 0 {
				return fmt.Errorf("%w: template %s: exercise %s needs target sets", ErrInvalidSeed, t.ID, p.ExerciseID)
			}
		}
	}
	return nil
}

// Apply upserts the catalog first, then the templates.
func (s *Seed) Apply(ctx context.Context, w Writer) error {
	for _, e := range s.Exercises {
		if err := w.UpsertExercise(ctx, e); err != nil {
			return err
		}
	}
	for _, t := range s.Templates {
		if err := w.UpsertTemplate(ctx, t); err != nil {
			return err
		}
		log.Debugf("seeded template [%s] with %d exercises", t.ID, len(t.Exercises))
	}
	return nil
}
