package clusterone

import (
	"fmt"

	"github.com/dd0wney/cluso-complexes/pkg/merge"
	"github.com/dd0wney/cluso-complexes/pkg/quality"
	"github.com/dd0wney/cluso-complexes/pkg/seeds"
	"github.com/dd0wney/cluso-complexes/pkg/similarity"
	"github.com/dd0wney/cluso-complexes/pkg/validation"
)

// Seed error policies
const (
	OnSeedErrorSkip  = "skip"
	OnSeedErrorAbort = "abort"
)

// Params holds every algorithm setting. The yaml names are the configuration
// surface of the command line tool.
type Params struct {
	MinSize          int     `yaml:"min_size" validate:"gte=1"`
	MinDensity       float64 `yaml:"min_density" validate:"gte=0,lte=1"`
	NodePenalty      float64 `yaml:"node_penalty" validate:"gte=0"`
	Haircut          float64 `yaml:"haircut" validate:"gte=0,lte=1"`
	Fluff            bool    `yaml:"fluff"`
	FluffThreshold   float64 `yaml:"fluff_threshold" validate:"gte=0,lte=1"`
	KCore            int     `yaml:"k_core" validate:"gte=0"`
	KeepInitialSeeds bool    `yaml:"keep_initial_seeds"`
	MaxGrowthSteps   int     `yaml:"max_growth_steps" validate:"gte=0"`

	Quality    string     `yaml:"quality" validate:"required"`
	SeedMethod string     `yaml:"seed_method" validate:"required"`
	SeedSets   [][]string `yaml:"seed_sets"` // node names, used by the "file" method

	MergeMethod      string  `yaml:"merge_method" validate:"required"`
	Similarity       string  `yaml:"similarity" validate:"required"`
	OverlapThreshold float64 `yaml:"overlap_threshold" validate:"gt=0,lte=1"`
	MaxMergePasses   int     `yaml:"max_merge_passes" validate:"gte=0"`
	VerifyMerge      bool    `yaml:"verify_merge"`
	RefilterMerged   bool    `yaml:"refilter_merged"`
	MaxPValue        float64 `yaml:"max_pvalue" validate:"gte=0,lte=1"`

	Workers     int    `yaml:"workers" validate:"gte=0,lte=4096"`
	OnSeedError string `yaml:"on_seed_error" validate:"oneof=skip abort"`
}

// DefaultParams returns the standard settings.
func DefaultParams() Params {
	return Params{
		MinSize:          3,
		MinDensity:       0.3,
		NodePenalty:      quality.DefaultOptions().NodePenalty,
		FluffThreshold:   0.5,
		Quality:          "cohesiveness",
		SeedMethod:       "nodes",
		MergeMethod:      "single",
		Similarity:       similarity.Default,
		OverlapThreshold: 0.8,
		MaxMergePasses:   merge.DefaultMaxPasses,
		RefilterMerged:   true,
		MaxPValue:        1,
		OnSeedError:      OnSeedErrorSkip,
	}
}

// Validate checks value ranges and that every strategy name is registered.
func (p *Params) Validate() error {
	err := validation.NewConfigValidator("algorithm").
		Struct(p).
		OneOf("quality", p.Quality, quality.Names()).
		OneOf("seed_method", p.SeedMethod, seeds.Methods()).
		OneOf("merge_method", p.MergeMethod, merge.Methods()).
		OneOf("similarity", p.Similarity, similarity.Names()).
		When(p.SeedMethod == "file", func(cv *validation.ConfigValidator) {
			cv.Custom("seed_sets", func() error {
				if len(p.SeedSets) == 0 {
					return seeds.ErrNoSeeds
				}
				return nil
			})
		}).
		Validate()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidParams, err)
	}
	return nil
}
